// Package unix implements Unix domain socket connectors for the RESP client
// and the in-process server. Local stores are commonly reached this way, it
// avoids the TCP/IP stack entirely.
//
// Key Components:
//
//   - clientConnector: dials the socket path and applies socket buffer sizes
//
//   - serverConnector: removes a stale socket file and listens on the path
package unix
