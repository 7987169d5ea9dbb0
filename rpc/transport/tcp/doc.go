// Package tcp implements TCP socket connectors for the RESP client and the
// in-process server.
//
// Key Components:
//
//   - clientConnector: dials with the configured timeout and applies
//     TCP_NODELAY, keep-alive, linger and socket buffer sizes.
//
//   - serverConnector: creates a TCP listener for the in-process server.
package tcp
