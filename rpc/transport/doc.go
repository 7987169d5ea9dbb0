// Package transport defines how connections to the store are established.
// The core never dials by itself: it receives connections from a connector,
// which keeps the session and pool layers independent of the socket type.
//
// Key Components:
//
//   - IClientConnector: dials one connection to an endpoint and applies
//     socket options to it. Implemented by the tcp and unix subpackages.
//
//   - IServerConnector: creates a listener, used by the in-process server.
//
//   - base.Dial: connect plus upgrade with logging, shared by all connectors.
package transport
