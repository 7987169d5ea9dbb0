// Package rpc provides the client side of the RESP protocol and a small
// server to test it against. It is the communication layer between an
// application and a RESP speaking key-value store.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures used across the packages, including the
//     Reply value, the error taxonomy, configuration structures and logging.
//
//   - codec: The stateless wire format, encoding commands and decoding replies.
//
//   - transport: Network connection setup with pluggable implementations
//     (TCP, Unix sockets).
//
//   - conn: Connection handles and the providers handing them out (a single
//     direct connection, a shared one, a dialer and a pool).
//
//   - session: The request/reply state machine on top of one handle.
//
//   - serializer: Value serialization (JSON, Sonic, GOB, Binary) used by the
//     collection facades.
//
//   - client: A pooled client for one endpoint.
//
//   - server: An in-memory RESP server used for tests and local development.
package rpc
