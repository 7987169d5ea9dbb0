// Package common provides the data structures shared by every layer of the
// RESP client: the reply value model, the error taxonomy, configuration
// structures and logging.
//
// Key Components:
//
//   - Reply: tagged value produced by one request/response exchange. Variants
//     are Integer, Text, Bytes, Sequence and Nothing; payloads are read through
//     typed extractors that fail instead of guessing.
//
//   - Error: an ErrCode plus message and cause. The code tells the caller what
//     the failure means for the connection:
//
//     ErrCProtocol  framing is broken, discard the connection
//     ErrCRemote    the store answered with an error, connection is fine
//     ErrCIO        the transport failed, discard the connection
//     ErrCOther     the call was misused, connection is fine
//
//   - ClientConfig / ServerConfig: configuration for the client side (transport
//     options and pool size) and for the in-process server.
//
//   - Logger: custom logging implementation that plugs into Dragonboat's
//     logger registry so every package logs through a named logger with a
//     consistent format.
package common
