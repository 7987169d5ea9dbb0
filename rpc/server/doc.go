// Package server implements an in-process RESP server. It speaks the same
// wire format as the store the client talks to, which makes it the backend of
// the package tests and of the `dresp serve` command.
//
// Key Components:
//
//   - Server: accept loop over a transport.IServerConnector listener (tcp or
//     unix). Each connection gets its own goroutine that reads requests with
//     codec.ReadReply, so clients may pipeline, and answers them in order.
//     A framing error is answered with an error reply and closes the
//     connection.
//
//   - IHandler: executes one command. Remote errors (common.ErrCRemote)
//     returned by a handler are sent verbatim, other errors get an "ERR "
//     prefix.
//
//   - MemStore: in-memory IHandler supporting the commands used by the
//     collection facades: PING ECHO SET GET DEL EXISTS STRLEN RPUSH LLEN LINDEX
//     LRANGE HSET HGET HDEL HEXISTS HLEN HSCAN SETBIT GETBIT BITCOUNT BITPOS.
//     The keyspace is an xsync.MapOf, single key updates run inside Compute.
//
// Usage Example:
//
//	s := server.NewServer(
//	  common.ServerConfig{Endpoint: "/tmp/dresp.sock"},
//	  unix.NewUnixServerConnector(),
//	  server.NewMemStore(),
//	)
//
//	if err := s.Start(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//	defer s.Close()
//
// Thread Safety:
//
//	The server and the memstore are safe for concurrent use. Start or Serve
//	should be called only once.
package server
