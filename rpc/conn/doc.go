// Package conn hands out exclusive access to connections.
//
// A Handle is the only way to use a connection: it is an io.ReadWriter that
// ends its life with Release (give the connection back) or Discard (the
// connection is broken, close it). Providers decide where handles come from:
//
//   - Direct: a single owned connection, Release is a no-op
//   - Shared: a single connection lent to several holders on one goroutine,
//     Acquire fails with ErrAlreadyBorrowed while a handle is out
//   - Dialer: a new connection per Acquire, Release closes it
//   - Pool: a fixed set of connections shared across goroutines
//
// Usage:
//
//	pool, err := conn.DialPool(tcp.NewTCPClientConnector(), config)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	err = pool.Do(func(h conn.Handle) error {
//		_, err := session.New(h).ArgString("PING").Fetch()
//		return err
//	})
//
// The pool keeps its idle connections in a FIFO guarded by a mutex and parks
// callers on a condition variable when none is idle; a release wakes exactly
// one waiter. Pool metrics are kept in a VictoriaMetrics set, see
// Pool.WriteMetrics.
package conn
