// Package client implements the high-level RESP client. It ties the layers
// below together: a transport connector chosen by configuration, a dialed
// connection pool and sessions running on pooled connections.
//
// Key Components:
//
//   - New: Factory function that validates a common.ClientConfig, picks the tcp
//     or unix connector and eagerly dials the pool.
//
//   - Client: implements conn.IProvider, so it can back a session or any
//     collection facade directly. Do runs a single command and hands the
//     connection back afterwards (or discards it after a protocol or io
//     error).
//
// Usage Example:
//
//	config := common.DefaultClientConfig("127.0.0.1:6379")
//	c, err := client.New(config)
//	if err != nil {
//		log.Fatalf("Failed to connect: %v", err)
//	}
//	defer c.Close()
//
//	reply, err := c.DoStrings("GET", "key")
//
//	names := collection.NewList[string](c, "names", serializer.NewJSONSerializer())
//	err = names.Push("alice")
//
// Thread Safety:
//
//	A Client is safe for concurrent use. Sessions returned by Session are not.
package client
