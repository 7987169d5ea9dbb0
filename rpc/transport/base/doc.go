// Package base holds the connector-independent part of establishing a
// connection: dialing through an IClientConnector, applying the configured
// socket options and closing the connection again if that fails.
//
// It does not retry, reconnect or pool. Callers that want a working set of
// connections use conn.DialPool, which calls Dial once per connection.
package base
