package client

import (
	"fmt"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/conn"
	"github.com/ValentinKolb/dRESP/rpc/session"
	"github.com/ValentinKolb/dRESP/rpc/transport"
	"github.com/ValentinKolb/dRESP/rpc/transport/tcp"
	"github.com/ValentinKolb/dRESP/rpc/transport/unix"
	"github.com/lni/dragonboat/v4/logger"
	"io"
)

var (
	Logger = logger.GetLogger("rpc")
)

// Client is a pooled connection to one store endpoint. It is a
// conn.IProvider, so sessions and collection facades can be built on it
// directly. A Client is safe for concurrent use.
type Client struct {
	config    common.ClientConfig
	connector transport.IClientConnector
	pool      *conn.Pool
}

// New validates config, creates the connector named by
// config.Transport.Type and dials the connection pool
func New(config common.ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	connector, err := ConnectorFor(config.Transport.Type)
	if err != nil {
		return nil, err
	}

	pool, err := conn.DialPool(connector, config)
	if err != nil {
		return nil, err
	}

	Logger.Infof("connected to %s://%s with %d connections", connector.GetName(), config.Transport.Endpoint, config.PoolSize())
	Logger.Debugf("%s", config.String())

	return &Client{
		config:    config,
		connector: connector,
		pool:      pool,
	}, nil
}

// ConnectorFor returns the client connector for a transport type
func ConnectorFor(transportType string) (transport.IClientConnector, error) {
	switch transportType {
	case "tcp":
		return tcp.NewTCPClientConnector(), nil
	case "unix":
		return unix.NewUnixClientConnector(), nil
	default:
		return nil, fmt.Errorf("unknown transport type %q", transportType)
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see conn.IProvider)
// --------------------------------------------------------------------------

func (c *Client) Acquire() (conn.Handle, error) {
	return c.pool.Acquire()
}

// --------------------------------------------------------------------------
// Client Methods
// --------------------------------------------------------------------------

// Do runs one command on a pooled connection and returns its reply.
// The connection is discarded if the exchange failed fatally.
func (c *Client) Do(args ...[]byte) (common.Reply, error) {
	return session.Exec(c.pool, args...)
}

// DoStrings is Do for string arguments
func (c *Client) DoStrings(args ...string) (common.Reply, error) {
	bs := make([][]byte, len(args))
	for i, a := range args {
		bs[i] = []byte(a)
	}
	return c.Do(bs...)
}

// Ping checks that the store answers
func (c *Client) Ping() error {
	reply, err := c.DoStrings("PING")
	if err != nil {
		return err
	}
	if text, err := reply.Text(); err != nil || text != "PONG" {
		return common.NewOtherError("unexpected ping reply %s", reply)
	}
	return nil
}

// Session opens a session on a pooled connection. The caller must Close it.
func (c *Client) Session() (*session.Session, error) {
	return session.Open(c.pool)
}

// Stats returns the pool statistics
func (c *Client) Stats() conn.PoolStats {
	return c.pool.Stats()
}

// Config returns the configuration the client was created with
func (c *Client) Config() common.ClientConfig {
	return c.config
}

// WriteMetrics writes the pool metrics in Prometheus text format to w
func (c *Client) WriteMetrics(w io.Writer) {
	c.pool.WriteMetrics(w)
}

// Close closes the pool
func (c *Client) Close() error {
	return c.pool.Close()
}
