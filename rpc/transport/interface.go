package transport

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
	"net"
)

// --------------------------------------------------------------------------
// Client Connector
// --------------------------------------------------------------------------

// IClientConnector establishes connections to the store for one transport type
type IClientConnector interface {
	// Connect establishes a single connection to endpoint
	// A zero DialTimeoutSecond in config means no timeout
	Connect(endpoint string, config common.ClientConfig) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// --------------------------------------------------------------------------
// Server Connector
// --------------------------------------------------------------------------

// IServerConnector creates listeners for one transport type
type IServerConnector interface {
	// Listen creates a listener on the configured endpoint
	Listen(config common.ServerConfig) (net.Listener, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string
}
