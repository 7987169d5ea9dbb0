package base

import (
	"fmt"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"net"
)

var Logger = logger.GetLogger("transport")

// Dial establishes one connection to the configured endpoint and upgrades it
// with the connector's socket options
func Dial(connector transport.IClientConnector, config common.ClientConfig) (net.Conn, error) {
	endpoint := config.Transport.Endpoint
	if endpoint == "" {
		return nil, fmt.Errorf("no endpoint provided")
	}

	// Connect to the endpoint
	conn, err := connector.Connect(endpoint, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %v", endpoint, err)
	}

	// Upgrade the connection with protocol-specific settings
	if err := connector.UpgradeConnection(conn, config); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to upgrade connection to %s: %v", endpoint, err)
	}

	Logger.Debugf("Connected to %s using %s transport", endpoint, connector.GetName())
	return conn, nil
}
