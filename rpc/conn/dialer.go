package conn

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/transport"
	"github.com/ValentinKolb/dRESP/rpc/transport/base"
)

// Dialer establishes a fresh connection on every Acquire. Releasing the
// handle closes the connection.
type Dialer struct {
	connector transport.IClientConnector
	config    common.ClientConfig
}

// NewDialer creates a dialer that connects with connector using config
func NewDialer(connector transport.IClientConnector, config common.ClientConfig) *Dialer {
	return &Dialer{connector: connector, config: config}
}

func (d *Dialer) Acquire() (Handle, error) {
	c, err := base.Dial(d.connector, d.config)
	if err != nil {
		return nil, common.NewIOError(err, "dial "+d.config.Transport.Endpoint)
	}
	origin := d.connector.GetName() + "://" + d.config.Transport.Endpoint
	return newHandle(c, origin,
		func(h *handle) { closeConn(h.origin, h.conn) },
		nil,
	), nil
}
