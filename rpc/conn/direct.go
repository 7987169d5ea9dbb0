package conn

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
	"io"
)

// Direct provides the single connection it wraps. Exclusivity comes from
// ownership: whoever holds the Direct is its only user. Release is a no-op,
// Discard closes the connection and every later Acquire fails.
type Direct struct {
	conn   io.ReadWriteCloser
	broken bool
}

// NewDirect wraps conn, the Direct takes ownership of it
func NewDirect(conn io.ReadWriteCloser) *Direct {
	return &Direct{conn: conn}
}

func (d *Direct) Acquire() (Handle, error) {
	if d.broken {
		return nil, common.NewIOError(io.ErrClosedPipe, "direct connection was discarded")
	}
	return newHandle(d.conn, "direct", nil, func(h *handle) {
		d.broken = true
		closeConn(h.origin, h.conn)
	}), nil
}

// Close closes the wrapped connection
func (d *Direct) Close() error {
	d.broken = true
	return d.conn.Close()
}
