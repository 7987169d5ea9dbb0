package conn

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
	"io"
)

// ErrAlreadyBorrowed is returned by Shared.Acquire while a handle is outstanding
var ErrAlreadyBorrowed = common.NewOtherError("shared connection is already borrowed")

// Shared lends one connection to several logical holders, checking at
// runtime that only one handle is out at a time.
//
// Shared is not safe for concurrent use: all holders must live on the same
// goroutine. Concurrent callers need a Pool.
type Shared struct {
	conn     io.ReadWriteCloser
	borrowed bool
	broken   bool
}

// NewShared wraps conn, the Shared takes ownership of it
func NewShared(conn io.ReadWriteCloser) *Shared {
	return &Shared{conn: conn}
}

func (s *Shared) Acquire() (Handle, error) {
	if s.broken {
		return nil, common.NewIOError(io.ErrClosedPipe, "shared connection was discarded")
	}
	if s.borrowed {
		return nil, ErrAlreadyBorrowed
	}
	s.borrowed = true
	return newHandle(s.conn, "shared",
		func(h *handle) {
			s.borrowed = false
		},
		func(h *handle) {
			s.borrowed = false
			s.broken = true
			closeConn(h.origin, h.conn)
		},
	), nil
}

// Borrowed reports whether a handle is currently outstanding
func (s *Shared) Borrowed() bool {
	return s.borrowed
}

// Close closes the shared connection
func (s *Shared) Close() error {
	s.broken = true
	return s.conn.Close()
}
