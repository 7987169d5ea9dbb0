package conn

import (
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/lni/dragonboat/v4/logger"
	"io"
	"net"
	"sync/atomic"
)

var Logger = logger.GetLogger("conn")

// Handle is exclusive access to one connection. Exactly one live handle
// exists per connection at any time; its lifetime ends with Release (the
// connection goes back to where it came from) or Discard (the connection is
// broken and is closed). Reading or writing after either fails with an
// ErrCOther error, calling either a second time is a logged no-op.
type Handle interface {
	io.ReadWriter
	// Release returns the connection to its origin
	Release()
	// Discard closes the connection, it is never handed out again
	Discard()
}

// BuffersWriter is implemented by handles that can write several buffers
// with one vectored write (writev on TCP and unix sockets)
type BuffersWriter interface {
	WriteBuffers(b net.Buffers) (int64, error)
}

// IProvider yields exclusive connection handles. Acquire may block (Pool)
// or fail (Dialer, Shared).
type IProvider interface {
	Acquire() (Handle, error)
}

// --------------------------------------------------------------------------
// Handle implementation shared by all providers
// --------------------------------------------------------------------------

type handle struct {
	conn      io.ReadWriteCloser
	origin    string
	done      atomic.Bool
	onRelease func(h *handle)
	onDiscard func(h *handle)
}

func newHandle(conn io.ReadWriteCloser, origin string, onRelease, onDiscard func(h *handle)) *handle {
	return &handle{
		conn:      conn,
		origin:    origin,
		onRelease: onRelease,
		onDiscard: onDiscard,
	}
}

func (h *handle) Read(p []byte) (int, error) {
	if h.done.Load() {
		return 0, h.useAfterRelease()
	}
	return h.conn.Read(p)
}

func (h *handle) Write(p []byte) (int, error) {
	if h.done.Load() {
		return 0, h.useAfterRelease()
	}
	return h.conn.Write(p)
}

func (h *handle) WriteBuffers(b net.Buffers) (int64, error) {
	if h.done.Load() {
		return 0, h.useAfterRelease()
	}
	return b.WriteTo(h.conn)
}

func (h *handle) Release() {
	if !h.done.CompareAndSwap(false, true) {
		Logger.Warningf("%s: handle released twice", h.origin)
		return
	}
	if h.onRelease != nil {
		h.onRelease(h)
	}
}

func (h *handle) Discard() {
	if !h.done.CompareAndSwap(false, true) {
		Logger.Warningf("%s: discard of an already released handle", h.origin)
		return
	}
	if h.onDiscard != nil {
		h.onDiscard(h)
		return
	}
	closeConn(h.origin, h.conn)
}

func (h *handle) useAfterRelease() error {
	return common.NewOtherError("%s: connection handle used after release", h.origin)
}

// closeConn closes c and logs a failure, there is nothing else to do about it
func closeConn(origin string, c io.Closer) {
	if err := c.Close(); err != nil {
		Logger.Debugf("%s: close connection: %v", origin, err)
	}
}
