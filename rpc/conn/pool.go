package conn

import (
	"fmt"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/transport"
	"github.com/ValentinKolb/dRESP/rpc/transport/base"
	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
	"io"
	"sync"
	"time"
)

// ErrPoolClosed is returned by Acquire once the pool is closed, including to
// callers that were waiting when Close was called
var ErrPoolClosed = common.NewOtherError("connection pool is closed")

// PoolStats is a snapshot of the pool's bookkeeping
type PoolStats struct {
	Idle    int // connections ready to be handed out
	InUse   int // connections checked out by a handle
	Waiting int // callers blocked in Acquire
}

// Size returns the number of connections owned by the pool
func (s PoolStats) Size() int {
	return s.Idle + s.InUse
}

// Pool is a fixed set of connections shared across goroutines. Acquire hands
// out an idle connection or blocks until one is released. Connections go back
// to the idle set exactly once per checkout, through Handle.Release.
//
// A *Pool is safe for concurrent use; copies of the pointer share the same
// idle set and wait queue.
type Pool struct {
	name string

	mu      sync.Mutex
	cond    *sync.Cond
	idle    []io.ReadWriteCloser // FIFO, guarded by mu
	waiting int                  // guarded by mu
	closed  bool                 // guarded by mu

	// checked out handles and the time they were handed out
	inUse *xsync.MapOf[*handle, time.Time]

	// redial replaces discarded connections, nil for pools of adopted connections
	redial func() (io.ReadWriteCloser, error)

	metrics     *metrics.Set
	acquires    *metrics.Counter
	discards    *metrics.Counter
	redialFails *metrics.Counter
	waitTime    *metrics.Histogram
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// NewPool creates a pool that takes ownership of the established connections
// conns. All of them start idle.
func NewPool(name string, conns ...io.ReadWriteCloser) *Pool {
	p := &Pool{
		name:  name,
		idle:  append(make([]io.ReadWriteCloser, 0, len(conns)), conns...),
		inUse: xsync.NewMapOf[*handle, time.Time](),
	}
	p.cond = sync.NewCond(&p.mu)
	p.initMetrics()

	Logger.Infof("pool %s: created with %d connections", name, len(conns))
	return p
}

// DialPool eagerly establishes config.PoolSize() connections with connector.
// If any dial fails the connections established so far are closed and the
// error is returned. Discarded connections of a dialed pool are replaced by
// new ones.
func DialPool(connector transport.IClientConnector, config common.ClientConfig) (*Pool, error) {
	dial := func() (io.ReadWriteCloser, error) {
		return base.Dial(connector, config)
	}

	size := config.PoolSize()
	conns := make([]io.ReadWriteCloser, 0, size)
	for i := 0; i < size; i++ {
		c, err := dial()
		if err != nil {
			for _, c := range conns {
				closeConn(config.Pool.Name, c)
			}
			return nil, common.NewIOError(err, fmt.Sprintf("pool %s: dial connection %d of %d", config.Pool.Name, i+1, size))
		}
		conns = append(conns, c)
	}

	p := NewPool(config.Pool.Name, conns...)
	p.redial = dial
	return p, nil
}

func (p *Pool) initMetrics() {
	label := fmt.Sprintf(`{pool=%q}`, p.name)
	p.metrics = metrics.NewSet()
	p.acquires = p.metrics.NewCounter("dresp_pool_acquires_total" + label)
	p.discards = p.metrics.NewCounter("dresp_pool_discards_total" + label)
	p.redialFails = p.metrics.NewCounter("dresp_pool_redial_failures_total" + label)
	p.waitTime = p.metrics.NewHistogram("dresp_pool_acquire_wait_seconds" + label)
	p.metrics.NewGauge("dresp_pool_idle"+label, func() float64 {
		return float64(p.Stats().Idle)
	})
	p.metrics.NewGauge("dresp_pool_in_use"+label, func() float64 {
		return float64(p.Stats().InUse)
	})
	p.metrics.NewGauge("dresp_pool_waiting"+label, func() float64 {
		return float64(p.Stats().Waiting)
	})
}

// --------------------------------------------------------------------------
// Interface Methods (docu see IProvider)
// --------------------------------------------------------------------------

// Acquire removes an idle connection from the pool and returns a handle to
// it. If no connection is idle the call blocks until one is released. There
// is no timeout.
func (p *Pool) Acquire() (Handle, error) {
	start := time.Now()

	p.mu.Lock()
	for len(p.idle) == 0 && !p.closed {
		p.waiting++
		p.cond.Wait()
		p.waiting--
	}
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	c := p.idle[0]
	p.idle[0] = nil
	p.idle = p.idle[1:]
	h := newHandle(c, p.name, p.checkIn, p.discard)
	p.inUse.Store(h, time.Now())
	p.mu.Unlock()

	p.acquires.Inc()
	p.waitTime.UpdateDuration(start)
	return h, nil
}

// --------------------------------------------------------------------------
// Pool Methods
// --------------------------------------------------------------------------

// Push adds an established connection to the idle set and wakes one waiter
func (p *Pool) Push(c io.ReadWriteCloser) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		closeConn(p.name, c)
		return
	}
	p.idle = append(p.idle, c)
	p.mu.Unlock()
	p.cond.Signal()
}

// Do acquires a handle, calls fn with it and ends the handle's lifetime on
// every path: fatal errors (see common.IsFatal) and panics discard the
// connection, everything else releases it.
func (p *Pool) Do(fn func(h Handle) error) (err error) {
	h, err := p.Acquire()
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			h.Discard()
			panic(r)
		}
		if common.IsFatal(err) {
			h.Discard()
		} else {
			h.Release()
		}
	}()
	return fn(h)
}

// Stats returns a snapshot of the idle, checked out and waiting counts
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Idle:    len(p.idle),
		InUse:   p.inUse.Size(),
		Waiting: p.waiting,
	}
}

// Name returns the name the pool was created with
func (p *Pool) Name() string {
	return p.name
}

// WriteMetrics writes the pool metrics in Prometheus text format to w
func (p *Pool) WriteMetrics(w io.Writer) {
	p.metrics.WritePrometheus(w)
}

// Close closes all idle connections and wakes every waiter with
// ErrPoolClosed. Checked out connections are closed when they are released.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()
	p.cond.Broadcast()

	for _, c := range idle {
		closeConn(p.name, c)
	}
	Logger.Infof("pool %s: closed (%d idle closed, %d still checked out)", p.name, len(idle), p.inUse.Size())
	return nil
}

// --------------------------------------------------------------------------
// Handle callbacks
// --------------------------------------------------------------------------

// checkIn returns the connection of h to the idle set
func (p *Pool) checkIn(h *handle) {
	p.mu.Lock()
	since, _ := p.inUse.LoadAndDelete(h)
	if p.closed {
		p.mu.Unlock()
		closeConn(p.name, h.conn)
		return
	}
	p.idle = append(p.idle, h.conn)
	p.mu.Unlock()
	p.cond.Signal()

	Logger.Debugf("pool %s: connection released after %s", p.name, time.Since(since))
}

// discard closes the connection of h. Dialed pools replace it with a new one,
// if that fails the pool shrinks by one.
func (p *Pool) discard(h *handle) {
	p.inUse.Delete(h)
	closeConn(p.name, h.conn)
	p.discards.Inc()

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if p.redial == nil || closed {
		Logger.Warningf("pool %s: connection discarded, pool shrinks to %d", p.name, p.Stats().Size())
		return
	}

	c, err := p.redial()
	if err != nil {
		p.redialFails.Inc()
		Logger.Warningf("pool %s: connection discarded, redial failed: %v", p.name, err)
		p.warnIfEmpty()
		return
	}
	Logger.Warningf("pool %s: connection discarded and replaced", p.name)
	p.Push(c)
}

// warnIfEmpty logs when the pool lost its last connection while callers
// are blocked in Acquire
func (p *Pool) warnIfEmpty() {
	if s := p.Stats(); s.Size() == 0 && s.Waiting > 0 {
		Logger.Errorf("pool %s: no connections left, %d callers are waiting", p.name, s.Waiting)
	}
}
