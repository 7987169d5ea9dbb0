package session

import (
	"bufio"
	"github.com/ValentinKolb/dRESP/rpc/codec"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/conn"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
	"net"
	"strconv"
)

var Logger = logger.GetLogger("session")

// readAheadSize is the read buffer of one Recv call. Replies longer than
// that are read in several steps, a larger buffer would only hide leftover
// bytes behind a bigger read.
const readAheadSize = 64

// State is the position of a session in the request/response cycle
type State uint8

const (
	StateIdle     State = iota // no arguments buffered, no reply pending
	StateBuilding              // arguments buffered
	StateSent                  // command written, reply pending
	StateClosed                // handle released or discarded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuilding:
		return "building"
	case StateSent:
		return "sent"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session owns one connection handle and runs request/response exchanges on
// it, one command at a time. A Session is not safe for concurrent use.
//
// Usage:
//
//	s, err := session.Open(pool)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	reply, err := s.ArgString("GET").ArgString("key").Fetch()
//
// After a protocol or io error the session is poisoned: every further call
// returns that error and Close discards the connection instead of releasing
// it.
type Session struct {
	handle conn.Handle
	state  State

	// encoded bulk strings of the command being built, the array header is
	// written in front of it on Send
	buf   []byte
	count int

	// sticky fatal error
	err error
}

// New creates a session on h. The session owns h until Close.
func New(h conn.Handle) *Session {
	return &Session{handle: h}
}

// Open acquires a handle from p and creates a session on it
func Open(p conn.IProvider) (*Session, error) {
	h, err := p.Acquire()
	if err != nil {
		return nil, err
	}
	return New(h), nil
}

// --------------------------------------------------------------------------
// Building commands
// --------------------------------------------------------------------------

// Arg appends x as the next argument of the command. x is copied.
func (s *Session) Arg(x []byte) *Session {
	s.buf = codec.AppendBulk(s.buf, x)
	s.count++
	if s.state == StateIdle {
		s.state = StateBuilding
	}
	return s
}

// ArgString appends x as the next argument
func (s *Session) ArgString(x string) *Session {
	s.buf = codec.AppendBulkString(s.buf, x)
	s.count++
	if s.state == StateIdle {
		s.state = StateBuilding
	}
	return s
}

// ArgInt appends the decimal representation of n as the next argument
func (s *Session) ArgInt(n int64) *Session {
	var tmp [20]byte
	return s.Arg(strconv.AppendInt(tmp[:0], n, 10))
}

// Args appends every element of xs as an argument
func (s *Session) Args(xs ...[]byte) *Session {
	for _, x := range xs {
		s.Arg(x)
	}
	return s
}

// --------------------------------------------------------------------------
// Exchange
// --------------------------------------------------------------------------

// Send writes the buffered command in one vectored write. The command buffer
// is cleared whether or not the write succeeds. Sending zero arguments writes
// an empty array.
func (s *Session) Send() error {
	count, body := s.count, s.buf
	defer s.clear()

	if err := s.usable(); err != nil {
		return err
	}
	if s.state == StateSent {
		return common.NewOtherError("send while the previous reply is pending")
	}

	header := codec.AppendArrayHeader(make([]byte, 0, 16), count)
	bufs := net.Buffers{header}
	if len(body) > 0 {
		// a zero length write blocks on synchronous streams such as net.Pipe
		bufs = append(bufs, body)
	}

	var err error
	if bw, ok := s.handle.(conn.BuffersWriter); ok {
		_, err = bw.WriteBuffers(bufs)
	} else {
		_, err = bufs.WriteTo(s.handle)
	}
	if err != nil {
		var e *common.Error
		if !errors.As(err, &e) {
			err = common.NewIOError(err, "send command")
		}
		return s.fail(err)
	}

	Logger.Debugf("sent command with %d arguments (%d bytes)", count, len(header)+len(body))
	s.state = StateSent
	return nil
}

// Recv reads exactly one reply for the last Send. Bytes received beyond the
// reply are a protocol error.
func (s *Session) Recv() (common.Reply, error) {
	if err := s.usable(); err != nil {
		return common.Reply{}, err
	}
	if s.state != StateSent {
		return common.Reply{}, common.NewOtherError("recv without a matching send")
	}

	s.state = StateIdle
	if s.count > 0 {
		s.state = StateBuilding
	}

	reply, err := codec.Decode(bufio.NewReaderSize(s.handle, readAheadSize))
	if err != nil {
		return common.Reply{}, s.fail(err)
	}
	Logger.Debugf("received %s reply", reply.Kind())
	return reply, nil
}

// Fetch sends the buffered command and reads its reply
func (s *Session) Fetch() (common.Reply, error) {
	if err := s.Send(); err != nil {
		return common.Reply{}, err
	}
	return s.Recv()
}

// Run is Fetch for commands whose reply is only checked for errors. It
// returns the session so the next command can be chained.
func (s *Session) Run() (*Session, error) {
	_, err := s.Fetch()
	return s, err
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// State returns the current state of the session
func (s *Session) State() State {
	return s.state
}

// Err returns the error that poisoned the session, nil if it is healthy
func (s *Session) Err() error {
	return s.err
}

// Close ends the session. The handle is released, or discarded if the
// session is poisoned or a reply is still pending on the connection.
// Calling Close more than once is a no-op.
func (s *Session) Close() {
	if s.state == StateClosed {
		return
	}
	pending := s.state == StateSent
	s.state = StateClosed
	s.clear()

	switch {
	case s.err != nil:
		Logger.Debugf("discarding connection of poisoned session: %v", s.err)
		s.handle.Discard()
	case pending:
		Logger.Warningf("session closed with an unread reply, discarding connection")
		s.handle.Discard()
	default:
		s.handle.Release()
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func (s *Session) usable() error {
	if s.err != nil {
		return s.err
	}
	if s.state == StateClosed {
		return common.NewOtherError("session is closed")
	}
	return nil
}

// fail makes a fatal err sticky and returns it
func (s *Session) fail(err error) error {
	if common.IsFatal(err) {
		Logger.Debugf("session poisoned: %v", err)
		s.err = err
	}
	return err
}

func (s *Session) clear() {
	s.buf = s.buf[:0]
	s.count = 0
	if s.state == StateBuilding {
		s.state = StateIdle
	}
}

// Exec runs a single command on a handle acquired from p and releases the
// handle afterwards
func Exec(p conn.IProvider, args ...[]byte) (common.Reply, error) {
	s, err := Open(p)
	if err != nil {
		return common.Reply{}, err
	}
	defer s.Close()
	return s.Args(args...).Fetch()
}
