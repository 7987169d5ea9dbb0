package server

import (
	"bufio"
	"fmt"
	"github.com/ValentinKolb/dRESP/rpc/codec"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	"io"
	"net"
	"os/signal"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

var Logger = logger.GetLogger("server")

// Server accepts RESP connections and executes the commands it reads with an
// IHandler. Every connection is served by its own goroutine; requests on one
// connection may be pipelined and are answered in order.
//
// Usage:
//
//	s := server.NewServer(
//		common.ServerConfig{Endpoint: "127.0.0.1:6379"},
//		tcp.NewTCPServerConnector(),
//		server.NewMemStore(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
type Server struct {
	config    common.ServerConfig
	connector transport.IServerConnector
	handler   IHandler

	mu       sync.Mutex
	listener net.Listener

	conns  *xsync.MapOf[net.Conn, time.Time]
	wg     sync.WaitGroup
	closed atomic.Bool

	requests atomic.Uint64
}

// NewServer creates a new server, it does not listen until Start or Serve
func NewServer(config common.ServerConfig, connector transport.IServerConnector, handler IHandler) *Server {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	return &Server{
		config:    config,
		connector: connector,
		handler:   handler,
		conns:     xsync.NewMapOf[net.Conn, time.Time](),
	}
}

// Start creates the listener and accepts connections in the background
func (s *Server) Start() error {
	if err := s.listen(); err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()
	return nil
}

// Serve creates the listener and accepts connections until Close is called
func (s *Server) Serve() error {
	if err := s.listen(); err != nil {
		return err
	}
	s.acceptLoop()
	return nil
}

// Addr returns the address the server listens on, nil before Start or Serve
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Requests returns the number of commands executed so far
func (s *Server) Requests() uint64 {
	return s.requests.Load()
}

// Close stops accepting, closes every open connection and waits for the
// connection goroutines to exit
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	s.mu.Unlock()

	s.conns.Range(func(c net.Conn, _ time.Time) bool {
		c.Close()
		return true
	})
	s.wg.Wait()

	Logger.Infof("Stopped %s server on %s", s.connector.GetName(), s.config.Endpoint)
	return err
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *Server) listen() error {
	listener, err := s.connector.Listen(s.config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %v", err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	Logger.Infof("Starting %s server on %s", s.connector.GetName(), listener.Addr())
	return nil
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return
			}
			Logger.Errorf("Accept error: %v", err)
			continue
		}

		s.conns.Store(conn, time.Now())
		s.wg.Add(1)

		// Handle the connection in a goroutine
		go func() {
			defer s.wg.Done()
			defer s.conns.Delete(conn)
			s.handleConnection(conn)
		}()
	}
}

// handleConnection reads commands from one connection until it is closed.
// Replies are buffered and flushed once no further pipelined request is
// waiting in the read buffer.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	// Timeout in seconds
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	var out []byte

	for {
		if timeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
				Logger.Errorf("Failed to set read deadline: %v", err)
				return
			}
		}

		req, err := codec.ReadReply(r)

		// Case EOF: Connection closed by client
		if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
			Logger.Debugf("Connection closed by client")
			return
		}

		// Case error: report and close connection, the stream can not be resynchronized
		if err != nil {
			Logger.Warningf("Error reading request: %v", err)
			w.Write(codec.AppendError(nil, "ERR "+err.Error()))
			w.Flush()
			return
		}

		start := time.Now()
		out = s.execute(out[:0], req)
		s.requests.Add(1)
		Logger.Debugf("Processed request took %s", time.Since(start))

		if _, err := w.Write(out); err != nil {
			Logger.Errorf("Failed to write response: %v", err)
			return
		}

		if r.Buffered() > 0 {
			continue
		}

		if timeout > 0 {
			if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
				Logger.Errorf("Failed to set write deadline: %v", err)
				return
			}
		}
		if err := w.Flush(); err != nil {
			Logger.Errorf("Failed to write response: %v", err)
			return
		}
	}
}

// execute runs req and appends the encoded reply to dst
func (s *Server) execute(dst []byte, req common.Reply) []byte {
	args, err := requestArgs(req)
	if err != nil {
		return codec.AppendError(dst, "ERR "+err.Error())
	}

	reply, err := s.handler.Handle(args)
	if err != nil {
		var e *common.Error
		if errors.As(err, &e) && e.Code == common.ErrCRemote {
			return codec.AppendError(dst, e.Msg)
		}
		return codec.AppendError(dst, "ERR "+err.Error())
	}
	return codec.AppendReply(dst, reply)
}

// requestArgs extracts the arguments of a request, which must be a non empty
// array of bulk strings
func requestArgs(req common.Reply) ([][]byte, error) {
	seq, err := req.Sequence()
	if err != nil {
		return nil, fmt.Errorf("request is not an array")
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	args := make([][]byte, len(seq))
	for i, e := range seq {
		if args[i], err = e.Bytes(); err != nil {
			return nil, fmt.Errorf("argument %d is not a bulk string", i)
		}
	}
	return args, nil
}
