package client

import (
	"errors"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/server"
	"github.com/ValentinKolb/dRESP/rpc/transport/tcp"
	"github.com/ValentinKolb/dRESP/rpc/transport/unix"
	"github.com/lni/dragonboat/v4/logger"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func newTestClient(t *testing.T, transportType string) *Client {
	t.Helper()

	endpoint := "127.0.0.1:0"
	connector := tcp.NewTCPServerConnector()
	if transportType == "unix" {
		endpoint = filepath.Join(t.TempDir(), "dresp.sock")
		connector = unix.NewUnixServerConnector()
	}

	s := server.NewServer(common.ServerConfig{Endpoint: endpoint}, connector, server.NewMemStore())
	if err := s.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	config := common.DefaultClientConfig(s.Addr().String())
	config.Transport.Type = transportType
	config.Pool.Name = t.Name()
	config.Pool.InitialSize = 3

	c, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClientDo(t *testing.T) {
	for _, transportType := range []string{"tcp", "unix"} {
		t.Run(transportType, func(t *testing.T) {
			c := newTestClient(t, transportType)

			if err := c.Ping(); err != nil {
				t.Fatalf("Ping failed: %v", err)
			}
			if _, err := c.DoStrings("SET", "greeting", "hello"); err != nil {
				t.Fatalf("SET failed: %v", err)
			}
			reply, err := c.DoStrings("GET", "greeting")
			if err != nil {
				t.Fatalf("GET failed: %v", err)
			}
			if b, _ := reply.Bytes(); string(b) != "hello" {
				t.Errorf("Expected hello, got %v", reply)
			}
			if stats := c.Stats(); stats.Idle != 3 {
				t.Errorf("Expected 3 idle connections, got %+v", stats)
			}
		})
	}
}

func TestClientSession(t *testing.T) {
	c := newTestClient(t, "tcp")

	s, err := c.Session()
	if err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	if stats := c.Stats(); stats.InUse != 1 {
		t.Errorf("Expected one connection in use, got %+v", stats)
	}

	if _, err := s.ArgString("RPUSH").ArgString("l").ArgString("a").ArgString("b").Run(); err != nil {
		t.Fatalf("RPUSH failed: %v", err)
	}
	reply, err := s.ArgString("LRANGE").ArgString("l").ArgInt(0).ArgInt(-1).Fetch()
	if err != nil {
		t.Fatalf("LRANGE failed: %v", err)
	}
	if reply.String() != "1) \"a\"\n2) \"b\"" {
		t.Errorf("Unexpected reply:\n%s", reply)
	}
	s.Close()

	if stats := c.Stats(); stats.InUse != 0 || stats.Idle != 3 {
		t.Errorf("Expected the session's connection back in the pool, got %+v", stats)
	}
}

func TestClientRemoteError(t *testing.T) {
	c := newTestClient(t, "tcp")

	c.DoStrings("SET", "s", "v")
	_, err := c.DoStrings("RPUSH", "s", "x")
	if !errors.Is(err, common.ErrRemote) || !strings.Contains(err.Error(), "WRONGTYPE") {
		t.Errorf("Expected WRONGTYPE remote error, got %v", err)
	}
	if stats := c.Stats(); stats.Size() != 3 {
		t.Errorf("Remote errors must not discard connections, got %+v", stats)
	}
}

func TestClientConcurrent(t *testing.T) {
	c := newTestClient(t, "tcp")

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if _, err := c.DoStrings("HSET", "h", "f", "v"); err != nil {
					t.Errorf("HSET failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	reply, err := c.DoStrings("HLEN", "h")
	if err != nil {
		t.Fatalf("HLEN failed: %v", err)
	}
	if n, _ := reply.Integer(); n != 1 {
		t.Errorf("Expected 1 field, got %v", reply)
	}
}

func TestClientConfigErrors(t *testing.T) {
	config := common.DefaultClientConfig("")
	if _, err := New(config); err == nil {
		t.Errorf("Expected an error for a missing endpoint")
	}

	config = common.DefaultClientConfig("127.0.0.1:1")
	config.Transport.Type = "http"
	if _, err := New(config); err == nil {
		t.Errorf("Expected an error for an unknown transport")
	}

	if _, err := ConnectorFor("quic"); err == nil {
		t.Errorf("Expected an error for an unknown connector")
	}
}

// TestClientPercentInEndpoint connects with debug logging enabled to a socket
// whose path contains format verbs
func TestClientPercentInEndpoint(t *testing.T) {
	Logger.SetLevel(logger.DEBUG)
	t.Cleanup(func() { Logger.SetLevel(logger.INFO) })

	endpoint := filepath.Join(t.TempDir(), "100%d%s.sock")
	s := server.NewServer(common.ServerConfig{Endpoint: endpoint}, unix.NewUnixServerConnector(), server.NewMemStore())
	if err := s.Start(); err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	config := common.DefaultClientConfig(endpoint)
	config.Transport.Type = "unix"
	config.Pool.Name = "pool%v"
	config.Pool.InitialSize = 1

	c, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer c.Close()

	cfg := c.Config()
	if got := cfg.String(); !strings.Contains(got, "100%d%s.sock") {
		t.Errorf("Expected the endpoint verbatim in the config string:\n%s", got)
	}
	if err := c.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
