package common

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPoolSize is the number of connections a pool dials eagerly when
// PoolConfig.InitialSize is not set
const DefaultPoolSize = 10

// --------------------------------------------------------------------------
// Client configuration structs
// --------------------------------------------------------------------------

// SocketConf holds socket buffer options (0 keeps the OS default)
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds TCP specific socket options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int // negative keeps the OS default
}

// ClientTransportConfig describes how connections to the store are established
type ClientTransportConfig struct {
	// Type selects the connector, "tcp" or "unix"
	Type string
	// Endpoint is host:port for tcp or the socket path for unix
	Endpoint          string
	DialTimeoutSecond int
	SocketConf
	TCPConf
}

// PoolConfig describes the fixed working set of a connection pool
type PoolConfig struct {
	// Name labels the pool in logs and metrics
	Name string
	// InitialSize is the number of eagerly established connections
	InitialSize int
}

// ClientConfig holds all configuration parameters of a client
type ClientConfig struct {
	Transport ClientTransportConfig
	Pool      PoolConfig
	LogLevel  string
}

// DefaultClientConfig returns a config for endpoint with default pool and socket settings
func DefaultClientConfig(endpoint string) ClientConfig {
	return ClientConfig{
		Transport: ClientTransportConfig{
			Type:              "tcp",
			Endpoint:          endpoint,
			DialTimeoutSecond: 5,
			TCPConf: TCPConf{
				TCPNoDelay:   true,
				TCPLingerSec: -1,
			},
		},
		Pool: PoolConfig{
			Name:        "default",
			InitialSize: DefaultPoolSize,
		},
		LogLevel: "info",
	}
}

// PoolSize returns the configured pool size, falling back to DefaultPoolSize
func (c *ClientConfig) PoolSize() int {
	if c.Pool.InitialSize > 0 {
		return c.Pool.InitialSize
	}
	return DefaultPoolSize
}

// Validate checks the configuration for values that can not work
func (c *ClientConfig) Validate() error {
	if c.Transport.Endpoint == "" {
		return fmt.Errorf("no endpoint provided")
	}
	if c.Transport.Type != "tcp" && c.Transport.Type != "unix" {
		return fmt.Errorf("unknown transport type %q (tcp or unix)", c.Transport.Type)
	}
	if c.Pool.InitialSize < 0 {
		return fmt.Errorf("pool size must not be negative, got %d", c.Pool.InitialSize)
	}
	if c.Transport.DialTimeoutSecond < 0 {
		return fmt.Errorf("dial timeout must not be negative, got %d", c.Transport.DialTimeoutSecond)
	}
	if c.LogLevel != "" {
		if _, err := ParseLogLevel(c.LogLevel); err != nil {
			return err
		}
	}
	return nil
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Transport")
	addField("Type", c.Transport.Type)
	addField("Endpoint", c.Transport.Endpoint)
	addField("Dial Timeout", fmt.Sprintf("%d sec", c.Transport.DialTimeoutSecond))
	addField("Write Buffer", strconv.Itoa(c.Transport.WriteBufferSize))
	addField("Read Buffer", strconv.Itoa(c.Transport.ReadBufferSize))
	addField("TCP NoDelay", strconv.FormatBool(c.Transport.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.Transport.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", c.Transport.TCPLingerSec))

	addSection("Pool")
	addField("Name", c.Pool.Name)
	addField("Initial Size", strconv.Itoa(c.PoolSize()))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds the configuration of the in-process RESP server
type ServerConfig struct {
	// Endpoint to listen on (host:port or socket path)
	Endpoint string
	// TimeoutSecond bounds reads and writes per request, 0 disables deadlines
	TimeoutSecond int64
	LogLevel      string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder
	sb.WriteString("\nRESP SERVER\n")
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", "Endpoint", c.Endpoint))
	sb.WriteString(fmt.Sprintf("  %-22s: %d sec\n", "Timeout", c.TimeoutSecond))
	sb.WriteString(fmt.Sprintf("  %-22s: %s\n", "Log Level", c.LogLevel))
	return sb.String()
}
