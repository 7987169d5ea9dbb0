package util

import (
	"fmt"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/serializer"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"strings"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString breaks text into lines of at most Wrap characters (longer
// words get a line of their own)
func WrapString(text string) string {
	var sb strings.Builder
	width := 0
	for _, word := range strings.Fields(text) {
		switch {
		case width == 0:
		case width+1+len(word) > Wrap:
			sb.WriteByte('\n')
			width = 0
		default:
			sb.WriteByte(' ')
			width++
		}
		sb.WriteString(word)
		width += len(word)
	}
	return sb.String()
}

// SetupClientFlags adds the connection and pool flags to a command
func SetupClientFlags(cmd *cobra.Command) {
	key := "endpoint"
	cmd.PersistentFlags().String(key, "localhost:6379", WrapString("The address of the store (host:port for tcp, the socket path for unix)"))

	key = "dial-timeout"
	cmd.PersistentFlags().Int(key, 5, WrapString("Timeout in seconds for establishing a connection (0 disables the timeout)"))

	key = "pool-size"
	cmd.PersistentFlags().Int(key, common.DefaultPoolSize, WrapString("Number of connections the pool establishes up front"))

	key = "pool-name"
	cmd.PersistentFlags().String(key, "cli", WrapString("Name of the pool in logs and metrics"))

	key = "transport-write-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the socket write buffer (in KB, 0 keeps the OS default)"))

	key = "transport-read-buffer"
	cmd.PersistentFlags().Int(key, 0, WrapString("The size of the socket read buffer (in KB, 0 keeps the OS default)"))

	key = "transport-tcp-nodelay"
	cmd.PersistentFlags().Bool(key, true, WrapString("Whether to enable TCP_NODELAY (only for tcp)"))

	key = "transport-tcp-keepalive"
	cmd.PersistentFlags().Int(key, 0, WrapString("The keepalive interval (in seconds, only for tcp)"))

	key = "transport-tcp-linger"
	cmd.PersistentFlags().Int(key, -1, WrapString("The linger time (in seconds, only for tcp, negative keeps the OS default)"))
}

// InitConfig loads .env files and makes viper read DRESP_* environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dresp")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetClientConfig reads client configuration from viper
func GetClientConfig() common.ClientConfig {
	return common.ClientConfig{
		Transport: common.ClientTransportConfig{
			Type:              viper.GetString("transport"),
			Endpoint:          viper.GetString("endpoint"),
			DialTimeoutSecond: viper.GetInt("dial-timeout"),
			SocketConf: common.SocketConf{
				WriteBufferSize: viper.GetInt("transport-write-buffer") * 1024,
				ReadBufferSize:  viper.GetInt("transport-read-buffer") * 1024,
			},
			TCPConf: common.TCPConf{
				TCPNoDelay:      viper.GetBool("transport-tcp-nodelay"),
				TCPKeepAliveSec: viper.GetInt("transport-tcp-keepalive"),
				TCPLingerSec:    viper.GetInt("transport-tcp-linger"),
			},
		},
		Pool: common.PoolConfig{
			Name:        viper.GetString("pool-name"),
			InitialSize: viper.GetInt("pool-size"),
		},
		LogLevel: viper.GetString("log-level"),
	}
}

// GetSerializer returns the serializer selected with --serializer
func GetSerializer() (serializer.ISerializer, error) {
	name := viper.GetString("serializer")
	if s := serializer.ByName(name); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("invalid serializer %s", name)
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
