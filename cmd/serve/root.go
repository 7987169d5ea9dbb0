package serve

import (
	"fmt"
	cmdUtil "github.com/ValentinKolb/dRESP/cmd/util"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/server"
	"github.com/ValentinKolb/dRESP/rpc/transport"
	"github.com/ValentinKolb/dRESP/rpc/transport/tcp"
	"github.com/ValentinKolb/dRESP/rpc/transport/unix"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:   "serve",
		Short: "Start an in-memory RESP server",
		Long: `Start an in-memory RESP server for local development and benchmarks.
It understands the string, list, hash and bit commands used by the collections.
The configuration can be set via command line flags or environment variables.
The format of the environment variables is DRESP_<flag> (e.g. DRESP_TIMEOUT=15)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:6379", cmdUtil.WrapString("The address on which the server will listen (e.g. localhost:6379 for tcp, /tmp/dresp.sock for unix)"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 0, cmdUtil.WrapString("Read and write timeout per request in seconds (0 disables the timeout)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.TimeoutSecond < 0 {
		return fmt.Errorf("timeout must not be negative, got %d", serveCmdConfig.TimeoutSecond)
	}

	return common.InitLoggers(serveCmdConfig.LogLevel)
}

// run starts the server and blocks until it stops
func run(_ *cobra.Command, _ []string) error {
	var t transport.IServerConnector
	switch viper.GetString("transport") {
	case "tcp":
		t = tcp.NewTCPServerConnector()
	case "unix":
		t = unix.NewUnixServerConnector()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewServer(
		*serveCmdConfig,
		t,
		server.NewMemStore(),
	)

	return serv.Serve()
}
