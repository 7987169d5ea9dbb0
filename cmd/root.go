package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dRESP/cmd/serve"
	"github.com/ValentinKolb/dRESP/cmd/store"
	"github.com/ValentinKolb/dRESP/cmd/util"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dresp",
		Short: "RESP client toolkit",
		Long: fmt.Sprintf(`dRESP (v%s)

A client for RESP speaking key-value stores written in Go: a wire codec,
pooled connections, sessions and typed collections on top of them.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dRESP",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dRESP v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(store.Commands...)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer for collection values (json, sonic, gob, binary)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
