package store

import (
	"fmt"
	"github.com/ValentinKolb/dRESP/cmd/util"
	"github.com/ValentinKolb/dRESP/rpc/client"
	"github.com/ValentinKolb/dRESP/rpc/common"
	"github.com/ValentinKolb/dRESP/rpc/serializer"
	"github.com/spf13/cobra"
)

var (
	rpcClient *client.Client
	valueSer  serializer.ISerializer

	// Commands are the top level commands that talk to a store
	Commands = []*cobra.Command{
		doCmd,
		pingCmd,
		metricsCmd,
		blobCommands,
		cellCommands,
		mapCommands,
		listCommands,
		bitsCommands,
		perfTestCmd,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	for _, c := range Commands {
		util.SetupClientFlags(c)
		c.PersistentPreRunE = setupClient
		c.PersistentPostRunE = closeClient
	}
}

// setupClient binds the flags, initializes the loggers and connects the pool
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config := util.GetClientConfig()
	if err := common.InitLoggers(config.LogLevel); err != nil {
		return err
	}

	s, err := util.GetSerializer()
	if err != nil {
		return err
	}
	valueSer = s

	rpcClient, err = client.New(config)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", config.Transport.Endpoint, err)
	}
	return nil
}

func closeClient(_ *cobra.Command, _ []string) error {
	if rpcClient == nil {
		return nil
	}
	return rpcClient.Close()
}
