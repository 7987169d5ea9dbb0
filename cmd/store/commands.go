package store

import (
	"fmt"
	"github.com/ValentinKolb/dRESP/lib/collection"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"os"
)

var (
	doCmd = &cobra.Command{
		Use:   "do [command] [args...]",
		Short: "Sends a raw command and prints the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := rpcClient.DoStrings(args...)
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		},
	}
	pingCmd = &cobra.Command{
		Use:   "ping",
		Short: "Checks that the store answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rpcClient.Ping(); err != nil {
				return err
			}
			fmt.Println("PONG")
			return nil
		},
	}
	metricsCmd = &cobra.Command{
		Use:   "metrics [command] [args...]",
		Short: "Runs an optional command and prints pool and process metrics",
		Long:  "Runs the given command (if any) through the pool and prints the pool and process metrics in Prometheus text format",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if _, err := rpcClient.DoStrings(args...); err != nil {
					return err
				}
			}
			rpcClient.WriteMetrics(os.Stdout)
			metrics.WriteProcessMetrics(os.Stdout)
			return nil
		},
	}

	blobCommands = &cobra.Command{
		Use:   "blob",
		Short: "Raw byte values stored under a key",
	}
	blobSetCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value of a blob",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := collection.NewBlob(rpcClient, args[0]).Set([]byte(args[1])); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	blobGetCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value of a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := collection.NewBlob(rpcClient, args[0]).Get()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, value=%s\n", args[0], ok, v)
			return nil
		},
	}
	blobLenCmd = &cobra.Command{
		Use:   "len [key]",
		Short: "Prints the length of a blob in bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := collection.NewBlob(rpcClient, args[0]).Len()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, len=%d\n", args[0], n)
			return nil
		},
	}
	blobClearCmd = &cobra.Command{
		Use:   "clear [key]",
		Short: "Deletes a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := collection.NewBlob(rpcClient, args[0]).Clear(); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}
)

func init() {
	blobCommands.AddCommand(blobSetCmd)
	blobCommands.AddCommand(blobGetCmd)
	blobCommands.AddCommand(blobLenCmd)
	blobCommands.AddCommand(blobClearCmd)
}
