package store

import (
	"fmt"
	"github.com/ValentinKolb/dRESP/lib/collection"
	"github.com/spf13/cobra"
	"strconv"
)

// Values given on the command line are stored as strings encoded with the
// serializer selected by --serializer.

var (
	// cell

	cellCommands = &cobra.Command{
		Use:   "cell",
		Short: "Single serialized values stored under a key",
	}
	cellSetCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value of a cell",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := collection.NewCell[string](rpcClient, args[0], valueSer).Set(args[1]); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	cellGetCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value of a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := collection.NewCell[string](rpcClient, args[0], valueSer).Get()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, value=%s\n", args[0], ok, v)
			return nil
		},
	}
	cellClearCmd = &cobra.Command{
		Use:   "clear [key]",
		Short: "Deletes a cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := collection.NewCell[string](rpcClient, args[0], valueSer).Clear(); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}

	// map

	mapCommands = &cobra.Command{
		Use:   "map",
		Short: "Hash maps of serialized fields and values",
	}
	mapInsertCmd = &cobra.Command{
		Use:   "insert [key] [field] [value]",
		Short: "Inserts or replaces a field",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newMap(args[0]).Insert(args[1], args[2]); err != nil {
				return err
			}
			fmt.Println("inserted successfully")
			return nil
		},
	}
	mapGetCmd = &cobra.Command{
		Use:   "get [key] [field]",
		Short: "Reads the value of a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := newMap(args[0]).Get(args[1])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, field=%s, found=%v, value=%s\n", args[0], args[1], ok, v)
			return nil
		},
	}
	mapRemoveCmd = &cobra.Command{
		Use:   "remove [key] [field]",
		Short: "Removes a field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newMap(args[0]).Remove(args[1]); err != nil {
				return err
			}
			fmt.Println("removed successfully")
			return nil
		},
	}
	mapHasCmd = &cobra.Command{
		Use:   "has [key] [field]",
		Short: "Checks if a field exists",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := newMap(args[0]).ContainsKey(args[1])
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, field=%s, found=%t\n", args[0], args[1], found)
			return nil
		},
	}
	mapLenCmd = &cobra.Command{
		Use:   "len [key]",
		Short: "Prints the number of fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newMap(args[0]).Len()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, len=%d\n", args[0], n)
			return nil
		},
	}
	mapIterCmd = &cobra.Command{
		Use:   "iter [key]",
		Short: "Prints every field and value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return newMap(args[0]).Iter(func(f, v string) error {
				fmt.Printf("%s=%s\n", f, v)
				return nil
			})
		},
	}
	mapClearCmd = &cobra.Command{
		Use:   "clear [key]",
		Short: "Deletes a map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newMap(args[0]).Clear(); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}

	// list

	listCommands = &cobra.Command{
		Use:   "list",
		Short: "Append-only lists of serialized values",
	}
	listPushCmd = &cobra.Command{
		Use:   "push [key] [values...]",
		Short: "Appends values to the end of a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newList(args[0]).Push(args[1:]...)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, len=%d\n", args[0], n)
			return nil
		},
	}
	listLenCmd = &cobra.Command{
		Use:   "len [key]",
		Short: "Prints the number of elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newList(args[0]).Len()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, len=%d\n", args[0], n)
			return nil
		},
	}
	listRangeCmd = &cobra.Command{
		Use:   "range [key] [start] [stop]",
		Short: "Prints the elements from start to stop (inclusive, negative counts from the end)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("start must be a number: %w", err)
			}
			stop, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("stop must be a number: %w", err)
			}
			vs, err := newList(args[0]).Range(start, stop)
			if err != nil {
				return err
			}
			for i, v := range vs {
				fmt.Printf("%d) %s\n", i+1, v)
			}
			return nil
		},
	}
	listClearCmd = &cobra.Command{
		Use:   "clear [key]",
		Short: "Deletes a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newList(args[0]).Clear(); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}

	// bits

	bitsCommands = &cobra.Command{
		Use:   "bits",
		Short: "Bit vectors stored as byte strings",
	}
	bitsGetCmd = &cobra.Command{
		Use:   "get [key] [index]",
		Short: "Reads one bit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			bit, err := collection.NewBitVec(rpcClient, args[0]).Get(i)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, index=%d, bit=%t\n", args[0], i, bit)
			return nil
		},
	}
	bitsSetCmd = &cobra.Command{
		Use:   "set [key] [index] [true|false]",
		Short: "Sets one bit and prints its previous value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("index must be a number: %w", err)
			}
			v, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("value must be a boolean: %w", err)
			}
			prev, err := collection.NewBitVec(rpcClient, args[0]).Set(i, v)
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, index=%d, previous=%t\n", args[0], i, prev)
			return nil
		},
	}
	bitsSumCmd = &cobra.Command{
		Use:   "sum [key]",
		Short: "Prints the number of set bits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := collection.NewBitVec(rpcClient, args[0]).Sum()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, sum=%d\n", args[0], n)
			return nil
		},
	}
	bitsFirstCmd = &cobra.Command{
		Use:   "first [key]",
		Short: "Prints the index of the first set bit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, ok, err := collection.NewBitVec(rpcClient, args[0]).FindFirst()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, found=%v, index=%d\n", args[0], ok, i)
			return nil
		},
	}
	bitsLenCmd = &cobra.Command{
		Use:   "len [key]",
		Short: "Prints the length of the vector in bits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := collection.NewBitVec(rpcClient, args[0]).Len()
			if err != nil {
				return err
			}
			fmt.Printf("key=%s, len=%d\n", args[0], n)
			return nil
		},
	}
	bitsClearCmd = &cobra.Command{
		Use:   "clear [key]",
		Short: "Deletes a bit vector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := collection.NewBitVec(rpcClient, args[0]).Clear(); err != nil {
				return err
			}
			fmt.Println("deleted successfully")
			return nil
		},
	}
)

func init() {
	cellCommands.AddCommand(cellSetCmd, cellGetCmd, cellClearCmd)
	mapCommands.AddCommand(mapInsertCmd, mapGetCmd, mapRemoveCmd, mapHasCmd, mapLenCmd, mapIterCmd, mapClearCmd)
	listCommands.AddCommand(listPushCmd, listLenCmd, listRangeCmd, listClearCmd)
	bitsCommands.AddCommand(bitsGetCmd, bitsSetCmd, bitsSumCmd, bitsFirstCmd, bitsLenCmd, bitsClearCmd)
}

func newMap(key string) *collection.Map[string, string] {
	return collection.NewMap[string, string](rpcClient, key, valueSer)
}

func newList(key string) *collection.List[string] {
	return collection.NewList[string](rpcClient, key, valueSer)
}
