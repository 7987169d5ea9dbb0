package store

import (
	"encoding/csv"
	"fmt"
	"github.com/ValentinKolb/dRESP/cmd/util"
	"github.com/ValentinKolb/dRESP/lib/collection"
	"github.com/ValentinKolb/dRESP/rpc/common"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for RESP stores",
		Long:    "Runs each benchmark with the configured number of goroutines sharing one connection pool and reports latency percentiles and throughput",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix        = "__test"
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfOps              = 10_000
	perfKeySpread        = 100
	perfSkip             = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines issuing commands concurrently"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 10_000, util.WrapString("Number of operations per benchmark"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = max(viper.GetInt("keys"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfOps = max(viper.GetInt("ops"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

// benchmark is one named workload. setup and cleanup run untimed, op is
// called perfOps times spread over perfNumThreads goroutines.
type benchmark struct {
	name    string
	setup   func(keys []string) error
	op      func(i int, key string) error
	cleanup func(keys []string) error
}

// benchResult holds the timer of a finished benchmark and its wall time
type benchResult struct {
	name    string
	skipped bool
	timer   gometrics.Timer
	errors  gometrics.Counter
	elapsed time.Duration
}

func runPerf(_ *cobra.Command, _ []string) error {
	config := rpcClient.Config()

	fmt.Println("Performance testing tool for RESP stores")

	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(config.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Operations: %d\n", perfOps)
	fmt.Println()

	fmt.Println("starting tests...")

	registry := gometrics.NewRegistry()
	results := make([]benchResult, 0)

	for _, b := range benchmarks() {
		r := runBenchmark(registry, b)
		printResult(r)
		results = append(results, r)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, config); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

func benchmarks() []benchmark {
	value := []byte("test")
	largeValue := make([]byte, perfLargeValueSizeKB*1024)

	setAll := func(keys []string) error {
		for _, k := range keys {
			if _, err := rpcClient.DoStrings("SET", k, "test"); err != nil {
				return err
			}
		}
		return nil
	}
	delAll := func(keys []string) error {
		for _, k := range keys {
			if _, err := rpcClient.DoStrings("DEL", k); err != nil {
				return err
			}
		}
		return nil
	}

	return []benchmark{
		{
			name: "set",
			op: func(_ int, key string) error {
				return collection.NewBlob(rpcClient, key).Set(value)
			},
			cleanup: delAll,
		},
		{
			name: "set-large",
			op: func(_ int, key string) error {
				return collection.NewBlob(rpcClient, key).Set(largeValue)
			},
			cleanup: delAll,
		},
		{
			name:  "get",
			setup: setAll,
			op: func(_ int, key string) error {
				_, _, err := collection.NewBlob(rpcClient, key).Get()
				return err
			},
			cleanup: delAll,
		},
		{
			name:  "delete",
			setup: setAll,
			op: func(_ int, key string) error {
				_, err := rpcClient.DoStrings("DEL", key)
				return err
			},
			cleanup: delAll,
		},
		{
			name:  "has",
			setup: setAll,
			op: func(_ int, key string) error {
				_, err := rpcClient.DoStrings("EXISTS", key)
				return err
			},
			cleanup: delAll,
		},
		{
			name: "map-insert",
			op: func(i int, key string) error {
				return collection.NewMap[int, string](rpcClient, key, valueSer).Insert(i, "test")
			},
			cleanup: delAll,
		},
		{
			name:  "mixed",
			setup: setAll,
			op: func(i int, key string) error {
				blob := collection.NewBlob(rpcClient, key)
				var err error
				switch i % 4 {
				case 0:
					err = blob.Set(value)
				case 1:
					_, _, err = blob.Get()
				case 2:
					err = blob.Clear()
				case 3:
					_, err = blob.Len()
				}
				return err
			},
			cleanup: delAll,
		},
	}
}

// runBenchmark runs b and records the latency of every operation in a
// timer registered under the benchmark name
func runBenchmark(registry gometrics.Registry, b benchmark) benchResult {
	if shouldSkip(b.name) {
		return benchResult{name: b.name, skipped: true}
	}

	keys := getKeys(b.name)
	if b.setup != nil {
		if err := b.setup(keys); err != nil {
			fmt.Printf("(%s) - setup failed: %v\n", b.name, err)
			return benchResult{name: b.name, skipped: true}
		}
	}

	timer := gometrics.GetOrRegisterTimer(b.name+".latency", registry)
	errCount := gometrics.GetOrRegisterCounter(b.name+".errors", registry)

	var wg sync.WaitGroup
	start := time.Now()
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(t int) {
			defer wg.Done()
			for i := t; i < perfOps; i += perfNumThreads {
				opStart := time.Now()
				err := b.op(i, keys[i%len(keys)])
				timer.UpdateSince(opStart)
				if err != nil {
					errCount.Inc(1)
					if errCount.Count() == 1 {
						fmt.Printf("(%s) - first error: %v\n", b.name, err)
					}
				}
			}
		}(t)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if b.cleanup != nil {
		if err := b.cleanup(keys); err != nil {
			fmt.Printf("(%s) - cleanup failed: %v\n", b.name, err)
		}
	}

	return benchResult{
		name:    b.name,
		timer:   timer,
		errors:  errCount,
		elapsed: elapsed,
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// getKeys creates the test keys of one benchmark
func getKeys(prefix string) []string {
	keys := make([]string, perfKeySpread)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}
	return keys
}

// opsPerSec returns the throughput of a finished benchmark
func (r benchResult) opsPerSec() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	return float64(r.timer.Count()) / r.elapsed.Seconds()
}

// printResult prints the result of a benchmark in a formatted way
func printResult(r benchResult) {
	if r.skipped {
		fmt.Printf("%-20sskipped\n", r.name)
		return
	}

	s := r.timer.Snapshot()
	ps := s.Percentiles([]float64{0.5, 0.99})
	fmt.Printf("%-20smean %s\tp50 %s\tp99 %s\t%.0f ops/sec\t%d errors\n",
		r.name,
		time.Duration(s.Mean()),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		r.opsPerSec(),
		r.errors.Count(),
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []benchResult, config common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "MeanNs", "P50Ns", "P99Ns", "OpsPerSec", "Errors", "Skipped",
		"Transport", "Endpoint", "PoolSize", "Serializer",
		"Threads", "Ops", "LargeValueSizeKB", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	for _, r := range results {
		var mean, p50, p99, opsPerSec float64
		var errCount int64
		if !r.skipped {
			s := r.timer.Snapshot()
			ps := s.Percentiles([]float64{0.5, 0.99})
			mean, p50, p99 = s.Mean(), ps[0], ps[1]
			opsPerSec = r.opsPerSec()
			errCount = r.errors.Count()
		}

		row := []string{
			r.name,
			fmt.Sprintf("%.0f", mean),
			fmt.Sprintf("%.0f", p50),
			fmt.Sprintf("%.0f", p99),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(errCount, 10),
			strconv.FormatBool(r.skipped),
			config.Transport.Type,
			config.Transport.Endpoint,
			strconv.Itoa(config.PoolSize()),
			valueSer.Name(),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfOps),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", r.name, err)
		}
	}

	return nil
}
