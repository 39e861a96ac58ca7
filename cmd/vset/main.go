// Command vset is a small CLI front end over the index and expression
// packages: it has no persistence (the library is in-memory only), so
// its subcommands build a throwaway index or compile/evaluate a filter
// expression and print the result.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/vset/pkg/config"
	"github.com/liliang-cn/vset/pkg/expr"
	"github.com/liliang-cn/vset/pkg/logx"
)

var (
	configPath string
	verbose    bool
	logger     logx.Logger = logx.NopLogger()
)

var rootCmd = &cobra.Command{
	Use:   "vset",
	Short: "Tools for the in-memory HNSW index and filter expression compiler",
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Build a random index, validate it, and report recall@10",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("n")

		idx, err := cfg.NewIndex()
		if err != nil {
			return fmt.Errorf("vset: build index: %w", err)
		}

		rng := rand.New(rand.NewSource(1))
		for i := 0; i < n; i++ {
			v := make([]float32, cfg.Dimension)
			for j := range v {
				v[j] = float32(rng.NormFloat64())
			}
			if _, err := idx.Insert(v, int64(i), nil, cfg.EfConstruction); err != nil {
				return fmt.Errorf("vset: insert %d: %w", i, err)
			}
		}
		logger.Info("index built", "nodes", idx.Len(), "dimension", cfg.Dimension, "quantization", cfg.Quantization)

		report := idx.ValidateGraph()
		fmt.Printf("connected=%d reciprocal=%v cap_violations=%d\n",
			report.ConnectedCount, report.AllLinksReciprocal, report.CapViolations)

		stats := idx.Stats()
		fmt.Printf("nodes=%d edges=%d avg_edges=%.2f max_level=%d\n",
			stats.ActiveNodes, stats.TotalEdges, stats.AvgEdgesPerNode, stats.MaxLevel)

		sampleN := n
		if sampleN > 100 {
			sampleN = 100
		}
		recall, err := idx.TestGraphRecall(sampleN, 10, cfg.EfSearch)
		if err != nil {
			return fmt.Errorf("vset: recall: %w", err)
		}
		fmt.Printf("recall@10=%.4f\n", recall)
		return nil
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile <expr>",
	Short: "Compile a filter expression and print its postfix program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		program, err := expr.Compile(args[0])
		if err != nil {
			return fmt.Errorf("vset: %w", err)
		}
		fmt.Println(program.String())
		return nil
	},
}

var evalCmd = &cobra.Command{
	Use:   "eval <expr>",
	Short: "Compile and evaluate a filter expression against key=value selectors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bindings, _ := cmd.Flags().GetStringSlice("bind")
		resolve, err := resolverFromBindings(bindings)
		if err != nil {
			return err
		}

		program, err := expr.Compile(args[0])
		if err != nil {
			return fmt.Errorf("vset: %w", err)
		}
		result, err := expr.Evaluate(program, resolve)
		if err != nil {
			return fmt.Errorf("vset: %w", err)
		}
		fmt.Printf("%+v\n", result)
		return nil
	},
}

func resolverFromBindings(bindings []string) (expr.Resolver, error) {
	values := make(map[string]expr.Value, len(bindings))
	for _, b := range bindings {
		k, v, ok := strings.Cut(b, "=")
		if !ok {
			return nil, fmt.Errorf("vset: bad --bind %q, want .path=value", b)
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			values[k] = expr.Number(n)
		} else {
			values[k] = expr.String(v)
		}
	}
	return func(path string) (expr.Value, bool) {
		v, ok := values[path]
		return v, ok
	}, nil
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configPath)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	demoCmd.Flags().Int("n", 1000, "number of random vectors to insert")

	evalCmd.Flags().StringSlice("bind", nil, "selector binding .path=value, repeatable")

	rootCmd.AddCommand(demoCmd, compileCmd, evalCmd)
}

func main() {
	cobra.OnInitialize(func() {
		level := logx.LevelInfo
		if verbose {
			level = logx.LevelDebug
		}
		logger = logx.NewStdLogger(level)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
