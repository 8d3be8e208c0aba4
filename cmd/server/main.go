// Package main provides the CLI entrypoint for the rides dashboard.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/rides-dashboard-go/internal/config"
	"github.com/jengzang/rides-dashboard-go/internal/dataset"
	"github.com/jengzang/rides-dashboard-go/pkg/logger"
)

// rootOptions holds the flags shared by every subcommand
type rootOptions struct {
	configPath string
	csvPath    string
	dbPath     string
	logLevel   string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "rides-dashboard",
		Short:         "Ride-hailing analytics dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	flags.StringVar(&opts.csvPath, "csv", "", "rides CSV path or s3://bucket/key (overrides RIDES_CSV_PATH)")
	flags.StringVar(&opts.dbPath, "db", "", "SQLite query store path (overrides RIDES_DB_PATH)")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newBuildDBCmd(opts))
	rootCmd.AddCommand(newQueryCmd(opts))
	rootCmd.AddCommand(newKPICmd(opts))
	rootCmd.AddCommand(newTokenCmd(opts))

	return rootCmd
}

// load resolves the configuration (defaults, file, environment, flags) and
// builds the logger. One-shot commands log to stderr so stdout stays
// machine-readable.
func (o *rootOptions) load(cmd *cobra.Command, oneShot bool) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("csv") {
		cfg.CSVPath = o.csvPath
	}
	if flags.Changed("db") {
		cfg.DBPath = o.dbPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logger.LogLevel(o.logLevel)
	}
	if oneShot && cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// loadTable reads the rides extract named by the configuration
func loadTable(ctx context.Context, cfg *config.Config, log *logger.Logger) (*dataset.Table, string, error) {
	start := time.Now()

	src, err := dataset.OpenSource(ctx, cfg.CSVPath, dataset.S3Options{
		Region:   cfg.AWSRegion,
		Endpoint: cfg.S3Endpoint,
	})
	if err != nil {
		return nil, "", err
	}

	table, err := dataset.Load(ctx, src)
	if err != nil {
		return nil, "", err
	}

	log.LogDatasetLoaded(src.Name(), table.Len(), table.LoadStats().InvalidRatings, time.Since(start))
	return table, src.Name(), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
