package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bnema/addonctl/internal/config"
	"github.com/bnema/addonctl/internal/logger"
)

// Version info set via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
)

var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "addonctl",
	Short:   "WoW addon update manager",
	Version: version + " (" + commit + ")",
	Long: `A Go CLI tool to keep World of Warcraft addons up to date.
Checks WoWInterface for newer releases and downloads them.

Quick start:
  addonctl check     Look up the latest versions
  addonctl update    Download every addon with an update`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if err := cfg.EnsureDirs(); err != nil {
			return err
		}

		if err := logger.Init(cfg.CacheDir, verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: logging to stderr only: %v\n", err)
		}

		logger.Debug("Configuration loaded",
			"file", cfg.File,
			"addons_dir", cfg.AddonsDir,
			"data_dir", cfg.DataDir,
			"download_dir", cfg.DownloadDir,
			"concurrency", cfg.Concurrency,
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

// Execute runs the root command. Ctrl+C cancels in-flight requests and
// downloads, leaving any partial archive on disk.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug logging")
}
