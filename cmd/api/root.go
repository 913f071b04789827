package main

import (
	"fmt"
	"os"

	"portfolio-analytics/internal/config"
	"portfolio-analytics/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg           config.Config
	logLevel      string
	storageDriver string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "portfolio-analytics",
	Short: "Visitor analytics collector and dashboard for the portfolio site",
	Long: `portfolio-analytics captures visitor events for the portfolio site,
keeps a local copy of everything it captures and delivers batches to a remote
collector. The dashboard commands read the local copy.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if storageDriver != "" {
			cfg.Storage.Driver = storageDriver
		}
		logger.Initialize(cfg.Env, cfg.LogLevel, cfg.LogFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&storageDriver, "storage", "", "Override STORAGE_DRIVER (sqlite, postgres, memory)")
}
