package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"portfolio-analytics/internal/events/core/ports"
	eventsUsecase "portfolio-analytics/internal/events/core/usecase"
	metricsUsecase "portfolio-analytics/internal/metrics/core/usecase"

	"github.com/spf13/cobra"
)

var (
	exportDir    string
	clearConfirm bool
)

// withDashboard opens the configured storage for the duration of fn.
func withDashboard(ctx context.Context, fn func(uc *metricsUsecase.DashboardUseCase, kv ports.KeyValueStorePort) error) error {
	kv, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer releaseStore(closeStore)

	store := eventsUsecase.NewLocalStore(kv, 0)
	return fn(metricsUsecase.NewDashboardUseCase(store, time.Local), kv)
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print dashboard statistics for the local event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd.Context(), func(uc *metricsUsecase.DashboardUseCase, _ ports.KeyValueStorePort) error {
			s := uc.Summary(cmd.Context())
			if s == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No analytics data yet.")
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the local event log to analytics-YYYY-MM-DD.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDashboard(cmd.Context(), func(uc *metricsUsecase.DashboardUseCase, _ ports.KeyValueStorePort) error {
			exp, err := uc.Export(cmd.Context())
			if err != nil {
				return err
			}
			path := filepath.Join(exportDir, exp.Filename)
			if err := os.WriteFile(path, exp.Content, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", exp.Events, path)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the local event log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearConfirm {
			return fmt.Errorf("refusing to clear without --yes")
		}
		return withDashboard(cmd.Context(), func(uc *metricsUsecase.DashboardUseCase, _ ports.KeyValueStorePort) error {
			uc.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Local analytics cleared.")
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Directory to write the export into")
	clearCmd.Flags().BoolVar(&clearConfirm, "yes", false, "Confirm deletion")

	rootCmd.AddCommand(summaryCmd, exportCmd, clearCmd)
}
