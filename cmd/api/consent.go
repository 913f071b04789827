package main

import (
	"fmt"

	"portfolio-analytics/internal/events/core/ports"
	eventsUsecase "portfolio-analytics/internal/events/core/usecase"
	metricsUsecase "portfolio-analytics/internal/metrics/core/usecase"

	"github.com/spf13/cobra"
)

var consentCmd = &cobra.Command{
	Use:   "consent [status|enable|disable]",
	Short: "Show or change the analytics consent state",
	Long: `Show or change the analytics consent state stored in the configured backend.

A running serve process sharing the same storage picks up the change on its
next flush tick (FLUSH_INTERVAL).`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"status", "enable", "disable"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "status"
		if len(args) == 1 {
			action = args[0]
		}

		return withDashboard(cmd.Context(), func(_ *metricsUsecase.DashboardUseCase, kv ports.KeyValueStorePort) error {
			gate := eventsUsecase.NewConsentGate(cmd.Context(), kv)
			switch action {
			case "enable":
				gate.Enable(cmd.Context())
			case "disable":
				gate.Disable(cmd.Context())
			}

			state := "enabled"
			if !gate.IsEnabled() {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Analytics %s\n", state)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(consentCmd)
}
