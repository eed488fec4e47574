package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"postforge/internal/logging"
)

func newMaintainCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "maintain",
		Short: "Run maintenance once: daily report, pruning, backend probe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			p := buildPipeline(cfg, logger)
			if err := p.sched.RunMaintenanceNow(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Maintenance complete; report written to %s\n", cfg.ReportsDir())
			return nil
		},
	}
}
