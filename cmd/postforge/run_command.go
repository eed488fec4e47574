package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"postforge/internal/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the autonomous scheduler",
		Long: `Run starts the cron-driven pipeline: content generation tops the queue up
to min_queue_size, publishing pushes one post per tick within the daily cap,
and nightly maintenance writes reports and prunes old files. The process
runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			logging.CleanupOldFiles(logger, cfg.Logging.RetentionDays,
				logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: logging.LogFilePattern})

			p := buildPipeline(cfg, logger)
			if err := p.sched.Start(signalCtx); err != nil {
				return err
			}
			for name, next := range p.sched.NextRuns() {
				logger.Info("scheduled job",
					logging.String("job", name),
					logging.String("next_run", next.Format(time.RFC3339)))
			}

			<-signalCtx.Done()
			logger.Info("shutting down")

			stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer stopCancel()
			return p.sched.Stop(stopCtx)
		},
	}
}
