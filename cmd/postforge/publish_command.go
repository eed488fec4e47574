package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"postforge/internal/logging"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [count]",
		Short: "Publish queued posts",
		Long: `Publish picks unpublished posts from the queue and pushes them through a
fresh browser session, one at a time with a randomized pause between posts.
The daily cap from the configuration applies.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := parseCountArg(args, 1)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			p := buildPipeline(cfg, logger)

			published, err := p.pub.PublishBatch(cmd.Context(), count)
			fmt.Fprintf(cmd.OutOrStdout(), "Published %d post(s)\n", published)
			return err
		},
	}
	return cmd
}
