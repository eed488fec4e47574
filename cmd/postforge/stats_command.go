package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"postforge/internal/logging"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var detail bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show queue and publishing statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p := buildPipeline(cfg, logging.NewNop())

			stats, err := p.pub.Stats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Total posts", strconv.Itoa(stats.Total)},
				{"Published", strconv.Itoa(stats.Published)},
				{"Queued", strconv.Itoa(stats.Unpublished)},
				{"Queued (text only)", strconv.Itoa(stats.UnpublishedText)},
				{"Queued (with media)", strconv.Itoa(stats.UnpublishedMedia)},
				{"Posted today", strconv.Itoa(stats.PostedToday)},
			}
			fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

			if !detail {
				return nil
			}
			units, err := p.pub.Unpublished()
			if err != nil {
				return err
			}
			if len(units) == 0 {
				fmt.Fprintln(out, "Queue is empty")
				return nil
			}
			detailRows := make([][]string, 0, len(units))
			for _, unit := range units {
				detailRows = append(detailRows, []string{
					unit.ID,
					unit.Topic,
					unit.CreatedAt.Format("2006-01-02 15:04"),
					yesNo(unit.HasMedia()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Unit", "Topic", "Created", "Media"},
				detailRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&detail, "detail", false, "List every queued post")
	return cmd
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
