package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"postforge/internal/logging"
	"postforge/internal/textgen"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var domainFlag string
	var promptFlag string
	var textOnly bool

	cmd := &cobra.Command{
		Use:   "generate [count]",
		Short: "Generate posts into the queue",
		Args:  cobra.MaximumNArgs(1),
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

			domain := strings.TrimSpace(domainFlag)
			if domain != "" && !validDomain(domain) {
				return fmt.Errorf("unknown content domain %q (see `postforge generate --help`)", domain)
			}

			out := cmd.OutOrStdout()
			created := 0
			for i := 0; i < count; i++ {
				unitDomain := domain
				if unitDomain == "" {
					unitDomain = textgen.Domains()[i%len(textgen.Domains())]
				}
				draft := p.text.Generate(cmd.Context(), promptFlag, unitDomain)
				unit, err := p.store.CreateUnit(draft.Content, unitDomain)
				if err != nil {
					return fmt.Errorf("persist post: %w", err)
				}
				created++
				line := fmt.Sprintf("Created %s (%s, %s)", unit.ID, unitDomain, draft.Source)

				if !textOnly {
					imagePath, imgErr := p.images.GenerateImage(cmd.Context(), draft.Content, unitDomain, filepath.Join(unit.Dir, "post-image.png"))
					if imgErr != nil {
						line += " [image failed, text-only]"
					} else {
						line += fmt.Sprintf(" [image %s]", filepath.Base(imagePath))
					}
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "Generated %d post(s)\n", created)
			return nil
		},
	}

	cmd.Flags().StringVar(&domainFlag, "domain", "", "Content domain to generate on (default rotates through all domains)")
	cmd.Flags().StringVar(&promptFlag, "prompt", "", "Custom generation prompt")
	cmd.Flags().BoolVar(&textOnly, "text-only", false, "Skip image generation")
	return cmd
}

func validDomain(domain string) bool {
	for _, d := range textgen.Domains() {
		if d == domain {
			return true
		}
	}
	return false
}
