package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stacks/internal/alignment"
	"stacks/internal/catalog"
	"stacks/internal/preflight"
	"stacks/internal/shelf"
	"stacks/internal/workflow"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check path readiness and folder/catalog duplicate alignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			results := preflight.RunAll(cfg)
			for _, result := range results {
				marker := "ok"
				if !result.Passed {
					marker = "FAIL"
				}
				fmt.Fprintf(out, "  %-16s [%s] %s\n", result.Name+":", marker, result.Detail)
			}
			if !preflight.AllPassed(results) {
				return fmt.Errorf("%w: fix the reported paths before running stacks", workflow.ErrPreflight)
			}

			tree, err := shelf.Scan(cfg.Paths.ThumbsDir)
			if err != nil {
				return err
			}
			entries, err := catalog.Load(cfg.Paths.CatalogPath)
			if err != nil {
				return err
			}

			report := alignment.Check(tree.Records, entries,
				cfg.Dedupe.FolderTokens, cfg.Dedupe.CatalogTokens, cfg.Alignment.WarnGap)
			if ctx.jsonOutput() {
				return writeJSON(cmd, report)
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Side", "Tokens", "Total", "Groups", "Duplicates", "Skipped", "Reduction"},
				[][]string{alignmentRow(report.Folders), alignmentRow(report.Catalog)},
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "Reduction gap: %.1f points (warn above %.1f)\n", report.Gap, report.WarnGap)
			if report.Misaligned {
				fmt.Fprintln(out, "Warning: one side looks deduplicated while the other does not. Review before partitioning.")
			} else {
				fmt.Fprintln(out, "Folders and catalog are aligned.")
			}
			return nil
		},
	}
}

func alignmentRow(side alignment.Side) []string {
	return []string{
		side.Label,
		strconv.Itoa(side.Tokens),
		strconv.Itoa(side.Total),
		strconv.Itoa(side.Groups),
		strconv.Itoa(side.Duplicates),
		strconv.Itoa(side.Skipped),
		fmt.Sprintf("%.1f%%", side.Reduction),
	}
}
