package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stacks/internal/config"
	"stacks/internal/dedupe"
	"stacks/internal/identifier"
	"stacks/internal/workflow"
)

func newDedupeCommand(ctx *commandContext) *cobra.Command {
	dedupeCmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Remove duplicate folders or catalog entries",
	}

	dedupeCmd.AddCommand(newDedupeFoldersCommand(ctx))
	dedupeCmd.AddCommand(newDedupeCatalogCommand(ctx))

	return dedupeCmd
}

func newDedupeFoldersCommand(ctx *commandContext) *cobra.Command {
	var execute bool
	var tokens int

	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Remove duplicate thumbnail folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tokens") {
				if tokens <= 0 {
					return fmt.Errorf("%w: --tokens must be positive", workflow.ErrUsage)
				}
				cfg.Dedupe.FolderTokens = tokens
			}
			return ctx.withController(cmd, func(ctrl *workflow.Controller) error {
				report, err := ctrl.DedupeFolders(cmd.Context(), workflow.ModeFor(execute))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report.Run)
				}
				out := cmd.OutOrStdout()
				if !execute {
					printFolderDedupePlan(out, report.Plan)
					if report.Plan.Duplicates > 0 {
						fmt.Fprintln(out, "Preview only; add --execute to remove duplicates.")
					}
				}
				printRunOutcome(out, report.Run)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the plan instead of previewing it")
	cmd.Flags().IntVar(&tokens, "tokens", 0, "Identifier tokens used for grouping (defaults to config)")
	return cmd
}

func newDedupeCatalogCommand(ctx *commandContext) *cobra.Command {
	var execute bool
	var tokens int
	var output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Write a catalog with duplicate entries removed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tokens") {
				if tokens <= 0 {
					return fmt.Errorf("%w: --tokens must be positive", workflow.ErrUsage)
				}
				cfg.Dedupe.CatalogTokens = tokens
			}
			outputPath, err := resolveOutputFlag(output)
			if err != nil {
				return err
			}
			return ctx.withController(cmd, func(ctrl *workflow.Controller) error {
				report, err := ctrl.DedupeCatalog(cmd.Context(), workflow.ModeFor(execute), outputPath)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report.Run)
				}
				out := cmd.OutOrStdout()
				if !execute {
					printCatalogDedupePlan(out, report.Plan, report.OutputPath)
					if report.Plan.Duplicates > 0 {
						fmt.Fprintln(out, "Preview only; add --execute to write the deduplicated catalog.")
					}
				}
				printRunOutcome(out, report.Run)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the plan instead of previewing it")
	cmd.Flags().IntVar(&tokens, "tokens", 0, "Identifier tokens used for grouping (defaults to config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output catalog path (defaults to the configured suffix)")
	return cmd
}

// resolveOutputFlag expands a user-supplied output path; an empty flag
// leaves the choice to the controller's configured default.
func resolveOutputFlag(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	return config.ExpandPath(trimmed)
}

func printFolderDedupePlan(out io.Writer, plan dedupe.FolderPlan) {
	fmt.Fprintf(out, "%d folders form %d groups with %d duplicates (%d tokens)\n",
		plan.Total, plan.Groups, plan.Duplicates, plan.Tokens)
	if len(plan.Actions) == 0 {
		fmt.Fprintln(out, "No duplicate folders found.")
		return
	}
	rows := make([][]string, 0, sampleRows)
	for i, action := range plan.Actions {
		if i == sampleRows {
			break
		}
		rows = append(rows, []string{
			identifier.DisplayTitle(action.Base),
			action.Keep.Name,
			strconv.Itoa(len(action.Remove)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Keep", "Remove"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))
	if len(plan.Actions) > sampleRows {
		fmt.Fprintf(out, "and %d more groups\n", len(plan.Actions)-sampleRows)
	}
}

func printCatalogDedupePlan(out io.Writer, plan dedupe.CatalogPlan, outputPath string) {
	fmt.Fprintf(out, "%d entries form %d groups with %d duplicates (%d tokens, %d without identifier)\n",
		plan.Total, plan.Groups, plan.Duplicates, plan.Tokens, plan.Skipped)
	if len(plan.Actions) == 0 {
		fmt.Fprintln(out, "No duplicate entries found.")
		return
	}
	rows := make([][]string, 0, sampleRows)
	for i, action := range plan.Actions {
		if i == sampleRows {
			break
		}
		rows = append(rows, []string{
			identifier.DisplayTitle(action.Base),
			action.Keep.Identifier(),
			strconv.Itoa(len(action.Remove)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Title", "Keep", "Remove"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight},
	))
	if len(plan.Actions) > sampleRows {
		fmt.Fprintf(out, "and %d more groups\n", len(plan.Actions)-sampleRows)
	}
	fmt.Fprintf(out, "Output: %s (%d entries)\n", outputPath, len(plan.Kept))
}
