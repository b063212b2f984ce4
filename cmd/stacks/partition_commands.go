package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stacks/internal/partition"
	"stacks/internal/workflow"
)

func newPartitionCommand(ctx *commandContext) *cobra.Command {
	partitionCmd := &cobra.Command{
		Use:   "partition",
		Short: "Reorganize thumbnails into year directories",
	}

	partitionCmd.AddCommand(newPartitionFoldersCommand(ctx))
	partitionCmd.AddCommand(newPartitionCatalogCommand(ctx))

	return partitionCmd
}

func newPartitionFoldersCommand(ctx *commandContext) *cobra.Command {
	var execute bool

	cmd := &cobra.Command{
		Use:   "folders",
		Short: "Move root-level thumbnail folders into year directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withController(cmd, func(ctrl *workflow.Controller) error {
				report, err := ctrl.PartitionFolders(cmd.Context(), workflow.ModeFor(execute))
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report.Run)
				}
				out := cmd.OutOrStdout()
				if !execute {
					printFolderPartitionPlan(out, report.Plan)
					if len(report.Plan.Moves) > 0 {
						fmt.Fprintln(out, "Preview only; add --execute to move folders.")
					}
				}
				printRunOutcome(out, report.Run)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the plan instead of previewing it")
	return cmd
}

func newPartitionCatalogCommand(ctx *commandContext) *cobra.Command {
	var execute bool
	var output string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Write a catalog with thumbnail paths matched to the year layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath, err := resolveOutputFlag(output)
			if err != nil {
				return err
			}
			return ctx.withController(cmd, func(ctrl *workflow.Controller) error {
				report, err := ctrl.PartitionCatalog(cmd.Context(), workflow.ModeFor(execute), outputPath)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, report.Run)
				}
				out := cmd.OutOrStdout()
				if !execute {
					printAnnotateStats(out, report.Stats, report.OutputPath)
					fmt.Fprintln(out, "Preview only; add --execute to write the annotated catalog.")
				}
				printRunOutcome(out, report.Run)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&execute, "execute", false, "Apply the plan instead of previewing it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output catalog path (defaults to the configured suffix)")
	return cmd
}

func printFolderPartitionPlan(out io.Writer, plan partition.FolderPlan) {
	fmt.Fprintf(out, "%d folders: %d to move, %d unknown year, %d already placed\n",
		plan.Total, len(plan.Moves), len(plan.UnknownYear), plan.AlreadyPlaced)

	if len(plan.Moves) > 0 {
		perYear := make(map[string]int)
		for _, move := range plan.Moves {
			perYear[move.Year]++
		}
		years := make([]string, 0, len(perYear))
		for year := range perYear {
			years = append(years, year)
		}
		sort.Strings(years)
		rows := make([][]string, 0, len(years))
		for _, year := range years {
			rows = append(rows, []string{year, strconv.Itoa(perYear[year])})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Year", "Moves"},
			rows,
			[]columnAlignment{alignLeft, alignRight},
		))
	}

	if len(plan.UnknownYear) > 0 {
		names := make([]string, 0, sampleRows)
		for i, record := range plan.UnknownYear {
			if i == sampleRows {
				break
			}
			names = append(names, record.Name)
		}
		suffix := ""
		if len(plan.UnknownYear) > sampleRows {
			suffix = fmt.Sprintf(" and %d more", len(plan.UnknownYear)-sampleRows)
		}
		fmt.Fprintf(out, "Staying put (year unknown): %s%s\n", strings.Join(names, ", "), suffix)
	}
}

func printAnnotateStats(out io.Writer, stats partition.AnnotateStats, outputPath string) {
	fmt.Fprintf(out, "%d entries: %d updated, %d not yet moved, %d missing folders, %d unknown year, %d without identifier\n",
		stats.Total, stats.Updated, stats.NotMoved, stats.Missing, stats.UnknownYear, stats.NoIdentifier)
	fmt.Fprintf(out, "Output: %s\n", outputPath)
}
