package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stacks/internal/audit"
)

// statusOrder fixes the display order of run-status tallies.
var statusOrder = []audit.RunStatus{
	audit.RunPreview,
	audit.RunCompleted,
	audit.RunPartial,
	audit.RunFailed,
	audit.RunCancelled,
}

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded runs",
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))

	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(journal *audit.Journal) error {
				runs, err := journal.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						audit.ShortID(run.ID),
						run.Operation,
						run.Mode,
						string(run.Status),
						run.StartedAt.Local().Format("2006-01-02 15:04:05"),
						strconv.Itoa(run.Planned),
						strconv.Itoa(run.Applied),
						strconv.Itoa(run.Failed),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Operation", "Mode", "Status", "Started", "Planned", "Applied", "Failed"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))

				stats, err := journal.Stats(cmd.Context())
				if err != nil {
					return err
				}
				parts := make([]string, 0, len(statusOrder))
				for _, status := range statusOrder {
					if n := stats[status]; n > 0 {
						parts = append(parts, fmt.Sprintf("%d %s", n, status))
					}
				}
				if len(parts) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "All runs: %s\n", strings.Join(parts, ", "))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its recorded actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(journal *audit.Journal) error {
				run, err := journal.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %q not found", args[0])
				}
				actions, err := journal.ActionsForRun(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, struct {
						Run     audit.Run      `json:"run"`
						Actions []audit.Record `json:"actions"`
					}{*run, actions})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:       %s\n", run.ID)
				fmt.Fprintf(out, "Operation: %s (%s)\n", run.Operation, run.Mode)
				fmt.Fprintf(out, "Status:    %s\n", run.Status)
				fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format(time.RFC3339))
				if !run.FinishedAt.IsZero() {
					fmt.Fprintf(out, "Finished:  %s (%s)\n",
						run.FinishedAt.Local().Format(time.RFC3339),
						run.Duration().Round(time.Millisecond))
				}
				fmt.Fprintf(out, "Counts:    planned %d, applied %d, failed %d, skipped %d, warnings %d\n",
					run.Planned, run.Applied, run.Failed, run.Skipped, run.Warnings)
				if run.SummaryPath != "" {
					fmt.Fprintf(out, "Summary:   %s\n", run.SummaryPath)
				}
				if len(actions) == 0 {
					return nil
				}

				rows := make([][]string, 0, len(actions))
				for _, action := range actions {
					rows = append(rows, []string{
						strconv.Itoa(action.Seq),
						string(action.Kind),
						string(action.Status),
						action.Identifier,
						action.Detail,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Seq", "Kind", "Status", "Identifier", "Detail"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}
