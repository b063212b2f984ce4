package main

import (
	"fmt"
	"io"

	"stacks/internal/audit"
)

// sampleRows caps how many plan rows preview tables show.
const sampleRows = 10

// printRunOutcome reports a run's tallies and where its audit trail landed.
// Every workflow command ends with this, in both modes.
func printRunOutcome(out io.Writer, run audit.Run) {
	fmt.Fprintf(out, "Run %s: %s (planned %d, applied %d, failed %d, skipped %d",
		audit.ShortID(run.ID), run.Status, run.Planned, run.Applied, run.Failed, run.Skipped)
	if run.Warnings > 0 {
		fmt.Fprintf(out, ", warnings %d", run.Warnings)
	}
	fmt.Fprintln(out, ")")
	if run.SummaryPath != "" {
		fmt.Fprintf(out, "Audit log: %s\n", run.SummaryPath)
	}
}
