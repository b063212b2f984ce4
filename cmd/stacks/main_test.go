package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"stacks/internal/workflow"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"Success", nil, 0},
		{"Cancelled", fmt.Errorf("dedupe folders: %w", workflow.ErrCancelled), 2},
		{"Interrupted", context.Canceled, 2},
		{"Usage", fmt.Errorf("%w: --tokens must be positive", workflow.ErrUsage), 1},
		{"Failure", errors.New("scan failed"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestRootHelpListsCommands(t *testing.T) {
	stdout, _, err := runCLI(t, []string{"--help"}, "")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, name := range []string{"check", "scan", "dedupe", "partition", "runs", "config"} {
		requireContains(t, stdout, name)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	_, _, err := runCLI(t, []string{"definitely-not-a-command"}, "")
	if err == nil {
		t.Fatal("expected unknown command to error")
	}
}
