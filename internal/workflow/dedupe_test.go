package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stacks/internal/audit"
	"stacks/internal/catalog"
	"stacks/internal/config"
	"stacks/internal/fileutil"
	"stacks/internal/logging"
	"stacks/internal/testsupport"
	"stacks/internal/workflow"
)

func newTestController(t *testing.T, cfg *config.Config, confirmer workflow.Confirmer) (*workflow.Controller, *audit.Journal) {
	t.Helper()

	journal := testsupport.MustOpenJournal(t, cfg)
	ctrl, err := workflow.NewController(cfg, logging.NewNop(), journal, confirmer)
	if err != nil {
		t.Fatalf("NewController failed: %v", err)
	}
	return ctrl, journal
}

func TestDedupeFoldersPreviewLeavesTreeUntouched(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFolderTokens(2))
	testsupport.MakeTitleDir(t, cfg.Paths.ThumbsDir, "mario_bros_arcade_v1")
	testsupport.MakeTitleDir(t, cfg.Paths.ThumbsDir, "mario_bros_rev_a")
	testsupport.MakeTitleDir(t, cfg.Paths.ThumbsDir, "zelda_nes")

	ctrl, _ := newTestController(t, cfg, workflow.StaticConfirmer{})
	report, err := ctrl.DedupeFolders(context.Background(), workflow.ModePreview)
	if err != nil {
		t.Fatalf("DedupeFolders failed: %v", err)
	}

	if report.Plan.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", report.Plan.Duplicates)
	}
	if report.Run.Status != audit.RunPreview {
		t.Errorf("run status = %s, want %s", report.Run.Status, audit.RunPreview)
	}
	for _, name := range []string{"mario_bros_arcade_v1", "mario_bros_rev_a", "zelda_nes"} {
		if !fileutil.DirExists(filepath.Join(cfg.Paths.ThumbsDir, name)) {
			t.Errorf("preview removed %s", name)
		}
	}
	if len(report.Records) != 1 || report.Records[0].Status != audit.StatusPlanned {
		t.Errorf("expected one planned record, got %+v", report.Records)
	}
}

func TestDedupeFoldersExecuteRemovesDuplicates(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFolderTokens(2))
	keep := testsupport.MakeTitleDir(t, cfg.Paths.ThumbsDir, "mario_bros_arcade_v1")
	remove := testsupport.MakeTitleDir(t, cfg.Paths.ThumbsDir, "mario_bros_rev_a")

	ctrl, journal := newTestController(t, cfg, workflow.StaticConfirmer{Answer: true})
	ctx := context.Background()
	report, err := ctrl.DedupeFolders(ctx, workflow.ModeExecute)
	if err != nil {
		t.Fatalf("DedupeFolders failed: %v", err)
	}

	if fileutil.DirExists(remove) {
		t.Errorf("duplicate folder %s still exists", remove)
	}
	if !fileutil.DirExists(keep) {
		t.Errorf("kept folder %s is gone", keep)
	}
	if report.Run.Status != audit.RunCompleted {
		t.Errorf("run status = %s, want %s", report.Run.Status, audit.RunCompleted)
	}
	if report.Run.Planned != 1 || report.Run.Applied != 1 || report.Run.Failed != 0 {
		t.Errorf("unexpected tallies: %+v", report.Run)
	}

	indexed, err := journal.GetRun(ctx, report.Run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if indexed == nil || indexed.Status != audit.RunCompleted {
		t.Fatalf("expected completed run in journal, got %+v", indexed)
	}
	actions, err := journal.ActionsForRun(ctx, report.Run.ID)
	if err != nil {
		t.Fatalf("ActionsForRun failed: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("journal has %d actions, want 2 (planned and applied)", len(actions))
	}
	if actions[0].Status != audit.StatusPlanned || actions[1].Status != audit.StatusApplied {
		t.Errorf("unexpected action statuses: %+v", actions)
	}
}

func TestDedupeFoldersDeclinedConfirmation(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFolderTokens(2))
	testsupport.MakeTitleDir(t, cfg.Paths.ThumbsDir, "mario_bros_arcade_v1")
	remove := testsupport.MakeTitleDir(t, cfg.Paths.ThumbsDir, "mario_bros_rev_a")

	ctrl, journal := newTestController(t, cfg, workflow.StaticConfirmer{Answer: false})
	ctx := context.Background()
	report, err := ctrl.DedupeFolders(ctx, workflow.ModeExecute)
	if !errors.Is(err, workflow.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	if !fileutil.DirExists(remove) {
		t.Error("declined run removed a folder")
	}
	if report.Run.Status != audit.RunCancelled {
		t.Errorf("run status = %s, want %s", report.Run.Status, audit.RunCancelled)
	}
	indexed, err := journal.GetRun(ctx, report.Run.ID)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if indexed == nil || indexed.Status != audit.RunCancelled {
		t.Fatalf("expected cancelled run in journal, got %+v", indexed)
	}
}

func TestDedupeFoldersExecuteNothingToDo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MakeTitleDir(t, cfg.Paths.ThumbsDir, "zelda_nes")

	// The confirmer declines, which must not matter when no folder is removed.
	ctrl, _ := newTestController(t, cfg, workflow.StaticConfirmer{Answer: false})
	report, err := ctrl.DedupeFolders(context.Background(), workflow.ModeExecute)
	if err != nil {
		t.Fatalf("DedupeFolders failed: %v", err)
	}
	if report.Run.Status != audit.RunCompleted {
		t.Errorf("run status = %s, want %s", report.Run.Status, audit.RunCompleted)
	}
	if report.Run.Planned != 0 || report.Run.Applied != 0 {
		t.Errorf("unexpected tallies: %+v", report.Run)
	}
}

const dedupeTestCatalog = `[
  {"identifier": "pacman_arcade_us_v1", "date": "1980-05-22T00:00:00Z"},
  {"identifier": "pacman_arcade_us_set2", "date": "1980", "publisher": "Namco"},
  {"date": "1999"},
  {"identifier": "qbert_arcade", "date": "October 1982"}
]`

func TestDedupeCatalogExecuteWritesOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteCatalog(t, cfg.Paths.CatalogPath, dedupeTestCatalog)

	ctrl, _ := newTestController(t, cfg, workflow.StaticConfirmer{Answer: true})
	report, err := ctrl.DedupeCatalog(context.Background(), workflow.ModeExecute, "")
	if err != nil {
		t.Fatalf("DedupeCatalog failed: %v", err)
	}

	if report.Plan.Duplicates != 1 || report.Plan.Skipped != 1 {
		t.Errorf("Duplicates = %d, Skipped = %d, want 1 and 1", report.Plan.Duplicates, report.Plan.Skipped)
	}
	if report.OutputPath != cfg.DedupedCatalogPath() {
		t.Errorf("OutputPath = %s, want %s", report.OutputPath, cfg.DedupedCatalogPath())
	}

	out, err := catalog.Load(report.OutputPath)
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("output has %d entries, want 2", len(out))
	}
	if out[0].Identifier() != "pacman_arcade_us_set2" || out[1].Identifier() != "qbert_arcade" {
		t.Errorf("unexpected output identifiers: %s, %s", out[0].Identifier(), out[1].Identifier())
	}
	if raw, ok := out[0].Field("publisher"); !ok || string(raw) != `"Namco"` {
		t.Errorf("unknown field not preserved: %s", raw)
	}

	source, err := catalog.Load(cfg.Paths.CatalogPath)
	if err != nil {
		t.Fatalf("load source: %v", err)
	}
	if len(source) != 4 {
		t.Errorf("source catalog was modified: %d entries", len(source))
	}
}

func TestDedupeCatalogPreviewWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteCatalog(t, cfg.Paths.CatalogPath, dedupeTestCatalog)

	ctrl, _ := newTestController(t, cfg, workflow.StaticConfirmer{})
	report, err := ctrl.DedupeCatalog(context.Background(), workflow.ModePreview, "")
	if err != nil {
		t.Fatalf("DedupeCatalog failed: %v", err)
	}
	if report.Run.Status != audit.RunPreview {
		t.Errorf("run status = %s, want %s", report.Run.Status, audit.RunPreview)
	}
	if _, err := os.Stat(report.OutputPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("preview produced output: stat err = %v", err)
	}
}

func TestDedupeCatalogRejectsOverwritingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteCatalog(t, cfg.Paths.CatalogPath, dedupeTestCatalog)

	ctrl, _ := newTestController(t, cfg, workflow.StaticConfirmer{Answer: true})
	_, err := ctrl.DedupeCatalog(context.Background(), workflow.ModeExecute, cfg.Paths.CatalogPath)
	if !errors.Is(err, workflow.ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
}
