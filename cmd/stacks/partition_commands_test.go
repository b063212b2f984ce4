package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stacks/internal/catalog"
	"stacks/internal/testsupport"
	"stacks/internal/workflow"
)

const partitionCLICatalog = `[
  {"identifier": "galaga_arcade", "date": "1981-09-01T00:00:00Z"},
  {"identifier": "qbert_arcade", "date": "October 1982"},
  {"identifier": "mystery_game", "date": "sometime"}
]`

func TestPartitionFoldersPreviewShowsPlan(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCatalog(t, env.cfg.Paths.CatalogPath, partitionCLICatalog)
	testsupport.MakeTitleDir(t, env.cfg.Paths.ThumbsDir, "galaga_arcade")
	testsupport.MakeTitleDir(t, env.cfg.Paths.ThumbsDir, "qbert_arcade")
	testsupport.MakeTitleDir(t, env.cfg.Paths.ThumbsDir, "mystery_game")

	stdout, _, err := runCLI(t, []string{"partition", "folders"}, env.configPath)
	if err != nil {
		t.Fatalf("partition folders: %v", err)
	}
	requireContains(t, stdout, "3 folders: 2 to move, 1 unknown year, 0 already placed")
	requireContains(t, stdout, "1981")
	requireContains(t, stdout, "1982")
	requireContains(t, stdout, "Staying put (year unknown): mystery_game")
	requireContains(t, stdout, "Preview only; add --execute to move folders.")
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.ThumbsDir, "1981")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("preview must not create year dirs, stat err = %v", err)
	}
}

func TestPartitionFoldersExecuteMoves(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCatalog(t, env.cfg.Paths.CatalogPath, partitionCLICatalog)
	testsupport.MakeTitleDir(t, env.cfg.Paths.ThumbsDir, "galaga_arcade")
	testsupport.MakeTitleDir(t, env.cfg.Paths.ThumbsDir, "mystery_game")

	stdout, _, err := runCLIWithInput(t, []string{"partition", "folders", "--execute"}, env.configPath, "MOVE\n")
	if err != nil {
		t.Fatalf("partition folders --execute: %v", err)
	}
	requireContains(t, stdout, "This will move 1 folders into year directories")
	requireContains(t, stdout, "Type MOVE to continue:")
	requireContains(t, stdout, "completed (planned 1, applied 1, failed 0, skipped 1)")

	moved := filepath.Join(env.cfg.Paths.ThumbsDir, "1981", "galaga_arcade", "thumb_01.png")
	if _, err := os.Stat(moved); err != nil {
		t.Fatalf("moved folder contents missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.ThumbsDir, "mystery_game")); err != nil {
		t.Fatalf("unknown-year folder must stay at root: %v", err)
	}
}

func TestPartitionFoldersDeclinedLeavesTree(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCatalog(t, env.cfg.Paths.CatalogPath, partitionCLICatalog)
	testsupport.MakeTitleDir(t, env.cfg.Paths.ThumbsDir, "galaga_arcade")

	_, _, err := runCLIWithInput(t, []string{"partition", "folders", "--execute"}, env.configPath, "move\n")
	if !errors.Is(err, workflow.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.ThumbsDir, "galaga_arcade")); err != nil {
		t.Fatalf("declined run must leave folders alone: %v", err)
	}
}

func TestPartitionCatalogExecuteAnnotates(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCatalog(t, env.cfg.Paths.CatalogPath, partitionCLICatalog)
	testsupport.MakeYearTitleDir(t, env.cfg.Paths.ThumbsDir, "1981", "galaga_arcade")

	stdout, _, err := runCLIWithInput(t, []string{"partition", "catalog", "--execute"}, env.configPath, "SAVE\n")
	if err != nil {
		t.Fatalf("partition catalog --execute: %v", err)
	}
	requireContains(t, stdout, "Type SAVE to continue:")
	requireContains(t, stdout, "completed (planned 3, applied 3, failed 0, skipped 0, warnings 2)")

	out, err := catalog.Load(env.cfg.PartitionedCatalogPath())
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("output entries = %d, want 3", len(out))
	}
	if got := out[0].ThumbnailPath(); got != "1981/galaga_arcade" {
		t.Fatalf("ThumbnailPath = %q, want %q", got, "1981/galaga_arcade")
	}
	if got := out[2].PathWarning(); got == "" {
		t.Fatal("unknown-year entry should carry a path warning")
	}
}

func TestPartitionCatalogPreviewPrintsStats(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteCatalog(t, env.cfg.Paths.CatalogPath, partitionCLICatalog)
	testsupport.MakeYearTitleDir(t, env.cfg.Paths.ThumbsDir, "1981", "galaga_arcade")

	stdout, _, err := runCLI(t, []string{"partition", "catalog"}, env.configPath)
	if err != nil {
		t.Fatalf("partition catalog: %v", err)
	}
	requireContains(t, stdout, "3 entries: 1 updated,")
	requireContains(t, stdout, "Preview only; add --execute to write the annotated catalog.")
	if _, err := os.Stat(env.cfg.PartitionedCatalogPath()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("preview must not write output, stat err = %v", err)
	}
}
