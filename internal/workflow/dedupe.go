package workflow

import (
	"context"
	"fmt"
	"os"

	"stacks/internal/audit"
	"stacks/internal/catalog"
	"stacks/internal/dedupe"
	"stacks/internal/logging"
	"stacks/internal/shelf"
)

// FolderDedupeReport is the outcome of one dedupe folders run.
type FolderDedupeReport struct {
	Plan    dedupe.FolderPlan
	Run     audit.Run
	Records []audit.Record
}

// DedupeFolders removes duplicate thumbnail folders, keeping the
// lexicographically smallest name of each duplicate group.
func (c *Controller) DedupeFolders(ctx context.Context, mode Mode) (*FolderDedupeReport, error) {
	state, ctx, logger, err := c.beginRun(ctx, OpDedupeFolders, mode)
	if err != nil {
		return nil, err
	}

	tree, err := shelf.Scan(c.cfg.Paths.ThumbsDir)
	if err != nil {
		c.finishRun(ctx, logger, state, audit.RunFailed)
		return nil, err
	}

	plan := dedupe.PlanFolders(tree.Records, c.cfg.Dedupe.FolderTokens)
	state.run.RootDir = tree.Root
	state.run.Planned = plan.Duplicates

	for _, action := range plan.Actions {
		for _, record := range action.Remove {
			state.append(logger, audit.Record{
				Kind:       audit.KindRemoveFolder,
				Identifier: action.Base,
				Source:     record.Path,
				Status:     audit.StatusPlanned,
				Detail:     "keep " + action.Keep.Name,
			})
		}
	}
	logger.Info("plan ready",
		logging.Int("folders", plan.Total),
		logging.Int("groups", plan.Groups),
		logging.Int("duplicates", plan.Duplicates))

	report := &FolderDedupeReport{Plan: plan}
	if mode != ModeExecute {
		report.Run = c.finishRun(ctx, logger, state, audit.RunPreview)
		report.Records = state.records
		return report, nil
	}
	if plan.Duplicates == 0 {
		report.Run = c.finishRun(ctx, logger, state, audit.RunCompleted)
		report.Records = state.records
		return report, nil
	}

	prompt := fmt.Sprintf("This will permanently remove %d duplicate folders under %s.", plan.Duplicates, tree.Root)
	if err := c.confirm(prompt, ConfirmDelete); err != nil {
		report.Run = c.finishRun(ctx, logger, state, audit.RunCancelled)
		report.Records = state.records
		return report, err
	}

	unlock, err := c.acquireLock()
	if err != nil {
		c.finishRun(ctx, logger, state, audit.RunFailed)
		return nil, err
	}
	defer unlock()

	interrupted := false
apply:
	for _, action := range plan.Actions {
		for _, record := range action.Remove {
			if ctx.Err() != nil {
				interrupted = true
				break apply
			}

			rec := audit.Record{
				Kind:       audit.KindRemoveFolder,
				Identifier: action.Base,
				Source:     record.Path,
				Status:     audit.StatusApplied,
				Detail:     "keep " + action.Keep.Name,
			}
			if err := os.RemoveAll(record.Path); err != nil {
				rec.Status = audit.StatusFailed
				rec.Detail = err.Error()
				state.run.Failed++
				logger.Error("remove folder failed",
					logging.String(logging.FieldPath, record.Path),
					logging.Error(err))
			} else {
				state.run.Applied++
				logger.Info("removed duplicate folder",
					logging.String(logging.FieldIdentifier, action.Base),
					logging.String(logging.FieldPath, record.Path))
			}
			state.append(logger, rec)
		}
	}

	report.Run = c.finishRun(ctx, logger, state, runStatusFor(interrupted, state.run.Failed))
	report.Records = state.records
	if interrupted {
		return report, fmt.Errorf("%w: interrupted", ErrCancelled)
	}
	return report, nil
}

// CatalogDedupeReport is the outcome of one dedupe catalog run.
type CatalogDedupeReport struct {
	Plan       dedupe.CatalogPlan
	OutputPath string
	Run        audit.Run
	Records    []audit.Record
}

// DedupeCatalog writes a catalog with duplicate entries removed. The source
// catalog is never modified; outputPath defaults to the configured deduped
// catalog name.
func (c *Controller) DedupeCatalog(ctx context.Context, mode Mode, outputPath string) (*CatalogDedupeReport, error) {
	if outputPath == "" {
		outputPath = c.cfg.DedupedCatalogPath()
	}
	if err := c.guardOutputPath(outputPath); err != nil {
		return nil, err
	}

	state, ctx, logger, err := c.beginRun(ctx, OpDedupeCatalog, mode)
	if err != nil {
		return nil, err
	}

	entries, err := catalog.Load(c.cfg.Paths.CatalogPath)
	if err != nil {
		c.finishRun(ctx, logger, state, audit.RunFailed)
		return nil, err
	}

	plan := dedupe.PlanCatalog(entries, c.cfg.Dedupe.CatalogTokens)
	state.run.CatalogPath = c.cfg.Paths.CatalogPath
	state.run.OutputPath = outputPath
	state.run.Planned = plan.Duplicates
	state.run.Skipped = plan.Skipped

	for i, entry := range entries {
		if entry.Identifier() == "" {
			state.append(logger, audit.Record{
				Kind:   audit.KindSkipEntry,
				Source: fmt.Sprintf("entry %d", i),
				Status: audit.StatusSkipped,
				Detail: "no identifier in entry",
			})
		}
	}
	for _, action := range plan.Actions {
		for _, entry := range action.Remove {
			state.append(logger, audit.Record{
				Kind:       audit.KindDropEntry,
				Identifier: entry.Identifier(),
				Status:     audit.StatusPlanned,
				Detail:     "keep " + action.Keep.Identifier(),
			})
		}
	}
	logger.Info("plan ready",
		logging.Int("entries", plan.Total),
		logging.Int("groups", plan.Groups),
		logging.Int("duplicates", plan.Duplicates),
		logging.Int("skipped", plan.Skipped))

	report := &CatalogDedupeReport{Plan: plan, OutputPath: outputPath}
	if mode != ModeExecute {
		report.Run = c.finishRun(ctx, logger, state, audit.RunPreview)
		report.Records = state.records
		return report, nil
	}

	prompt := fmt.Sprintf("This will write %d entries to %s, dropping %d duplicates.", len(plan.Kept), outputPath, plan.Duplicates)
	if err := c.confirm(prompt, ConfirmSave); err != nil {
		report.Run = c.finishRun(ctx, logger, state, audit.RunCancelled)
		report.Records = state.records
		return report, err
	}

	unlock, err := c.acquireLock()
	if err != nil {
		c.finishRun(ctx, logger, state, audit.RunFailed)
		return nil, err
	}
	defer unlock()

	run, saveErr := c.writeCatalog(ctx, logger, state, outputPath, plan.Kept, plan.Duplicates)
	report.Run = run
	report.Records = state.records
	if saveErr != nil {
		return report, saveErr
	}
	return report, nil
}
