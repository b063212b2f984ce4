package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"stacks/internal/audit"
	"stacks/internal/catalog"
	"stacks/internal/fileutil"
	"stacks/internal/logging"
	"stacks/internal/partition"
	"stacks/internal/shelf"
)

// FolderPartitionReport is the outcome of one partition folders run.
type FolderPartitionReport struct {
	Plan    partition.FolderPlan
	Run     audit.Run
	Records []audit.Record
}

// PartitionFolders moves root-level thumbnail folders into four digit year
// directories derived from the catalog. Folders whose year is unknown are
// never moved.
func (c *Controller) PartitionFolders(ctx context.Context, mode Mode) (*FolderPartitionReport, error) {
	state, ctx, logger, err := c.beginRun(ctx, OpPartitionFolders, mode)
	if err != nil {
		return nil, err
	}

	tree, err := shelf.Scan(c.cfg.Paths.ThumbsDir)
	if err != nil {
		c.finishRun(ctx, logger, state, audit.RunFailed)
		return nil, err
	}
	entries, err := catalog.Load(c.cfg.Paths.CatalogPath)
	if err != nil {
		c.finishRun(ctx, logger, state, audit.RunFailed)
		return nil, err
	}

	plan := partition.PlanFolderMoves(tree, entries)
	state.run.RootDir = tree.Root
	state.run.CatalogPath = c.cfg.Paths.CatalogPath
	state.run.Planned = len(plan.Moves)
	state.run.Skipped = len(plan.UnknownYear)

	for _, record := range plan.UnknownYear {
		state.append(logger, audit.Record{
			Kind:       audit.KindSkipFolder,
			Identifier: record.Name,
			Source:     record.Path,
			Status:     audit.StatusSkipped,
			Detail:     partition.WarnUnknownYear,
		})
	}
	for _, move := range plan.Moves {
		state.append(logger, audit.Record{
			Kind:        audit.KindMoveFolder,
			Identifier:  move.Record.Name,
			Source:      move.Record.Path,
			Destination: move.Destination,
			Status:      audit.StatusPlanned,
		})
	}
	logger.Info("plan ready",
		logging.Int("folders", plan.Total),
		logging.Int("moves", len(plan.Moves)),
		logging.Int("unknown_year", len(plan.UnknownYear)),
		logging.Int("already_placed", plan.AlreadyPlaced))

	report := &FolderPartitionReport{Plan: plan}
	if mode != ModeExecute {
		report.Run = c.finishRun(ctx, logger, state, audit.RunPreview)
		report.Records = state.records
		return report, nil
	}
	if len(plan.Moves) == 0 {
		report.Run = c.finishRun(ctx, logger, state, audit.RunCompleted)
		report.Records = state.records
		return report, nil
	}

	prompt := fmt.Sprintf("This will move %d folders into year directories under %s.", len(plan.Moves), tree.Root)
	if err := c.confirm(prompt, ConfirmMove); err != nil {
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
	ensuredYearDirs := make(map[string]bool)
	for _, move := range plan.Moves {
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		if !ensuredYearDirs[move.YearDir] {
			created, err := fileutil.EnsureDir(move.YearDir)
			if err != nil {
				state.run.Failed++
				state.append(logger, audit.Record{
					Kind:        audit.KindMoveFolder,
					Identifier:  move.Record.Name,
					Source:      move.Record.Path,
					Destination: move.Destination,
					Status:      audit.StatusFailed,
					Detail:      err.Error(),
				})
				logger.Error("create year directory failed",
					logging.String(logging.FieldPath, move.YearDir),
					logging.Error(err))
				continue
			}
			ensuredYearDirs[move.YearDir] = true
			if created {
				state.append(logger, audit.Record{
					Kind:        audit.KindCreateDir,
					Destination: move.YearDir,
					Status:      audit.StatusApplied,
				})
			}
		}

		rec := audit.Record{
			Kind:        audit.KindMoveFolder,
			Identifier:  move.Record.Name,
			Source:      move.Record.Path,
			Destination: move.Destination,
			Status:      audit.StatusApplied,
		}
		switch {
		case fileutil.DirExists(move.Destination):
			rec.Status = audit.StatusSkipped
			rec.Detail = "destination already exists"
			state.run.Skipped++
			logger.Warn("skipped move",
				logging.String(logging.FieldIdentifier, move.Record.Name),
				logging.String(logging.FieldPath, move.Destination))
		default:
			if err := fileutil.MoveDir(move.Record.Path, move.Destination); err != nil {
				rec.Status = audit.StatusFailed
				rec.Detail = err.Error()
				state.run.Failed++
				logger.Error("move folder failed",
					logging.String(logging.FieldPath, move.Record.Path),
					logging.Error(err))
			} else {
				state.run.Applied++
				logger.Info("moved folder",
					logging.String(logging.FieldIdentifier, move.Record.Name),
					logging.String(logging.FieldPath, move.Destination))
			}
		}
		state.append(logger, rec)
	}

	report.Run = c.finishRun(ctx, logger, state, runStatusFor(interrupted, state.run.Failed))
	report.Records = state.records
	if interrupted {
		return report, fmt.Errorf("%w: interrupted", ErrCancelled)
	}
	return report, nil
}

// CatalogPartitionReport is the outcome of one partition catalog run.
type CatalogPartitionReport struct {
	Stats      partition.AnnotateStats
	OutputPath string
	Run        audit.Run
	Records    []audit.Record
}

// PartitionCatalog rewrites every entry's thumbnail path against the current
// folder tree and writes the annotated catalog. The source catalog is never
// modified; outputPath defaults to the configured partitioned catalog name.
func (c *Controller) PartitionCatalog(ctx context.Context, mode Mode, outputPath string) (*CatalogPartitionReport, error) {
	if outputPath == "" {
		outputPath = c.cfg.PartitionedCatalogPath()
	}
	if err := c.guardOutputPath(outputPath); err != nil {
		return nil, err
	}

	state, ctx, logger, err := c.beginRun(ctx, OpPartitionCatalog, mode)
	if err != nil {
		return nil, err
	}

	entries, err := catalog.Load(c.cfg.Paths.CatalogPath)
	if err != nil {
		c.finishRun(ctx, logger, state, audit.RunFailed)
		return nil, err
	}

	annotated, stats := partition.AnnotateCatalog(entries, c.cfg.Paths.ThumbsDir)
	state.run.RootDir = c.cfg.Paths.ThumbsDir
	state.run.CatalogPath = c.cfg.Paths.CatalogPath
	state.run.OutputPath = outputPath
	state.run.Planned = stats.Total
	state.run.Warnings = stats.Warnings()

	for i, entry := range annotated {
		warning := entry.PathWarning()
		if warning == "" {
			continue
		}
		rec := audit.Record{
			Kind:       audit.KindAnnotateEntry,
			Identifier: entry.Identifier(),
			Status:     audit.StatusWarning,
			Detail:     warning,
		}
		if rec.Identifier == "" {
			rec.Source = fmt.Sprintf("entry %d", i)
		}
		state.append(logger, rec)
	}
	logger.Info("plan ready",
		logging.Int("entries", stats.Total),
		logging.Int("updated", stats.Updated),
		logging.Int("not_moved", stats.NotMoved),
		logging.Int("missing", stats.Missing),
		logging.Int("unknown_year", stats.UnknownYear),
		logging.Int("no_identifier", stats.NoIdentifier))

	report := &CatalogPartitionReport{Stats: stats, OutputPath: outputPath}
	if mode != ModeExecute {
		report.Run = c.finishRun(ctx, logger, state, audit.RunPreview)
		report.Records = state.records
		return report, nil
	}

	prompt := fmt.Sprintf("This will write %d annotated entries to %s.", stats.Total, outputPath)
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

	run, saveErr := c.writeCatalog(ctx, logger, state, outputPath, annotated, stats.Total)
	report.Run = run
	report.Records = state.records
	if saveErr != nil {
		return report, saveErr
	}
	return report, nil
}

// writeCatalog performs the single mutation shared by the catalog
// operations: saving the output catalog and recording how it went.
func (c *Controller) writeCatalog(ctx context.Context, logger *slog.Logger, state *runState, outputPath string, entries []catalog.Entry, applied int) (audit.Run, error) {
	rec := audit.Record{
		Kind:        audit.KindWriteCatalog,
		Source:      c.cfg.Paths.CatalogPath,
		Destination: outputPath,
		Status:      audit.StatusApplied,
		Detail:      fmt.Sprintf("%d entries", len(entries)),
	}
	saveErr := catalog.Save(outputPath, entries)
	if saveErr != nil {
		rec.Status = audit.StatusFailed
		rec.Detail = saveErr.Error()
		state.run.Failed++
		logger.Error("catalog write failed",
			logging.String(logging.FieldPath, outputPath),
			logging.Error(saveErr))
	} else {
		state.run.Applied = applied
		logger.Info("catalog written",
			logging.String(logging.FieldPath, outputPath),
			logging.Int("entries", len(entries)))
	}
	state.append(logger, rec)

	status := audit.RunCompleted
	if saveErr != nil {
		status = audit.RunFailed
	}
	return c.finishRun(ctx, logger, state, status), saveErr
}
