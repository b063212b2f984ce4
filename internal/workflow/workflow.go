package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"stacks/internal/audit"
	"stacks/internal/config"
	"stacks/internal/logging"
)

// Mode selects whether an operation only reports its plan or applies it.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeExecute Mode = "execute"
)

// ModeFor maps the CLI --execute flag onto a mode.
func ModeFor(execute bool) Mode {
	if execute {
		return ModeExecute
	}
	return ModePreview
}

// Operation names used for audit artifacts and journal rows.
const (
	OpDedupeFolders    = "dedupe-folders"
	OpDedupeCatalog    = "dedupe-catalog"
	OpPartitionFolders = "partition-folders"
	OpPartitionCatalog = "partition-catalog"
)

// Controller drives workflow operations against one configuration.
type Controller struct {
	cfg       *config.Config
	logger    *slog.Logger
	journal   *audit.Journal
	confirmer Confirmer
}

// NewController wires a controller. The journal may be nil, in which case
// finished runs are not indexed; a nil confirmer declines every confirmation.
func NewController(cfg *config.Config, logger *slog.Logger, journal *audit.Journal, confirmer Confirmer) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("controller requires a config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if confirmer == nil {
		confirmer = StaticConfirmer{}
	}
	return &Controller{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		journal:   journal,
		confirmer: confirmer,
	}, nil
}

// runState tracks one run's audit artifacts while an operation progresses.
type runState struct {
	run     audit.Run
	writer  *audit.Writer
	records []audit.Record
}

func (c *Controller) beginRun(ctx context.Context, operation string, mode Mode) (*runState, context.Context, *slog.Logger, error) {
	run := audit.Run{
		ID:        audit.NewRunID(),
		Operation: operation,
		Mode:      string(mode),
		StartedAt: time.Now().UTC(),
	}
	writer, err := audit.NewWriter(c.cfg.RunLogDir(), operation, run.StartedAt, run.ID)
	if err != nil {
		return nil, ctx, nil, err
	}
	run.SummaryPath = writer.SummaryPath()
	run.ActionsPath = writer.ActionsPath()

	ctx = logging.WithRunID(ctx, audit.ShortID(run.ID))
	ctx = logging.WithOperation(ctx, operation)
	logger := logging.WithContext(ctx, c.logger).With(logging.String(logging.FieldMode, string(mode)))

	logger.Info("run started")
	return &runState{run: run, writer: writer}, ctx, logger, nil
}

// append writes an action to the run's action log. A failed write is
// reported but never interrupts the run.
func (s *runState) append(logger *slog.Logger, rec audit.Record) {
	stamped, err := s.writer.Append(rec)
	if err != nil {
		logger.Warn("action log write failed", logging.Error(err))
	}
	s.records = append(s.records, stamped)
}

func (c *Controller) finishRun(ctx context.Context, logger *slog.Logger, state *runState, status audit.RunStatus) audit.Run {
	state.run.Status = status
	state.run.FinishedAt = time.Now().UTC()

	if err := state.writer.WriteSummary(state.run); err != nil {
		logger.Warn("summary write failed", logging.Error(err))
	}
	if err := state.writer.Close(); err != nil {
		logger.Warn("action log close failed", logging.Error(err))
	}

	if c.journal != nil {
		// The journal outlives an interrupt; index the run even when ctx
		// is already cancelled.
		dbCtx := context.WithoutCancel(ctx)
		if err := c.journal.RecordRun(dbCtx, state.run); err != nil {
			logger.Warn("journal insert failed", logging.Error(err))
		} else if err := c.journal.AppendActions(dbCtx, state.run.ID, state.records); err != nil {
			logger.Warn("journal action insert failed", logging.Error(err))
		}
	}

	logger.Info("run finished",
		logging.String("status", string(status)),
		logging.Int("planned", state.run.Planned),
		logging.Int("applied", state.run.Applied),
		logging.Int("failed", state.run.Failed),
		logging.Int("skipped", state.run.Skipped))
	return state.run
}

func (c *Controller) confirm(prompt, token string) error {
	ok, err := c.confirmer.Confirm(prompt, token)
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: confirmation token did not match", ErrCancelled)
	}
	return nil
}

// acquireLock takes the exclusive run lock. Preview runs never lock.
func (c *Controller) acquireLock() (func(), error) {
	lock := flock.New(c.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another stacks run is already executing")
	}
	return func() { _ = lock.Unlock() }, nil
}

// guardOutputPath rejects output paths that would rewrite the source catalog
// in place.
func (c *Controller) guardOutputPath(outputPath string) error {
	if filepath.Clean(outputPath) == filepath.Clean(c.cfg.Paths.CatalogPath) {
		return fmt.Errorf("%w: output path %s would overwrite the source catalog", ErrUsage, outputPath)
	}
	return nil
}

func runStatusFor(interrupted bool, failed int) audit.RunStatus {
	switch {
	case interrupted:
		return audit.RunCancelled
	case failed > 0:
		return audit.RunPartial
	default:
		return audit.RunCompleted
	}
}
