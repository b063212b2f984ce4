package audit

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"stacks/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current journal schema version. Bump this when the
// schema changes; users delete the journal database to adopt the new schema.
const schemaVersion = 1

// ErrSchemaMismatch indicates the journal schema version doesn't match the
// version this build expects.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Journal indexes completed runs and their actions in SQLite.
type Journal struct {
	db   *sql.DB
	path string
}

// OpenJournal connects to the run journal database, creating it on first use.
func OpenJournal(cfg *config.Config) (*Journal, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.JournalPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	journal := &Journal{db: db, path: dbPath}
	if err := journal.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return journal, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Path returns the journal database location.
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

func (j *Journal) initSchema(ctx context.Context) error {
	var tableExists int
	err := j.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return j.createSchema(ctx)
	}

	var version int
	err = j.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version != schemaVersion {
		return fmt.Errorf("%w: journal has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, j.path)
	}

	return nil
}

func (j *Journal) createSchema(ctx context.Context) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// RecordRun inserts a finished run into the journal.
func (j *Journal) RecordRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is empty")
	}

	_, err := j.db.ExecContext(
		ctx,
		`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Operation,
		run.Mode,
		string(run.Status),
		nullableString(run.RootDir),
		nullableString(run.CatalogPath),
		nullableString(run.OutputPath),
		run.Planned,
		run.Applied,
		run.Failed,
		run.Skipped,
		run.Warnings,
		nullableString(run.SummaryPath),
		nullableString(run.ActionsPath),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// AppendActions indexes the action records for an already recorded run.
func (j *Journal) AppendActions(ctx context.Context, runID string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin actions tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range records {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO run_actions (
                run_id, seq, kind, identifier, source, destination, status, detail, recorded_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			rec.Seq,
			string(rec.Kind),
			nullableString(rec.Identifier),
			nullableString(rec.Source),
			nullableString(rec.Destination),
			string(rec.Status),
			nullableString(rec.Detail),
			rec.At.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert action %d: %w", rec.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit actions: %w", err)
	}
	return nil
}

// ListRuns returns runs ordered newest first. A limit of zero returns all runs.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by identifier. A unique identifier prefix is accepted;
// an ambiguous prefix is an error and an unknown identifier returns nil.
func (j *Journal) GetRun(ctx context.Context, id string) (*Run, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := j.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id LIKE ?`, id+"%")
	if err != nil {
		return nil, fmt.Errorf("find run by prefix: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		match, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run id %q is ambiguous (%d matches)", id, len(matches))
	}
}

// ActionsForRun returns the indexed actions for a run ordered by sequence.
func (j *Journal) ActionsForRun(ctx context.Context, runID string) ([]Record, error) {
	rows, err := j.db.QueryContext(
		ctx,
		`SELECT seq, kind, identifier, source, destination, status, detail, recorded_at
         FROM run_actions WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			seq         int
			kind        string
			identifier  sql.NullString
			source      sql.NullString
			destination sql.NullString
			status      string
			detail      sql.NullString
			recordedRaw sql.NullString
		)
		if err := rows.Scan(&seq, &kind, &identifier, &source, &destination, &status, &detail, &recordedRaw); err != nil {
			return nil, err
		}

		rec := Record{
			Seq:         seq,
			Kind:        Kind(kind),
			Identifier:  identifier.String,
			Source:      source.String,
			Destination: destination.String,
			Status:      Status(status),
			Detail:      detail.String,
		}
		if at, err := parseTimeString(recordedRaw.String); err == nil {
			rec.At = at
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Stats returns a count of runs grouped by status.
func (j *Journal) Stats(ctx context.Context) (map[RunStatus]int, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("journal stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[RunStatus]int)
	for rows.Next() {
		var status RunStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const runColumns = "id, operation, mode, status, root_dir, catalog_path, output_path, planned, applied, failed, skipped, warnings, summary_path, actions_path, started_at, finished_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          string
		operation   string
		mode        string
		statusStr   string
		rootDir     sql.NullString
		catalogPath sql.NullString
		outputPath  sql.NullString
		planned     int
		applied     int
		failed      int
		skipped     int
		warnings    int
		summaryPath sql.NullString
		actionsPath sql.NullString
		startedRaw  sql.NullString
		finishedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&operation,
		&mode,
		&statusStr,
		&rootDir,
		&catalogPath,
		&outputPath,
		&planned,
		&applied,
		&failed,
		&skipped,
		&warnings,
		&summaryPath,
		&actionsPath,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:          id,
		Operation:   operation,
		Mode:        mode,
		Status:      RunStatus(statusStr),
		RootDir:     rootDir.String,
		CatalogPath: catalogPath.String,
		OutputPath:  outputPath.String,
		Planned:     planned,
		Applied:     applied,
		Failed:      failed,
		Skipped:     skipped,
		Warnings:    warnings,
		SummaryPath: summaryPath.String,
		ActionsPath: actionsPath.String,
	}

	if started, err := parseTimeString(startedRaw.String); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
