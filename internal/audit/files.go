package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Writer persists the on-disk artifacts for a single run: a key/value summary
// log and a JSONL journal of actions. Both files are created with O_EXCL so an
// existing artifact is never truncated or overwritten.
type Writer struct {
	summaryPath string
	actionsPath string

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
	seq  int
}

// RunFileBase returns the artifact base name for a run: the operation, the
// UTC start time, and the short run identifier joined with dashes.
func RunFileBase(operation string, startedAt time.Time, runID string) string {
	return fmt.Sprintf("%s-%s-%s", operation, startedAt.UTC().Format("20060102-150405"), ShortID(runID))
}

// NewWriter creates the artifact files for a run under dir. It fails if an
// artifact with the same name already exists.
func NewWriter(dir, operation string, startedAt time.Time, runID string) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("run log dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create run log dir: %w", err)
	}

	base := RunFileBase(operation, startedAt, runID)
	actionsPath := filepath.Join(dir, base+".jsonl")
	file, err := os.OpenFile(actionsPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create action log %s: %w", actionsPath, err)
	}

	return &Writer{
		summaryPath: filepath.Join(dir, base+".log"),
		actionsPath: actionsPath,
		file:        file,
		enc:         json.NewEncoder(file),
	}, nil
}

// Append stamps the record with the next sequence number and writes it to the
// action log. The stamped record is returned so callers can index it later.
func (w *Writer) Append(rec Record) (Record, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.enc == nil {
		return rec, errors.New("action log closed")
	}
	w.seq++
	rec.Seq = w.seq
	if rec.At.IsZero() {
		rec.At = time.Now().UTC()
	}
	if err := w.enc.Encode(rec); err != nil {
		return rec, fmt.Errorf("append action: %w", err)
	}
	return rec, nil
}

// WriteSummary writes the run summary file. Like the action log, the summary
// is created exclusively and never overwrites an existing file.
func (w *Writer) WriteSummary(run Run) error {
	var b strings.Builder
	writeLine := func(key, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", key, value)
	}

	writeLine("run", run.ID)
	writeLine("operation", run.Operation)
	writeLine("mode", run.Mode)
	writeLine("status", string(run.Status))
	writeLine("started", run.StartedAt.UTC().Format(time.RFC3339))
	if !run.FinishedAt.IsZero() {
		writeLine("finished", run.FinishedAt.UTC().Format(time.RFC3339))
		writeLine("duration", run.Duration().Round(time.Millisecond).String())
	}
	writeLine("root", run.RootDir)
	writeLine("catalog", run.CatalogPath)
	writeLine("output", run.OutputPath)
	fmt.Fprintf(&b, "planned: %d\napplied: %d\nfailed: %d\nskipped: %d\nwarnings: %d\n",
		run.Planned, run.Applied, run.Failed, run.Skipped, run.Warnings)
	writeLine("actions", w.actionsPath)

	file, err := os.OpenFile(w.summaryPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create summary %s: %w", w.summaryPath, err)
	}
	if _, err := file.WriteString(b.String()); err != nil {
		_ = file.Close()
		return fmt.Errorf("write summary %s: %w", w.summaryPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close summary %s: %w", w.summaryPath, err)
	}
	return nil
}

// SummaryPath returns the on-disk location of the run summary.
func (w *Writer) SummaryPath() string {
	return w.summaryPath
}

// ActionsPath returns the on-disk location of the action log.
func (w *Writer) ActionsPath() string {
	return w.actionsPath
}

// Close releases the action log file handle.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var err error
	if w.file != nil {
		err = w.file.Close()
	}
	w.file = nil
	w.enc = nil
	return err
}

// ReadActions decodes every record from a JSONL action log in order.
func ReadActions(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open action log %s: %w", path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	var records []Record
	for {
		var rec Record
		if err := decoder.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return records, fmt.Errorf("decode action log %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
