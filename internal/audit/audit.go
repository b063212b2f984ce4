package audit

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the mutation an action record describes.
type Kind string

const (
	KindCreateDir     Kind = "create-dir"
	KindMoveFolder    Kind = "move-folder"
	KindRemoveFolder  Kind = "remove-folder"
	KindSkipFolder    Kind = "skip-folder"
	KindDropEntry     Kind = "drop-entry"
	KindSkipEntry     Kind = "skip-entry"
	KindAnnotateEntry Kind = "annotate-entry"
	KindWriteCatalog  Kind = "write-catalog"
)

// Status describes the outcome of a single action within a run.
type Status string

const (
	StatusPlanned Status = "planned"
	StatusApplied Status = "applied"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusWarning Status = "warning"
)

// RunStatus describes the overall outcome of a run.
type RunStatus string

const (
	RunPreview   RunStatus = "preview"
	RunCompleted RunStatus = "completed"
	RunPartial   RunStatus = "partial"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// Record is a single audited action. Seq orders records within their run and
// is assigned by the Writer when the record is appended.
type Record struct {
	Seq         int       `json:"seq"`
	Kind        Kind      `json:"kind"`
	Identifier  string    `json:"identifier,omitempty"`
	Source      string    `json:"source,omitempty"`
	Destination string    `json:"destination,omitempty"`
	Status      Status    `json:"status"`
	Detail      string    `json:"detail,omitempty"`
	At          time.Time `json:"at"`
}

// Run summarizes one dedupe or partition invocation.
type Run struct {
	ID          string    `json:"id"`
	Operation   string    `json:"operation"`
	Mode        string    `json:"mode"`
	Status      RunStatus `json:"status"`
	RootDir     string    `json:"root_dir,omitempty"`
	CatalogPath string    `json:"catalog_path,omitempty"`
	OutputPath  string    `json:"output_path,omitempty"`
	Planned     int       `json:"planned"`
	Applied     int       `json:"applied"`
	Failed      int       `json:"failed"`
	Skipped     int       `json:"skipped"`
	Warnings    int       `json:"warnings"`
	SummaryPath string    `json:"summary_path,omitempty"`
	ActionsPath string    `json:"actions_path,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Duration returns the elapsed time between start and finish, or zero when
// the run has not finished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// ShortID returns the leading eight characters of a run identifier, the form
// used in artifact file names and CLI output.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
