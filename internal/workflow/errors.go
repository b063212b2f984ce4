package workflow

import "errors"

// Sentinel errors classify failures for exit code mapping. Everything else
// that reaches the CLI is a plain fatal error.
var (
	// ErrUsage marks invalid invocations: bad arguments, an output path
	// that would overwrite the source catalog, and the like.
	ErrUsage = errors.New("usage error")

	// ErrPreflight marks an environment that failed its readiness checks.
	ErrPreflight = errors.New("preflight failed")

	// ErrCancelled marks a run stopped by the user, either by declining
	// the confirmation prompt or by interrupting execution.
	ErrCancelled = errors.New("cancelled")
)
