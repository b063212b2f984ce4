// Package workflow runs dedupe and partition operations end to end.
//
// Every operation follows the same shape: scan or load the current state,
// compute a pure plan, and either stop there (preview) or apply the plan
// (execute). Execution requires a typed confirmation token, takes an
// exclusive lock so concurrent runs cannot interleave mutations, and applies
// the plan best effort: a failed mutation is recorded and tallied, never
// allowed to abort the rest of the batch.
//
// Each run, preview or execute, leaves an audit trail: planned actions are
// written to the run's action log before the first mutation, outcomes are
// appended as they happen, and the finished run is indexed in the SQLite
// journal for the runs commands.
package workflow
