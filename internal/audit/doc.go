// Package audit records what dedupe and partition runs planned and did.
//
// Every run produces two on-disk artifacts under the run log directory: a
// human-readable key/value summary (.log) and a JSONL journal of individual
// actions (.jsonl). Artifact names embed the operation, a UTC timestamp, and
// a short run identifier, and the files are created exclusively so one run
// can never overwrite the record of another.
//
// Completed runs are additionally indexed in a SQLite journal so past
// operations can be listed and inspected from the CLI. The database is an
// index over the artifact files, not the source of truth; deleting it loses
// history listings but no run data. Schema changes bump the version in
// journal.go; users delete the database to adopt the new schema.
package audit
