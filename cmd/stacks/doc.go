// Package main hosts the stacks CLI entrypoint and command graph.
//
// The Cobra-based command tree wires terminal invocations into the
// workflow controller: read-only inspection (check, scan, runs), the
// preview/execute maintenance operations (dedupe, partition), and
// configuration scaffolding. It centralizes configuration resolution and
// logger setup so subcommands can focus on presentation.
//
// Keep this package lean: add new behavior to the internal packages
// first, then surface it here through dedicated commands or flags.
package main
