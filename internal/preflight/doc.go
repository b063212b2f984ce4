// Package preflight provides readiness checks for the catalog file and
// filesystem paths that stacks depends on.
//
// The CLI "stacks check" command runs RunAll before reporting alignment,
// so a mispointed path fails up front instead of halfway through a run.
// Every check is local; nothing here touches the network.
package preflight
