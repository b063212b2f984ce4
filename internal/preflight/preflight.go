package preflight

import "stacks/internal/config"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config. The log
// directory may be absent; it is created on first use, so its check only
// fails when the path exists and is unusable.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckCatalogFile("Catalog file", cfg.Paths.CatalogPath),
		CheckDirectoryAccess("Thumbnail root", cfg.Paths.ThumbsDir),
		CheckLogDir("Log directory", cfg.Paths.LogDir),
	}
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
