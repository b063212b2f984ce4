package testsupport

import (
	"testing"

	"stacks/internal/audit"
	"stacks/internal/config"
)

// MustOpenJournal opens an audit.Journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *audit.Journal {
	t.Helper()

	journal, err := audit.OpenJournal(cfg)
	if err != nil {
		t.Fatalf("audit.OpenJournal: %v", err)
	}
	t.Cleanup(func() {
		journal.Close()
	})
	return journal
}
