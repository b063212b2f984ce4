package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// MakeTitleDir creates a thumbnail folder under root with a single
// placeholder thumb inside and returns the folder path.
func MakeTitleDir(t testing.TB, root, name string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	thumb := filepath.Join(dir, "thumb_01.png")
	if err := os.WriteFile(thumb, []byte{0x89}, 0o644); err != nil {
		t.Fatalf("write %s: %v", thumb, err)
	}
	return dir
}

// MakeYearTitleDir creates a thumbnail folder nested under a year directory.
func MakeYearTitleDir(t testing.TB, root, year, name string) string {
	t.Helper()

	return MakeTitleDir(t, filepath.Join(root, year), name)
}

// WriteCatalog writes raw catalog JSON to path, creating parent directories.
func WriteCatalog(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
