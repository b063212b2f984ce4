package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(src, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "thumb.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "alt.png"), []byte("alt"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "dst")
	if err := CopyDir(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "nested", "alt.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "alt" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestMoveDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "title_dir")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "cover.png"), []byte("img"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "1983", "title_dir")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := MoveDir(src, dst); err != nil {
		t.Fatal(err)
	}

	if DirExists(src) {
		t.Fatal("source still exists after move")
	}
	got, err := os.ReadFile(filepath.Join(dst, "cover.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "img" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !DirExists(dir) {
		t.Fatal("existing directory reported missing")
	}
	if DirExists(filepath.Join(dir, "absent")) {
		t.Fatal("missing directory reported present")
	}

	file := filepath.Join(dir, "plain")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if DirExists(file) {
		t.Fatal("plain file reported as directory")
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b")

	created, err := EnsureDir(path)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first EnsureDir should create")
	}

	created, err = EnsureDir(path)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("second EnsureDir should be a no-op")
	}
}
