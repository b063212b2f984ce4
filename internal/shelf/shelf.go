// Package shelf scans the thumbnail folder tree that sits alongside the
// catalog. Each per-title directory is named by its catalog identifier,
// either directly under the root (flat layout) or nested one level deep
// inside four digit year directories.
package shelf

import (
	"fmt"
	"os"
	"path/filepath"

	"stacks/internal/years"
)

// Layout describes how title directories are arranged under the root.
type Layout string

const (
	// LayoutFlat means every title directory sits directly under the root.
	LayoutFlat Layout = "flat"
	// LayoutYears means at least one four digit year directory exists at
	// the root level.
	LayoutYears Layout = "years"
)

// Record is one per-title directory.
type Record struct {
	// Name is the directory name, which doubles as the title identifier.
	Name string
	// Path is the directory's full path.
	Path string
	// YearDir is the four digit parent directory name, or "" for a
	// root-level directory.
	YearDir string
}

// Tree is the scanned state of a thumbnail root.
type Tree struct {
	Root     string
	Layout   Layout
	YearDirs []string
	Records  []Record
}

// Scan reads the directory tree under root. A missing root or a root that
// is not a directory is a fatal error. Plain files are ignored at every
// level; title directories inside year directories are recorded with their
// parent year. Records are ordered root-level directories first, then each
// year directory's children, both in lexical name order.
func Scan(root string) (*Tree, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat thumbnail root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("thumbnail root %q is not a directory", root)
	}

	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read thumbnail root %q: %w", root, err)
	}

	tree := &Tree{Root: root, Layout: LayoutFlat}
	var yearDirs []string
	for _, entry := range dirEntries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if years.IsYearName(name) {
			yearDirs = append(yearDirs, name)
			continue
		}
		tree.Records = append(tree.Records, Record{
			Name: name,
			Path: filepath.Join(root, name),
		})
	}

	for _, year := range yearDirs {
		yearPath := filepath.Join(root, year)
		children, err := os.ReadDir(yearPath)
		if err != nil {
			return nil, fmt.Errorf("read year directory %q: %w", yearPath, err)
		}
		for _, child := range children {
			if !child.IsDir() {
				continue
			}
			tree.Records = append(tree.Records, Record{
				Name:    child.Name(),
				Path:    filepath.Join(yearPath, child.Name()),
				YearDir: year,
			})
		}
	}

	tree.YearDirs = yearDirs
	if len(yearDirs) > 0 {
		tree.Layout = LayoutYears
	}
	return tree, nil
}

// FlatRecords returns the root-level title directories, the movable set
// for year partitioning.
func (t *Tree) FlatRecords() []Record {
	var flat []Record
	for _, record := range t.Records {
		if record.YearDir == "" {
			flat = append(flat, record)
		}
	}
	return flat
}

// CountByYearDir returns the number of title directories per year
// directory. Root-level directories are counted under "".
func (t *Tree) CountByYearDir() map[string]int {
	counts := make(map[string]int)
	for _, record := range t.Records {
		counts[record.YearDir]++
	}
	return counts
}
