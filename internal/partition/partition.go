// Package partition plans the year layout for thumbnail folders and keeps
// catalog thumbnail paths aligned with it.
//
// A folder's year comes from the catalog: the date of the first entry whose
// identifier matches the folder name. Folders whose year cannot be
// determined are never moved and never defaulted into a fallback bucket;
// they stay where they are and the plan records why.
package partition

import (
	"path"
	"path/filepath"

	"stacks/internal/catalog"
	"stacks/internal/fileutil"
	"stacks/internal/shelf"
	"stacks/internal/years"
)

// Warnings written into catalog entries by AnnotateCatalog. The wording is
// part of the catalog contract; downstream tooling matches on it.
const (
	WarnNoIdentifier = "no identifier in entry"
	WarnUnknownYear  = "year could not be determined"
	WarnNotMoved     = "folder not yet moved"
	WarnFolderFound  = "thumbnail folder not found"
)

// Move relocates one root-level folder into its year directory.
type Move struct {
	Record      shelf.Record
	Year        string
	YearDir     string
	Destination string
}

// FolderPlan is the outcome of planning folder partitioning.
type FolderPlan struct {
	Root string
	// Total counts the root-level folders considered.
	Total int
	// Moves lists the planned relocations in scan order.
	Moves []Move
	// UnknownYear lists folders skipped because no year could be
	// determined for them.
	UnknownYear []shelf.Record
	// AlreadyPlaced counts folders that already live inside a year
	// directory.
	AlreadyPlaced int
}

// yearIndex maps identifiers to extracted years, first catalog entry wins.
func yearIndex(entries []catalog.Entry) map[string]string {
	index := make(map[string]string, len(entries))
	for _, entry := range entries {
		id := entry.Identifier()
		if id == "" {
			continue
		}
		if _, seen := index[id]; seen {
			continue
		}
		index[id] = years.Extract(entry.Date())
	}
	return index
}

// PlanFolderMoves decides the destination of every root-level folder in the
// tree. Folders already inside year directories are left alone.
func PlanFolderMoves(tree *shelf.Tree, entries []catalog.Entry) FolderPlan {
	index := yearIndex(entries)
	flat := tree.FlatRecords()

	plan := FolderPlan{
		Root:          tree.Root,
		Total:         len(flat),
		AlreadyPlaced: len(tree.Records) - len(flat),
	}
	for _, record := range flat {
		year, ok := index[record.Name]
		if !ok {
			year = years.Unknown
		}
		if year == years.Unknown {
			plan.UnknownYear = append(plan.UnknownYear, record)
			continue
		}
		yearDir := filepath.Join(tree.Root, year)
		plan.Moves = append(plan.Moves, Move{
			Record:      record,
			Year:        year,
			YearDir:     yearDir,
			Destination: filepath.Join(yearDir, record.Name),
		})
	}
	return plan
}

// AnnotateStats counts the annotation outcomes of one catalog pass.
type AnnotateStats struct {
	Total        int
	Updated      int
	NotMoved     int
	Missing      int
	UnknownYear  int
	NoIdentifier int
}

// Warnings returns how many entries received a pathWarning.
func (s AnnotateStats) Warnings() int {
	return s.NotMoved + s.Missing + s.UnknownYear + s.NoIdentifier
}

// AnnotateCatalog rewrites every entry's thumbnail path against the folder
// tree under root. Each entry lands in exactly one outcome:
//
//   - no identifier: no path, warning
//   - unknown year: path stays the bare identifier, warning
//   - folder under root/year/identifier: year path, no warning
//   - folder still at root/identifier: bare path, warning
//   - folder nowhere: prospective year path, warning
//
// The input slice is not modified; output entries appear in input order.
func AnnotateCatalog(entries []catalog.Entry, root string) ([]catalog.Entry, AnnotateStats) {
	annotated := make([]catalog.Entry, 0, len(entries))
	stats := AnnotateStats{Total: len(entries)}

	for _, entry := range entries {
		id := entry.Identifier()
		if id == "" {
			stats.NoIdentifier++
			annotated = append(annotated, entry.Annotate(catalog.Annotations{
				PathWarning: WarnNoIdentifier,
			}))
			continue
		}

		year := years.Extract(entry.Date())
		if year == years.Unknown {
			stats.UnknownYear++
			annotated = append(annotated, entry.Annotate(catalog.Annotations{
				ThumbnailPath: id,
				PathWarning:   WarnUnknownYear,
			}))
			continue
		}

		switch {
		case fileutil.DirExists(filepath.Join(root, year, id)):
			stats.Updated++
			annotated = append(annotated, entry.Annotate(catalog.Annotations{
				ThumbnailPath: path.Join(year, id),
			}))
		case fileutil.DirExists(filepath.Join(root, id)):
			stats.NotMoved++
			annotated = append(annotated, entry.Annotate(catalog.Annotations{
				ThumbnailPath: id,
				PathWarning:   WarnNotMoved,
			}))
		default:
			stats.Missing++
			annotated = append(annotated, entry.Annotate(catalog.Annotations{
				ThumbnailPath: path.Join(year, id),
				PathWarning:   WarnFolderFound,
			}))
		}
	}
	return annotated, stats
}
