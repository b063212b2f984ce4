// Package alignment compares duplicate density between the thumbnail
// folder tree and the catalog. The two sides are maintained together, so
// their dedupe reduction percentages should track each other; a wide gap
// usually means one side was deduplicated while the other was left behind.
package alignment

import (
	"errors"
	"math"

	"stacks/internal/catalog"
	"stacks/internal/grouping"
	"stacks/internal/identifier"
	"stacks/internal/shelf"
)

var errNoIdentifier = errors.New("entry has no identifier")

// sampleLimit caps how many duplicate groups each side surfaces for
// display.
const sampleLimit = 10

// Sample is one duplicate group shown in the report.
type Sample struct {
	Base    string
	Members []string
}

// Side summarizes duplicate grouping for one side of the comparison.
type Side struct {
	Label      string
	Tokens     int
	Total      int
	Groups     int
	Duplicates int
	Skipped    int
	Reduction  float64
	Samples    []Sample
}

// Report is the outcome of an alignment check. The check is advisory and
// read-only; Misaligned is a warning, not an error.
type Report struct {
	Folders    Side
	Catalog    Side
	Gap        float64
	WarnGap    float64
	Misaligned bool
}

// Check groups each side with its own token count and compares reduction
// percentages. The gap is the absolute difference in percentage points;
// crossing warnGap flags the report as misaligned.
func Check(folders []shelf.Record, entries []catalog.Entry, folderTokens, catalogTokens int, warnGap float64) Report {
	folderResult := grouping.Group(folders, func(r shelf.Record) (string, error) {
		return identifier.Normalize(r.Name, folderTokens), nil
	})
	catalogResult := grouping.Group(entries, func(e catalog.Entry) (string, error) {
		id := e.Identifier()
		if id == "" {
			return "", errNoIdentifier
		}
		return identifier.Normalize(id, catalogTokens), nil
	})

	report := Report{
		Folders: side("folders", folderTokens, folderResult, func(r shelf.Record) string { return r.Name }),
		Catalog: side("catalog", catalogTokens, catalogResult, func(e catalog.Entry) string { return e.Identifier() }),
		WarnGap: warnGap,
	}
	report.Gap = math.Abs(report.Folders.Reduction - report.Catalog.Reduction)
	report.Misaligned = report.Gap > warnGap
	return report
}

func side[T any](label string, tokens int, result grouping.Result[T], nameOf func(T) string) Side {
	s := Side{
		Label:      label,
		Tokens:     tokens,
		Total:      result.Total(),
		Groups:     result.GroupCount(),
		Duplicates: result.DuplicateCount(),
		Skipped:    result.Skipped,
		Reduction:  result.Reduction(),
	}
	for _, base := range result.Keys {
		members := result.Members[base]
		if len(members) < 2 {
			continue
		}
		sample := Sample{Base: base}
		for _, member := range members {
			sample.Members = append(sample.Members, nameOf(member))
		}
		s.Samples = append(s.Samples, sample)
		if len(s.Samples) == sampleLimit {
			break
		}
	}
	return s
}
