// Package dedupe plans duplicate removal for thumbnail folders and catalog
// entries. Planning is pure: it inspects scanned state and produces an
// ordered action list without touching the filesystem, so the same plan
// can back both a preview and a later execution.
package dedupe

import (
	"errors"

	"stacks/internal/catalog"
	"stacks/internal/grouping"
	"stacks/internal/identifier"
	"stacks/internal/shelf"
)

var errNoIdentifier = errors.New("entry has no identifier")

// FolderAction removes every duplicate folder of one base identifier,
// keeping the lexicographically smallest name.
type FolderAction struct {
	Base   string
	Keep   shelf.Record
	Remove []shelf.Record
}

// FolderPlan is the outcome of planning folder deduplication.
type FolderPlan struct {
	Tokens     int
	Total      int
	Groups     int
	Duplicates int
	Actions    []FolderAction
}

// PlanFolders groups records by the base form of their directory name and
// emits one action per group that has duplicates. Actions follow first-seen
// group order; group members resolve by directory name.
func PlanFolders(records []shelf.Record, tokens int) FolderPlan {
	result := grouping.Group(records, func(r shelf.Record) (string, error) {
		return identifier.Normalize(r.Name, tokens), nil
	})

	plan := FolderPlan{
		Tokens:     tokens,
		Total:      result.Total(),
		Groups:     result.GroupCount(),
		Duplicates: result.DuplicateCount(),
	}
	for _, base := range result.Keys {
		members := result.Members[base]
		if len(members) < 2 {
			continue
		}
		keep, remove := grouping.Resolve(members, func(r shelf.Record) string { return r.Name })
		plan.Actions = append(plan.Actions, FolderAction{Base: base, Keep: keep, Remove: remove})
	}
	return plan
}

// CatalogAction drops every duplicate entry of one base identifier.
type CatalogAction struct {
	Base   string
	Keep   catalog.Entry
	Remove []catalog.Entry
}

// CatalogPlan is the outcome of planning catalog deduplication. Kept holds
// the surviving entries in original catalog order; entries without an
// identifier are counted in Skipped and take no part in the output.
type CatalogPlan struct {
	Tokens     int
	Total      int
	Groups     int
	Duplicates int
	Skipped    int
	Actions    []CatalogAction
	Kept       []catalog.Entry
}

// PlanCatalog groups entries by the base form of their identifier. Entries
// with duplicates resolve by full identifier, smallest kept. Entry order in
// Kept matches the source catalog.
func PlanCatalog(entries []catalog.Entry, tokens int) CatalogPlan {
	indexes := make([]int, len(entries))
	for i := range entries {
		indexes[i] = i
	}
	result := grouping.Group(indexes, func(i int) (string, error) {
		id := entries[i].Identifier()
		if id == "" {
			return "", errNoIdentifier
		}
		return identifier.Normalize(id, tokens), nil
	})

	plan := CatalogPlan{
		Tokens:     tokens,
		Total:      result.Total(),
		Groups:     result.GroupCount(),
		Duplicates: result.DuplicateCount(),
		Skipped:    result.Skipped,
	}

	kept := make(map[int]bool)
	for _, base := range result.Keys {
		members := result.Members[base]
		keepIdx, removeIdx := grouping.Resolve(members, func(i int) string { return entries[i].Identifier() })
		kept[keepIdx] = true
		if len(removeIdx) == 0 {
			continue
		}
		action := CatalogAction{Base: base, Keep: entries[keepIdx]}
		for _, i := range removeIdx {
			action.Remove = append(action.Remove, entries[i])
		}
		plan.Actions = append(plan.Actions, action)
	}

	for i, entry := range entries {
		if kept[i] {
			plan.Kept = append(plan.Kept, entry)
		}
	}
	return plan
}
