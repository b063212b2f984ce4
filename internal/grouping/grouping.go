// Package grouping implements stable duplicate grouping and the keep/remove
// resolution policy shared by the folder and catalog dedupe planners.
package grouping

import (
	"slices"
	"strings"
)

// Result holds the outcome of grouping a batch of items by key. Keys are
// recorded in first-seen order and members keep their input order inside
// each group, so repeated runs over the same input produce identical plans.
type Result[T any] struct {
	// Keys lists the distinct grouping keys in first-seen order.
	Keys []string
	// Members maps each key to its items in input order.
	Members map[string][]T
	// Skipped counts items whose key function failed. Skipped items belong
	// to no group.
	Skipped int
}

// Group partitions items by the key function. An item whose key function
// returns an error is counted in Skipped and excluded; the batch always
// completes. Every non-skipped item lands in exactly one group.
func Group[T any](items []T, key func(T) (string, error)) Result[T] {
	result := Result[T]{Members: make(map[string][]T, len(items))}
	for _, item := range items {
		k, err := key(item)
		if err != nil {
			result.Skipped++
			continue
		}
		if _, seen := result.Members[k]; !seen {
			result.Keys = append(result.Keys, k)
		}
		result.Members[k] = append(result.Members[k], item)
	}
	return result
}

// Total returns the number of grouped items, excluding skipped ones.
func (r Result[T]) Total() int {
	total := 0
	for _, members := range r.Members {
		total += len(members)
	}
	return total
}

// GroupCount returns the number of distinct groups.
func (r Result[T]) GroupCount() int {
	return len(r.Keys)
}

// DuplicateCount returns how many items are members beyond the first of
// their group, i.e. how many removals full deduplication would perform.
func (r Result[T]) DuplicateCount() int {
	return r.Total() - r.GroupCount()
}

// Reduction returns the percentage of items that deduplication would
// remove: (total-groups)/total x 100. An empty result reduces by 0.
func (r Result[T]) Reduction() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(total-r.GroupCount()) / float64(total) * 100
}

// Resolve picks the surviving member of a duplicate group. Members are
// ordered by their identifying string, byte-wise ascending, and the
// smallest wins; the remainder are returned in that sorted order. The
// policy is deterministic under any input ordering, which keeps repeated
// runs idempotent. Resolving a singleton returns it with no removals.
func Resolve[T any](members []T, idOf func(T) string) (keep T, remove []T) {
	if len(members) == 0 {
		return keep, nil
	}
	ordered := slices.Clone(members)
	slices.SortStableFunc(ordered, func(a, b T) int {
		return strings.Compare(idOf(a), idOf(b))
	})
	if len(ordered) == 1 {
		return ordered[0], nil
	}
	return ordered[0], ordered[1:]
}
