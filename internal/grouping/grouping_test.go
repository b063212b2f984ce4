package grouping

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func identity(s string) (string, error) { return s, nil }

func TestGroupStableOrder(t *testing.T) {
	items := []string{"b", "a", "b", "c", "a", "b"}
	result := Group(items, identity)

	wantKeys := []string{"b", "a", "c"}
	if len(result.Keys) != len(wantKeys) {
		t.Fatalf("keys = %v, want %v", result.Keys, wantKeys)
	}
	for i, key := range wantKeys {
		if result.Keys[i] != key {
			t.Fatalf("keys[%d] = %q, want %q (first-seen order)", i, result.Keys[i], key)
		}
	}
	if got := len(result.Members["b"]); got != 3 {
		t.Errorf("members[b] = %d, want 3", got)
	}
}

func TestGroupPartitionInvariant(t *testing.T) {
	items := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		items = append(items, fmt.Sprintf("item_%d", i%7))
	}
	result := Group(items, identity)

	if result.Skipped != 0 {
		t.Fatalf("skipped = %d, want 0", result.Skipped)
	}
	if got := result.Total(); got != len(items) {
		t.Fatalf("total = %d, want %d: every item must land in exactly one group", got, len(items))
	}
	if got := result.GroupCount(); got != 7 {
		t.Fatalf("groups = %d, want 7", got)
	}
}

func TestGroupSkipsFailedKeys(t *testing.T) {
	errNoKey := errors.New("no key")
	items := []string{"a", "", "b", "", "a"}
	result := Group(items, func(s string) (string, error) {
		if s == "" {
			return "", errNoKey
		}
		return s, nil
	})

	if result.Skipped != 2 {
		t.Fatalf("skipped = %d, want 2", result.Skipped)
	}
	if got := result.Total(); got != 3 {
		t.Fatalf("total = %d, want 3", got)
	}
	if got := result.GroupCount(); got != 2 {
		t.Fatalf("groups = %d, want 2", got)
	}
}

func TestGroupEmpty(t *testing.T) {
	result := Group(nil, identity)
	if result.Total() != 0 || result.GroupCount() != 0 || result.Skipped != 0 {
		t.Fatalf("empty input should produce an empty result: %+v", result)
	}
	if result.Reduction() != 0 {
		t.Fatalf("reduction of empty result = %v, want 0", result.Reduction())
	}
}

func TestReduction(t *testing.T) {
	items := []string{"a", "a", "b", "b", "c"}
	result := Group(items, identity)
	// 5 items, 3 groups: 40% reduction.
	if got := result.Reduction(); got != 40 {
		t.Fatalf("reduction = %v, want 40", got)
	}
	if got := result.DuplicateCount(); got != 2 {
		t.Fatalf("duplicates = %d, want 2", got)
	}
}

func TestResolveLexicographicSmallestWins(t *testing.T) {
	members := []string{"msdos_PacMan_1983_SideB", "msdos_PacMan_1983_SideA"}
	keep, remove := Resolve(members, func(s string) string { return s })

	if keep != "msdos_PacMan_1983_SideA" {
		t.Fatalf("keep = %q, want msdos_PacMan_1983_SideA", keep)
	}
	if len(remove) != 1 || remove[0] != "msdos_PacMan_1983_SideB" {
		t.Fatalf("remove = %v, want [msdos_PacMan_1983_SideB]", remove)
	}
}

func TestResolveCaseSensitive(t *testing.T) {
	// Byte-wise comparison: uppercase sorts before lowercase.
	keep, _ := Resolve([]string{"abc", "ABC"}, func(s string) string { return s })
	if keep != "ABC" {
		t.Fatalf("keep = %q, want ABC", keep)
	}
}

func TestResolveIdempotentUnderReordering(t *testing.T) {
	members := []string{"d", "a", "c", "b"}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]string, len(members))
		copy(shuffled, members)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		keep, remove := Resolve(shuffled, func(s string) string { return s })
		if keep != "a" {
			t.Fatalf("keep = %q after shuffle %d, want a", keep, i)
		}
		if len(remove) != 3 || remove[0] != "b" || remove[1] != "c" || remove[2] != "d" {
			t.Fatalf("remove = %v after shuffle %d, want [b c d]", remove, i)
		}
	}
}

func TestResolveSingleton(t *testing.T) {
	keep, remove := Resolve([]string{"only"}, func(s string) string { return s })
	if keep != "only" || remove != nil {
		t.Fatalf("singleton resolve = (%q, %v), want (only, nil)", keep, remove)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	members := []string{"b", "a"}
	Resolve(members, func(s string) string { return s })
	if members[0] != "b" || members[1] != "a" {
		t.Fatalf("input mutated: %v", members)
	}
}
