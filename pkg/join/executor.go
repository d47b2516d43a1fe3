package join

import (
	"sort"

	"github.com/rpi11/Databases-P3/pkg/types"
)

// KeyPair is one matched (A-side key, B-side key) pair — the "positional,
// not set-valued" output of §4.5.
type KeyPair struct {
	A, B types.Value
}

// ValueOf resolves a candidate key to the value it should be compared on.
// When the join column is the relation's own primary key this is Identity;
// otherwise it dereferences the row body (§4.5, "resolve each candidate key
// to its column value via the row body").
type ValueOf func(key types.Value) types.Value

// Identity is the ValueOf for a join column that is the relation's PK.
func Identity(v types.Value) types.Value { return v }

// NestedLoopJoin double-scans a and b, picking the smaller as the outer
// loop, and comparing each pair's resolved values (§4.5).
func NestedLoopJoin(a []types.Value, valueA ValueOf, b []types.Value, valueB ValueOf) []KeyPair {
	var pairs []KeyPair
	if len(a) <= len(b) {
		for _, ka := range a {
			va := valueA(ka)
			for _, kb := range b {
				if va == valueB(kb) {
					pairs = append(pairs, KeyPair{A: ka, B: kb})
				}
			}
		}
	} else {
		for _, kb := range b {
			vb := valueB(kb)
			for _, ka := range a {
				if vb == valueA(ka) {
					pairs = append(pairs, KeyPair{A: ka, B: kb})
				}
			}
		}
	}
	return pairs
}

type sortedEntry struct {
	key types.Value
	val types.Value
}

func sortedEntries(keys []types.Value, valueOf ValueOf) []sortedEntry {
	entries := make([]sortedEntry, len(keys))
	for i, k := range keys {
		entries[i] = sortedEntry{key: k, val: valueOf(k)}
	}
	sort.Slice(entries, func(i, j int) bool { return types.Less(entries[i].val, entries[j].val) })
	return entries
}

// SortMergeJoin sorts copies of a and b by their resolved values and
// advances twin cursors, emitting every pair within a matching block of
// equal values (§4.5 — duplicates yield the full Cartesian product within
// the block).
func SortMergeJoin(a []types.Value, valueA ValueOf, b []types.Value, valueB ValueOf) []KeyPair {
	ea := sortedEntries(a, valueA)
	eb := sortedEntries(b, valueB)

	var pairs []KeyPair
	i, j := 0, 0
	for i < len(ea) && j < len(eb) {
		switch {
		case types.Less(ea[i].val, eb[j].val):
			i++
		case types.Less(eb[j].val, ea[i].val):
			j++
		default:
			v := ea[i].val
			iEnd := i
			for iEnd < len(ea) && ea[iEnd].val == v {
				iEnd++
			}
			jEnd := j
			for jEnd < len(eb) && eb[jEnd].val == v {
				jEnd++
			}
			for x := i; x < iEnd; x++ {
				for y := j; y < jEnd; y++ {
					pairs = append(pairs, KeyPair{A: ea[x].key, B: eb[y].key})
				}
			}
			i, j = iEnd, jEnd
		}
	}
	return pairs
}

// Join picks a strategy per Choose and executes it, returning the pairs and
// the strategy chosen (the latter is what pkg/monitor's cardinality rule
// inspects).
func Join(a []types.Value, valueA ValueOf, b []types.Value, valueB ValueOf) ([]KeyPair, Strategy) {
	strategy, _ := Choose(len(a), len(b))
	if strategy == SortMerge {
		return SortMergeJoin(a, valueA, b, valueB), strategy
	}
	return NestedLoopJoin(a, valueA, b, valueB), strategy
}

// comparisonCounter tallies value comparisons so a test can observe the
// growth rate §4.5's cost model predicts (S4) instead of inferring it from
// wall-clock time.
type comparisonCounter struct{ n int }

func (c *comparisonCounter) less(a, b types.Value) bool {
	c.n++
	return types.Less(a, b)
}

func sortedEntriesCounted(keys []types.Value, valueOf ValueOf, counter *comparisonCounter) []sortedEntry {
	entries := make([]sortedEntry, len(keys))
	for i, k := range keys {
		entries[i] = sortedEntry{key: k, val: valueOf(k)}
	}
	sort.Slice(entries, func(i, j int) bool { return counter.less(entries[i].val, entries[j].val) })
	return entries
}

// NestedLoopJoinCounted behaves like NestedLoopJoin but also returns the
// number of value comparisons performed, always exactly |A|*|B| regardless
// of how many pairs match (§4.5's nested_cost).
func NestedLoopJoinCounted(a []types.Value, valueA ValueOf, b []types.Value, valueB ValueOf) ([]KeyPair, int) {
	var pairs []KeyPair
	comparisons := 0
	if len(a) <= len(b) {
		for _, ka := range a {
			va := valueA(ka)
			for _, kb := range b {
				comparisons++
				if va == valueB(kb) {
					pairs = append(pairs, KeyPair{A: ka, B: kb})
				}
			}
		}
	} else {
		for _, kb := range b {
			vb := valueB(kb)
			for _, ka := range a {
				comparisons++
				if vb == valueA(ka) {
					pairs = append(pairs, KeyPair{A: ka, B: kb})
				}
			}
		}
	}
	return pairs, comparisons
}

// SortMergeJoinCounted behaves like SortMergeJoin but also returns the
// number of value comparisons performed across both sorts plus the merge
// scan, letting a test check it against §4.5's
// |A|log|A| + |B|log|B| + |A| + |B| estimate (S4) directly.
func SortMergeJoinCounted(a []types.Value, valueA ValueOf, b []types.Value, valueB ValueOf) ([]KeyPair, int) {
	counter := &comparisonCounter{}
	ea := sortedEntriesCounted(a, valueA, counter)
	eb := sortedEntriesCounted(b, valueB, counter)

	var pairs []KeyPair
	i, j := 0, 0
	for i < len(ea) && j < len(eb) {
		switch {
		case counter.less(ea[i].val, eb[j].val):
			i++
		case counter.less(eb[j].val, ea[i].val):
			j++
		default:
			v := ea[i].val
			iEnd := i
			for iEnd < len(ea) && ea[iEnd].val == v {
				iEnd++
			}
			jEnd := j
			for jEnd < len(eb) && eb[jEnd].val == v {
				jEnd++
			}
			for x := i; x < iEnd; x++ {
				for y := j; y < jEnd; y++ {
					pairs = append(pairs, KeyPair{A: ea[x].key, B: eb[y].key})
				}
			}
			i, j = iEnd, jEnd
		}
	}
	return pairs, counter.n
}
