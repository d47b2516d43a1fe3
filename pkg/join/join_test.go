package join

import (
	"testing"

	"github.com/rpi11/Databases-P3/pkg/types"
)

func TestChoosePicksSortMergeForLargeSets(t *testing.T) {
	strategy, cost := Choose(20000, 20000)
	if strategy != SortMerge {
		t.Fatalf("expected SORT_MERGE for two large sets, got %s (cost=%+v)", strategy, cost)
	}
}

func TestChoosePicksNestedLoopForSmallSets(t *testing.T) {
	strategy, _ := Choose(3, 4)
	if strategy != NestedLoop {
		t.Fatalf("expected NESTED_LOOP for small sets, got %s", strategy)
	}
}

func TestNestedLoopJoinMatchesByValue(t *testing.T) {
	a := []types.Value{types.IntValue(1), types.IntValue(2), types.IntValue(3)}
	b := []types.Value{types.IntValue(10), types.IntValue(20)}
	valueA := func(k types.Value) types.Value { return k }
	valueB := func(k types.Value) types.Value {
		if k == types.IntValue(10) {
			return types.IntValue(1)
		}
		return types.IntValue(3)
	}
	pairs := NestedLoopJoin(a, valueA, b, valueB)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d: %+v", len(pairs), pairs)
	}
}

func TestSortMergeJoinCartesianWithinBlock(t *testing.T) {
	a := []types.Value{types.IntValue(1), types.IntValue(1), types.IntValue(2)}
	b := []types.Value{types.IntValue(100), types.IntValue(101)}
	valueA := Identity
	valueB := func(k types.Value) types.Value { return types.IntValue(1) }
	pairs := SortMergeJoin(a, valueA, b, valueB)
	if len(pairs) != 4 {
		t.Fatalf("expected 2x2=4 pairs from duplicate block, got %d: %+v", len(pairs), pairs)
	}
}

func TestSortMergeJoinEmptySideYieldsEmpty(t *testing.T) {
	pairs := SortMergeJoin(nil, Identity, []types.Value{types.IntValue(1)}, Identity)
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs, got %d", len(pairs))
	}
}
