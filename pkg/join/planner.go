// Package join implements the cost-based equi-join strategy of §4.5: given
// two candidate key sets, pick nested-loop or sort-merge and produce the
// positional key-pair list that identifies matching rows.
package join

import "math"

// Strategy is the chosen join algorithm for one pair of candidate sets.
type Strategy int

const (
	NestedLoop Strategy = iota
	SortMerge
)

func (s Strategy) String() string {
	if s == SortMerge {
		return "SORT_MERGE"
	}
	return "NESTED_LOOP"
}

// Cost holds the two estimates §4.5 defines, for diagnostics (pkg/monitor)
// as well as for Choose's own decision.
type Cost struct {
	NestedCost float64
	MergeCost  float64
}

// EstimateCost computes nested_cost = |A|·|B| and
// merge_cost = |A|·log|A| + |B|·log|B| + |A| + |B| for candidate sets of
// size a and b.
func EstimateCost(a, b int) Cost {
	return Cost{
		NestedCost: float64(a) * float64(b),
		MergeCost:  logTerm(a) + logTerm(b) + float64(a) + float64(b),
	}
}

func logTerm(n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(n) * math.Log2(float64(n))
}

// Choose picks sort-merge when its estimated cost is lower, otherwise
// nested-loop (§4.5: "Pick sort-merge when merge_cost < nested_cost").
func Choose(aLen, bLen int) (Strategy, Cost) {
	cost := EstimateCost(aLen, bLen)
	if cost.MergeCost < cost.NestedCost {
		return SortMerge, cost
	}
	return NestedLoop, cost
}
