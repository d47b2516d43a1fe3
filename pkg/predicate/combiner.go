package predicate

import (
	"sort"

	"github.com/rpi11/Databases-P3/pkg/catalog"
	"github.com/rpi11/Databases-P3/pkg/join"
	"github.com/rpi11/Databases-P3/pkg/types"
)

// CombineAnd reconciles per-predicate candidate sets under AND (§4.4): sort
// by ascending length (cheapest first), then iteratively intersect via
// pkg/join's planner, using the primary key as both join columns since every
// set is already expressed in terms of the same relation's PK domain.
func CombineAnd(sets [][]types.Value) []types.Value {
	if len(sets) == 0 {
		return nil
	}
	ordered := append([][]types.Value{}, sets...)
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) < len(ordered[j]) })

	acc := ordered[0]
	for _, next := range ordered[1:] {
		acc = intersect(acc, next)
		if len(acc) == 0 {
			return acc
		}
	}
	return acc
}

// intersect realizes one AND step as an equi-join of two PK-domain sets on
// identical keys, letting pkg/join pick nested-loop vs sort-merge (§4.4,
// "intersection is realized by a join call").
func intersect(a, b []types.Value) []types.Value {
	pairs, _ := join.Join(a, join.Identity, b, join.Identity)
	seen := make(map[types.Value]bool, len(pairs))
	out := make([]types.Value, 0, len(pairs))
	for _, pair := range pairs {
		if !seen[pair.A] {
			seen[pair.A] = true
			out = append(out, pair.A)
		}
	}
	return out
}

// CombineOr unions every predicate's candidate set under OR (§4.4),
// deduplicating stably by first appearance.
func CombineOr(sets [][]types.Value) []types.Value {
	seen := map[types.Value]bool{}
	var out []types.Value
	for _, set := range sets {
		for _, v := range set {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// FullDomain is the candidate set for a relation the query references but
// that carries no predicates (§4.4, "the full PK domain").
func FullDomain(rel *catalog.Relation) []types.Value {
	return rel.AllKeys()
}
