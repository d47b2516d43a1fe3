package predicate

import (
	"github.com/rpi11/Databases-P3/pkg/catalog"
	"github.com/rpi11/Databases-P3/pkg/types"
)

// singleValueEnv is the Env for the single-column scan path of §4.3: a
// lone (column, value) pair stands in for a whole row.
type singleValueEnv struct {
	column string
	value  types.Value
}

func (e singleValueEnv) Value(column string) (types.Value, bool) {
	if column == e.column {
		return e.value, true
	}
	return types.Value{}, false
}

// rowEnv resolves a column by dereferencing a relation's row body under a
// known primary key — the multi-column arithmetic path of §4.3.
type rowEnv struct {
	rel *catalog.Relation
	pk  types.Value
}

func (e rowEnv) Value(column string) (types.Value, bool) {
	return e.rel.ColumnValue(e.pk, column)
}

// Execute runs a compiled predicate against rel, returning a deduplicated
// list of primary-key candidates per §4.3's per-family scan rules.
func Execute(rel *catalog.Relation, p *Predicate) ([]types.Value, error) {
	switch p.Family {
	case Arithmetic:
		if len(p.Columns) == 1 {
			return executeSingleColumnArithmetic(rel, p)
		}
		return executeMultiColumnArithmetic(rel, p)
	case SetMembership:
		return executeSetMembership(rel, p)
	case Pattern:
		return executePattern(rel, p)
	default:
		return nil, nil
	}
}

func executeSingleColumnArithmetic(rel *catalog.Relation, p *Predicate) ([]types.Value, error) {
	var out []types.Value
	for _, v := range rel.DistinctValues(p.Column) {
		ok, err := p.Eval(singleValueEnv{column: p.Column, value: v})
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rel.KeysWhere(p.Column, v)...)
		}
	}
	return out, nil
}

func executeMultiColumnArithmetic(rel *catalog.Relation, p *Predicate) ([]types.Value, error) {
	var out []types.Value
	for _, pk := range rel.AllKeys() {
		ok, err := p.Eval(rowEnv{rel: rel, pk: pk})
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, pk)
		}
	}
	return out, nil
}

func executeSetMembership(rel *catalog.Relation, p *Predicate) ([]types.Value, error) {
	var out []types.Value
	if !p.Not {
		for _, v := range p.SetValues {
			out = append(out, rel.KeysWhere(p.Column, v)...)
		}
		return out, nil
	}
	excluded := make(map[types.Value]bool, len(p.SetValues))
	for _, v := range p.SetValues {
		excluded[v] = true
	}
	for _, v := range rel.DistinctValues(p.Column) {
		if excluded[v] {
			continue
		}
		out = append(out, rel.KeysWhere(p.Column, v)...)
	}
	return out, nil
}

func executePattern(rel *catalog.Relation, p *Predicate) ([]types.Value, error) {
	var out []types.Value
	for _, v := range rel.DistinctValues(p.Column) {
		matched := MatchPattern(p.Kind, p.Needle, v.Str)
		if p.PatternNot {
			matched = !matched
		}
		if matched {
			out = append(out, rel.KeysWhere(p.Column, v)...)
		}
	}
	return out, nil
}
