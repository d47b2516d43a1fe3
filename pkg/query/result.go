package query

import "github.com/rpi11/Databases-P3/pkg/types"

// Result is a SELECT's output: a mapping from output column name to its
// ordered list of values (§6.3), plus the column order so presentation
// layers don't have to rely on Go's unordered map iteration.
type Result struct {
	Columns []string
	Values  map[string][]types.Value
}

func newResult() *Result {
	return &Result{Values: make(map[string][]types.Value)}
}

// addColumn registers an output column (if not already present) and
// appends values to it, preserving first-seen column order.
func (r *Result) addColumn(name string, values []types.Value) {
	if _, exists := r.Values[name]; !exists {
		r.Columns = append(r.Columns, name)
	}
	r.Values[name] = append(r.Values[name], values...)
}

// RowCount is the length of the first column's value list, or 0 if the
// result carries no columns. Every column holds the same length by
// construction (the projector writes one value per key in the same key list).
func (r *Result) RowCount() int {
	if len(r.Columns) == 0 {
		return 0
	}
	return len(r.Values[r.Columns[0]])
}
