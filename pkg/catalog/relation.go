// Package catalog holds the live, mutable row storage behind every relation:
// the doubly-keyed column index of §3.3, insert/update/delete with invariant
// maintenance, and the FK child-reference graph that drives cascading delete.
package catalog

import (
	"fmt"
	"sort"

	"github.com/rpi11/Databases-P3/pkg/schema"
	"github.com/rpi11/Databases-P3/pkg/types"
)

// RowBody holds a row's non-primary-key values, keyed by column name —
// the "mapping from non-key column → scalar" of §3.3's PK bucket.
type RowBody map[string]types.Value

// childRef is one FK edge pointing at this relation: Child has a column
// named Column that must only ever hold values present in this relation's PK.
type childRef struct {
	child  *Relation
	column string
}

// Relation is one table's schema, rows, and column indices (§3.2).
type Relation struct {
	Schema *schema.Table

	pk    map[types.Value]RowBody                 // PK value -> row body
	index map[string]map[types.Value]map[types.Value]struct{} // column -> value -> set of PKs

	children []childRef

	// Indexes records CREATE INDEX markers (column -> declared). The column
	// index of §3.3 is already built for every column regardless, so this is
	// bookkeeping only (see SPEC_FULL.md §D.3) — it never changes lookup cost.
	Indexes map[string]bool
}

// NewRelation creates an empty relation over the given schema.
func NewRelation(tableSchema *schema.Table) *Relation {
	r := &Relation{
		Schema:  tableSchema,
		pk:      make(map[types.Value]RowBody),
		index:   make(map[string]map[types.Value]map[types.Value]struct{}),
		Indexes: make(map[string]bool),
	}
	for _, col := range tableSchema.Columns {
		if !col.IsPrimaryKey {
			r.index[col.Name] = make(map[types.Value]map[types.Value]struct{})
		}
	}
	return r
}

// RowCount is the PK mapping's cardinality (§3.2, invariant 5).
func (r *Relation) RowCount() int { return len(r.pk) }

// GetRow returns the row body for a primary key, if present.
func (r *Relation) GetRow(pk types.Value) (RowBody, bool) {
	body, ok := r.pk[pk]
	return body, ok
}

// ColumnValue resolves a row's value for any column, PK or not, given the
// row's primary key — the "dereference the row bodies" step of §3.3.
func (r *Relation) ColumnValue(pk types.Value, column string) (types.Value, bool) {
	col, ok := r.Schema.GetColumn(column)
	if !ok {
		return types.Value{}, false
	}
	if col.IsPrimaryKey {
		return pk, true
	}
	body, ok := r.pk[pk]
	if !ok {
		return types.Value{}, false
	}
	v, ok := body[col.Name]
	return v, ok
}

// DistinctValues returns every distinct value currently present in column's
// bucket map (§3.3's "iterate the column's mapping keys"). For the primary
// key column itself, every key IS a distinct value, so this returns AllKeys.
func (r *Relation) DistinctValues(column string) []types.Value {
	if col, ok := r.Schema.GetColumn(column); ok && col.IsPrimaryKey {
		return r.AllKeys()
	}
	bucket, ok := r.index[column]
	if !ok {
		return nil
	}
	values := make([]types.Value, 0, len(bucket))
	for v := range bucket {
		values = append(values, v)
	}
	return values
}

// SortedDistinctValues returns DistinctValues in ascending order. It sorts
// on every call; nothing is cached.
func (r *Relation) SortedDistinctValues(column string) []types.Value {
	values := r.DistinctValues(column)
	sort.Slice(values, func(i, j int) bool { return types.Less(values[i], values[j]) })
	return values
}

// Bucket returns the set of primary keys whose row holds value v in column.
func (r *Relation) Bucket(column string, v types.Value) []types.Value {
	bucket, ok := r.index[column]
	if !ok {
		return nil
	}
	keys, ok := bucket[v]
	if !ok {
		return nil
	}
	out := make([]types.Value, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	return out
}

// KeysWhere returns the primary keys whose row holds value v in column,
// handling the case where column is itself the primary key (a column with
// no inverted-index bucket of its own, since the PK mapping IS the bucket).
func (r *Relation) KeysWhere(column string, v types.Value) []types.Value {
	if col, ok := r.Schema.GetColumn(column); ok && col.IsPrimaryKey {
		if _, exists := r.pk[v]; exists {
			return []types.Value{v}
		}
		return nil
	}
	return r.Bucket(column, v)
}

// AllKeys returns every primary key currently stored, the "full PK domain"
// of §4.4 for a relation with no applicable predicates.
func (r *Relation) AllKeys() []types.Value {
	keys := make([]types.Value, 0, len(r.pk))
	for k := range r.pk {
		keys = append(keys, k)
	}
	return keys
}

// addToBucket is the non-key-column half of insert: register pk under v in
// column's inverted index (§3.3, invariant 1).
func (r *Relation) addToBucket(column string, v types.Value, pk types.Value) {
	bucket, ok := r.index[column]
	if !ok {
		bucket = make(map[types.Value]map[types.Value]struct{})
		r.index[column] = bucket
	}
	set, ok := bucket[v]
	if !ok {
		set = make(map[types.Value]struct{})
		bucket[v] = set
	}
	set[pk] = struct{}{}
}

// removeFromBucket deregisters pk from v's bucket in column, dropping the
// bucket itself once empty.
func (r *Relation) removeFromBucket(column string, v types.Value, pk types.Value) {
	bucket, ok := r.index[column]
	if !ok {
		return
	}
	set, ok := bucket[v]
	if !ok {
		return
	}
	delete(set, pk)
	if len(set) == 0 {
		delete(bucket, v)
	}
}

// insertRow installs a fully-validated row (the caller — Catalog.Insert —
// has already checked FK validity, PK uniqueness, and column completeness).
func (r *Relation) insertRow(pk types.Value, body RowBody) {
	r.pk[pk] = body
	for _, col := range r.Schema.Columns {
		if col.IsPrimaryKey {
			continue
		}
		r.addToBucket(col.Name, body[col.Name], pk)
	}
}

// setColumnValue implements one (column, new-value) step of UPDATE (§4.7):
// move pk from its old bucket to the new one and overwrite the row body.
func (r *Relation) setColumnValue(pk types.Value, column string, newValue types.Value) error {
	body, ok := r.pk[pk]
	if !ok {
		return fmt.Errorf("no row with primary key %s", pk)
	}
	old := body[column]
	r.removeFromBucket(column, old, pk)
	r.addToBucket(column, newValue, pk)
	body[column] = newValue
	return nil
}

// deleteRow removes pk from every non-key bucket and from the PK mapping
// (steps 1 and 3 of §4.8; cascading to children is Catalog's job since it
// needs the FK graph across relations).
func (r *Relation) deleteRow(pk types.Value) {
	body, ok := r.pk[pk]
	if !ok {
		return
	}
	for _, col := range r.Schema.Columns {
		if col.IsPrimaryKey {
			continue
		}
		r.removeFromBucket(col.Name, body[col.Name], pk)
	}
	delete(r.pk, pk)
}
