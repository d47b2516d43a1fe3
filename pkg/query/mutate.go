package query

import (
	"fmt"
	"os"

	"github.com/rpi11/Databases-P3/internal/ingest"
	"github.com/rpi11/Databases-P3/pkg/catalog"
	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/predicate"
	"github.com/rpi11/Databases-P3/pkg/schema"
	"github.com/rpi11/Databases-P3/pkg/types"
)

// noRowEnv is the predicate.Env for an expression with no row context — an
// INSERT VALUES list, which may only combine literals and arithmetic over
// them (a ColumnRef has nothing to resolve against, so it is an error).
type noRowEnv struct{}

func (noRowEnv) Value(string) (types.Value, bool) { return types.Value{}, false }

// rowValueEnv is the predicate.Env for an UPDATE SET expression: it resolves
// a column by dereferencing the row currently sitting under pk, so
// `SET balance = balance - amount` sees the row's own pre-update values.
type rowValueEnv struct {
	rel *catalog.Relation
	pk  types.Value
}

func (e rowValueEnv) Value(column string) (types.Value, bool) {
	return e.rel.ColumnValue(e.pk, column)
}

// singleTableKeys resolves a WHERE clause's affected primary keys against one
// table, reusing the same per-source candidate-set logic executeSelect uses
// for a FROM list of one (§4.2 — a single-relation command's predicates all
// own that one relation already, per schema.Validator.validateWhereSingleRelation).
func singleTableKeys(rel *catalog.Relation, table *schema.Table, wc *parser.WhereClause) ([]types.Value, error) {
	binding := sourceBinding{alias: table.Name, table: table, rel: rel}
	bindings := []sourceBinding{binding}
	logic := ""
	if wc != nil {
		logic = wc.Logic
	}
	grouped, err := groupConditionsByOwner(bindings, wc)
	if err != nil {
		return nil, err
	}
	return candidateSet(&binding, grouped[binding.alias], logic)
}

// executeInsert evaluates INSERT's value expressions (constants, possibly
// combined by arithmetic) and hands the result to Catalog.Insert, which
// re-validates types, primary-key uniqueness, and foreign keys before
// mutating anything (§4.1's Insert, grounded on original_source/P3.py's
// Table.insert).
func (e *Engine) executeInsert(stmt *parser.InsertStatement) error {
	rel, ok := e.Catalog.Relation(stmt.Table)
	if !ok {
		return fmt.Errorf("INSERT: unknown table %q", stmt.Table)
	}
	table := rel.Schema

	columns := stmt.Columns
	if len(columns) == 0 {
		columns = make([]string, len(table.Columns))
		for i, col := range table.Columns {
			columns[i] = col.Name
		}
	}
	if len(columns) != len(stmt.Values) {
		return fmt.Errorf("INSERT: column count %d does not match value count %d", len(columns), len(stmt.Values))
	}

	compiler := predicate.NewCompiler(table)
	raw := make(map[string]string, len(columns))
	for i, col := range columns {
		eval, err := compiler.CompileExpr(stmt.Values[i])
		if err != nil {
			return fmt.Errorf("INSERT: column %q: %w", col, err)
		}
		v, err := eval(noRowEnv{})
		if err != nil {
			return fmt.Errorf("INSERT: column %q: %w", col, err)
		}
		raw[col] = v.String()
	}
	return e.Catalog.Insert(stmt.Table, raw)
}

// executeUpdate resolves the affected rows, then applies each assignment in
// turn, evaluating its expression against the row's current values (§4.7 —
// an assignment like `SET balance = balance - amt` reads the row as it
// stands; because every assignment re-reads the row through rowValueEnv
// after the previous Catalog.SetColumn commits, a later assignment in the
// same SET list sees the values written by the earlier ones).
func (e *Engine) executeUpdate(stmt *parser.UpdateStatement) error {
	rel, ok := e.Catalog.Relation(stmt.Table)
	if !ok {
		return fmt.Errorf("UPDATE: unknown table %q", stmt.Table)
	}
	table := rel.Schema

	keys, err := singleTableKeys(rel, table, stmt.Where)
	if err != nil {
		return err
	}

	compiler := predicate.NewCompiler(table)
	for _, assign := range stmt.Assignments {
		eval, err := compiler.CompileExpr(assign.Value)
		if err != nil {
			return fmt.Errorf("UPDATE: column %q: %w", assign.Column, err)
		}
		for _, pk := range keys {
			v, err := eval(rowValueEnv{rel: rel, pk: pk})
			if err != nil {
				return fmt.Errorf("UPDATE: column %q: %w", assign.Column, err)
			}
			if err := e.Catalog.SetColumn(stmt.Table, pk, assign.Column, v.String()); err != nil {
				return fmt.Errorf("UPDATE: %w", err)
			}
		}
	}
	return nil
}

// executeDelete resolves the affected rows and cascades the delete through
// every FK child relation (§4.8).
func (e *Engine) executeDelete(stmt *parser.DeleteStatement) error {
	rel, ok := e.Catalog.Relation(stmt.Table)
	if !ok {
		return fmt.Errorf("DELETE: unknown table %q", stmt.Table)
	}
	keys, err := singleTableKeys(rel, rel.Schema, stmt.Where)
	if err != nil {
		return err
	}
	return e.Catalog.DeleteKeys(stmt.Table, keys)
}

// executeLoad bulk-ingests a CSV file (§6.2), inserting rows one at a time
// so an earlier row's successful insert survives a later row's failure; the
// LOAD command itself aborts at the first bad row (§7 — "the current
// command is aborted"), reporting which row it was.
func (e *Engine) executeLoad(stmt *parser.LoadStatement) error {
	rel, ok := e.Catalog.Relation(stmt.Table)
	if !ok {
		return fmt.Errorf("LOAD DATA: unknown table %q", stmt.Table)
	}
	if _, err := os.Stat(stmt.Path); err != nil {
		return fmt.Errorf("LOAD DATA: %w", err)
	}

	rows, err := ingest.LoadCSV(stmt.Path, rel.Schema, stmt.FieldSep, stmt.LineSep, stmt.IgnoreRows)
	if err != nil {
		return fmt.Errorf("LOAD DATA: %w", err)
	}
	for i, row := range rows {
		if err := e.Catalog.Insert(stmt.Table, row); err != nil {
			return fmt.Errorf("LOAD DATA: row %d: %w", i+1+stmt.IgnoreRows, err)
		}
	}
	return nil
}
