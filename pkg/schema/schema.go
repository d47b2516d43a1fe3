// Package schema holds the table/column metadata produced by CREATE TABLE
// and the binding checks run against it before a statement executes.
package schema

import (
	"fmt"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/types"
)

// Column describes one column of a table: its declared type and whether it
// participates in the primary key or a foreign key (§2).
type Column struct {
	Name         string
	DataType     types.DataType
	IsPrimaryKey bool
	ForeignKey   *ForeignKeyRef // nil if this column is not a foreign key
}

// ForeignKeyRef is the table/column a foreign key column references.
type ForeignKeyRef struct {
	Table  string
	Column string
}

// Table is the schema of one relation: its columns in declared order plus
// case-insensitive lookup by name.
type Table struct {
	Name       string
	Columns    []*Column
	byName     map[string]*Column
	PrimaryKey string // column name; empty when the table declares no primary key
}

// NewTable creates an empty table schema.
func NewTable(name string) *Table {
	return &Table{Name: name, byName: make(map[string]*Column)}
}

// AddColumn appends a column, preserving declaration order.
func (t *Table) AddColumn(col *Column) {
	t.Columns = append(t.Columns, col)
	t.byName[strings.ToLower(col.Name)] = col
	if col.IsPrimaryKey {
		t.PrimaryKey = col.Name
	}
}

// GetColumn retrieves a column by name, case-insensitively.
func (t *Table) GetColumn(name string) (*Column, bool) {
	col, ok := t.byName[strings.ToLower(name)]
	return col, ok
}

// HasColumn reports whether a column exists, case-insensitively.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[strings.ToLower(name)]
	return ok
}

// Schema is a named collection of tables, keyed case-insensitively.
type Schema struct {
	Name   string
	Tables map[string]*Table
}

// NewSchema creates an empty schema.
func NewSchema(name string) *Schema {
	return &Schema{Name: name, Tables: make(map[string]*Table)}
}

// AddTable registers a table, replacing any existing table of the same name.
func (s *Schema) AddTable(table *Table) {
	s.Tables[strings.ToLower(table.Name)] = table
}

// RemoveTable drops a table from the schema (DROP TABLE, §6.1).
func (s *Schema) RemoveTable(name string) {
	delete(s.Tables, strings.ToLower(name))
}

// GetTable retrieves a table by name, case-insensitively.
func (s *Schema) GetTable(name string) (*Table, bool) {
	table, ok := s.Tables[strings.ToLower(name)]
	return table, ok
}

// HasTable reports whether a table exists, case-insensitively.
func (s *Schema) HasTable(name string) bool {
	_, ok := s.Tables[strings.ToLower(name)]
	return ok
}

// GetColumn retrieves a column from a named table.
func (s *Schema) GetColumn(tableName, columnName string) (*Column, error) {
	table, ok := s.GetTable(tableName)
	if !ok {
		return nil, fmt.Errorf("table %q not found", tableName)
	}
	column, ok := table.GetColumn(columnName)
	if !ok {
		return nil, fmt.Errorf("column %q not found in table %q", columnName, tableName)
	}
	return column, nil
}

// Validate checks that every foreign key column references an existing
// table and column (§2, invariant 5).
func (s *Schema) Validate() error {
	for _, table := range s.Tables {
		for _, col := range table.Columns {
			if col.ForeignKey == nil {
				continue
			}
			refTable, ok := s.GetTable(col.ForeignKey.Table)
			if !ok {
				return fmt.Errorf("foreign key %s.%s references non-existent table %q",
					table.Name, col.Name, col.ForeignKey.Table)
			}
			if !refTable.HasColumn(col.ForeignKey.Column) {
				return fmt.Errorf("foreign key %s.%s references non-existent column %s.%s",
					table.Name, col.Name, col.ForeignKey.Table, col.ForeignKey.Column)
			}
			if refTable.PrimaryKey != col.ForeignKey.Column {
				return fmt.Errorf("foreign key %s.%s must reference the primary key of %q, not %s",
					table.Name, col.Name, col.ForeignKey.Table, col.ForeignKey.Column)
			}
		}
	}
	return nil
}
