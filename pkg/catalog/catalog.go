package catalog

import (
	"fmt"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/schema"
	"github.com/rpi11/Databases-P3/pkg/types"
)

// Catalog is the process-wide registry mapping relation name to Relation,
// plus the schema describing every relation's shape (§2, "Catalog").
type Catalog struct {
	Schema    *schema.Schema
	relations map[string]*Relation
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		Schema:    schema.NewSchema("default"),
		relations: make(map[string]*Relation),
	}
}

func key(name string) string { return strings.ToLower(name) }

// Relation retrieves a live relation by name.
func (c *Catalog) Relation(name string) (*Relation, bool) {
	r, ok := c.relations[key(name)]
	return r, ok
}

// CreateTable builds a schema.Table and an empty Relation from a parsed
// CREATE TABLE statement, wiring the child-reference map onto every
// referenced parent relation (§3.2's "child-reference map").
//
// Callers are expected to have already run schema.Validator on stmt; this
// method re-derives the DataType conversions, which is where a malformed
// length or unknown type still surfaces (§7, "Schema errors").
func (c *Catalog) CreateTable(stmt *parser.CreateTableStatement) error {
	table := schema.NewTable(stmt.Name)
	for _, colDef := range stmt.Columns {
		dt, err := types.ParseDataType(colDef.TypeName, colDef.Length)
		if err != nil {
			return fmt.Errorf("CREATE TABLE: %w", err)
		}
		col := &schema.Column{
			Name:         colDef.Name,
			DataType:     dt,
			IsPrimaryKey: strings.EqualFold(colDef.Name, stmt.PrimaryKey),
		}
		table.AddColumn(col)
	}
	for _, fk := range stmt.ForeignKeys {
		col, ok := table.GetColumn(fk.Column)
		if !ok {
			return fmt.Errorf("CREATE TABLE: foreign key column %q not declared", fk.Column)
		}
		col.ForeignKey = &schema.ForeignKeyRef{Table: fk.RefTable, Column: fk.RefColumn}
	}

	c.Schema.AddTable(table)
	if err := c.Schema.Validate(); err != nil {
		c.Schema.RemoveTable(stmt.Name)
		return fmt.Errorf("CREATE TABLE: %w", err)
	}

	relation := NewRelation(table)
	c.relations[key(stmt.Name)] = relation

	for _, fk := range stmt.ForeignKeys {
		parent, ok := c.Relation(fk.RefTable)
		if !ok {
			continue
		}
		parent.children = append(parent.children, childRef{child: relation, column: fk.Column})
	}
	return nil
}

// CreateIndex records a CREATE INDEX marker on the named relation/column.
// Every column already carries the bucket index of §3.3, so this has no
// effect on lookup strategy; it exists so CREATE INDEX is accepted rather
// than rejected (SPEC_FULL.md §D.3). Callers are expected to have already
// run schema.Validator, which checks the table/column exist.
func (c *Catalog) CreateIndex(stmt *parser.CreateIndexStatement) error {
	relation, ok := c.Relation(stmt.Table)
	if !ok {
		return fmt.Errorf("CREATE INDEX: unknown table %q", stmt.Table)
	}
	relation.Indexes[strings.ToLower(stmt.Column)] = true
	return nil
}

// DropTable removes a relation, first cascading the drop transitively to
// every child relation referencing it (§3.4).
func (c *Catalog) DropTable(name string) error {
	relation, ok := c.Relation(name)
	if !ok {
		return fmt.Errorf("DROP TABLE: unknown table %q", name)
	}
	for _, ref := range relation.children {
		if cur, ok := c.Relation(ref.child.Schema.Name); !ok || cur != ref.child {
			continue // child already dropped
		}
		if err := c.DropTable(ref.child.Schema.Name); err != nil {
			return err
		}
	}
	delete(c.relations, key(name))
	c.Schema.RemoveTable(name)
	return nil
}

// Insert converts raw field values per the table's declared types, checks
// every foreign key against its parent relation, checks primary-key
// uniqueness, and only then mutates the relation (§3.1, §3.4 — "no partial
// row state is observable"; grounded on original_source/P3.py's Table.insert).
func (c *Catalog) Insert(tableName string, raw map[string]string) error {
	relation, ok := c.Relation(tableName)
	if !ok {
		return fmt.Errorf("INSERT: unknown table %q", tableName)
	}
	table := relation.Schema

	if len(raw) != len(table.Columns) {
		return fmt.Errorf("INSERT: row of %d fields does not match table %q's %d columns",
			len(raw), tableName, len(table.Columns))
	}

	converted := make(map[string]types.Value, len(raw))
	for _, col := range table.Columns {
		rawVal, ok := raw[col.Name]
		if !ok {
			return fmt.Errorf("INSERT: missing value for column %q", col.Name)
		}
		v, err := types.Convert(rawVal, col.DataType)
		if err != nil {
			return fmt.Errorf("INSERT: column %q: %w", col.Name, err)
		}
		converted[col.Name] = v
	}

	var pk types.Value
	for _, col := range table.Columns {
		if !col.IsPrimaryKey {
			continue
		}
		pk = converted[col.Name]
		if _, exists := relation.GetRow(pk); exists {
			return fmt.Errorf("INSERT: duplicate primary key %s in table %q", pk, tableName)
		}
	}

	for _, col := range table.Columns {
		if col.ForeignKey == nil {
			continue
		}
		parent, ok := c.Relation(col.ForeignKey.Table)
		if !ok {
			return fmt.Errorf("INSERT: foreign key table %q no longer exists", col.ForeignKey.Table)
		}
		if _, exists := parent.GetRow(converted[col.Name]); !exists {
			return fmt.Errorf("INSERT: value %s for column %q not present in foreign key table %s.%s",
				converted[col.Name], col.Name, col.ForeignKey.Table, col.ForeignKey.Column)
		}
	}

	body := make(RowBody, len(table.Columns)-1)
	for _, col := range table.Columns {
		if !col.IsPrimaryKey {
			body[col.Name] = converted[col.Name]
		}
	}
	relation.insertRow(pk, body)
	return nil
}

// SetColumn applies one UPDATE assignment to a single row, re-checking any
// foreign key the assignment touches (§4.7 — PK assignment is rejected
// earlier, by schema.Validator).
func (c *Catalog) SetColumn(tableName string, pk types.Value, column string, raw string) error {
	relation, ok := c.Relation(tableName)
	if !ok {
		return fmt.Errorf("UPDATE: unknown table %q", tableName)
	}
	col, ok := relation.Schema.GetColumn(column)
	if !ok {
		return fmt.Errorf("UPDATE: unknown column %q", column)
	}
	v, err := types.Convert(raw, col.DataType)
	if err != nil {
		return fmt.Errorf("UPDATE: column %q: %w", column, err)
	}
	if col.ForeignKey != nil {
		parent, ok := c.Relation(col.ForeignKey.Table)
		if !ok {
			return fmt.Errorf("UPDATE: foreign key table %q no longer exists", col.ForeignKey.Table)
		}
		if _, exists := parent.GetRow(v); !exists {
			return fmt.Errorf("UPDATE: value %s for column %q not present in foreign key table %s.%s",
				v, column, col.ForeignKey.Table, col.ForeignKey.Column)
		}
	}
	return relation.setColumnValue(pk, column, v)
}

// DeleteKeys removes every row named by pks from tableName, cascading
// transitively through every child relation's FK back-references (§4.8).
func (c *Catalog) DeleteKeys(tableName string, pks []types.Value) error {
	relation, ok := c.Relation(tableName)
	if !ok {
		return fmt.Errorf("DELETE: unknown table %q", tableName)
	}
	for _, pk := range pks {
		c.deleteCascade(relation, pk)
	}
	return nil
}

func (c *Catalog) deleteCascade(relation *Relation, pk types.Value) {
	if _, exists := relation.GetRow(pk); !exists {
		return
	}
	for _, ref := range relation.children {
		childPKs := ref.child.KeysWhere(ref.column, pk)
		for _, childPK := range childPKs {
			c.deleteCascade(ref.child, childPK)
		}
	}
	relation.deleteRow(pk)
}
