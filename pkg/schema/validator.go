package schema

import (
	"fmt"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/parser"
)

// BindingError reports one failure to resolve a column/alias/aggregate shape
// against the schema (§7's "Binding errors" / "Semantic errors" categories).
type BindingError struct {
	Construct string // human-readable name of the offending clause
	Message   string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Construct, e.Message)
}

func bindingErr(construct, format string, args ...interface{}) *BindingError {
	return &BindingError{Construct: construct, Message: fmt.Sprintf(format, args...)}
}

// Validator checks a parsed statement against the live schema before the
// query engine is allowed to execute it. It returns the first binding or
// semantic error found; the engine aborts the command on any non-nil result
// (§6.4 — one ERROR line per command, no partial execution).
type Validator struct {
	schema *Schema
}

// NewValidator creates a Validator bound to the given (live, mutable) schema.
func NewValidator(schema *Schema) *Validator {
	return &Validator{schema: schema}
}

// ValidateStatement dispatches to the per-statement binding check.
func (v *Validator) ValidateStatement(stmt parser.Statement) error {
	switch s := stmt.(type) {
	case *parser.CreateTableStatement:
		return v.validateCreateTable(s)
	case *parser.CreateIndexStatement:
		return v.validateCreateIndex(s)
	case *parser.DropTableStatement:
		return v.validateDropTable(s)
	case *parser.LoadStatement:
		return v.validateLoad(s)
	case *parser.InsertStatement:
		return v.validateInsert(s)
	case *parser.SelectStatement:
		return v.validateSelect(s)
	case *parser.UpdateStatement:
		return v.validateUpdate(s)
	case *parser.DeleteStatement:
		return v.validateDelete(s)
	default:
		return nil
	}
}

func (v *Validator) validateCreateTable(s *parser.CreateTableStatement) error {
	if v.schema.HasTable(s.Name) {
		return bindingErr("CREATE TABLE", "table %q already exists", s.Name)
	}
	seen := map[string]bool{}
	for _, col := range s.Columns {
		key := strings.ToLower(col.Name)
		if seen[key] {
			return bindingErr("CREATE TABLE", "duplicate column %q in table %q", col.Name, s.Name)
		}
		seen[key] = true
		switch strings.ToUpper(col.TypeName) {
		case "INT", "FLOAT", "VARCHAR":
		default:
			return bindingErr("CREATE TABLE", "unknown type %q for column %q", col.TypeName, col.Name)
		}
	}
	if s.PrimaryKey != "" && !seen[strings.ToLower(s.PrimaryKey)] {
		return bindingErr("CREATE TABLE", "primary key column %q not declared", s.PrimaryKey)
	}
	for _, fk := range s.ForeignKeys {
		if !seen[strings.ToLower(fk.Column)] {
			return bindingErr("CREATE TABLE", "foreign key column %q not declared", fk.Column)
		}
		refTable, ok := v.schema.GetTable(fk.RefTable)
		if !ok {
			return bindingErr("CREATE TABLE", "foreign key references unknown table %q", fk.RefTable)
		}
		refCol, ok := refTable.GetColumn(fk.RefColumn)
		if !ok {
			return bindingErr("CREATE TABLE", "foreign key references unknown column %s.%s", fk.RefTable, fk.RefColumn)
		}
		if !refCol.IsPrimaryKey {
			return bindingErr("CREATE TABLE", "foreign key must reference the primary key of %q, not %q", fk.RefTable, fk.RefColumn)
		}
	}
	return nil
}

func (v *Validator) validateCreateIndex(s *parser.CreateIndexStatement) error {
	table, ok := v.schema.GetTable(s.Table)
	if !ok {
		return bindingErr("CREATE INDEX", "unknown table %q", s.Table)
	}
	if !table.HasColumn(s.Column) {
		return bindingErr("CREATE INDEX", "unknown column %q in table %q", s.Column, s.Table)
	}
	return nil
}

func (v *Validator) validateDropTable(s *parser.DropTableStatement) error {
	if !v.schema.HasTable(s.Name) {
		return bindingErr("DROP TABLE", "unknown table %q", s.Name)
	}
	return nil
}

func (v *Validator) validateLoad(s *parser.LoadStatement) error {
	if !v.schema.HasTable(s.Table) {
		return bindingErr("LOAD DATA", "unknown table %q", s.Table)
	}
	return nil
}

func (v *Validator) validateInsert(s *parser.InsertStatement) error {
	table, ok := v.schema.GetTable(s.Table)
	if !ok {
		return bindingErr("INSERT", "unknown table %q", s.Table)
	}
	if len(s.Columns) > 0 {
		if len(s.Columns) != len(s.Values) {
			return bindingErr("INSERT", "column count %d does not match value count %d", len(s.Columns), len(s.Values))
		}
		for _, col := range s.Columns {
			if !table.HasColumn(col) {
				return bindingErr("INSERT", "unknown column %q in table %q", col, s.Table)
			}
		}
	} else if len(s.Values) != len(table.Columns) {
		return bindingErr("INSERT", "value count %d does not match column count %d in table %q",
			len(s.Values), len(table.Columns), s.Table)
	}
	return nil
}

// aliasBinding maps a source alias (or the bare relation name when no alias
// is given) to its resolved table.
type aliasBinding struct {
	alias string
	table *Table
}

func (v *Validator) resolveSources(sources []*parser.SourceRef) ([]aliasBinding, error) {
	bindings := make([]aliasBinding, 0, len(sources))
	for _, src := range sources {
		table, ok := v.schema.GetTable(src.Relation)
		if !ok {
			return nil, bindingErr("FROM", "unknown relation %q", src.Relation)
		}
		alias := src.Alias
		if alias == "" {
			alias = src.Relation
		}
		bindings = append(bindings, aliasBinding{alias: alias, table: table})
	}
	return bindings, nil
}

func findBinding(bindings []aliasBinding, alias string) *aliasBinding {
	for i := range bindings {
		if strings.EqualFold(bindings[i].alias, alias) {
			return &bindings[i]
		}
	}
	return nil
}

// resolveColumnRef finds which source binds a (possibly unqualified) column
// reference, rejecting unknown aliases/columns and ambiguous unqualified
// references spanning more than one source.
func resolveColumnRef(bindings []aliasBinding, ref *parser.ColumnRef) (*aliasBinding, error) {
	if ref.Table != "" {
		b := findBinding(bindings, ref.Table)
		if b == nil {
			return nil, bindingErr("column reference", "unknown alias %q", ref.Table)
		}
		if !b.table.HasColumn(ref.Column) {
			return nil, bindingErr("column reference", "unknown column %q in %q", ref.Column, ref.Table)
		}
		return b, nil
	}

	var found *aliasBinding
	for i := range bindings {
		if bindings[i].table.HasColumn(ref.Column) {
			if found != nil {
				return nil, bindingErr("column reference", "column %q is ambiguous across sources", ref.Column)
			}
			found = &bindings[i]
		}
	}
	if found == nil {
		return nil, bindingErr("column reference", "unknown column %q", ref.Column)
	}
	return found, nil
}

func (v *Validator) validateSelect(s *parser.SelectStatement) error {
	bindings, err := v.resolveSources(s.Sources)
	if err != nil {
		return err
	}

	if s.Join != nil {
		left := findBinding(bindings, s.Join.LeftAlias)
		if left == nil {
			return bindingErr("JOIN ON", "unknown alias %q", s.Join.LeftAlias)
		}
		if !left.table.HasColumn(s.Join.LeftColumn) {
			return bindingErr("JOIN ON", "unknown column %q in %q", s.Join.LeftColumn, s.Join.LeftAlias)
		}
		right := findBinding(bindings, s.Join.RightAlias)
		if right == nil {
			return bindingErr("JOIN ON", "unknown alias %q", s.Join.RightAlias)
		}
		if !right.table.HasColumn(s.Join.RightColumn) {
			return bindingErr("JOIN ON", "unknown column %q in %q", s.Join.RightColumn, s.Join.RightAlias)
		}
	}

	hasAggregate, hasPlain := false, false
	for _, item := range s.Projection {
		if item.Star {
			hasPlain = true
			if item.SourceAlias != "" && findBinding(bindings, item.SourceAlias) == nil {
				return bindingErr("projection", "unknown alias %q", item.SourceAlias)
			}
			continue
		}
		if item.Aggregate != "" {
			hasAggregate = true
		} else {
			hasPlain = true
		}
		ref := &parser.ColumnRef{Table: item.SourceAlias, Column: item.Column}
		if _, err := resolveColumnRef(bindings, ref); err != nil {
			return err
		}
	}
	if hasAggregate && hasPlain {
		return bindingErr("projection", "cannot mix an aggregate with a plain column")
	}

	if s.Where != nil {
		if err := validateWhereSingleRelation(bindings, s.Where); err != nil {
			return err
		}
	}

	return nil
}

// validateWhereSingleRelation rejects predicates spanning two relations
// (§4.2: join conditions belong in JOIN ON, not WHERE) and checks every
// column reference resolves.
func validateWhereSingleRelation(bindings []aliasBinding, wc *parser.WhereClause) error {
	for _, cond := range wc.Conditions {
		refs := collectColumnRefs(cond)
		var owner *aliasBinding
		for _, ref := range refs {
			b, err := resolveColumnRef(bindings, ref)
			if err != nil {
				return err
			}
			if owner == nil {
				owner = b
			} else if owner.alias != b.alias {
				return bindingErr("WHERE", "predicate references columns from more than one relation")
			}
		}
	}
	return nil
}

func collectColumnRefs(cond parser.Condition) []*parser.ColumnRef {
	switch c := cond.(type) {
	case *parser.Comparison:
		return append(collectExprColumnRefs(c.Left), collectExprColumnRefs(c.Right)...)
	case *parser.InCondition:
		return []*parser.ColumnRef{c.Column}
	case *parser.LikeCondition:
		return []*parser.ColumnRef{c.Column}
	default:
		return nil
	}
}

func collectExprColumnRefs(expr parser.Expr) []*parser.ColumnRef {
	switch e := expr.(type) {
	case *parser.ColumnRef:
		return []*parser.ColumnRef{e}
	case *parser.ArithExpr:
		return append(collectExprColumnRefs(e.Left), collectExprColumnRefs(e.Right)...)
	default:
		return nil
	}
}

func (v *Validator) validateUpdate(s *parser.UpdateStatement) error {
	table, ok := v.schema.GetTable(s.Table)
	if !ok {
		return bindingErr("UPDATE", "unknown table %q", s.Table)
	}
	for _, assign := range s.Assignments {
		col, ok := table.GetColumn(assign.Column)
		if !ok {
			return bindingErr("UPDATE", "unknown column %q in table %q", assign.Column, s.Table)
		}
		if col.IsPrimaryKey {
			return bindingErr("UPDATE", "cannot assign to primary key column %q", assign.Column)
		}
	}
	if s.Where != nil {
		bindings := []aliasBinding{{alias: s.Table, table: table}}
		if err := validateWhereSingleRelation(bindings, s.Where); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateDelete(s *parser.DeleteStatement) error {
	table, ok := v.schema.GetTable(s.Table)
	if !ok {
		return bindingErr("DELETE", "unknown table %q", s.Table)
	}
	if s.Where != nil {
		bindings := []aliasBinding{{alias: s.Table, table: table}}
		if err := validateWhereSingleRelation(bindings, s.Where); err != nil {
			return err
		}
	}
	return nil
}
