package schema

import (
	"testing"

	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/types"
)

func newTestSchema() *Schema {
	s := NewSchema("default")

	p := NewTable("p")
	p.AddColumn(&Column{Name: "k", DataType: types.DataType{Kind: types.IntKind}, IsPrimaryKey: true})
	s.AddTable(p)

	c := NewTable("c")
	c.AddColumn(&Column{Name: "k", DataType: types.DataType{Kind: types.IntKind}, IsPrimaryKey: true})
	c.AddColumn(&Column{Name: "pk_ref", DataType: types.DataType{Kind: types.IntKind}, ForeignKey: &ForeignKeyRef{Table: "p", Column: "k"}})
	c.AddColumn(&Column{Name: "name", DataType: types.DataType{Kind: types.StringKind, Length: 10}})
	s.AddTable(c)

	return s
}

func TestValidateCreateTableRejectsDuplicateTable(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.CreateTableStatement{Name: "p", Columns: []*parser.ColumnDef{{Name: "x", TypeName: "INT"}}}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error for duplicate table")
	}
}

func TestValidateCreateTableRejectsUnknownType(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.CreateTableStatement{Name: "q", Columns: []*parser.ColumnDef{{Name: "x", TypeName: "DATE"}}}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestValidateCreateTableRejectsForeignKeyNotReferencingPrimaryKey(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.CreateTableStatement{
		Name:    "q",
		Columns: []*parser.ColumnDef{{Name: "ref", TypeName: "INT"}, {Name: "name", TypeName: "VARCHAR"}},
		ForeignKeys: []*parser.ForeignKeyDef{
			{Column: "ref", RefTable: "c", RefColumn: "name"},
		},
	}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error: foreign key must reference a primary key")
	}
}

func TestValidateInsertColumnCountMismatch(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.InsertStatement{
		Table:   "p",
		Columns: []string{"k"},
		Values:  []parser.Expr{&parser.Literal{Raw: "1"}, &parser.Literal{Raw: "2"}},
	}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error for column/value count mismatch")
	}
}

func TestValidateInsertUnknownColumn(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.InsertStatement{
		Table:   "p",
		Columns: []string{"nope"},
		Values:  []parser.Expr{&parser.Literal{Raw: "1"}},
	}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestValidateSelectAggregateMixedWithPlainColumnRejected(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.SelectStatement{
		Sources: []*parser.SourceRef{{Relation: "p", Alias: "p"}},
		Projection: []*parser.ProjectionItem{
			{SourceAlias: "p", Column: "k"},
			{SourceAlias: "p", Column: "k", Aggregate: "SUM"},
		},
	}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error for mixed aggregate/plain projection")
	}
}

func TestValidateSelectUnknownAliasRejected(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.SelectStatement{
		Sources:    []*parser.SourceRef{{Relation: "p", Alias: "p"}},
		Projection: []*parser.ProjectionItem{{SourceAlias: "zzz", Column: "k"}},
	}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error for unknown alias")
	}
}

func TestValidateSelectWherePredicateSpanningTwoRelationsRejected(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.SelectStatement{
		Sources: []*parser.SourceRef{{Relation: "p", Alias: "p"}, {Relation: "c", Alias: "c"}},
		Join: &parser.JoinSpec{
			LeftAlias: "p", LeftColumn: "k", RightAlias: "c", RightColumn: "pk_ref",
		},
		Projection: []*parser.ProjectionItem{{Star: true}},
		Where: &parser.WhereClause{
			Conditions: []parser.Condition{
				&parser.Comparison{
					Left:     &parser.ColumnRef{Table: "p", Column: "k"},
					Operator: "==",
					Right:    &parser.ColumnRef{Table: "c", Column: "pk_ref"},
				},
			},
		},
	}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error: predicate spans two relations")
	}
}

func TestValidateUpdateAssignmentToPrimaryKeyRejected(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.UpdateStatement{
		Table:       "p",
		Assignments: []*parser.Assignment{{Column: "k", Value: &parser.Literal{Raw: "9"}}},
	}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error: cannot assign to primary key")
	}
}

func TestValidateDeleteUnknownTable(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.DeleteStatement{Table: "nope"}
	if err := v.ValidateStatement(stmt); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestValidateCreateIndexAccepted(t *testing.T) {
	s := newTestSchema()
	v := NewValidator(s)
	stmt := &parser.CreateIndexStatement{IndexName: "idx_ref", Table: "c", Column: "pk_ref"}
	if err := v.ValidateStatement(stmt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
