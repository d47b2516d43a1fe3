package parser

import "fmt"

// Node is the common interface for every AST node, kept from the teacher's
// Node/Statement/Expression split so Go's type switch can dispatch on the
// seven command shapes of §4.1.
type Node interface {
	String() string
}

// Statement is one of the seven top-level commands §4.1/§6.1 define.
type Statement interface {
	Node
	statementNode()
}

// Expr is an arithmetic expression node: a column reference, a literal, or a
// binary operation over two Exprs (§9, "small expression AST").
type Expr interface {
	Node
	exprNode()
}

// Condition is one compiled-from-syntax leaf of a WHERE clause: a
// comparison, a set-membership test, or a pattern match (§4.2).
type Condition interface {
	Node
	conditionNode()
}

// ColumnRef names a column, optionally qualified by a source alias
// ("a.Letter" vs "Letter").
type ColumnRef struct {
	Table  string // alias, empty if unqualified
	Column string
}

func (c *ColumnRef) exprNode() {}
func (c *ColumnRef) String() string {
	if c.Table != "" {
		return fmt.Sprintf("%s.%s", c.Table, c.Column)
	}
	return c.Column
}

// Literal is a constant appearing in the source text. IsString distinguishes
// a quoted literal from a bare numeric token; conversion to the column's
// declared type happens later (insert time or predicate compile time), never
// here, since the parser does not consult the schema.
type Literal struct {
	Raw      string
	IsString bool
}

func (l *Literal) exprNode() {}
func (l *Literal) String() string {
	if l.IsString {
		return fmt.Sprintf("%q", l.Raw)
	}
	return l.Raw
}

// ArithExpr is a column/literal arithmetic tree: col*2 + other (§4.2).
type ArithExpr struct {
	Left     Expr
	Operator string // + - * /
	Right    Expr
}

func (a *ArithExpr) exprNode() {}
func (a *ArithExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left.String(), a.Operator, a.Right.String())
}

// Comparison is an arithmetic predicate: < <= > >= == != over two Exprs,
// either of which may itself be an ArithExpr (§4.2).
type Comparison struct {
	Left     Expr
	Operator string
	Right    Expr
}

func (c *Comparison) conditionNode() {}
func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left.String(), c.Operator, c.Right.String())
}

// InCondition is `col IN (...)` / `col NOT IN (...)` (§4.2).
type InCondition struct {
	Column *ColumnRef
	Not    bool
	Values []*Literal
}

func (i *InCondition) conditionNode() {}
func (i *InCondition) String() string {
	if i.Not {
		return fmt.Sprintf("%s NOT IN (...)", i.Column.String())
	}
	return fmt.Sprintf("%s IN (...)", i.Column.String())
}

// LikeCondition is `col LIKE 'pat'` / `col NOT LIKE 'pat'` (§4.2).
type LikeCondition struct {
	Column  *ColumnRef
	Not     bool
	Pattern string
}

func (l *LikeCondition) conditionNode() {}
func (l *LikeCondition) String() string {
	if l.Not {
		return fmt.Sprintf("%s NOT LIKE %q", l.Column.String(), l.Pattern)
	}
	return fmt.Sprintf("%s LIKE %q", l.Column.String(), l.Pattern)
}

// WhereClause is either a single Condition, or a flat AND/OR of Conditions —
// mixing AND and OR at one level is a parse error (§4.1).
type WhereClause struct {
	Logic      string // "", "AND", or "OR"
	Conditions []Condition
}

func (w *WhereClause) String() string {
	if w == nil {
		return ""
	}
	return fmt.Sprintf("WHERE (%d conditions, logic=%s)", len(w.Conditions), w.Logic)
}

// ColumnDef is one column declaration inside CREATE TABLE.
type ColumnDef struct {
	Name     string
	TypeName string
	Length   int // 0 if not specified
}

// ForeignKeyDef is one FOREIGN KEY (col) REFERENCES other(col) clause.
type ForeignKeyDef struct {
	Column    string
	RefTable  string
	RefColumn string
}

// CreateTableStatement is `CREATE TABLE name (...)` (§6.1).
type CreateTableStatement struct {
	Name        string
	Columns     []*ColumnDef
	PrimaryKey  string // empty if none declared
	ForeignKeys []*ForeignKeyDef
}

func (s *CreateTableStatement) statementNode() {}
func (s *CreateTableStatement) String() string {
	return fmt.Sprintf("CREATE TABLE %s (%d columns)", s.Name, len(s.Columns))
}

// CreateIndexStatement is `CREATE INDEX idx ON t(col)`; accepted and
// validated but never materialized beyond the fixed column index of §3.3
// (see SPEC_FULL.md §D.3).
type CreateIndexStatement struct {
	IndexName string
	Table     string
	Column    string
}

func (s *CreateIndexStatement) statementNode() {}
func (s *CreateIndexStatement) String() string {
	return fmt.Sprintf("CREATE INDEX %s ON %s(%s)", s.IndexName, s.Table, s.Column)
}

// DropTableStatement is `DROP TABLE name`.
type DropTableStatement struct {
	Name string
}

func (s *DropTableStatement) statementNode() {}
func (s *DropTableStatement) String() string { return fmt.Sprintf("DROP TABLE %s", s.Name) }

// LoadStatement is `LOAD DATA [LOCAL] INFILE 'path' INTO TABLE name ...` (§6.2).
type LoadStatement struct {
	Table      string
	Path       string
	FieldSep   string
	LineSep    string
	IgnoreRows int
}

func (s *LoadStatement) statementNode() {}
func (s *LoadStatement) String() string {
	return fmt.Sprintf("LOAD DATA INFILE %q INTO TABLE %s", s.Path, s.Table)
}

// InsertStatement is `INSERT INTO name (cols...) VALUES (vals...)`.
type InsertStatement struct {
	Table   string
	Columns []string
	Values  []Expr
}

func (s *InsertStatement) statementNode() {}
func (s *InsertStatement) String() string {
	return fmt.Sprintf("INSERT INTO %s (%d cols)", s.Table, len(s.Columns))
}

// ProjectionItem is one entry of a SELECT projection list.
type ProjectionItem struct {
	SourceAlias string // empty if unqualified
	Column      string
	Star        bool
	Aggregate   string // "", MIN, MAX, SUM, AVG
	OutputAlias string
}

func (p *ProjectionItem) String() string {
	if p.Star {
		return "*"
	}
	return fmt.Sprintf("%s.%s", p.SourceAlias, p.Column)
}

// SourceRef is one entry of a SELECT's FROM list.
type SourceRef struct {
	Relation string
	Alias    string
}

// JoinSpec is the single equi-join predicate a SELECT may declare via
// `JOIN ON a.c = b.c` (§4.1 — no Cartesian product without one).
type JoinSpec struct {
	LeftAlias   string
	LeftColumn  string
	RightAlias  string
	RightColumn string
}

// SelectStatement is `SELECT projlist FROM src [,src] [JOIN ON ...] [WHERE ...]`.
type SelectStatement struct {
	Projection []*ProjectionItem
	Sources    []*SourceRef
	Join       *JoinSpec
	Where      *WhereClause
}

func (s *SelectStatement) statementNode() {}
func (s *SelectStatement) String() string {
	return fmt.Sprintf("SELECT (%d cols) FROM (%d sources)", len(s.Projection), len(s.Sources))
}

// Assignment is one `col = expr` pair of an UPDATE's SET clause.
type Assignment struct {
	Column string
	Value  Expr
}

// UpdateStatement is `UPDATE name SET col=val,... WHERE ...`.
type UpdateStatement struct {
	Table       string
	Assignments []*Assignment
	Where       *WhereClause
}

func (s *UpdateStatement) statementNode() {}
func (s *UpdateStatement) String() string {
	return fmt.Sprintf("UPDATE %s SET (%d cols)", s.Table, len(s.Assignments))
}

// DeleteStatement is `DELETE FROM name WHERE ...`.
type DeleteStatement struct {
	Table string
	Where *WhereClause
}

func (s *DeleteStatement) statementNode() {}
func (s *DeleteStatement) String() string { return fmt.Sprintf("DELETE FROM %s", s.Table) }
