// Package predicate compiles a WHERE clause's leaf conditions into typed
// evaluators (§4.2) and executes them against a relation's column index to
// produce deduplicated primary-key candidate sets (§4.3), which this
// package's combiner (combiner.go) then reconciles under AND/OR (§4.4).
package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/schema"
	"github.com/rpi11/Databases-P3/pkg/types"
)

// Family is which of the three predicate shapes §4.2 defines a Predicate is.
type Family int

const (
	Arithmetic Family = iota
	SetMembership
	Pattern
)

// PatternKind is the wildcard shape a LIKE pattern compiles to (§4.2: "no
// regex engine" — just prefix/suffix/contains/exact).
type PatternKind int

const (
	PatternExact PatternKind = iota
	PatternPrefix
	PatternSuffix
	PatternContains
)

// Env resolves a column's value for one row, letting Eval stay agnostic to
// whether it is scanning a single distinct value or a full row.
type Env interface {
	Value(column string) (types.Value, bool)
}

// Eval tests one row's environment against a compiled predicate's condition.
type Eval func(env Env) (bool, error)

// Predicate is one compiled WHERE-clause leaf condition, tagged with every
// column it touches so the executor knows whether to take the single-column
// fast path or the full-row scan path of §4.3.
type Predicate struct {
	Family  Family
	Columns []string // every column referenced, for the multi-column arithmetic path
	Column  string    // the single owning column for IN/LIKE and single-column arithmetic
	Eval    Eval

	// SetMembership-only
	Not       bool
	SetValues []types.Value

	// Pattern-only
	PatternNot  bool
	Kind        PatternKind
	Needle      string
}

// Compiler compiles WHERE conditions against one relation's schema, casting
// literals to each column's declared type as §4.2 requires.
type Compiler struct {
	Table *schema.Table
}

func NewCompiler(table *schema.Table) *Compiler {
	return &Compiler{Table: table}
}

// Compile classifies and compiles one leaf condition.
func (c *Compiler) Compile(cond parser.Condition) (*Predicate, error) {
	switch cn := cond.(type) {
	case *parser.Comparison:
		return c.compileComparison(cn)
	case *parser.InCondition:
		return c.compileIn(cn)
	case *parser.LikeCondition:
		return c.compileLike(cn)
	default:
		return nil, fmt.Errorf("predicate: unsupported condition %T", cond)
	}
}

type compiledExpr struct {
	eval Eval2
	cols []string
}

// Eval2 evaluates an arithmetic expression (not a boolean condition) to a
// scalar value.
type Eval2 func(env Env) (types.Value, error)

// CompileExpr compiles an arbitrary expression (an UPDATE SET value, say)
// against this compiler's table, returning a function that evaluates it to a
// scalar for a given row environment.
func (c *Compiler) CompileExpr(e parser.Expr) (Eval2, error) {
	compiled, err := c.compileExpr(e)
	if err != nil {
		return nil, err
	}
	return compiled.eval, nil
}

func (c *Compiler) compileExpr(e parser.Expr) (*compiledExpr, error) {
	switch ex := e.(type) {
	case *parser.ColumnRef:
		col, ok := c.Table.GetColumn(ex.Column)
		if !ok {
			return nil, fmt.Errorf("predicate: unknown column %q", ex.Column)
		}
		name := col.Name
		return &compiledExpr{
			cols: []string{name},
			eval: func(env Env) (types.Value, error) {
				v, ok := env.Value(name)
				if !ok {
					return types.Value{}, fmt.Errorf("predicate: no value for column %q", name)
				}
				return v, nil
			},
		}, nil
	case *parser.Literal:
		v, err := literalValue(ex)
		if err != nil {
			return nil, err
		}
		return &compiledExpr{eval: func(Env) (types.Value, error) { return v, nil }}, nil
	case *parser.ArithExpr:
		left, err := c.compileExpr(ex.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.compileExpr(ex.Right)
		if err != nil {
			return nil, err
		}
		op := ex.Operator
		eval := func(env Env) (types.Value, error) {
			lv, err := left.eval(env)
			if err != nil {
				return types.Value{}, err
			}
			rv, err := right.eval(env)
			if err != nil {
				return types.Value{}, err
			}
			return applyArith(op, lv, rv)
		}
		return &compiledExpr{eval: eval, cols: mergeCols(left.cols, right.cols)}, nil
	default:
		return nil, fmt.Errorf("predicate: unsupported expression %T", e)
	}
}

// literalValue interprets a bare literal token without reference to any
// column's declared type — plain numeric parse for unquoted tokens, a
// string otherwise. Casts against a column's DataType happen separately,
// in compileIn, where the spec requires it (§4.2).
func literalValue(l *parser.Literal) (types.Value, error) {
	if l.IsString {
		return types.StringValue(l.Raw), nil
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(l.Raw), 10, 64); err == nil {
		return types.IntValue(n), nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(l.Raw), 64)
	if err != nil {
		return types.Value{}, fmt.Errorf("predicate: cannot parse literal %q", l.Raw)
	}
	return types.FloatValue(f), nil
}

func applyArith(op string, l, r types.Value) (types.Value, error) {
	if l.Kind == types.StringKind || r.Kind == types.StringKind {
		return types.Value{}, fmt.Errorf("predicate: cannot apply %q to string values", op)
	}
	lf, rf := l.AsFloat(), r.AsFloat()
	var result float64
	switch op {
	case "+":
		result = lf + rf
	case "-":
		result = lf - rf
	case "*":
		result = lf * rf
	case "/":
		if rf == 0 {
			return types.Value{}, fmt.Errorf("predicate: division by zero")
		}
		result = lf / rf
	default:
		return types.Value{}, fmt.Errorf("predicate: unknown arithmetic operator %q", op)
	}
	if l.Kind == types.IntKind && r.Kind == types.IntKind && result == float64(int64(result)) {
		return types.IntValue(int64(result)), nil
	}
	return types.FloatValue(result), nil
}

func mergeCols(a, b []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(a)+len(b))
	for _, c := range append(append([]string{}, a...), b...) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func (c *Compiler) compileComparison(cmp *parser.Comparison) (*Predicate, error) {
	left, err := c.compileExpr(cmp.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.compileExpr(cmp.Right)
	if err != nil {
		return nil, err
	}
	cols := mergeCols(left.cols, right.cols)
	if len(cols) == 0 {
		return nil, fmt.Errorf("predicate: comparison references no column")
	}
	if len(cols) > 1 {
		for _, col := range cols {
			if _, ok := c.Table.GetColumn(col); !ok {
				return nil, fmt.Errorf("predicate: unknown column %q", col)
			}
		}
	}
	op := cmp.Operator
	eval := func(env Env) (bool, error) {
		lv, err := left.eval(env)
		if err != nil {
			return false, err
		}
		rv, err := right.eval(env)
		if err != nil {
			return false, err
		}
		return compareValues(op, lv, rv)
	}
	p := &Predicate{Family: Arithmetic, Columns: cols, Eval: eval}
	if len(cols) == 1 {
		p.Column = cols[0]
	}
	return p, nil
}

func compareValues(op string, l, r types.Value) (bool, error) {
	if l.Kind == types.StringKind || r.Kind == types.StringKind {
		switch op {
		case "==":
			return l.Str == r.Str, nil
		case "!=":
			return l.Str != r.Str, nil
		case "<":
			return l.Str < r.Str, nil
		case "<=":
			return l.Str <= r.Str, nil
		case ">":
			return l.Str > r.Str, nil
		case ">=":
			return l.Str >= r.Str, nil
		default:
			return false, fmt.Errorf("predicate: unknown comparison operator %q", op)
		}
	}
	lf, rf := l.AsFloat(), r.AsFloat()
	switch op {
	case "==":
		return lf == rf, nil
	case "!=":
		return lf != rf, nil
	case "<":
		return lf < rf, nil
	case "<=":
		return lf <= rf, nil
	case ">":
		return lf > rf, nil
	case ">=":
		return lf >= rf, nil
	default:
		return false, fmt.Errorf("predicate: unknown comparison operator %q", op)
	}
}

func (c *Compiler) compileIn(in *parser.InCondition) (*Predicate, error) {
	col, ok := c.Table.GetColumn(in.Column.Column)
	if !ok {
		return nil, fmt.Errorf("predicate: unknown column %q", in.Column.Column)
	}
	values := make([]types.Value, 0, len(in.Values))
	for _, lit := range in.Values {
		v, err := types.Convert(lit.Raw, col.DataType)
		if err != nil {
			return nil, fmt.Errorf("predicate: IN literal %q: %w", lit.Raw, err)
		}
		values = append(values, v)
	}
	return &Predicate{
		Family:    SetMembership,
		Columns:   []string{col.Name},
		Column:    col.Name,
		Not:       in.Not,
		SetValues: values,
	}, nil
}

func (c *Compiler) compileLike(lk *parser.LikeCondition) (*Predicate, error) {
	col, ok := c.Table.GetColumn(lk.Column.Column)
	if !ok {
		return nil, fmt.Errorf("predicate: unknown column %q", lk.Column.Column)
	}
	if col.DataType.Kind != types.StringKind {
		return nil, fmt.Errorf("predicate: LIKE only applies to VARCHAR columns, %q is %s", col.Name, col.DataType)
	}
	kind, needle := classifyPattern(lk.Pattern)
	return &Predicate{
		Family:     Pattern,
		Columns:    []string{col.Name},
		Column:     col.Name,
		PatternNot: lk.Not,
		Kind:       kind,
		Needle:     needle,
	}, nil
}

// classifyPattern implements §4.2's wildcard grammar: a single leading or
// trailing % is prefix/suffix, both ends is substring, neither is exact.
func classifyPattern(pattern string) (PatternKind, string) {
	leading := strings.HasPrefix(pattern, "%")
	trailing := strings.HasSuffix(pattern, "%")
	switch {
	case leading && trailing && len(pattern) >= 2:
		return PatternContains, pattern[1 : len(pattern)-1]
	case trailing:
		return PatternPrefix, pattern[:len(pattern)-1]
	case leading:
		return PatternSuffix, pattern[1:]
	default:
		return PatternExact, pattern
	}
}

// MatchPattern reports whether value matches the compiled pattern.
func MatchPattern(kind PatternKind, needle, value string) bool {
	switch kind {
	case PatternPrefix:
		return strings.HasPrefix(value, needle)
	case PatternSuffix:
		return strings.HasSuffix(value, needle)
	case PatternContains:
		return strings.Contains(value, needle)
	default:
		return value == needle
	}
}
