package predicate

import (
	"sort"
	"testing"

	"github.com/rpi11/Databases-P3/pkg/catalog"
	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/schema"
	"github.com/rpi11/Databases-P3/pkg/types"
)

func buildRelation(t *testing.T) (*schema.Table, *catalog.Catalog) {
	t.Helper()
	c := catalog.New()
	stmt, err := parser.Parse(`CREATE TABLE t (id INT, name VARCHAR(10), score FLOAT, PRIMARY KEY (id))`)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.CreateTable(stmt.(*parser.CreateTableStatement)); err != nil {
		t.Fatal(err)
	}
	rows := []map[string]string{
		{"id": "1", "name": "alice", "score": "10"},
		{"id": "2", "name": "bob", "score": "20"},
		{"id": "3", "name": "carol", "score": "30"},
		{"id": "4", "name": "dave", "score": "20"},
	}
	for _, r := range rows {
		if err := c.Insert("t", r); err != nil {
			t.Fatal(err)
		}
	}
	table, _ := c.Schema.GetTable("t")
	return table, c
}

func sortedInts(vs []types.Value) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = v.Int
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestArithmeticSingleColumn(t *testing.T) {
	table, c := buildRelation(t)
	rel, _ := c.Relation("t")
	comp := NewCompiler(table)
	cond := &parser.Comparison{
		Left:     &parser.ColumnRef{Column: "score"},
		Operator: ">=",
		Right:    &parser.Literal{Raw: "20"},
	}
	p, err := comp.Compile(cond)
	if err != nil {
		t.Fatal(err)
	}
	keys, err := Execute(rel, p)
	if err != nil {
		t.Fatal(err)
	}
	got := sortedInts(keys)
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %v", got)
	}
}

func TestArithmeticMultiColumn(t *testing.T) {
	table, c := buildRelation(t)
	rel, _ := c.Relation("t")
	comp := NewCompiler(table)
	cond := &parser.Comparison{
		Left:     &parser.ColumnRef{Column: "score"},
		Operator: ">",
		Right: &parser.ArithExpr{
			Left:     &parser.ColumnRef{Column: "id"},
			Operator: "*",
			Right:    &parser.Literal{Raw: "5"},
		},
	}
	p, err := comp.Compile(cond)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Columns) != 2 {
		t.Fatalf("expected a 2-column predicate, got %v", p.Columns)
	}
	keys, err := Execute(rel, p)
	if err != nil {
		t.Fatal(err)
	}
	// score > id*5: id=1->5 (10>5 true), id=2->10 (20>10 true), id=3->15 (30>15 true), id=4->20 (20>20 false)
	got := sortedInts(keys)
	want := []int64{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestSetMembership(t *testing.T) {
	table, c := buildRelation(t)
	rel, _ := c.Relation("t")
	comp := NewCompiler(table)
	cond := &parser.InCondition{
		Column: &parser.ColumnRef{Column: "name"},
		Values: []*parser.Literal{{Raw: "alice", IsString: true}, {Raw: "carol", IsString: true}},
	}
	p, err := comp.Compile(cond)
	if err != nil {
		t.Fatal(err)
	}
	keys, err := Execute(rel, p)
	if err != nil {
		t.Fatal(err)
	}
	got := sortedInts(keys)
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestSetMembershipNotIn(t *testing.T) {
	table, c := buildRelation(t)
	rel, _ := c.Relation("t")
	comp := NewCompiler(table)
	cond := &parser.InCondition{
		Column: &parser.ColumnRef{Column: "id"},
		Not:    true,
		Values: []*parser.Literal{{Raw: "1"}},
	}
	p, err := comp.Compile(cond)
	if err != nil {
		t.Fatal(err)
	}
	keys, err := Execute(rel, p)
	if err != nil {
		t.Fatal(err)
	}
	got := sortedInts(keys)
	if len(got) != 3 {
		t.Fatalf("expected 3 non-matching rows, got %v", got)
	}
}

func TestLikePrefixSuffixContains(t *testing.T) {
	table, c := buildRelation(t)
	rel, _ := c.Relation("t")
	comp := NewCompiler(table)

	prefix, err := comp.Compile(&parser.LikeCondition{Column: &parser.ColumnRef{Column: "name"}, Pattern: "a%"})
	if err != nil {
		t.Fatal(err)
	}
	keys, _ := Execute(rel, prefix)
	if len(keys) != 1 || keys[0].Int != 1 {
		t.Fatalf("expected alice only, got %v", keys)
	}

	contains, err := comp.Compile(&parser.LikeCondition{Column: &parser.ColumnRef{Column: "name"}, Pattern: "%o%"})
	if err != nil {
		t.Fatal(err)
	}
	keys, _ = Execute(rel, contains)
	got := sortedInts(keys)
	if len(got) != 2 { // bob, carol
		t.Fatalf("expected bob and carol, got %v", got)
	}
}

func TestCombineAndIntersects(t *testing.T) {
	a := []types.Value{types.IntValue(1), types.IntValue(2), types.IntValue(3)}
	b := []types.Value{types.IntValue(2), types.IntValue(3), types.IntValue(4)}
	got := sortedInts(CombineAnd([][]types.Value{a, b}))
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestCombineOrUnionsStably(t *testing.T) {
	a := []types.Value{types.IntValue(3), types.IntValue(1)}
	b := []types.Value{types.IntValue(1), types.IntValue(2)}
	got := CombineOr([][]types.Value{a, b})
	if len(got) != 3 {
		t.Fatalf("expected 3 distinct values, got %v", got)
	}
	if got[0] != types.IntValue(3) || got[1] != types.IntValue(1) || got[2] != types.IntValue(2) {
		t.Fatalf("expected first-appearance order, got %v", got)
	}
}
