package query

import (
	"fmt"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/catalog"
	"github.com/rpi11/Databases-P3/pkg/join"
	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/plan"
	"github.com/rpi11/Databases-P3/pkg/predicate"
	"github.com/rpi11/Databases-P3/pkg/schema"
	"github.com/rpi11/Databases-P3/pkg/types"
)

// sourceBinding is a resolved FROM-list entry: an alias bound to a live
// relation and its schema.
type sourceBinding struct {
	alias string
	table *schema.Table
	rel   *catalog.Relation
}

func (e *Engine) resolveSources(sources []*parser.SourceRef) ([]sourceBinding, error) {
	bindings := make([]sourceBinding, 0, len(sources))
	for _, src := range sources {
		rel, ok := e.Catalog.Relation(src.Relation)
		if !ok {
			return nil, fmt.Errorf("unknown relation %q", src.Relation)
		}
		alias := src.Alias
		if alias == "" {
			alias = src.Relation
		}
		bindings = append(bindings, sourceBinding{alias: alias, table: rel.Schema, rel: rel})
	}
	return bindings, nil
}

func findSourceBinding(bindings []sourceBinding, alias string) *sourceBinding {
	for i := range bindings {
		if strings.EqualFold(bindings[i].alias, alias) {
			return &bindings[i]
		}
	}
	return nil
}

// owningBinding finds which bound source a (possibly unqualified) column
// reference belongs to — the same resolution schema.Validator already ran
// before execution reached here, repeated because the engine needs to know
// *which* relation's predicate group a condition joins, not just that it
// resolves.
func owningBinding(bindings []sourceBinding, ref *parser.ColumnRef) (*sourceBinding, error) {
	if ref.Table != "" {
		b := findSourceBinding(bindings, ref.Table)
		if b == nil {
			return nil, fmt.Errorf("unknown alias %q", ref.Table)
		}
		return b, nil
	}
	var found *sourceBinding
	for i := range bindings {
		if bindings[i].table.HasColumn(ref.Column) {
			found = &bindings[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("unknown column %q", ref.Column)
	}
	return found, nil
}

func conditionOwner(bindings []sourceBinding, cond parser.Condition) (*sourceBinding, error) {
	refs := conditionColumnRefs(cond)
	if len(refs) == 0 {
		return nil, fmt.Errorf("condition references no column")
	}
	owner, err := owningBinding(bindings, refs[0])
	if err != nil {
		return nil, err
	}
	return owner, nil
}

func conditionColumnRefs(cond parser.Condition) []*parser.ColumnRef {
	switch c := cond.(type) {
	case *parser.Comparison:
		return append(exprColumnRefs(c.Left), exprColumnRefs(c.Right)...)
	case *parser.InCondition:
		return []*parser.ColumnRef{c.Column}
	case *parser.LikeCondition:
		return []*parser.ColumnRef{c.Column}
	default:
		return nil
	}
}

func exprColumnRefs(e parser.Expr) []*parser.ColumnRef {
	switch ex := e.(type) {
	case *parser.ColumnRef:
		return []*parser.ColumnRef{ex}
	case *parser.ArithExpr:
		return append(exprColumnRefs(ex.Left), exprColumnRefs(ex.Right)...)
	default:
		return nil
	}
}

// candidateSet resolves the final PK candidate list for one bound source,
// grouping its own WHERE conditions and reconciling them under the clause's
// single logical operator (§4.4), or the full PK domain if the source
// carries no predicates of its own.
func candidateSet(b *sourceBinding, conds []parser.Condition, logic string) ([]types.Value, error) {
	if len(conds) == 0 {
		return predicate.FullDomain(b.rel), nil
	}
	compiler := predicate.NewCompiler(b.table)
	sets := make([][]types.Value, 0, len(conds))
	for _, cond := range conds {
		compiled, err := compiler.Compile(cond)
		if err != nil {
			return nil, err
		}
		keys, err := predicate.Execute(b.rel, compiled)
		if err != nil {
			return nil, err
		}
		sets = append(sets, keys)
	}
	if logic == "OR" {
		return predicate.CombineOr(sets), nil
	}
	return predicate.CombineAnd(sets), nil
}

// groupConditionsByOwner partitions a WHERE clause's conditions by the
// relation each one belongs to.
func groupConditionsByOwner(bindings []sourceBinding, wc *parser.WhereClause) (map[string][]parser.Condition, error) {
	grouped := make(map[string][]parser.Condition)
	if wc == nil {
		return grouped, nil
	}
	for _, cond := range wc.Conditions {
		owner, err := conditionOwner(bindings, cond)
		if err != nil {
			return nil, err
		}
		grouped[owner.alias] = append(grouped[owner.alias], cond)
	}
	return grouped, nil
}

// executeSelect runs one SELECT end to end: per-source predicate
// resolution, the optional equi-join, and projection/aggregation (§4.3-4.6).
func (e *Engine) executeSelect(stmt *parser.SelectStatement) (*Result, *plan.ExecutionPlan, error) {
	bindings, err := e.resolveSources(stmt.Sources)
	if err != nil {
		return nil, nil, err
	}

	logic := ""
	if stmt.Where != nil {
		logic = stmt.Where.Logic
	}
	grouped, err := groupConditionsByOwner(bindings, stmt.Where)
	if err != nil {
		return nil, nil, err
	}

	candidates := make(map[string][]types.Value, len(bindings))
	scanNodes := make(map[string]*plan.PlanNode, len(bindings))
	for i := range bindings {
		b := &bindings[i]
		keys, err := candidateSet(b, grouped[b.alias], logic)
		if err != nil {
			return nil, nil, err
		}
		candidates[b.alias] = keys
		scanNodes[b.alias] = &plan.PlanNode{
			NodeType:  plan.NodeTypeSeqScan,
			Table:     b.rel.Schema.Name,
			Condition: conditionSummary(grouped[b.alias]),
			Rows:      &plan.RowEstimate{Estimated: int64(len(keys))},
		}
	}

	var (
		leftKeys, rightKeys []types.Value
		leftAlias           string
		rightAlias          string
		root                *plan.PlanNode
	)

	if stmt.Join != nil {
		left := findSourceBinding(bindings, stmt.Join.LeftAlias)
		right := findSourceBinding(bindings, stmt.Join.RightAlias)
		if left == nil || right == nil {
			return nil, nil, fmt.Errorf("JOIN ON references an unbound alias")
		}
		leftAlias, rightAlias = left.alias, right.alias

		leftValue := columnValueFn(left.rel, stmt.Join.LeftColumn)
		rightValue := columnValueFn(right.rel, stmt.Join.RightColumn)

		pairs, strategy := join.Join(candidates[leftAlias], leftValue, candidates[rightAlias], rightValue)
		cost := join.EstimateCost(len(candidates[leftAlias]), len(candidates[rightAlias]))

		leftKeys = make([]types.Value, len(pairs))
		rightKeys = make([]types.Value, len(pairs))
		for i, pr := range pairs {
			leftKeys[i] = pr.A
			rightKeys[i] = pr.B
		}

		nodeType := plan.NodeTypeNestedLoop
		if strategy == join.SortMerge {
			nodeType = plan.NodeTypeSortMerge
		}
		root = &plan.PlanNode{
			NodeType: nodeType,
			Condition: fmt.Sprintf("%s.%s = %s.%s", stmt.Join.LeftAlias, stmt.Join.LeftColumn,
				stmt.Join.RightAlias, stmt.Join.RightColumn),
			Cost: &plan.Cost{NestedCost: cost.NestedCost, MergeCost: cost.MergeCost, Chosen: pickChosen(strategy, cost)},
			Rows: &plan.RowEstimate{Estimated: int64(len(pairs))},
			Children: []*plan.PlanNode{
				scanNodes[leftAlias],
				scanNodes[rightAlias],
			},
		}
	} else {
		b := &bindings[0]
		leftAlias = b.alias
		leftKeys = candidates[b.alias]
		root = scanNodes[b.alias]
	}

	result, err := project(bindings, stmt.Projection, leftAlias, leftKeys, rightAlias, rightKeys)
	if err != nil {
		return nil, nil, err
	}

	executionPlan := &plan.ExecutionPlan{Query: stmt.String(), RootNode: root}
	executionPlan.CalculateStatistics()
	if root.Cost != nil {
		executionPlan.TotalCost = root.Cost.Chosen
	}
	return result, executionPlan, nil
}

func pickChosen(strategy join.Strategy, cost join.Cost) float64 {
	if strategy == join.SortMerge {
		return cost.MergeCost
	}
	return cost.NestedCost
}

func conditionSummary(conds []parser.Condition) string {
	if len(conds) == 0 {
		return ""
	}
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// columnValueFn resolves column for each candidate PK in rel, used as the
// join executor's value-lookup callback (§4.5 — "resolve each candidate key
// to its column value via the row body" when the join column is not the PK).
func columnValueFn(rel *catalog.Relation, column string) join.ValueOf {
	return func(pk types.Value) types.Value {
		v, _ := rel.ColumnValue(pk, column)
		return v
	}
}

// project builds the output Result from a SELECT's projection list, given
// the final (possibly joined) key lists for up to two aliased sources
// (§4.6). leftKeys/rightKeys are positionally paired when both are present.
func project(bindings []sourceBinding, items []*parser.ProjectionItem, leftAlias string, leftKeys []types.Value, rightAlias string, rightKeys []types.Value) (*Result, error) {
	result := newResult()

	sideFor := func(alias string) ([]types.Value, *sourceBinding, error) {
		b := findSourceBinding(bindings, alias)
		if b == nil {
			return nil, nil, fmt.Errorf("unknown alias %q", alias)
		}
		if strings.EqualFold(alias, leftAlias) {
			return leftKeys, b, nil
		}
		if rightAlias != "" && strings.EqualFold(alias, rightAlias) {
			return rightKeys, b, nil
		}
		return nil, nil, fmt.Errorf("alias %q is not part of this query", alias)
	}

	for _, item := range items {
		if item.Star {
			aliases := []string{leftAlias}
			if rightAlias != "" {
				aliases = append(aliases, rightAlias)
			}
			if item.SourceAlias != "" {
				aliases = []string{item.SourceAlias}
			}
			prefixed := rightAlias != "" && item.SourceAlias == ""
			for _, alias := range aliases {
				keys, b, err := sideFor(alias)
				if err != nil {
					return nil, err
				}
				if err := expandStar(result, b, keys, prefixed); err != nil {
					return nil, err
				}
			}
			continue
		}

		alias := item.SourceAlias
		if alias == "" {
			owner, err := owningBinding(bindings, &parser.ColumnRef{Column: item.Column})
			if err != nil {
				return nil, err
			}
			alias = owner.alias
		}
		keys, b, err := sideFor(alias)
		if err != nil {
			return nil, err
		}
		col, ok := b.table.GetColumn(item.Column)
		if !ok {
			return nil, fmt.Errorf("unknown column %q in %q", item.Column, alias)
		}

		values := make([]types.Value, len(keys))
		for i, pk := range keys {
			v, _ := b.rel.ColumnValue(pk, col.Name)
			values[i] = v
		}

		outName := item.OutputAlias
		if outName == "" {
			outName = col.Name
		}

		if item.Aggregate != "" {
			agg, err := aggregate(item.Aggregate, col, values)
			if err != nil {
				return nil, err
			}
			if outName == col.Name {
				outName = fmt.Sprintf("%s(%s)", strings.ToUpper(item.Aggregate), col.Name)
			}
			result.addColumn(outName, []types.Value{agg})
			continue
		}
		result.addColumn(outName, values)
	}

	return result, nil
}

func expandStar(result *Result, b *sourceBinding, keys []types.Value, prefixed bool) error {
	for _, col := range b.table.Columns {
		values := make([]types.Value, len(keys))
		for i, pk := range keys {
			v, _ := b.rel.ColumnValue(pk, col.Name)
			values[i] = v
		}
		name := col.Name
		if prefixed {
			name = fmt.Sprintf("%s.%s", b.alias, col.Name)
		}
		result.addColumn(name, values)
	}
	return nil
}
