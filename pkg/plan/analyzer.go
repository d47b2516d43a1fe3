package plan

// BottleneckInfo is one performance concern found in a plan tree, consumed
// by pkg/monitor's rules to decide whether to raise an alert.
type BottleneckInfo struct {
	Node           *PlanNode
	Issue          string
	Severity       string // CRITICAL, WARNING, INFO
	ImpactScore    float64
	Recommendation string
}

// FindBottlenecks walks the plan tree looking for the two situations this
// planner can actually produce: a nested-loop join with a high row estimate
// (§4.5 picks nested-loop only when it is cheaper, but "cheaper" can still be
// large for two big candidate sets), and a full, unfiltered relation scan.
func (p *ExecutionPlan) FindBottlenecks() []*BottleneckInfo {
	var out []*BottleneckInfo
	findBottlenecks(p.RootNode, &out)
	return out
}

func findBottlenecks(node *PlanNode, out *[]*BottleneckInfo) {
	if node == nil {
		return
	}

	if node.NodeType == NodeTypeNestedLoop && node.Rows != nil && node.Rows.Estimated > 10000 {
		*out = append(*out, &BottleneckInfo{
			Node:           node,
			Issue:          "nested-loop join with high candidate cardinality",
			Severity:       "WARNING",
			ImpactScore:    float64(node.Rows.Estimated) / 10000.0,
			Recommendation: "narrow the WHERE predicates feeding this join",
		})
	}

	if node.IsFullTableScan() && node.Rows != nil && node.Rows.Estimated > 1000 {
		*out = append(*out, &BottleneckInfo{
			Node:           node,
			Issue:          "full column scan with no predicate",
			Severity:       "INFO",
			ImpactScore:    float64(node.Rows.Estimated) / 1000.0,
			Recommendation: "add a WHERE clause to narrow the scanned relation",
		})
	}

	for _, child := range node.Children {
		findBottlenecks(child, out)
	}
}
