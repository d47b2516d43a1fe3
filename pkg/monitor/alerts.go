package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/plan"
)

// AlertLevel is an alert's severity.
type AlertLevel int

const (
	AlertInfo AlertLevel = iota
	AlertWarning
	AlertError
	AlertCritical
)

func (a AlertLevel) String() string {
	switch a {
	case AlertInfo:
		return "INFO"
	case AlertWarning:
		return "WARNING"
	case AlertError:
		return "ERROR"
	case AlertCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Alert is one rule firing against a processed command.
type Alert struct {
	Level     AlertLevel
	Type      string
	Message   string
	Command   *ProcessedCommand
	Timestamp time.Time
}

// AlertRule checks one processed command and returns an Alert, or nil.
type AlertRule interface {
	Check(pc *ProcessedCommand) *Alert
	Name() string
}

// AlertHandler reacts to a fired alert.
type AlertHandler func(*Alert)

// AlertManager runs every registered rule against each processed command and
// dispatches the resulting alerts to every registered handler.
type AlertManager struct {
	rules    []AlertRule
	handlers []AlertHandler
	mu       sync.RWMutex

	alertCount map[AlertLevel]int64
	statsMu    sync.RWMutex
}

func NewAlertManager() *AlertManager {
	return &AlertManager{
		alertCount: make(map[AlertLevel]int64),
	}
}

func (am *AlertManager) AddRule(rule AlertRule) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.rules = append(am.rules, rule)
}

func (am *AlertManager) AddHandler(handler AlertHandler) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.handlers = append(am.handlers, handler)
}

// Check runs every rule against pc, dispatching any alerts produced.
func (am *AlertManager) Check(pc *ProcessedCommand) {
	am.mu.RLock()
	rules := am.rules
	handlers := am.handlers
	am.mu.RUnlock()

	for _, rule := range rules {
		alert := rule.Check(pc)
		if alert == nil {
			continue
		}
		am.statsMu.Lock()
		am.alertCount[alert.Level]++
		am.statsMu.Unlock()

		for _, handler := range handlers {
			handler(alert)
		}
	}
}

func (am *AlertManager) GetAlertCounts() map[AlertLevel]int64 {
	am.statsMu.RLock()
	defer am.statsMu.RUnlock()
	counts := make(map[AlertLevel]int64, len(am.alertCount))
	for level, count := range am.alertCount {
		counts[level] = count
	}
	return counts
}

// SlowCommandRule alerts on commands exceeding a duration threshold.
type SlowCommandRule struct {
	Threshold time.Duration
}

func (r *SlowCommandRule) Name() string { return "SlowCommandRule" }

func (r *SlowCommandRule) Check(pc *ProcessedCommand) *Alert {
	if pc.Duration < r.Threshold {
		return nil
	}
	level := AlertWarning
	if pc.Duration >= r.Threshold*5 {
		level = AlertCritical
	} else if pc.Duration >= r.Threshold*2 {
		level = AlertError
	}
	return &Alert{
		Level:     level,
		Type:      "SLOW_COMMAND",
		Message:   fmt.Sprintf("command took %s (threshold %s)", pc.Duration, r.Threshold),
		Command:   pc,
		Timestamp: time.Now(),
	}
}

// CommandErrorRule alerts whenever a command aborted with an error (§6.4).
type CommandErrorRule struct{}

func (r *CommandErrorRule) Name() string { return "CommandErrorRule" }

func (r *CommandErrorRule) Check(pc *ProcessedCommand) *Alert {
	if pc.Err == nil {
		return nil
	}
	return &Alert{
		Level:     AlertWarning,
		Type:      "COMMAND_ERROR",
		Message:   pc.Err.Error(),
		Command:   pc,
		Timestamp: time.Now(),
	}
}

// NestedLoopCardinalityRule alerts when a SELECT's plan contains a
// nested-loop join over a large candidate set (§4.5 picks nested-loop
// whenever it's cheaper than sort-merge, which can still mean a lot of
// comparisons for two mid-sized sets).
type NestedLoopCardinalityRule struct{}

func (r *NestedLoopCardinalityRule) Name() string { return "NestedLoopCardinalityRule" }

func (r *NestedLoopCardinalityRule) Check(pc *ProcessedCommand) *Alert {
	if pc.Plan == nil {
		return nil
	}
	for _, b := range pc.Plan.FindBottlenecks() {
		if b.Node.NodeType == plan.NodeTypeNestedLoop {
			return &Alert{
				Level:     AlertWarning,
				Type:      "NESTED_LOOP_CARDINALITY",
				Message:   b.Issue + ": " + b.Recommendation,
				Command:   pc,
				Timestamp: time.Now(),
			}
		}
	}
	return nil
}

// FullColumnScanRule alerts when a SELECT scans a relation's entire PK
// domain with no narrowing predicate.
type FullColumnScanRule struct{}

func (r *FullColumnScanRule) Name() string { return "FullColumnScanRule" }

func (r *FullColumnScanRule) Check(pc *ProcessedCommand) *Alert {
	if pc.Plan == nil {
		return nil
	}
	for _, b := range pc.Plan.FindBottlenecks() {
		if b.Node.NodeType == plan.NodeTypeSeqScan {
			return &Alert{
				Level:     AlertInfo,
				Type:      "FULL_COLUMN_SCAN",
				Message:   b.Issue + ": " + b.Recommendation,
				Command:   pc,
				Timestamp: time.Now(),
			}
		}
	}
	return nil
}

// UnsafeMutationRule alerts on UPDATE/DELETE with no WHERE clause, which
// affects every row in the relation.
type UnsafeMutationRule struct{}

func (r *UnsafeMutationRule) Name() string { return "UnsafeMutationRule" }

func (r *UnsafeMutationRule) Check(pc *ProcessedCommand) *Alert {
	switch s := pc.Statement.(type) {
	case *parser.UpdateStatement:
		if s.Where == nil {
			return &Alert{
				Level:     AlertError,
				Type:      "UNSAFE_UPDATE",
				Message:   fmt.Sprintf("UPDATE %s with no WHERE clause affects every row", s.Table),
				Command:   pc,
				Timestamp: time.Now(),
			}
		}
	case *parser.DeleteStatement:
		if s.Where == nil {
			return &Alert{
				Level:     AlertError,
				Type:      "UNSAFE_DELETE",
				Message:   fmt.Sprintf("DELETE FROM %s with no WHERE clause removes every row", s.Table),
				Command:   pc,
				Timestamp: time.Now(),
			}
		}
	}
	return nil
}

// ConsoleAlertHandler prints an alert to stdout.
func ConsoleAlertHandler(alert *Alert) {
	fmt.Printf("[%s] %s: %s\n", alert.Level, alert.Type, alert.Message)
	if alert.Command != nil {
		fmt.Printf("  command: %s\n", truncate(alert.Command.Command, 100))
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
