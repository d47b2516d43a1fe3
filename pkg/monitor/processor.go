// Package monitor runs diagnostic rules over executed commands: rule checks
// fire on slow commands, command errors, and the two plan-level bottlenecks
// pkg/plan can detect (nested-loop cardinality, full unfiltered scans).
package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/plan"
	"github.com/rpi11/Databases-P3/pkg/query"
)

// Executor runs one command string end to end and reports everything a
// caller needs to both present its output and feed CommandProcessor's
// statistics/alerts: query.Engine.Execute (a wrapper over Engine.Run)
// satisfies this directly.
type Executor interface {
	Execute(command string) (*query.Result, parser.Statement, *plan.ExecutionPlan, error)
}

// ProcessedCommand is one command's outcome, handed to every AlertRule and
// to CommandProcessor's command handler for presentation.
type ProcessedCommand struct {
	Timestamp time.Time
	Command   string
	Duration  time.Duration

	Result    *query.Result
	Statement parser.Statement
	Plan      *plan.ExecutionPlan
	Err       error
}

// CommandProcessor runs each incoming command through an Executor, updating
// running Statistics and invoking a handler (typically an AlertManager.Check).
type CommandProcessor struct {
	executor       Executor
	commandHandler func(*ProcessedCommand)
	stats          *Statistics
	mu             sync.RWMutex
}

func NewCommandProcessor(executor Executor) *CommandProcessor {
	return &CommandProcessor{
		executor: executor,
		stats:    NewStatistics(),
	}
}

// SetCommandHandler sets the callback invoked after every processed command.
func (p *CommandProcessor) SetCommandHandler(handler func(*ProcessedCommand)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commandHandler = handler
}

// Start consumes commands from the channel until it closes or ctx is done.
func (p *CommandProcessor) Start(ctx context.Context, commands <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			p.process(cmd)
		}
	}
}

func (p *CommandProcessor) process(command string) {
	if strings.TrimSpace(command) == "" {
		return
	}

	started := time.Now()
	result, stmt, executionPlan, err := p.executor.Execute(command)
	pc := &ProcessedCommand{
		Timestamp: started,
		Command:   command,
		Duration:  time.Since(started),
		Result:    result,
		Statement: stmt,
		Plan:      executionPlan,
		Err:       err,
	}

	p.stats.Record(pc)

	p.mu.RLock()
	handler := p.commandHandler
	p.mu.RUnlock()
	if handler != nil {
		handler(pc)
	}
}

// GetStatistics returns the running statistics tracker.
func (p *CommandProcessor) GetStatistics() *Statistics {
	return p.stats
}

// Statistics tracks counts and timings across every processed command.
type Statistics struct {
	mu sync.RWMutex

	TotalCommands  int64
	FailedCommands int64
	SlowCommands   int64
	SlowThreshold  time.Duration

	CreateTableCount int64
	DropTableCount   int64
	LoadCount        int64
	InsertCount      int64
	SelectCount      int64
	UpdateCount      int64
	DeleteCount      int64
	OtherCount       int64

	TotalDuration time.Duration
	StartTime     time.Time
	LastCommand   time.Time
}

func NewStatistics() *Statistics {
	return &Statistics{
		StartTime:     time.Now(),
		SlowThreshold: 100 * time.Millisecond,
	}
}

// SetSlowThreshold sets the duration above which a command counts as slow.
func (s *Statistics) SetSlowThreshold(threshold time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SlowThreshold = threshold
}

// Record updates every counter for one processed command.
func (s *Statistics) Record(pc *ProcessedCommand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.TotalCommands++
	s.TotalDuration += pc.Duration
	s.LastCommand = pc.Timestamp

	if pc.Err != nil {
		s.FailedCommands++
	}
	if pc.Duration >= s.SlowThreshold {
		s.SlowCommands++
	}

	switch pc.Statement.(type) {
	case *parser.CreateTableStatement:
		s.CreateTableCount++
	case *parser.DropTableStatement:
		s.DropTableCount++
	case *parser.LoadStatement:
		s.LoadCount++
	case *parser.InsertStatement:
		s.InsertCount++
	case *parser.SelectStatement:
		s.SelectCount++
	case *parser.UpdateStatement:
		s.UpdateCount++
	case *parser.DeleteStatement:
		s.DeleteCount++
	default:
		s.OtherCount++
	}
}

// Snapshot is a point-in-time copy of Statistics, safe to read without a lock.
type Snapshot struct {
	TotalCommands    int64
	FailedCommands   int64
	SlowCommands     int64
	SlowThreshold    time.Duration
	CreateTableCount int64
	DropTableCount   int64
	LoadCount        int64
	InsertCount      int64
	SelectCount      int64
	UpdateCount      int64
	DeleteCount      int64
	OtherCount       int64
	TotalDuration    time.Duration
	Uptime           time.Duration
	LastCommand      time.Time
}

func (s *Statistics) GetSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		TotalCommands:    s.TotalCommands,
		FailedCommands:   s.FailedCommands,
		SlowCommands:     s.SlowCommands,
		SlowThreshold:    s.SlowThreshold,
		CreateTableCount: s.CreateTableCount,
		DropTableCount:   s.DropTableCount,
		LoadCount:        s.LoadCount,
		InsertCount:      s.InsertCount,
		SelectCount:      s.SelectCount,
		UpdateCount:      s.UpdateCount,
		DeleteCount:      s.DeleteCount,
		OtherCount:       s.OtherCount,
		TotalDuration:    s.TotalDuration,
		Uptime:           time.Since(s.StartTime),
		LastCommand:      s.LastCommand,
	}
}
