// Package query wires the predicate compiler/executor, the join planner, and
// the projector/aggregator into the single Engine that runs one command
// string end to end (§4.3-§4.8), the way cmd/sqlparser's ParseAndExecute
// threaded parse -> validate -> execute in the teacher repo.
package query

import (
	"fmt"
	"log/slog"

	"github.com/rpi11/Databases-P3/pkg/catalog"
	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/plan"
	"github.com/rpi11/Databases-P3/pkg/schema"
)

// Engine owns the live Catalog and runs commands against it. It implements
// pkg/monitor.Executor so a CommandProcessor can drive it without importing
// this package.
type Engine struct {
	Catalog   *catalog.Catalog
	Validator *schema.Validator
	Logger    *slog.Logger
}

// NewEngine creates an Engine over an empty catalog. A nil logger falls back
// to slog.Default(), so callers that don't care about logging can pass nil.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cat := catalog.New()
	return &Engine{
		Catalog:   cat,
		Validator: schema.NewValidator(cat.Schema),
		Logger:    logger,
	}
}

// Execute satisfies pkg/monitor.Executor: pkg/monitor.CommandProcessor drives
// the engine through this interface so it doesn't need Engine's concrete
// type; since pkg/query never imports pkg/monitor, monitor is free to
// import query's Result type back without creating a cycle.
func (e *Engine) Execute(command string) (*Result, parser.Statement, *plan.ExecutionPlan, error) {
	return e.Run(command)
}

// Run parses, validates, and executes one command string, returning whatever
// Result a SELECT produced (nil for every other statement shape), the parsed
// statement, the SELECT's execution plan (nil otherwise), and the first
// error encountered at any stage.
//
// Recovery is local (§7): an error at any stage aborts only this command.
// schema.Validator runs before any catalog call, and Catalog.Insert
// validates a row before it touches the relation, so a failing INSERT
// leaves nothing behind. Multi-row mutations are not rolled back: a LOAD
// keeps the rows inserted before the failing one, and an UPDATE keeps the
// assignments it applied before the failing row.
func (e *Engine) Run(command string) (*Result, parser.Statement, *plan.ExecutionPlan, error) {
	stmt, err := parser.Parse(command)
	if err != nil {
		e.Logger.Debug("parse failed", "command", command, "error", err)
		return nil, nil, nil, err
	}

	if err := e.Validator.ValidateStatement(stmt); err != nil {
		e.Logger.Debug("validation failed", "command", command, "error", err)
		return nil, stmt, nil, err
	}

	switch s := stmt.(type) {
	case *parser.CreateTableStatement:
		return nil, stmt, nil, e.Catalog.CreateTable(s)
	case *parser.CreateIndexStatement:
		return nil, stmt, nil, e.Catalog.CreateIndex(s)
	case *parser.DropTableStatement:
		return nil, stmt, nil, e.Catalog.DropTable(s.Name)
	case *parser.LoadStatement:
		return nil, stmt, nil, e.executeLoad(s)
	case *parser.InsertStatement:
		return nil, stmt, nil, e.executeInsert(s)
	case *parser.UpdateStatement:
		return nil, stmt, nil, e.executeUpdate(s)
	case *parser.DeleteStatement:
		return nil, stmt, nil, e.executeDelete(s)
	case *parser.SelectStatement:
		result, executionPlan, err := e.executeSelect(s)
		return result, stmt, executionPlan, err
	default:
		return nil, stmt, nil, fmt.Errorf("unsupported statement %T", stmt)
	}
}

// FormatError renders err as the single diagnostic line §6.4 requires.
func FormatError(err error) string {
	return fmt.Sprintf("ERROR: %s", err.Error())
}
