package query

import (
	"os"
	"sort"
	"testing"

	"github.com/rpi11/Databases-P3/pkg/types"
)

func mustRun(t *testing.T, e *Engine, cmd string) *Result {
	t.Helper()
	result, _, _, err := e.Run(cmd)
	if err != nil {
		t.Fatalf("Run(%q): %v", cmd, err)
	}
	return result
}

func sortedStrs(vs []types.Value) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	sort.Strings(out)
	return out
}

func TestInsertThenSelectReturnsInsertedRow(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE t (id INT, name VARCHAR(10), PRIMARY KEY (id))`)
	mustRun(t, e, `INSERT INTO t (id, name) VALUES (1, 'alice')`)

	result := mustRun(t, e, `SELECT name FROM t WHERE id == 1`)
	if result.RowCount() != 1 || result.Values["name"][0].Str != "alice" {
		t.Fatalf("expected [alice], got %+v", result.Values["name"])
	}
}

func TestUpdateThenSelectReturnsNewValue(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE t (id INT, balance FLOAT, PRIMARY KEY (id))`)
	mustRun(t, e, `INSERT INTO t (id, balance) VALUES (1, 100)`)
	mustRun(t, e, `UPDATE t SET balance = balance - 40 WHERE id == 1`)

	result := mustRun(t, e, `SELECT balance FROM t WHERE id == 1`)
	if result.RowCount() != 1 || result.Values["balance"][0].AsFloat() != 60 {
		t.Fatalf("expected [60], got %+v", result.Values["balance"])
	}
}

func TestCascadingDeleteRemovesChildRows(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE p (k INT, PRIMARY KEY(k))`)
	mustRun(t, e, `CREATE TABLE c (k INT, FOREIGN KEY (k) REFERENCES p(k), PRIMARY KEY(k))`)
	mustRun(t, e, `INSERT INTO p (k) VALUES (1)`)
	mustRun(t, e, `INSERT INTO c (k) VALUES (1)`)
	mustRun(t, e, `DELETE FROM p WHERE k == 1`)

	result := mustRun(t, e, `SELECT k FROM c`)
	if result.RowCount() != 0 {
		t.Fatalf("expected child rows to cascade away, got %d", result.RowCount())
	}
}

func TestInsertRejectsForeignKeyViolation(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE p (k INT, PRIMARY KEY(k))`)
	mustRun(t, e, `CREATE TABLE c (k INT, FOREIGN KEY (k) REFERENCES p(k), PRIMARY KEY(k))`)
	_, _, _, err := e.Run(`INSERT INTO c (k) VALUES (7)`)
	if err == nil {
		t.Fatal("expected a foreign key violation error")
	}
}

func TestEquiJoinAcrossTwoRelations(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE a (id INT, label VARCHAR(10), PRIMARY KEY(id))`)
	mustRun(t, e, `CREATE TABLE b (id INT, tag VARCHAR(10), PRIMARY KEY(id))`)
	mustRun(t, e, `INSERT INTO a (id, label) VALUES (1, 'x')`)
	mustRun(t, e, `INSERT INTO a (id, label) VALUES (2, 'y')`)
	mustRun(t, e, `INSERT INTO b (id, tag) VALUES (1, 'p')`)
	mustRun(t, e, `INSERT INTO b (id, tag) VALUES (2, 'q')`)

	result := mustRun(t, e, `SELECT a.label, b.tag FROM a, b JOIN ON a.id = b.id`)
	if result.RowCount() != 2 {
		t.Fatalf("expected 2 joined rows, got %d", result.RowCount())
	}
	got := sortedStrs(result.Values["label"])
	if got[0] != "x" || got[1] != "y" {
		t.Fatalf("unexpected join output %v", got)
	}
}

func TestAggregateYieldsSingleValue(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE t (id INT, score FLOAT, PRIMARY KEY(id))`)
	mustRun(t, e, `INSERT INTO t (id, score) VALUES (1, 10)`)
	mustRun(t, e, `INSERT INTO t (id, score) VALUES (2, 30)`)
	mustRun(t, e, `INSERT INTO t (id, score) VALUES (3, 20)`)

	result := mustRun(t, e, `SELECT SUM(score) FROM t`)
	if result.RowCount() != 1 {
		t.Fatalf("expected one aggregate row, got %d", result.RowCount())
	}
	if result.Values["SUM(score)"][0].AsFloat() != 60 {
		t.Fatalf("expected sum 60, got %+v", result.Values["SUM(score)"])
	}
}

func TestAggregateMixedWithPlainColumnRejected(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE t (id INT, score FLOAT, PRIMARY KEY(id))`)
	_, _, _, err := e.Run(`SELECT id, SUM(score) FROM t`)
	if err == nil {
		t.Fatal("expected mixing an aggregate with a plain column to be rejected")
	}
}

func TestLikePrefixSuffixContains(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE t (id INT, name VARCHAR(10), PRIMARY KEY(id))`)
	mustRun(t, e, `INSERT INTO t (id, name) VALUES (1, 'alice')`)
	mustRun(t, e, `INSERT INTO t (id, name) VALUES (2, 'bob')`)
	mustRun(t, e, `INSERT INTO t (id, name) VALUES (3, 'carol')`)

	result := mustRun(t, e, `SELECT name FROM t WHERE name LIKE 'a%'`)
	if result.RowCount() != 1 || result.Values["name"][0].Str != "alice" {
		t.Fatalf("expected [alice], got %+v", result.Values["name"])
	}
}

func TestLoadHeaderOnlyFileIsNoOp(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE t (id INT, name VARCHAR(10), PRIMARY KEY(id))`)

	dir := t.TempDir()
	path := dir + "/header_only.csv"
	if err := os.WriteFile(path, []byte("id,name\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, e, `LOAD DATA INFILE '`+path+`' INTO TABLE t IGNORE 1 ROWS`)

	result := mustRun(t, e, `SELECT id FROM t`)
	if result.RowCount() != 0 {
		t.Fatalf("expected header-only load to be a no-op, got %d rows", result.RowCount())
	}
}

func TestLoadInsertsEveryDataRow(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE t (id INT, name VARCHAR(10), PRIMARY KEY(id))`)

	dir := t.TempDir()
	path := dir + "/rows.csv"
	if err := os.WriteFile(path, []byte("id,name\n1,alice\n2,bob\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, e, `LOAD DATA INFILE '`+path+`' INTO TABLE t IGNORE 1 ROWS`)

	result := mustRun(t, e, `SELECT id FROM t`)
	if result.RowCount() != 2 {
		t.Fatalf("expected 2 loaded rows, got %d", result.RowCount())
	}
}

func TestErrorAbortsOnlyCurrentCommand(t *testing.T) {
	e := NewEngine(nil)
	mustRun(t, e, `CREATE TABLE t (id INT, name VARCHAR(10), PRIMARY KEY(id))`)
	if _, _, _, err := e.Run(`SELECT missing FROM t`); err == nil {
		t.Fatal("expected unknown column to error")
	}
	// The catalog must still be usable after the aborted command.
	mustRun(t, e, `INSERT INTO t (id, name) VALUES (1, 'alice')`)
	result := mustRun(t, e, `SELECT name FROM t`)
	if result.RowCount() != 1 {
		t.Fatalf("expected catalog to remain usable, got %d rows", result.RowCount())
	}
}
