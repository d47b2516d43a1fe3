package catalog

import (
	"testing"

	"github.com/rpi11/Databases-P3/pkg/parser"
	"github.com/rpi11/Databases-P3/pkg/types"
)

func mustCreateTable(t *testing.T, c *Catalog, cmd string) {
	t.Helper()
	stmt, err := parser.Parse(cmd)
	if err != nil {
		t.Fatalf("parse %q: %v", cmd, err)
	}
	if err := c.CreateTable(stmt.(*parser.CreateTableStatement)); err != nil {
		t.Fatalf("CreateTable(%q): %v", cmd, err)
	}
}

func TestInsertAndGetRow(t *testing.T) {
	c := New()
	mustCreateTable(t, c, `CREATE TABLE t (id INT, name VARCHAR(3), PRIMARY KEY (id))`)
	if err := c.Insert("t", map[string]string{"id": "1", "name": "abc"}); err != nil {
		t.Fatal(err)
	}
	rel, _ := c.Relation("t")
	row, ok := rel.GetRow(types.IntValue(1))
	if !ok {
		t.Fatal("expected row to exist")
	}
	if row["name"].Str != "abc" {
		t.Fatalf("got %q", row["name"].Str)
	}
}

func TestInsertRejectsDuplicatePrimaryKey(t *testing.T) {
	c := New()
	mustCreateTable(t, c, `CREATE TABLE t (id INT, name VARCHAR(3), PRIMARY KEY (id))`)
	if err := c.Insert("t", map[string]string{"id": "1", "name": "abc"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert("t", map[string]string{"id": "1", "name": "def"}); err == nil {
		t.Fatal("expected duplicate primary key error")
	}
}

func TestInsertRejectsForeignKeyViolation(t *testing.T) {
	c := New()
	mustCreateTable(t, c, `CREATE TABLE p (k INT, PRIMARY KEY(k))`)
	mustCreateTable(t, c, `CREATE TABLE c (k INT, FOREIGN KEY (k) REFERENCES p(k), PRIMARY KEY(k))`)
	if err := c.Insert("c", map[string]string{"k": "7"}); err == nil {
		t.Fatal("expected foreign key violation error")
	}
	rel, _ := c.Relation("c")
	if rel.RowCount() != 0 {
		t.Fatalf("expected c to remain empty, got %d rows", rel.RowCount())
	}
}

func TestCascadingDelete(t *testing.T) {
	c := New()
	mustCreateTable(t, c, `CREATE TABLE p (k INT, PRIMARY KEY(k))`)
	mustCreateTable(t, c, `CREATE TABLE c (k INT, FOREIGN KEY (k) REFERENCES p(k), PRIMARY KEY(k))`)
	if err := c.Insert("p", map[string]string{"k": "1"}); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert("c", map[string]string{"k": "1"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteKeys("p", []types.Value{types.IntValue(1)}); err != nil {
		t.Fatal(err)
	}
	pRel, _ := c.Relation("p")
	cRel, _ := c.Relation("c")
	if pRel.RowCount() != 0 {
		t.Fatalf("expected p empty, got %d", pRel.RowCount())
	}
	if cRel.RowCount() != 0 {
		t.Fatalf("expected cascading delete to empty c, got %d", cRel.RowCount())
	}
}

func TestSetColumnMovesBucket(t *testing.T) {
	c := New()
	mustCreateTable(t, c, `CREATE TABLE t (id INT, name VARCHAR(3), PRIMARY KEY (id))`)
	if err := c.Insert("t", map[string]string{"id": "1", "name": "abc"}); err != nil {
		t.Fatal(err)
	}
	if err := c.SetColumn("t", types.IntValue(1), "name", "xyz"); err != nil {
		t.Fatal(err)
	}
	rel, _ := c.Relation("t")
	if len(rel.Bucket("name", types.StringValue("abc"))) != 0 {
		t.Fatal("expected old bucket to be empty")
	}
	keys := rel.Bucket("name", types.StringValue("xyz"))
	if len(keys) != 1 || keys[0] != types.IntValue(1) {
		t.Fatalf("expected new bucket to contain pk 1, got %v", keys)
	}
}

func TestDropTableCascades(t *testing.T) {
	c := New()
	mustCreateTable(t, c, `CREATE TABLE p (k INT, PRIMARY KEY(k))`)
	mustCreateTable(t, c, `CREATE TABLE c (k INT, FOREIGN KEY (k) REFERENCES p(k), PRIMARY KEY(k))`)
	if err := c.DropTable("p"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Relation("c"); ok {
		t.Fatal("expected child table to be dropped along with its parent")
	}
	if c.Schema.HasTable("p") || c.Schema.HasTable("c") {
		t.Fatal("expected both tables removed from schema")
	}
}

func TestInsertColumnCountMismatch(t *testing.T) {
	c := New()
	mustCreateTable(t, c, `CREATE TABLE t (id INT, name VARCHAR(3), PRIMARY KEY (id))`)
	if err := c.Insert("t", map[string]string{"id": "1"}); err == nil {
		t.Fatal("expected error for missing column value")
	}
}
