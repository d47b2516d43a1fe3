package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpi11/Databases-P3/pkg/schema"
	"github.com/rpi11/Databases-P3/pkg/types"
)

func buildTable() *schema.Table {
	table := schema.NewTable("t")
	table.AddColumn(&schema.Column{Name: "id", DataType: types.DataType{Kind: types.IntKind}, IsPrimaryKey: true})
	table.AddColumn(&schema.Column{Name: "name", DataType: types.DataType{Kind: types.StringKind, Length: 10}})
	return table
}

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSVSkipsIgnoredRows(t *testing.T) {
	path := writeTemp(t, "data.csv", "id,name\n1,alice\n2,bob\n")
	rows, err := LoadCSV(path, buildTable(), ",", "\n", 1)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["id"] != "1" || rows[0]["name"] != "alice" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1]["id"] != "2" || rows[1]["name"] != "bob" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestLoadCSVHeaderOnlyYieldsNoRows(t *testing.T) {
	path := writeTemp(t, "header_only.csv", "id,name\n")
	rows, err := LoadCSV(path, buildTable(), ",", "\n", 1)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestLoadCSVFieldCountMismatchErrors(t *testing.T) {
	path := writeTemp(t, "bad.csv", "id,name\n1,alice,extra\n")
	_, err := LoadCSV(path, buildTable(), ",", "\n", 1)
	if err == nil {
		t.Fatal("expected a field-count mismatch error")
	}
}

func TestLoadCSVCustomSeparators(t *testing.T) {
	path := writeTemp(t, "pipes.csv", "id|name\r\n1|alice\r\n")
	rows, err := LoadCSV(path, buildTable(), "|", "\r\n", 1)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"] != "alice" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestLoadCSVMissingFileErrors(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), buildTable(), ",", "\n", 0)
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
