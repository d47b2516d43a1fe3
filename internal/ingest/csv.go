// Package ingest bulk-loads delimited files into row maps ready for
// catalog.Catalog.Insert, the way original_source/P3.py's Table.import_file
// read a CSV with csv.reader and zipped each record against the table's
// declared column order.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/schema"
)

// Row is one ingested record, keyed by declared column name.
type Row map[string]string

// LoadCSV reads path and returns one Row per data record, in file order,
// after skipping ignoreRows leading records (§6.2's `IGNORE n ROWS`).
// fieldSep is the field delimiter (only its first byte is significant,
// matching the single-character FIELDS TERMINATED BY grammar); lineSep is
// normalized to "\n" before parsing since encoding/csv only recognizes
// \n and \r\n as record separators.
func LoadCSV(path string, table *schema.Table, fieldSep, lineSep string, ignoreRows int) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", path, err)
	}

	normalized := string(data)
	if lineSep != "" && lineSep != "\n" {
		normalized = strings.ReplaceAll(normalized, lineSep, "\n")
	}

	reader := csv.NewReader(strings.NewReader(normalized))
	reader.FieldsPerRecord = -1
	if fieldSep != "" {
		reader.Comma = rune(fieldSep[0])
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	if ignoreRows > len(records) {
		ignoreRows = len(records)
	}
	records = records[ignoreRows:]

	columns := table.Columns
	rows := make([]Row, 0, len(records))
	for i, record := range records {
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue // trailing blank line
		}
		if len(record) != len(columns) {
			return nil, fmt.Errorf("record %d has %d fields, table %q declares %d columns",
				i+1, len(record), table.Name, len(columns))
		}
		row := make(Row, len(columns))
		for j, col := range columns {
			row[col.Name] = record[j]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
