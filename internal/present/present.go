// Package present renders a query.Result to JSON or a fixed-width table,
// the way cmd/sqlparser/main.go's outputJSON/outputTable functions did in
// the teacher repo — reworked here to walk query.Result.Columns explicitly,
// since Go's encoding/json would otherwise alphabetize the object keys and
// lose the projection's declared order (§6.3).
package present

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rpi11/Databases-P3/pkg/query"
)

// JSON writes result as a JSON array of row objects, one per row, with keys
// in result.Columns order. pretty indents the output with json.Indent.
func JSON(w io.Writer, pretty bool, result *query.Result) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	rows := result.RowCount()
	for i := 0; i < rows; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for ci, col := range result.Columns {
			if ci > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return fmt.Errorf("present: marshal column name %q: %w", col, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := json.Marshal(result.Values[col][i].Native())
			if err != nil {
				return fmt.Errorf("present: marshal value in column %q: %w", col, err)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	if !pretty {
		_, err := w.Write(buf.Bytes())
		return err
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("present: indent: %w", err)
	}
	_, err := w.Write(indented.Bytes())
	return err
}

// Table writes result as a fixed-width text table: a header row, a
// separator rule, and one line per row, every column padded to the widest
// value (including its own header) seen in that column.
func Table(w io.Writer, result *query.Result) error {
	rows := result.RowCount()
	widths := make([]int, len(result.Columns))
	for ci, col := range result.Columns {
		widths[ci] = len(col)
		for _, v := range result.Values[col] {
			if n := len(v.String()); n > widths[ci] {
				widths[ci] = n
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for ci, cell := range cells {
			parts[ci] = fmt.Sprintf("%-*s", widths[ci], cell)
		}
		fmt.Fprintln(w, strings.Join(parts, " | "))
	}

	header := append([]string{}, result.Columns...)
	writeRow(header)

	rule := make([]string, len(result.Columns))
	for ci := range rule {
		rule[ci] = strings.Repeat("-", widths[ci])
	}
	writeRow(rule)

	for i := 0; i < rows; i++ {
		cells := make([]string, len(result.Columns))
		for ci, col := range result.Columns {
			cells[ci] = result.Values[col][i].String()
		}
		writeRow(cells)
	}
	return nil
}
