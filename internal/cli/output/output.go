// Package output renders CLI results as tables, JSON, or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects how results are rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Writer renders values to out in a fixed format.
type Writer struct {
	format Format
	out    io.Writer
}

// NewWriter creates a writer for the given format name. Unknown names
// fall back to table.
func NewWriter(out io.Writer, format string) *Writer {
	f := Format(format)
	if f != FormatJSON && f != FormatYAML {
		f = FormatTable
	}
	return &Writer{format: f, out: out}
}

// Print renders data in the writer's format. Values without a tabular
// form render as JSON even in table mode.
func (w *Writer) Print(data any) error {
	switch w.format {
	case FormatJSON:
		return w.printJSON(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		return enc.Encode(data)
	default:
		switch t := data.(type) {
		case Table:
			return w.printTable(t)
		case *Table:
			return w.printTable(*t)
		default:
			return w.printJSON(data)
		}
	}
}

func (w *Writer) printJSON(data any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Table is tabular output: a header row plus zero or more data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends one data row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

func (w *Writer) printTable(t Table) error {
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	for i, h := range t.Headers {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for _, row := range t.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// Success prints a checkmarked status line.
func Success(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

// Info prints a secondary status line.
func Info(format string, args ...any) {
	fmt.Printf("→ "+format+"\n", args...)
}

// Timestamp formats a time for table cells, blank when unknown.
func Timestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// Truncate shortens s to at most max bytes, marking the cut with an
// ellipsis.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
