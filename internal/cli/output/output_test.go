package output

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewWriterFormatFallback(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   Format
	}{
		{"json", "json", FormatJSON},
		{"yaml", "yaml", FormatYAML},
		{"table", "table", FormatTable},
		{"empty", "", FormatTable},
		{"unknown", "xml", FormatTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(&bytes.Buffer{}, tt.format)
			if w.format != tt.want {
				t.Errorf("format = %q, want %q", w.format, tt.want)
			}
		})
	}
}

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "json")
	if err := w.Print(map[string]string{"name": "classifier"}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "\"name\": \"classifier\"") {
		t.Errorf("output %q missing indented field", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("output %q missing trailing newline", got)
	}
}

func TestWriterYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "yaml")
	data := struct {
		Name  string `yaml:"name"`
		Count int    `yaml:"count"`
	}{Name: "classifier", Count: 3}
	if err := w.Print(data); err != nil {
		t.Fatalf("Print: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "name: classifier") {
		t.Errorf("output %q missing name field", got)
	}
	if !strings.Contains(got, "count: 3") {
		t.Errorf("output %q missing count field", got)
	}
}

func TestWriterTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "table")

	tbl := Table{Headers: []string{"ID", "NAME"}}
	tbl.AddRow("p-1", "classifier")
	tbl.AddRow("p-2", "summarizer")
	if err := w.Print(tbl); err != nil {
		t.Fatalf("Print: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "NAME") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "p-1") || !strings.Contains(lines[1], "classifier") {
		t.Errorf("first row = %q", lines[1])
	}
	// tabwriter aligns the NAME column across header and rows.
	if strings.Index(lines[0], "NAME") != strings.Index(lines[1], "classifier") {
		t.Errorf("columns misaligned:\n%s", buf.String())
	}
}

func TestWriterTablePointer(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "table")
	tbl := &Table{Headers: []string{"A"}, Rows: [][]string{{"1"}}}
	if err := w.Print(tbl); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.Contains(buf.String(), "A") {
		t.Errorf("output %q missing header", buf.String())
	}
}

func TestWriterTableFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "table")
	if err := w.Print(map[string]int{"spans": 4}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.Contains(buf.String(), "\"spans\": 4") {
		t.Errorf("output %q is not JSON", buf.String())
	}
}

func TestTimestamp(t *testing.T) {
	if got := Timestamp(nil); got != "" {
		t.Errorf("Timestamp(nil) = %q, want empty", got)
	}
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if got := Timestamp(&at); got != "2026-03-14 09:26" {
		t.Errorf("Timestamp = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "abc", 10, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdefghij", 8, "abcde..."},
		{"tiny max", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
