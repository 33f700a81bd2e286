package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/featurecount/internal/schema"
	"github.com/bytedance/sonic"
)

// Format selects the output encoding
type Format string

const (
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatJSONL Format = "jsonl"
)

// ParseFormat converts a config string to a Format. Empty means csv.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatTSV, FormatJSONL:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv, tsv or jsonl)", s)
	}
}

// Writer emits rows under a fixed header
type Writer struct {
	columns []string
	format  Format
	out     *bufio.Writer
	csv     *csv.Writer
	started bool
	count   int
}

// NewWriter creates a writer for the given columns. The header is written
// lazily with the first row, or by Flush when there are none.
func NewWriter(w io.Writer, columns []string, format Format) (*Writer, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns", schema.ErrSchemaMismatch)
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if format == "" {
		format = FormatCSV
	}

	tw := &Writer{
		columns: append([]string(nil), columns...),
		format:  format,
		out:     bufio.NewWriter(w),
	}
	switch format {
	case FormatCSV:
		tw.csv = csv.NewWriter(tw.out)
	case FormatTSV:
		tw.csv = csv.NewWriter(tw.out)
		tw.csv.Comma = '\t'
	}
	return tw, nil
}

// Count returns the number of rows written
func (w *Writer) Count() int {
	return w.count
}

// Write validates and writes one row
func (w *Writer) Write(row map[string]any) error {
	if err := schema.Validate(w.columns, row); err != nil {
		return fmt.Errorf("row %d: %w", w.count+1, err)
	}
	if err := w.header(); err != nil {
		return err
	}

	var err error
	if w.csv != nil {
		record := make([]string, len(w.columns))
		for i, col := range w.columns {
			record[i] = Value(row[col])
		}
		err = w.csv.Write(record)
	} else {
		err = w.writeJSON(row)
	}
	if err != nil {
		return fmt.Errorf("failed to write row %d: %w", w.count+1, err)
	}
	w.count++
	return nil
}

// WriteAll validates every row first, then writes them in order
func WriteAll[R ~map[string]any](w *Writer, rows []R) error {
	for i, row := range rows {
		if err := schema.Validate(w.columns, row); err != nil {
			return fmt.Errorf("row %d: %w", w.count+i+1, err)
		}
	}
	for _, row := range rows {
		if err := w.Write(map[string]any(row)); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data, including the header of an empty table
func (w *Writer) Flush() error {
	if err := w.header(); err != nil {
		return err
	}
	if w.csv != nil {
		w.csv.Flush()
		if err := w.csv.Error(); err != nil {
			return err
		}
	}
	return w.out.Flush()
}

func (w *Writer) header() error {
	if w.started {
		return nil
	}
	w.started = true
	if w.csv == nil {
		return nil
	}
	return w.csv.Write(w.columns)
}

// writeJSON encodes keys in column order; sonic map encoding does not
// preserve insertion order.
func (w *Writer) writeJSON(row map[string]any) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range w.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := sonic.Marshal(col)
		if err != nil {
			return err
		}
		val, err := sonic.Marshal(row[col])
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString("}\n")
	_, err := w.out.Write(buf.Bytes())
	return err
}

// Value renders a cell in its natural string form
func Value(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
