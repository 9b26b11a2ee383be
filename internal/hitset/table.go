// Package hitset builds, exports, and combines per-threshold hit-set
// tables: for each accuracy threshold k, the bug IDs whose ranked
// prediction scores a hit at k.
package hitset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bugloc/bugloc/internal/evaluation"
	"github.com/bugloc/bugloc/internal/pkg/errors"
)

// Table maps each threshold to its ordered hit IDs. Columns are
// independent: exported rows are padding artifacts and row position
// carries no cross-column meaning.
type Table struct {
	Ks   []int
	Cols map[int][]string
}

// New creates an empty table over the given thresholds.
func New(ks []int) *Table {
	cols := make(map[int][]string, len(ks))
	for _, k := range ks {
		cols[k] = nil
	}
	return &Table{Ks: ks, Cols: cols}
}

// Build collects, per threshold, the IDs of bugs with a hit at that
// threshold, in evaluation-set order.
func Build(set *evaluation.Set, ks []int) *Table {
	t := New(ks)
	for _, b := range set.Bugs() {
		for _, k := range ks {
			if evaluation.HitAtK(b, k) {
				t.Cols[k] = append(t.Cols[k], b.ID)
			}
		}
	}
	return t
}

// Header returns the column headers, accuracy@k per threshold.
func Header(ks []int) []string {
	header := make([]string, len(ks))
	for i, k := range ks {
		header[i] = fmt.Sprintf("accuracy@%d", k)
	}
	return header
}

// Sorted returns a copy with every column in natural order.
func (t *Table) Sorted() *Table {
	out := New(t.Ks)
	for _, k := range t.Ks {
		col := make([]string, len(t.Cols[k]))
		copy(col, t.Cols[k])
		SortNatural(col)
		out.Cols[k] = col
	}
	return out
}

func (t *Table) maxLen() int {
	max := 0
	for _, k := range t.Ks {
		if n := len(t.Cols[k]); n > max {
			max = n
		}
	}
	return max
}

// WriteCSV writes the table in wide format: one header row, then one row
// per longest-column entry, shorter columns padded with empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(t.Ks)); err != nil {
		return err
	}

	for i := 0; i < t.maxLen(); i++ {
		row := make([]string, len(t.Ks))
		for j, k := range t.Ks {
			if col := t.Cols[k]; i < len(col) {
				row[j] = col[i]
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to a CSV file.
func (t *Table) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.InternalError("creating "+path, err)
	}

	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return errors.InternalError("writing "+path, err)
	}
	if err := f.Close(); err != nil {
		return errors.InternalError("closing "+path, err)
	}
	return nil
}

// ReadCSV reads a wide-format table, locating columns by header name and
// ignoring blank cells. Header cells tolerate surrounding whitespace.
// Missing columns simply come back empty.
func ReadCSV(r io.Reader, ks []int) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return New(ks), nil
	}
	if err != nil {
		return nil, errors.BadInputError("reading csv header", err)
	}

	fieldIdx := make(map[string]int, len(header))
	for i, h := range header {
		fieldIdx[strings.TrimSpace(h)] = i
	}

	t := New(ks)
	want := Header(ks)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.BadInputError("reading csv row", err)
		}
		for i, k := range ks {
			idx, ok := fieldIdx[want[i]]
			if !ok || idx >= len(row) {
				continue
			}
			if cell := strings.TrimSpace(row[idx]); cell != "" {
				t.Cols[k] = append(t.Cols[k], cell)
			}
		}
	}
	return t, nil
}

// ReadFile reads a wide-format table from a CSV file.
func ReadFile(path string, ks []int) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeNotFound, "opening "+path, err)
	}
	defer f.Close()

	return ReadCSV(f, ks)
}
