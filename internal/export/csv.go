package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/theirongolddev/kharcha/internal/model"
)

// CSVHeader is the column order written and expected by default.
var CSVHeader = []string{"Date", "Category", "Amount", "Notes"}

// WriteCSV writes one row per record under CSVHeader.
func WriteCSV(w io.Writer, records []model.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range records {
		row := []string{
			e.Date.Format(DateLayout),
			string(e.Category),
			e.Amount.String(),
			e.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// ReadCSV parses a CSV with a header row. Columns are located by header
// name, case-insensitively; Notes is optional.
func ReadCSV(r io.Reader, loc *time.Location) ([]model.ExpenseInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range []string{"date", "category", "amount"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv header missing %q column", name)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var out []model.ExpenseInput
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv line %d: %w", line, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		in, err := parseFields(field(row, "date"), field(row, "category"), field(row, "amount"), field(row, "notes"), loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, in)
	}
	return out, nil
}
