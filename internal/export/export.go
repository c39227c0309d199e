// Package export writes the ledger to CSV, JSON or YAML and reads expenses
// back for import.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/kharcha/internal/model"
)

// DateLayout is the calendar date layout used in every format.
const DateLayout = "2006-01-02"

// Format is an export encoding.
type Format string

// Supported formats.
const (
	CSV  Format = "csv"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Record is the serialized form of an expense.
type Record struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	Date      string         `json:"date" yaml:"date"`
	Category  model.Category `json:"category" yaml:"category"`
	Amount    string         `json:"amount" yaml:"amount"`
	Notes     string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt *time.Time     `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Document wraps exported records with metadata.
type Document struct {
	Version    int       `json:"version" yaml:"version"`
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Count      int       `json:"count" yaml:"count"`
	Expenses   []Record  `json:"expenses" yaml:"expenses"`
}

const documentVersion = 1

// NewDocument converts records for JSON or YAML output.
func NewDocument(records []model.Expense, now time.Time) Document {
	doc := Document{
		Version:    documentVersion,
		ExportedAt: now,
		Count:      len(records),
		Expenses:   make([]Record, 0, len(records)),
	}
	for _, e := range records {
		created := e.CreatedAt
		doc.Expenses = append(doc.Expenses, Record{
			ID:        e.ID,
			Date:      e.Date.Format(DateLayout),
			Category:  e.Category,
			Amount:    e.Amount.String(),
			Notes:     e.Notes,
			CreatedAt: &created,
		})
	}
	return doc
}

// Write encodes records to w in the given format.
func Write(w io.Writer, f Format, records []model.Expense, now time.Time) error {
	switch f {
	case CSV:
		return WriteCSV(w, records)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(records, now)); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(records, now)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flushing yaml: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Read decodes expense inputs from r. Validation beyond parsing is left to
// the tracker.
func Read(r io.Reader, f Format, loc *time.Location) ([]model.ExpenseInput, error) {
	switch f {
	case CSV:
		return ReadCSV(r, loc)
	case JSON:
		var doc Document
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
		return doc.Inputs(loc)
	case YAML:
		var doc Document
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		return doc.Inputs(loc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Inputs converts a decoded document into expense inputs.
func (d Document) Inputs(loc *time.Location) ([]model.ExpenseInput, error) {
	out := make([]model.ExpenseInput, 0, len(d.Expenses))
	for i, rec := range d.Expenses {
		in, err := parseFields(rec.Date, string(rec.Category), rec.Amount, rec.Notes, loc)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i+1, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func parseFields(date, category, amount, notes string, loc *time.Location) (model.ExpenseInput, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return model.ExpenseInput{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	cat, err := model.ParseCategory(category)
	if err != nil {
		return model.ExpenseInput{}, err
	}
	amt, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return model.ExpenseInput{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return model.ExpenseInput{
		Amount:   amt,
		Category: cat,
		Notes:    strings.TrimSpace(notes),
		Date:     day,
	}, nil
}
