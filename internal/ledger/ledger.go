// Package ledger holds the add/delete-only collection of expense records.
package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/model"
)

// Ledger owns expense records, newest insertion first.
type Ledger struct {
	records []model.Expense
	clock   clock.Clock
	newID   func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDFunc overrides the ID generator.
func WithIDFunc(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// New returns a ledger seeded with records in their stored order.
func New(c clock.Clock, records []model.Expense, opts ...Option) *Ledger {
	l := &Ledger{
		records: slices.Clone(records),
		clock:   c,
		newID:   newUUID,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// newUUID returns a time-ordered v7 UUID, falling back to v4.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Validate checks an input against the reference instant now.
func Validate(in model.ExpenseInput, now time.Time) error {
	if !in.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	}
	if !in.Category.Valid() {
		return &ValidationError{Field: "category", Err: ErrUnknownCategory}
	}
	if in.Date.IsZero() {
		return &ValidationError{Field: "date", Err: ErrMissingDate}
	}
	if clock.Date(in.Date, now.Location()).After(clock.StartOfDay(now)) {
		return &ValidationError{Field: "date", Err: ErrFutureDate}
	}
	return nil
}

// Add validates in and inserts the new record at the front.
// The ledger is unchanged when validation fails.
func (l *Ledger) Add(in model.ExpenseInput) (model.Expense, error) {
	now := l.clock.Now()
	if err := Validate(in, now); err != nil {
		return model.Expense{}, err
	}

	e := model.Expense{
		ID:        l.newID(),
		Amount:    in.Amount,
		Category:  in.Category,
		Notes:     strings.TrimSpace(in.Notes),
		Date:      clock.StartOfDay(in.Date),
		CreatedAt: now,
	}
	l.records = slices.Insert(l.records, 0, e)
	return e, nil
}

// Remove deletes the record with id. Unknown ids are a no-op.
func (l *Ledger) Remove(id string) bool {
	i := slices.IndexFunc(l.records, func(e model.Expense) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	l.records = slices.Delete(l.records, i, i+1)
	return true
}

// Get returns the record with id.
func (l *Ledger) Get(id string) (model.Expense, bool) {
	for _, e := range l.records {
		if e.ID == id {
			return e, true
		}
	}
	return model.Expense{}, false
}

// All returns a copy of every record in ledger order.
func (l *Ledger) All() []model.Expense {
	return slices.Clone(l.records)
}

// Len returns the record count.
func (l *Ledger) Len() int { return len(l.records) }
