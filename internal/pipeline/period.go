// Package pipeline derives totals, budgets, projections and insights from
// the expense ledger. Every function is pure: callers pass the records,
// the budget configuration and the reference instant.
package pipeline

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/model"
)

// ErrInvalidRange is wrapped by InvalidRangeError.
var ErrInvalidRange = errors.New("start date is after end date")

// InvalidRangeError reports a custom range whose start follows its end.
type InvalidRangeError struct {
	Start, End time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range %s to %s: %v",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"), ErrInvalidRange)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// PeriodKind names a time window.
type PeriodKind int

// Period kinds.
const (
	PeriodToday PeriodKind = iota
	PeriodWeek
	PeriodMonth
	PeriodCustom
	PeriodSpecificMonth
	PeriodAll
)

// Period is a window used to select ledger records.
type Period struct {
	Kind  PeriodKind
	Start time.Time // PeriodCustom
	End   time.Time // PeriodCustom
	Year  int       // PeriodSpecificMonth
	Month time.Month
}

// Today selects records dated on the reference day.
func Today() Period { return Period{Kind: PeriodToday} }

// ThisWeek selects records from Sunday of the reference week through the reference day.
func ThisWeek() Period { return Period{Kind: PeriodWeek} }

// ThisMonth selects records in the reference calendar month.
func ThisMonth() Period { return Period{Kind: PeriodMonth} }

// AllTime selects every record.
func AllTime() Period { return Period{Kind: PeriodAll} }

// CustomRange selects records dated from start through end, both inclusive.
func CustomRange(start, end time.Time) Period {
	return Period{Kind: PeriodCustom, Start: start, End: end}
}

// SpecificMonth selects records in an explicit calendar month.
func SpecificMonth(year int, month time.Month) Period {
	return Period{Kind: PeriodSpecificMonth, Year: year, Month: month}
}

func (p Period) String() string {
	switch p.Kind {
	case PeriodToday:
		return "Today"
	case PeriodWeek:
		return "This Week"
	case PeriodMonth:
		return "This Month"
	case PeriodCustom:
		return p.Start.Format("2006-01-02") + " to " + p.End.Format("2006-01-02")
	case PeriodSpecificMonth:
		return fmt.Sprintf("%s %d", p.Month, p.Year)
	default:
		return "All Time"
	}
}

// Bounds returns the inclusive window for p relative to ref.
// A zero start means unbounded.
func (p Period) Bounds(ref time.Time) (start, end time.Time, err error) {
	day := clock.StartOfDay(ref)
	switch p.Kind {
	case PeriodToday:
		return day, clock.EndOfDay(ref), nil
	case PeriodWeek:
		start = day.AddDate(0, 0, -int(day.Weekday()))
		return start, clock.EndOfDay(ref), nil
	case PeriodMonth:
		start = time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 1, 0).Add(-time.Millisecond), nil
	case PeriodCustom:
		start = clock.StartOfDay(p.Start)
		end = clock.EndOfDay(p.End)
		if start.After(clock.StartOfDay(p.End)) {
			return time.Time{}, time.Time{}, &InvalidRangeError{Start: p.Start, End: p.End}
		}
		return start, end, nil
	case PeriodSpecificMonth:
		start = time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, ref.Location())
		return start, start.AddDate(0, 1, 0).Add(-time.Millisecond), nil
	default:
		return time.Time{}, time.Time{}, nil
	}
}

// Select returns the records whose date falls within p, preserving order.
func Select(records []model.Expense, p Period, ref time.Time) ([]model.Expense, error) {
	if p.Kind == PeriodAll {
		return slices.Clone(records), nil
	}
	start, end, err := p.Bounds(ref)
	if err != nil {
		return nil, err
	}
	return FilterByDate(records, start, end), nil
}

// FilterByDate returns records whose calendar date falls within
// [since, until]. Either bound may be zero for an open window.
func FilterByDate(records []model.Expense, since, until time.Time) []model.Expense {
	loc := time.Local
	switch {
	case !since.IsZero():
		loc = since.Location()
	case !until.IsZero():
		loc = until.Location()
	}

	var result []model.Expense
	for _, e := range records {
		d := clock.Date(e.Date, loc)
		if !since.IsZero() && d.Before(since) {
			continue
		}
		if !until.IsZero() && d.After(until) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// FilterByCategory returns records in category c.
func FilterByCategory(records []model.Expense, c model.Category) []model.Expense {
	var result []model.Expense
	for _, e := range records {
		if e.Category == c {
			result = append(result, e)
		}
	}
	return result
}

// ParsePeriod builds a Period from a name such as "today", "week", "month",
// "all", "custom" (with from/to) or an explicit "YYYY-MM".
func ParsePeriod(name string, from, to time.Time) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "today", "day":
		return Today(), nil
	case "week":
		return ThisWeek(), nil
	case "", "month":
		return ThisMonth(), nil
	case "all":
		return AllTime(), nil
	case "custom":
		if from.IsZero() || to.IsZero() {
			return Period{}, errors.New("custom period needs both --from and --to")
		}
		if from.After(to) {
			return Period{}, &InvalidRangeError{Start: from, End: to}
		}
		return CustomRange(from, to), nil
	}

	t, err := time.Parse("2006-01", name)
	if err != nil {
		return Period{}, fmt.Errorf("unknown period %q", name)
	}
	return SpecificMonth(t.Year(), t.Month()), nil
}
