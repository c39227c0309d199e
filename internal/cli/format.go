// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/kharcha/internal/model"
)

// CurrencySymbol prefixes every formatted amount.
var CurrencySymbol = "₹"

// FormatNumber groups an integer the Indian way: the last three digits,
// then pairs. e.g., 1234567 -> "12,34,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}

// FormatMoney formats an amount rounded to whole units.
func FormatMoney(d decimal.Decimal) string {
	r := d.Round(0)
	if r.IsNegative() {
		return "-" + CurrencySymbol + FormatNumber(r.Neg().IntPart())
	}
	return CurrencySymbol + FormatNumber(r.IntPart())
}

// FormatAmount formats an amount keeping up to two decimal places.
func FormatAmount(d decimal.Decimal) string {
	r := d.Round(2)
	neg := r.IsNegative()
	if neg {
		r = r.Neg()
	}

	whole := r.IntPart()
	paise := r.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart()

	out := CurrencySymbol + FormatNumber(whole)
	if paise != 0 {
		out += fmt.Sprintf(".%02d", paise)
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent formats a percentage value with one decimal.
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

// FormatDelta formats the change from previous to current with a sign.
func FormatDelta(current, previous decimal.Decimal) string {
	delta := current.Sub(previous)
	if delta.IsNegative() {
		return "-" + FormatMoney(delta.Neg())
	}
	return "+" + FormatMoney(delta)
}

// FormatDate formats a calendar date for tables.
func FormatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// FormatRelative describes t relative to now, e.g. "3 days ago".
func FormatRelative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatDaysLeft describes a reminder countdown.
func FormatDaysLeft(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "due today"
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// StatusLabel names a budget status.
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusWarning:
		return "Warning"
	case model.StatusDanger:
		return "Over budget"
	default:
		return "On track"
	}
}

// FeedbackMessage is printed after an expense is added.
func FeedbackMessage(f model.Feedback) string {
	switch f {
	case model.FeedbackCelebrate:
		return "🎉 Great job staying within budget!"
	case model.FeedbackSad:
		return "😢 You've exceeded your monthly budget."
	default:
		return ""
	}
}

// InsightText renders an insight as a sentence.
func InsightText(in model.Insight) string {
	switch in.Type {
	case model.InsightAllTimeTotal:
		return "Total expenses (all time): " + FormatMoney(in.Amount)
	case model.InsightMonthBudget:
		return fmt.Sprintf("This month: %s - Budget remaining: %s (%s used)",
			FormatMoney(in.Amount), FormatMoney(in.Remaining), FormatPercent(in.Percent))
	case model.InsightTopCategory:
		return fmt.Sprintf("Highest spending: %s (%s - %s)",
			in.Category.Label(), FormatMoney(in.Amount), FormatPercent(in.Percent))
	case model.InsightAverageDaily:
		return fmt.Sprintf("Average daily spend: %s (across %d days)", FormatMoney(in.Amount), in.Days)
	case model.InsightWeeklyTrend:
		if in.Trend == model.TrendNone {
			return "Last 7 days spending: " + FormatMoney(in.Amount)
		}
		return fmt.Sprintf("Spending trend: %s %s (Last 7 days: %s vs Previous: %s)",
			trendEmoji(in.Trend), trendName(in.Trend), FormatMoney(in.Amount), FormatMoney(in.Previous))
	}
	return ""
}

func trendName(t model.Trend) string {
	switch t {
	case model.TrendIncreasing:
		return "Increasing"
	case model.TrendDecreasing:
		return "Decreasing"
	default:
		return "Stable"
	}
}

func trendEmoji(t model.Trend) string {
	switch t {
	case model.TrendIncreasing:
		return "📈"
	case model.TrendDecreasing:
		return "📉"
	default:
		return "➡️"
	}
}

// ShareText is the one-line summary offered for sharing.
func ShareText(monthTotal decimal.Decimal) string {
	return "My monthly expenses: " + FormatMoney(monthTotal)
}
