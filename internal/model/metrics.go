package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the tri-state budget health level.
type Status int

// Budget status levels.
const (
	StatusNormal Status = iota
	StatusWarning
	StatusDanger
)

func (s Status) String() string {
	switch s {
	case StatusWarning:
		return "warning"
	case StatusDanger:
		return "danger"
	default:
		return "normal"
	}
}

// Feedback is the celebratory or sad signal derived from a status.
type Feedback int

// Feedback signals.
const (
	FeedbackNone Feedback = iota
	FeedbackCelebrate
	FeedbackSad
)

// BudgetStatus holds the evaluation of a total against a budget.
type BudgetStatus struct {
	Total           decimal.Decimal
	Budget          decimal.Decimal
	Remaining       decimal.Decimal // clamped at zero
	SignedRemaining decimal.Decimal
	PercentUsed     decimal.Decimal
	HasBudget       bool
	Status          Status
	Feedback        Feedback
}

// CategoryShare is one category's slice of a total.
type CategoryShare struct {
	Category Category
	Total    decimal.Decimal
	Percent  decimal.Decimal
	Count    int
}

// CategoryBudget is a category's spend against its own budget.
type CategoryBudget struct {
	Category    Category
	Spent       decimal.Decimal
	Budget      decimal.Decimal
	Left        decimal.Decimal
	PercentUsed decimal.Decimal
	HasBudget   bool
	Status      Status
}

// DailyTotal is the spend on one calendar day.
type DailyTotal struct {
	Date  time.Time
	Total decimal.Decimal
	Count int
}

// MonthlyTotal is the spend in one calendar month.
type MonthlyTotal struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
	Count int
}

// SalaryProjection describes the current salary cycle.
type SalaryProjection struct {
	DaysUntilSalary int
	NextPayday      time.Time
	Remaining       decimal.Decimal
	SafeDailySpend  decimal.Decimal
}

// SavingsProjection is a what-if projection of a daily saving.
type SavingsProjection struct {
	Daily   decimal.Decimal
	Weekly  decimal.Decimal
	Monthly decimal.Decimal
	Yearly  decimal.Decimal
}

// ReminderStatus pairs a reminder with its countdown.
type ReminderStatus struct {
	Index    int
	Reminder Reminder
	DaysLeft int
	Urgent   bool
}

// Snapshot is the dashboard summary shared by the CLI, TUI and daemon.
type Snapshot struct {
	At         time.Time
	Today      decimal.Decimal
	Week       decimal.Decimal
	AllTime    decimal.Decimal
	Month      BudgetStatus
	Salary     SalaryProjection
	Streak     int
	Expenses   int
	Categories []CategoryShare
	Insights   []Insight
}
