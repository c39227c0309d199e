package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single ledger record.
type Expense struct {
	ID        string          `json:"id" yaml:"id"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	Category  Category        `json:"category" yaml:"category"`
	Notes     string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	Date      time.Time       `json:"date" yaml:"date"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}

// ExpenseInput carries user-supplied fields for a new expense.
type ExpenseInput struct {
	Amount   decimal.Decimal
	Category Category
	Notes    string
	Date     time.Time
}

// Reminder is a bill reminder. It has no effect on budget math.
type Reminder struct {
	Title   string          `json:"title" yaml:"title"`
	Amount  decimal.Decimal `json:"amount" yaml:"amount"`
	DueDate time.Time       `json:"due_date" yaml:"due_date"`
}

// Profile holds the user's personal details.
type Profile struct {
	Name       string `json:"name,omitempty" yaml:"name,omitempty"`
	Age        int    `json:"age,omitempty" yaml:"age,omitempty"`
	Occupation string `json:"occupation,omitempty" yaml:"occupation,omitempty"`
	City       string `json:"city,omitempty" yaml:"city,omitempty"`
}

// Preferences are UI selections persisted alongside the ledger.
type Preferences struct {
	SelectedCategory   Category `json:"selected_category,omitempty"`
	DarkMode           bool     `json:"dark_mode"`
	SelectedChartMonth int      `json:"selected_chart_month"`
}
