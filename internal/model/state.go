package model

import "time"

// State is everything kharcha persists for a user.
type State struct {
	Expenses        []Expense
	Budget          BudgetConfig
	Reminders       []Reminder
	Streak          int
	StreakCheckedOn time.Time // zero until the first evaluation
	Profile         Profile
	Preferences     Preferences
}

// NewState returns an empty state with default budget settings.
func NewState() State {
	return State{Budget: DefaultBudgetConfig()}
}
