package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kharcha/internal/model"
)

func TestDailyTotals(t *testing.T) {
	records := []model.Expense{
		exp(t, "a", 100, model.Food, "2024-03-20"),
		exp(t, "b", 50, model.Food, "2024-03-20"),
		exp(t, "c", 70, model.Food, "2024-03-16"),
		exp(t, "d", 999, model.Food, "2024-03-13"),
	}

	days := DailyTotals(records, insightNow, 7)
	require.Len(t, days, 7)
	assert.Equal(t, mustDate(t, "2024-03-14"), days[0].Date)
	assert.Equal(t, mustDate(t, "2024-03-20"), days[6].Date)
	assert.True(t, days[6].Total.Equal(dec(150)))
	assert.Equal(t, 2, days[6].Count)
	assert.True(t, days[2].Total.Equal(dec(70)))
	assert.True(t, days[1].Total.IsZero())
}

func TestMonthlyTotals(t *testing.T) {
	months := MonthlyTotals(insightLedger(t), 2024)
	require.Len(t, months, 12)
	assert.Equal(t, time.January, months[0].Month)
	assert.True(t, months[1].Total.Equal(dec(300)))
	assert.True(t, months[2].Total.Equal(dec(3500)))
	assert.True(t, months[11].Total.IsZero())
}

func TestRecentOrderings(t *testing.T) {
	base := insightNow
	records := []model.Expense{
		{ID: "backdated", Date: mustDate(t, "2024-01-01"), CreatedAt: base},
		{ID: "mid", Date: mustDate(t, "2024-03-10"), CreatedAt: base.Add(-time.Hour)},
		{ID: "new-date", Date: mustDate(t, "2024-03-19"), CreatedAt: base.Add(-2 * time.Hour)},
		{ID: "oldest", Date: mustDate(t, "2024-03-15"), CreatedAt: base.Add(-3 * time.Hour)},
	}

	assert.Equal(t, []string{"backdated", "mid", "new-date"}, ids(RecentSuggestions(records, 3)))
	assert.Equal(t, []string{"new-date", "oldest"}, ids(RecentByDate(records, 2)))
	assert.Len(t, RecentByDate(records, 10), 4)
}

func TestReminderStatuses(t *testing.T) {
	reminders := []model.Reminder{
		{Title: "Rent", DueDate: insightNow.Add(60 * time.Hour)},
		{Title: "Insurance", DueDate: insightNow.AddDate(0, 0, 10)},
		{Title: "Late", DueDate: insightNow.AddDate(0, 0, -2)},
	}

	st := ReminderStatuses(reminders, insightNow)
	require.Len(t, st, 3)
	assert.Equal(t, 3, st[0].DaysLeft)
	assert.True(t, st[0].Urgent)
	assert.Equal(t, 10, st[1].DaysLeft)
	assert.False(t, st[1].Urgent)
	assert.Equal(t, -2, st[2].DaysLeft)
	assert.Equal(t, 2, st[2].Index)

	due := DueWithin(reminders, insightNow, 3)
	require.Len(t, due, 1)
	assert.Equal(t, "Rent", due[0].Reminder.Title)
}

func TestSnapshot(t *testing.T) {
	st := model.NewState()
	st.Expenses = insightLedger(t)
	st.Streak = 2

	snap := Snapshot(st, insightNow)
	assert.True(t, snap.Today.Equal(dec(1000)))
	assert.True(t, snap.Week.Equal(dec(1000)), "week starts Sunday 2024-03-17")
	assert.True(t, snap.AllTime.Equal(dec(3800)))
	assert.True(t, snap.Month.Total.Equal(dec(3500)))
	assert.Equal(t, model.StatusNormal, snap.Month.Status)
	assert.Equal(t, 2, snap.Streak)
	assert.Equal(t, 4, snap.Expenses)
	assert.Len(t, snap.Insights, 5)
	require.NotEmpty(t, snap.Categories)
	assert.Equal(t, model.Bills, snap.Categories[0].Category)
}

func TestGreeting(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2024, 3, 20, h, 0, 0, 0, time.UTC) }
	assert.Equal(t, "Good Morning", Greeting(at(6)))
	assert.Equal(t, "Good Afternoon", Greeting(at(12)))
	assert.Equal(t, "Good Afternoon", Greeting(at(16)))
	assert.Equal(t, "Good Evening", Greeting(at(17)))
}
