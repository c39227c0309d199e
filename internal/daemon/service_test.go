package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/model"
)

var now = time.Date(2024, 3, 25, 23, 55, 0, 0, time.UTC)

type memStore struct {
	mu      sync.Mutex
	state   model.State
	loadErr error
}

func (m *memStore) Load(context.Context) (model.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return model.State{}, m.loadErr
	}
	st := m.state
	st.Expenses = append([]model.Expense(nil), m.state.Expenses...)
	st.Budget = m.state.Budget.Clone()
	return st, nil
}

func (m *memStore) Save(_ context.Context, st model.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = st
	return nil
}

func day(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

func newStore() *memStore {
	st := model.NewState()
	st.Expenses = []model.Expense{
		{ID: "2", Amount: decimal.NewFromInt(30000), Category: model.Bills, Date: day(10), CreatedAt: day(10)},
		{ID: "1", Amount: decimal.NewFromInt(500), Category: model.Food, Date: day(25), CreatedAt: day(25)},
	}
	st.Reminders = []model.Reminder{
		{Title: "Rent", Amount: decimal.NewFromInt(15000), DueDate: day(27)},
		{Title: "Insurance", Amount: decimal.NewFromInt(4000), DueDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	return &memStore{state: st}
}

func newService(t *testing.T, st *memStore) *Service {
	t.Helper()
	s, err := New(Config{
		Interval:         10 * time.Second,
		EventsBuffer:     10,
		StreakSchedule:   "0 5 0 * * *",
		ReminderSchedule: "0 0 9 * * *",
		ReminderWindow:   3,
	}, st, clock.Fixed(now), nil)
	require.NoError(t, err)
	return s
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Expenses: 10,
		Month:    decimal.NewFromInt(12000),
		AllTime:  decimal.NewFromInt(80000),
		Budget:   decimal.NewFromInt(50000),
		Streak:   3,
	}
	curr := Snapshot{
		Expenses: 12,
		Month:    decimal.RequireFromString("12650.5"),
		AllTime:  decimal.RequireFromString("80650.5"),
		Budget:   decimal.NewFromInt(50000),
		Streak:   4,
	}

	delta := diffSnapshots(prev, curr)
	assert.Equal(t, 2, delta.Expenses)
	assert.True(t, decimal.RequireFromString("650.5").Equal(delta.Month))
	assert.True(t, decimal.RequireFromString("650.5").Equal(delta.AllTime))
	assert.True(t, delta.Budget.IsZero())
	assert.Equal(t, 1, delta.Streak)
	assert.False(t, delta.isZero())
	assert.True(t, diffSnapshots(curr, curr).isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s, err := New(Config{Interval: 10 * time.Second, EventsBuffer: 2}, newStore(), clock.Fixed(now), nil)
	require.NoError(t, err)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(Config{StreakSchedule: "every day"}, newStore(), clock.Fixed(now), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register streak job")
}

func TestPollOnceEmitsSnapshotThenDelta(t *testing.T) {
	st := newStore()
	s := newService(t, st)
	ctx := context.Background()

	s.pollOnce(ctx)
	s.pollOnce(ctx) // unchanged, no event

	st.mu.Lock()
	st.state.Expenses = append(st.state.Expenses, model.Expense{
		ID: "3", Amount: decimal.NewFromInt(250), Category: model.Transport, Date: day(24), CreatedAt: day(24),
	})
	st.mu.Unlock()
	s.pollOnce(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.events, 2)
	assert.Equal(t, EventSnapshot, s.events[0].Type)
	assert.Equal(t, EventBudgetDelta, s.events[1].Type)
	assert.Equal(t, 1, s.events[1].Delta.Expenses)
	assert.True(t, decimal.NewFromInt(250).Equal(s.events[1].Delta.Month))
	assert.Equal(t, int64(3), s.pollCount)
}

func TestPollOnceRecordsError(t *testing.T) {
	st := newStore()
	st.loadErr = errors.New("disk gone")
	s := newService(t, st)

	s.pollOnce(context.Background())

	status := s.snapshotStatus()
	assert.Equal(t, "disk gone", status.LastError)
	assert.Equal(t, int64(1), status.PollCount)
	assert.Zero(t, status.EventCount)
}

func TestSnapshotFromState(t *testing.T) {
	st, err := newStore().Load(context.Background())
	require.NoError(t, err)

	snap := snapshotFromState(st, now)
	assert.Equal(t, 2, snap.Expenses)
	assert.True(t, decimal.NewFromInt(30500).Equal(snap.Month))
	assert.True(t, decimal.NewFromInt(500).Equal(snap.Today))
	assert.True(t, decimal.NewFromInt(19500).Equal(snap.Remaining))
	assert.True(t, decimal.NewFromInt(61).Equal(snap.PercentUsed))
	assert.Equal(t, "normal", snap.Status)
	assert.Equal(t, 7, snap.DaysUntilSalary)
}

func TestStreakJobPersists(t *testing.T) {
	st := newStore()
	s := newService(t, st)

	s.streakJob()

	saved, err := st.Load(context.Background())
	require.NoError(t, err)
	// Nothing was spent on the 24th, the last completed day.
	assert.Equal(t, 1, saved.Streak)

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.NotEmpty(t, s.events)
	assert.Equal(t, EventStreak, s.events[0].Type)
}

func TestReminderJobPublishesDue(t *testing.T) {
	s := newService(t, newStore())

	s.reminderJob()

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.events, 1)
	ev := s.events[0]
	assert.Equal(t, EventReminderDue, ev.Type)
	require.Len(t, ev.Reminders, 1)
	assert.Equal(t, "Rent", ev.Reminders[0].Title)
	assert.Equal(t, 2, ev.Reminders[0].DaysLeft)
}

func TestHTTPHandlers(t *testing.T) {
	s := newService(t, newStore())
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	get := func(path string) (*http.Response, []byte) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, body
	}

	resp, body := get("/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))

	_, body = get("/v1/status")
	var status Status
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, 2, status.Summary.Expenses)
	assert.True(t, decimal.NewFromInt(30500).Equal(status.Summary.Month))

	_, body = get("/v1/events")
	var events []Event
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 1)
	assert.Equal(t, EventSnapshot, events[0].Type)

	_, body = get("/metrics")
	assert.Contains(t, string(body), "kharcha_month_spent 30500")
	assert.Contains(t, string(body), "kharcha_reminders_due 1")
	assert.Contains(t, string(body), "kharcha_polls_total 1")
}
