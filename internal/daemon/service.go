// Package daemon provides the long-running background budget monitor.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/logging"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/tracker"
)

// Event types.
const (
	EventSnapshot    = "snapshot"
	EventBudgetDelta = "budget_delta"
	EventStreak      = "streak"
	EventReminderDue = "reminder_due"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr             string
	DBPath           string
	Interval         time.Duration
	EventsBuffer     int
	StreakSchedule   string
	ReminderSchedule string
	ReminderWindow   int
}

// Snapshot is a compact budget state for status and event payloads.
type Snapshot struct {
	At              time.Time       `json:"at"`
	Expenses        int             `json:"expenses"`
	Today           decimal.Decimal `json:"today"`
	Week            decimal.Decimal `json:"week"`
	Month           decimal.Decimal `json:"month"`
	AllTime         decimal.Decimal `json:"all_time"`
	Budget          decimal.Decimal `json:"budget"`
	Remaining       decimal.Decimal `json:"remaining"`
	PercentUsed     decimal.Decimal `json:"percent_used"`
	Status          string          `json:"status"`
	DaysUntilSalary int             `json:"days_until_salary"`
	SafeDailySpend  decimal.Decimal `json:"safe_daily_spend"`
	Streak          int             `json:"streak"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	Expenses int             `json:"expenses"`
	Month    decimal.Decimal `json:"month"`
	AllTime  decimal.Decimal `json:"all_time"`
	Budget   decimal.Decimal `json:"budget"`
	Streak   int             `json:"streak"`
}

func (d Delta) isZero() bool {
	return d.Expenses == 0 &&
		d.Month.IsZero() &&
		d.AllTime.IsZero() &&
		d.Budget.IsZero() &&
		d.Streak == 0
}

// DueReminder is attached to reminder_due events.
type DueReminder struct {
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"due_date"`
	DaysLeft int             `json:"days_left"`
}

// Event is emitted whenever the budget snapshot changes or a job fires.
type Event struct {
	ID        int64         `json:"id"`
	Type      string        `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Snapshot  Snapshot      `json:"snapshot"`
	Delta     Delta         `json:"delta"`
	Reminders []DueReminder `json:"reminders,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	StreakSchedule  string    `json:"streak_schedule"`
	ReminderSched   string    `json:"reminder_schedule"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg     Config
	store   tracker.Store
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics
	cron    *cron.Cron

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service reading state from store.
func New(cfg Config, store tracker.Store, c clock.Clock, log *zap.Logger) (*Service, error) {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.ReminderWindow < 0 {
		cfg.ReminderWindow = 3
	}
	if log == nil {
		log = zap.NewNop()
	}
	if c == nil {
		c = clock.System{}
	}

	s := &Service{
		cfg:       cfg,
		store:     store,
		clock:     c,
		log:       logging.Component(log, "daemon"),
		metrics:   newMetrics(),
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(time.Local)),
		startedAt: c.Now(),
		subs:      make(map[int]chan Event),
	}
	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) registerJobs() error {
	if s.cfg.StreakSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.StreakSchedule, s.streakJob); err != nil {
			return fmt.Errorf("register streak job: %w", err)
		}
	}
	if s.cfg.ReminderSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.ReminderSchedule, s.reminderJob); err != nil {
			return fmt.Errorf("register reminder job: %w", err)
		}
	}
	return nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

// Run serves HTTP, polls the store and runs scheduled jobs until ctx is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("daemon http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		s.cron.Start()
		defer func() { <-s.cron.Stop().Done() }()

		// Seed initial snapshot so status is useful immediately.
		s.pollOnce(gctx)

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce(gctx)
			}
		}
	})

	return g.Wait()
}

func (s *Service) pollOnce(ctx context.Context) {
	st, err := s.store.Load(ctx)
	now := s.clock.Now()
	s.metrics.polls.Inc()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.metrics.pollErrors.Inc()
		s.log.Warn("poll failed", zap.Error(err))
		return
	}

	snap := snapshotFromState(st, now)
	s.metrics.observe(snap, len(pipeline.DueWithin(st.Reminders, now, s.cfg.ReminderWindow)))

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventBudgetDelta,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) streakJob() {
	ctx := context.Background()
	log := s.log.With(zap.String(logging.FieldJob, "streak"))

	t, err := tracker.Open(ctx, s.store, s.clock, tracker.WithLogger(s.log))
	if err != nil {
		s.metrics.jobRuns.WithLabelValues("streak", "error").Inc()
		log.Error("loading state", zap.Error(err))
		return
	}
	streak, err := t.EvaluateStreak(ctx)
	if err != nil {
		s.metrics.jobRuns.WithLabelValues("streak", "error").Inc()
		log.Error("evaluating streak", zap.Error(err))
		return
	}
	s.metrics.jobRuns.WithLabelValues("streak", "ok").Inc()
	log.Info("streak evaluated", zap.Int("streak", streak))

	s.emit(EventStreak, nil)
	s.pollOnce(ctx)
}

func (s *Service) reminderJob() {
	ctx := context.Background()
	log := s.log.With(zap.String(logging.FieldJob, "reminders"))

	st, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.jobRuns.WithLabelValues("reminders", "error").Inc()
		log.Error("loading state", zap.Error(err))
		return
	}
	s.metrics.jobRuns.WithLabelValues("reminders", "ok").Inc()

	due := dueReminders(st.Reminders, s.clock.Now(), s.cfg.ReminderWindow)
	if len(due) == 0 {
		log.Debug("no reminders due")
		return
	}
	for _, r := range due {
		log.Info("reminder due",
			zap.String("title", r.Title),
			zap.String(logging.FieldAmount, r.Amount.String()),
			zap.Int("days_left", r.DaysLeft),
		)
	}
	s.emit(EventReminderDue, due)
}

func dueReminders(reminders []model.Reminder, now time.Time, window int) []DueReminder {
	var out []DueReminder
	for _, rs := range pipeline.DueWithin(reminders, now, window) {
		out = append(out, DueReminder{
			Title:    rs.Reminder.Title,
			Amount:   rs.Reminder.Amount,
			DueDate:  rs.Reminder.DueDate,
			DaysLeft: rs.DaysLeft,
		})
	}
	return out
}

func (s *Service) emit(typ string, due []DueReminder) {
	s.mu.Lock()
	s.nextEventID++
	ev := Event{
		ID:        s.nextEventID,
		Type:      typ,
		Timestamp: s.clock.Now(),
		Snapshot:  s.snapshot,
		Reminders: due,
	}
	s.mu.Unlock()
	s.publishEvent(ev)
}

func snapshotFromState(st model.State, at time.Time) Snapshot {
	sum := pipeline.Snapshot(st, at)
	return Snapshot{
		At:              at,
		Expenses:        sum.Expenses,
		Today:           sum.Today,
		Week:            sum.Week,
		Month:           sum.Month.Total,
		AllTime:         sum.AllTime,
		Budget:          sum.Month.Budget,
		Remaining:       sum.Month.Remaining,
		PercentUsed:     sum.Month.PercentUsed.Round(2),
		Status:          sum.Month.Status.String(),
		DaysUntilSalary: sum.Salary.DaysUntilSalary,
		SafeDailySpend:  sum.Salary.SafeDailySpend.Round(2),
		Streak:          sum.Streak,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Expenses: curr.Expenses - prev.Expenses,
		Month:    curr.Month.Sub(prev.Month),
		AllTime:  curr.AllTime.Sub(prev.AllTime),
		Budget:   curr.Budget.Sub(prev.Budget),
		Streak:   curr.Streak - prev.Streak,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		StreakSchedule:  s.cfg.StreakSchedule,
		ReminderSched:   s.cfg.ReminderSchedule,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.clock.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
