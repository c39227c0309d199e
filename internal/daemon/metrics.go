package daemon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kharcha"

type metrics struct {
	registry *prometheus.Registry

	monthSpent   prometheus.Gauge
	monthBudget  prometheus.Gauge
	percentUsed  prometheus.Gauge
	safeDaily    prometheus.Gauge
	salaryDays   prometheus.Gauge
	streak       prometheus.Gauge
	expenses     prometheus.Gauge
	remindersDue prometheus.Gauge
	polls        prometheus.Counter
	pollErrors   prometheus.Counter
	jobRuns      *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &metrics{
		registry: reg,
		monthSpent: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "month_spent",
			Help:      "Total spent in the current calendar month",
		}),
		monthBudget: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "month_budget",
			Help:      "Configured monthly budget",
		}),
		percentUsed: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "month_budget_used_percent",
			Help:      "Percentage of the monthly budget spent",
		}),
		safeDaily: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "safe_daily_spend",
			Help:      "Remaining budget divided by days until salary",
		}),
		salaryDays: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "days_until_salary",
			Help:      "Days until the next salary day",
		}),
		streak: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streak_days",
			Help:      "Consecutive days within the daily limit",
		}),
		expenses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expenses",
			Help:      "Number of expenses in the ledger",
		}),
		remindersDue: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders_due",
			Help:      "Bill reminders due within the configured window",
		}),
		polls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "State polls performed",
		}),
		pollErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "State polls that failed",
		}),
		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job executions",
		}, []string{"job", "result"}),
	}
}

func (m *metrics) observe(s Snapshot, due int) {
	m.monthSpent.Set(s.Month.InexactFloat64())
	m.monthBudget.Set(s.Budget.InexactFloat64())
	m.percentUsed.Set(s.PercentUsed.InexactFloat64())
	m.safeDaily.Set(s.SafeDailySpend.InexactFloat64())
	m.salaryDays.Set(float64(s.DaysUntilSalary))
	m.streak.Set(float64(s.Streak))
	m.expenses.Set(float64(s.Expenses))
	m.remindersDue.Set(float64(due))
}
