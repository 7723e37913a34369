package session

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fyrsmithlabs/qtask/internal/task"
)

// Metrics holds Prometheus collectors for sessions and their stores.
//
// Metrics:
//   - qtask_tasks_added_total - tasks appended across all sessions
//   - qtask_tasks_completed_total{priority} - tasks completed
//   - qtask_states_randomized_total - task states re-rolled
//   - qtask_sessions_active - live sessions
//   - qtask_sessions_expired_total - sessions removed by the sweeper
type Metrics struct {
	TasksAdded       prometheus.Counter
	TasksCompleted   *prometheus.CounterVec
	StatesRandomized prometheus.Counter
	SessionsActive   prometheus.Gauge
	SessionsExpired  prometheus.Counter
}

// NewMetrics registers the collectors with reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TasksAdded: f.NewCounter(prometheus.CounterOpts{
			Name: "qtask_tasks_added_total",
			Help: "Total number of tasks added",
		}),
		TasksCompleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qtask_tasks_completed_total",
				Help: "Total number of tasks completed",
			},
			[]string{"priority"},
		),
		StatesRandomized: f.NewCounter(prometheus.CounterOpts{
			Name: "qtask_states_randomized_total",
			Help: "Total number of task states re-rolled by randomize",
		}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "qtask_sessions_active",
			Help: "Number of live sessions",
		}),
		SessionsExpired: f.NewCounter(prometheus.CounterOpts{
			Name: "qtask_sessions_expired_total",
			Help: "Total number of sessions expired for inactivity",
		}),
	}
}

// storeObserver feeds store mutations into Metrics.
type storeObserver struct {
	m *Metrics
}

var _ task.Observer = storeObserver{}

func (o storeObserver) TaskAdded(task.Task) {
	o.m.TasksAdded.Inc()
}

func (o storeObserver) TaskCompleted(t task.Task) {
	o.m.TasksCompleted.WithLabelValues(priorityLabel(t.Priority)).Inc()
}

func (o storeObserver) StatesRandomized(count int) {
	o.m.StatesRandomized.Add(float64(count))
}

func priorityLabel(p int) string {
	if p < task.MinPriority || p > task.MaxPriority {
		return "unknown"
	}
	return strconv.Itoa(p)
}
