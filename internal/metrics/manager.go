package metrics

import (
	"alcyxob/fittrack/internal/progress"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values of CounterGoalUpdates.
const (
	ResultUpdated = "updated"
	ResultFailed  = "failed"
)

type Manager struct {
	CounterRequests       *prometheus.CounterVec
	CounterWorkoutsLogged prometheus.Counter
	CounterGoalUpdates    *prometheus.CounterVec
	CounterGoalSkips      *prometheus.CounterVec

	HistRequestDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fittrack", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fittrack", reg), reg
}

func NewManager(namespace string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "The total number of incoming API requests",
	}, []string{"method", "status"})
	counterWorkoutsLogged := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "workouts_logged_total",
		Help:      "The total number of workouts saved through a logging session",
	})
	counterGoalUpdates := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "goal_updates_total",
		Help:      "Goal progress updates produced by reconciliation, by persistence result",
	}, []string{"result"})
	counterGoalSkips := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "goal_skips_total",
		Help:      "Matched goals left unchanged by reconciliation, by reason",
	}, []string{"reason"})

	histReqDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Total duration of API requests in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	return &Manager{
		CounterRequests:       counterRequests,
		CounterWorkoutsLogged: counterWorkoutsLogged,
		CounterGoalUpdates:    counterGoalUpdates,
		CounterGoalSkips:      counterGoalSkips,
		HistRequestDuration:   histReqDuration,
	}
}

// ObserveReconcile counts the outcome of one reconciliation pass. Safe on a nil Manager.
func (m *Manager) ObserveReconcile(res progress.Result) {
	if m == nil {
		return
	}
	failed := len(res.Failed)
	if ok := len(res.Updates) - failed; ok > 0 {
		m.CounterGoalUpdates.WithLabelValues(ResultUpdated).Add(float64(ok))
	}
	if failed > 0 {
		m.CounterGoalUpdates.WithLabelValues(ResultFailed).Add(float64(failed))
	}
	for _, s := range res.Skipped {
		m.CounterGoalSkips.WithLabelValues(string(s.Reason)).Inc()
	}
}
