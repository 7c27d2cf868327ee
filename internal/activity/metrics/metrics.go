package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the activity module.
// Tracks signup/unregister counts and critical path durations.
type Metrics struct {
	Signups          prometheus.Counter
	Unregistrations  prometheus.Counter
	SignupRejections *prometheus.CounterVec
	SignupDuration   prometheus.Histogram
	ListDuration     prometheus.Histogram
}

// New creates a Metrics instance with all activity module metrics registered.
func New() *Metrics {
	return &Metrics{
		Signups: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_signups_total",
			Help: "Total number of successful activity signups",
		}),
		Unregistrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rollcall_unregistrations_total",
			Help: "Total number of successful activity unregistrations",
		}),
		SignupRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rollcall_signup_rejections_total",
			Help: "Signup attempts rejected, partitioned by reason",
		}, []string{"reason"}),
		SignupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_signup_duration_seconds",
			Help:    "Duration of Signup operations (roster mutation path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rollcall_list_activities_duration_seconds",
			Help:    "Duration of ListActivities operations (catalog read path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementSignups records a successful signup.
func (m *Metrics) IncrementSignups() {
	m.Signups.Inc()
}

// IncrementUnregistrations records a successful unregistration.
func (m *Metrics) IncrementUnregistrations() {
	m.Unregistrations.Inc()
}

// IncrementSignupRejections records a rejected signup with its reason
// (duplicate, full, not_found).
func (m *Metrics) IncrementSignupRejections(reason string) {
	m.SignupRejections.WithLabelValues(reason).Inc()
}

// ObserveSignup records the duration of a Signup operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSignup(start time.Time) {
	m.SignupDuration.Observe(time.Since(start).Seconds())
}

// ObserveList records the duration of a ListActivities operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}
