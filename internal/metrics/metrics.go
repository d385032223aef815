package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the landing page metrics. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	Submissions   *prometheus.CounterVec
	InFlight      prometheus.Gauge
	Ignored       *prometheus.CounterVec
	Toggles       *prometheus.CounterVec
	ActiveVisitor prometheus.Gauge
	Evicted       prometheus.Counter
}

// New registers the landing page metrics with reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "waitlist_submissions_total",
			Help: "Signup submissions by outcome",
		}, []string{"outcome"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "waitlist_submissions_in_flight",
			Help: "Signup submissions currently being dispatched",
		}),
		Ignored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "waitlist_submissions_ignored_total",
			Help: "Submit attempts ignored before dispatch",
		}, []string{"reason"}),
		Toggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "landing_toggles_total",
			Help: "Toggle interactions by control",
		}, []string{"control"}),
		ActiveVisitor: f.NewGauge(prometheus.GaugeOpts{
			Name: "landing_active_visitors",
			Help: "Visitor sessions currently held in memory",
		}),
		Evicted: f.NewCounter(prometheus.CounterOpts{
			Name: "landing_visitors_evicted_total",
			Help: "Idle visitor sessions swept",
		}),
	}
}

func (r *Recorder) Submission(outcome string) {
	if r == nil {
		return
	}
	r.Submissions.WithLabelValues(outcome).Inc()
}

func (r *Recorder) SubmissionStarted() {
	if r == nil {
		return
	}
	r.InFlight.Inc()
}

func (r *Recorder) SubmissionFinished() {
	if r == nil {
		return
	}
	r.InFlight.Dec()
}

func (r *Recorder) SubmitIgnored(reason string) {
	if r == nil {
		return
	}
	r.Ignored.WithLabelValues(reason).Inc()
}

func (r *Recorder) Toggle(control string) {
	if r == nil {
		return
	}
	r.Toggles.WithLabelValues(control).Inc()
}

func (r *Recorder) VisitorAdded() {
	if r == nil {
		return
	}
	r.ActiveVisitor.Inc()
}

func (r *Recorder) VisitorsEvicted(n int) {
	if r == nil || n == 0 {
		return
	}
	r.ActiveVisitor.Sub(float64(n))
	r.Evicted.Add(float64(n))
}
