package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "interview_assistant"

// Metrics tracks interview activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	InterviewsStarted   prometheus.Counter
	InterviewsCompleted prometheus.Counter
	QuestionsAsked      prometheus.Counter
	Timeouts            prometheus.Counter
	DetailReprompts     prometheus.Counter
	StorageFailures     *prometheus.CounterVec
	Scores              prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		InterviewsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_started_total",
			Help:      "Interviews started from a fresh session",
		}),
		InterviewsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_completed_total",
			Help:      "Interviews finalized into the archive",
		}),
		QuestionsAsked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_asked_total",
			Help:      "Questions appended to a transcript",
		}),
		Timeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "question_timeouts_total",
			Help:      "Questions whose countdown reached zero",
		}),
		DetailReprompts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_reprompts_total",
			Help:      "Candidate detail answers rejected by validation",
		}),
		StorageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_failures_total",
			Help:      "Failed persistence operations",
		}, []string{"operation"}),
		Scores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interview_score",
			Help:      "Final interview scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 7),
		}),
	}
}

func (m *Metrics) IncrementInterviewsStarted() {
	if m == nil {
		return
	}
	m.InterviewsStarted.Inc()
}

func (m *Metrics) IncrementInterviewsCompleted(score int) {
	if m == nil {
		return
	}
	m.InterviewsCompleted.Inc()
	m.Scores.Observe(float64(score))
}

func (m *Metrics) IncrementQuestionsAsked() {
	if m == nil {
		return
	}
	m.QuestionsAsked.Inc()
}

func (m *Metrics) IncrementTimeouts() {
	if m == nil {
		return
	}
	m.Timeouts.Inc()
}

func (m *Metrics) IncrementDetailReprompts() {
	if m == nil {
		return
	}
	m.DetailReprompts.Inc()
}

func (m *Metrics) IncrementStorageFailure(operation string) {
	if m == nil {
		return
	}
	m.StorageFailures.WithLabelValues(operation).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
