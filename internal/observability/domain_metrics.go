package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Assistant pipeline outcomes, used as the "outcome" label value.
const (
	OutcomeAnsweredFromData = "answered_from_data"
	OutcomeDirectAnswer     = "direct_answer"
	OutcomeExecutionFailed  = "execution_failed"
	OutcomeInternalFault    = "internal_fault"
)

var (
	assistantQuestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nexdoor_assistant_questions_total",
			Help: "Total number of assistant questions by final outcome.",
		},
		[]string{"outcome"},
	)
	assistantRejectedQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nexdoor_assistant_rejected_queries_total",
			Help: "Total number of candidate queries rejected by the read-only gate.",
		},
	)
	assistantGenerateLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nexdoor_assistant_generate_latency_ms",
			Help:    "Generative text service call latency in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		},
	)
)

func init() {
	prometheus.MustRegister(
		assistantQuestionsTotal,
		assistantRejectedQueriesTotal,
		assistantGenerateLatencyMs,
	)
}

func ObserveAssistantQuestion(outcome string) {
	assistantQuestionsTotal.WithLabelValues(outcome).Inc()
}

func IncrementRejectedQuery() {
	assistantRejectedQueriesTotal.Inc()
}

func ObserveGenerateLatency(elapsed time.Duration) {
	assistantGenerateLatencyMs.Observe(float64(elapsed.Milliseconds()))
}
