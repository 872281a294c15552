package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionTotal tracks graded submissions by result (correct or incorrect)
	SubmissionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algebra_submission_total",
			Help: "Total number of graded submissions by result (correct or incorrect)",
		},
		[]string{"result"},
	)

	// QuestionRenderedTotal tracks the questions rendered into display form
	QuestionRenderedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algebra_question_rendered_total",
			Help: "Total number of questions rendered into display form by cache result",
		},
		[]string{"cache"},
	)

	// FormulaCacheTotal tracks hits and misses of the formula memo cache
	FormulaCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algebra_formula_cache_total",
			Help: "Total number of formula memo cache lookups by result (hit or miss)",
		},
		[]string{"result"},
	)

	// FormulaRepairTotal tracks brace repairs applied while sanitizing formulas
	FormulaRepairTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algebra_formula_repair_total",
			Help: "Total number of brace repairs applied to authored formulas by kind (appended or prepended)",
		},
		[]string{"kind"},
	)

	// EventTotal tracks the total number of events by event type
	EventTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "algebra_event_total",
			Help: "Total number of events by event type",
		},
		[]string{"event_type"},
	)
)

// ResultLabel maps a grading result to its label value.
func ResultLabel(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}

// RecordSubmission records a graded submission
func RecordSubmission(correct bool) {
	SubmissionTotal.WithLabelValues(ResultLabel(correct)).Inc()
}

// RecordQuestionRendered records a rendered question
func RecordQuestionRendered(cached bool) {
	label := "miss"
	if cached {
		label = "hit"
	}
	QuestionRenderedTotal.WithLabelValues(label).Inc()
}

// RecordFormulaCache records a formula memo cache lookup
func RecordFormulaCache(hit bool) {
	label := "miss"
	if hit {
		label = "hit"
	}
	FormulaCacheTotal.WithLabelValues(label).Inc()
}

// RecordFormulaRepair records the braces added to a formula
func RecordFormulaRepair(appended, prepended int) {
	if appended > 0 {
		FormulaRepairTotal.WithLabelValues("appended").Add(float64(appended))
	}
	if prepended > 0 {
		FormulaRepairTotal.WithLabelValues("prepended").Add(float64(prepended))
	}
}

// RecordEvent records an event with the given event type
func RecordEvent(eventType string) {
	EventTotal.WithLabelValues(eventType).Inc()
}
