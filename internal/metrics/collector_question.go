package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	otelcodes "go.opentelemetry.io/otel/codes"
)

var algebraQuestionsTotalDesc = prometheus.NewDesc(
	"algebra_questions_total",
	"Total number of authored questions",
	[]string{"type"},
	nil,
)

// QuestionCounter counts the stored questions grouped by question type.
type QuestionCounter interface {
	CountQuestionsByType(ctx context.Context) (map[string]int, error)
}

type QuestionCollector struct {
	counter QuestionCounter
}

func NewQuestionCollector(counter QuestionCounter) *QuestionCollector {
	return &QuestionCollector{counter: counter}
}

func (c *QuestionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- algebraQuestionsTotalDesc
}

func (c *QuestionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), ScrapeTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "QuestionCollector.Collect")
	defer span.End()

	counts, err := c.counter.CountQuestionsByType(ctx)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to collect questions")
		span.RecordError(err)

		ch <- prometheus.NewInvalidMetric(algebraQuestionsTotalDesc, err)
		return
	}

	span.SetStatus(otelcodes.Ok, "Questions collected successfully")

	for questionType, count := range counts {
		ch <- prometheus.MustNewConstMetric(algebraQuestionsTotalDesc, prometheus.GaugeValue, float64(count), questionType)
	}
}

var _ prometheus.Collector = (*QuestionCollector)(nil)
