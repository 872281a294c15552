package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	otelcodes "go.opentelemetry.io/otel/codes"
)

var algebraSubmissionsTotalDesc = prometheus.NewDesc(
	"algebra_submissions_total",
	"Total number of stored submissions",
	[]string{"result"},
	nil,
)

// SubmissionCounter counts the stored submissions grouped by correctness.
type SubmissionCounter interface {
	CountSubmissionsByResult(ctx context.Context) (map[bool]int, error)
}

type SubmissionCollector struct {
	counter SubmissionCounter
}

func NewSubmissionCollector(counter SubmissionCounter) *SubmissionCollector {
	return &SubmissionCollector{counter: counter}
}

func (c *SubmissionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- algebraSubmissionsTotalDesc
}

func (c *SubmissionCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), ScrapeTimeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "SubmissionCollector.Collect")
	defer span.End()

	counts, err := c.counter.CountSubmissionsByResult(ctx)
	if err != nil {
		span.SetStatus(otelcodes.Error, "Failed to collect submissions")
		span.RecordError(err)

		ch <- prometheus.NewInvalidMetric(algebraSubmissionsTotalDesc, err)
		return
	}

	span.SetStatus(otelcodes.Ok, "Submissions collected successfully")

	for correct, count := range counts {
		ch <- prometheus.MustNewConstMetric(algebraSubmissionsTotalDesc, prometheus.GaugeValue, float64(count), ResultLabel(correct))
	}
}

var _ prometheus.Collector = (*SubmissionCollector)(nil)
