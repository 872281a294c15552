package metrics

import (
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("algebra.metrics")

const ScrapeTimeout = 30 * time.Second
