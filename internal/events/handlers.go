package events

import (
	"context"

	"github.com/algebra-practice/backend/internal/metrics"
	"github.com/posthog/posthog-go"
)

// MetricsHandler counts events in Prometheus.
type MetricsHandler struct{}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// HandleEvent records the event type.
func (h *MetricsHandler) HandleEvent(_ context.Context, event Event) error {
	metrics.RecordEvent(string(event.Type))
	return nil
}

// PosthogHandler forwards events to PostHog.
type PosthogHandler struct {
	client posthog.Client
}

// NewPosthogHandler creates a new PosthogHandler.
func NewPosthogHandler(client posthog.Client) *PosthogHandler {
	return &PosthogHandler{client: client}
}

// HandleEvent enqueues the event as a capture. The client name is the
// distinct id since callers are anonymous.
func (h *PosthogHandler) HandleEvent(_ context.Context, event Event) error {
	properties := posthog.NewProperties()
	for key, value := range event.Payload {
		properties.Set(key, value)
	}

	distinctID := event.Client
	if distinctID == "" {
		distinctID = "anonymous"
	}

	return h.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      string(event.Type),
		Timestamp:  event.TriggeredAt,
		Properties: properties,
	})
}

var (
	_ EventHandler = (*MetricsHandler)(nil)
	_ EventHandler = (*PosthogHandler)(nil)
)
