package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/algebra-practice/backend/internal/workers"
)

// EventService is the service for triggering events.
type EventService struct {
	handlers []EventHandler
}

// NewEventService creates a new EventService.
func NewEventService(handlers ...EventHandler) *EventService {
	return &EventService{
		handlers: handlers,
	}
}

// Event is the event to be triggered.
type Event struct {
	Type    EventType
	Payload map[string]any
	// Client identifies the caller, e.g. the User-Agent of the request.
	Client      string
	TriggeredAt time.Time
}

// EventHandler is the handler for the event.
//
// You can think it as the callback of the event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event Event) error
}

// TriggerEvent triggers an event. Handlers run in the background and
// outlive the cancellation of ctx.
func (s *EventService) TriggerEvent(ctx context.Context, event Event) {
	if event.TriggeredAt.IsZero() {
		event.TriggeredAt = time.Now()
	}

	ctx = context.WithoutCancel(ctx)
	workers.Global.Go(func() {
		err := s.triggerEvent(ctx, event)
		if err != nil {
			slog.Error("failed to trigger event", "type", event.Type, "error", err)
		}
	})
}

// triggerEvent triggers an event synchronously.
func (s *EventService) triggerEvent(ctx context.Context, event Event) error {
	for _, handler := range s.handlers {
		err := handler.HandleEvent(ctx, event)
		if err != nil {
			return err
		}
	}

	return nil
}
