package workers

import (
	"context"
	"log/slog"
	"time"

	"neon-arena/contract"
	"neon-arena/domain/event"
)

// EventFanout delivers domain events produced by session workers.
//
// Permanent sinks (persistence, observability) receive every event,
// best-effort. Participant delivery resolves each recipient through the
// connection registry; a failed send unbinds that connection, treated as a
// disconnect, and never aborts delivery to the other participant.
type EventFanout struct {
	log         *slog.Logger
	registry    contract.IRegistry
	events      <-chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(
	log *slog.Logger,
	registry contract.IRegistry,
	events <-chan event.DomainEvent,
	sinkTimeout time.Duration,
	sinks ...contract.EventSink,
) *EventFanout {
	return &EventFanout{
		log:         log,
		registry:    registry,
		events:      events,
		sinks:       sinks,
		sinkTimeout: sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping event fanout")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.fanout(ctx, evt)
		}
	}
}

func (w *EventFanout) fanout(ctx context.Context, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()

	for _, sink := range w.sinks {
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Permanent sink failed", "session", evt.Session(), "error", err)
		}
	}

	for _, player := range evt.Recipients() {
		sink, ok := w.registry.Lookup(player)
		if !ok {
			continue
		}
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Participant send failed, unbinding connection",
				"session", evt.Session(), "player", player, "error", err)
			w.registry.Unbind(sink)
		}
	}
}
