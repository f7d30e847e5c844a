// Package sink contains permanent event sinks fed by the fanout.
package sink

import (
	"context"
	"log/slog"

	"neon-arena/contract"
	"neon-arena/domain/event"
)

// SessionSink mirrors session snapshots into the repository. Persistence is
// a best-effort collaborator: the fanout logs failures and gameplay never
// waits on it.
type SessionSink struct {
	repository contract.ISessionRepository
	log        *slog.Logger
}

func NewSessionSink(repository contract.ISessionRepository, log *slog.Logger) SessionSink {
	return SessionSink{repository: repository, log: log}
}

func (d SessionSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.SessionStarted:
		return d.repository.Update(evt.Snapshot)
	case event.StateBroadcast:
		return d.repository.Update(evt.Snapshot)
	case event.SessionEnded:
		return d.repository.Update(evt.Snapshot)
	default:
		// Addressed snapshots and rejections carry no new durable state.
		return nil
	}
}
