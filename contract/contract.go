//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"neon-arena/domain"
	"neon-arena/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself; the supervisor owns restarts and panic
// recovery.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision, avoiding manual naming in the Worker
// interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink is one delivery target for domain events. Connection sinks
// serialize events onto the wire; permanent sinks persist or observe them.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry is the bidirectional player <-> connection mapping. Bind
// replaces any prior binding for the player or the sink (last bind wins);
// Unbind of an unknown sink is a no-op.
type IRegistry interface {
	Bind(player domain.PlayerID, sink EventSink)
	Unbind(sink EventSink)
	Lookup(player domain.PlayerID) (EventSink, bool)
	LookupPlayer(sink EventSink) (domain.PlayerID, bool)
	Count() int
}

// ISessionRepository persists session snapshots. Both operations are
// best-effort collaborators: failures are logged and never block gameplay.
type ISessionRepository interface {
	Record(snapshot domain.Snapshot) error
	Update(snapshot domain.Snapshot) error
}

// Settler is the external stake settlement collaborator. Settle must be
// safe to retry with the same settlement key.
type Settler interface {
	Settle(ctx context.Context, settlement domain.Settlement) error
}

// ITickSource is what the simulation ticker drives on each period.
type ITickSource interface {
	TickContinuous()
}

// IArenaInfo exposes coarse arena counters for telemetry and greetings.
type IArenaInfo interface {
	ActiveSessions() int
}
