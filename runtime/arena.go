// Package runtime coordinates sessions, connections and workers. It routes
// commands and events without containing any game rules.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"neon-arena/contract"
	"neon-arena/domain"
	"neon-arena/domain/event"
	apperrors "neon-arena/errors"
	"neon-arena/game"
	"neon-arena/observability"
	"neon-arena/runtime/workers"
)

// sessionHandle is the arena's view of a live session: the immutable facts
// plus the entry point of its serialized command queue. The mutable game
// state behind it belongs to the session worker alone.
type sessionHandle struct {
	players  [2]domain.PlayerID
	gameType game.Type
	commands chan domain.Command
}

func (h *sessionHandle) seatOf(player domain.PlayerID) bool {
	return player == h.players[0] || player == h.players[1]
}

// Arena owns the table of active sessions and the permanent workers around
// them: event fanout, the simulation ticker, settlement delivery and
// telemetry. All session mutation flows through per-session command queues.
type Arena struct {
	mu         sync.Mutex
	log        *slog.Logger
	supervisor contract.ISupervisor
	registry   contract.IRegistry
	repository contract.ISessionRepository
	settler    contract.Settler
	stats      *observability.ServerStats

	sessions    map[domain.SessionID]*sessionHandle
	events      chan event.DomainEvent
	settlements chan domain.Settlement
	permanent   []contract.EventSink
	runCtx      context.Context

	queueSize             int
	gracePeriod           time.Duration
	tickInterval          time.Duration
	sinkTimeout           time.Duration
	telemetryInterval     time.Duration
	settlementMaxAttempts int
	settlementRetryEvery  time.Duration
}

func NewArena(
	log *slog.Logger,
	supervisor contract.ISupervisor,
	registry contract.IRegistry,
	repository contract.ISessionRepository,
	settler contract.Settler,
	stats *observability.ServerStats,
	bufferSize, queueSize int,
	gracePeriod, tickInterval, sinkTimeout, telemetryInterval time.Duration,
	settlementMaxAttempts int,
	settlementRetryEvery time.Duration,
) *Arena {
	return &Arena{
		log:                   log,
		supervisor:            supervisor,
		registry:              registry,
		repository:            repository,
		settler:               settler,
		stats:                 stats,
		sessions:              make(map[domain.SessionID]*sessionHandle),
		events:                make(chan event.DomainEvent, bufferSize),
		settlements:           make(chan domain.Settlement, bufferSize),
		queueSize:             queueSize,
		gracePeriod:           gracePeriod,
		tickInterval:          tickInterval,
		sinkTimeout:           sinkTimeout,
		telemetryInterval:     telemetryInterval,
		settlementMaxAttempts: settlementMaxAttempts,
		settlementRetryEvery:  settlementRetryEvery,
	}
}

// Add registers permanent event sinks (persistence, observability) that
// receive every domain event. Must be called before Start.
func (a *Arena) Add(sinks ...contract.EventSink) {
	a.permanent = append(a.permanent, sinks...)
}

// Start wires the permanent workers under the supervisor and blocks until
// the context is canceled and every worker has drained.
func (a *Arena) Start(ctx context.Context) error {
	a.mu.Lock()
	a.runCtx = ctx
	fanout := workers.NewEventFanout(a.log, a.registry, a.events, a.sinkTimeout, a.permanent...)
	ticker := workers.NewSimulationTicker(a.log, a.tickInterval, a)
	settlement := workers.NewSettlementWorker(a.log, a.settler, a.settlements, a.settlementMaxAttempts, a.settlementRetryEvery)
	telemetry := workers.NewTelemetryWorker(a.log, a, a.registry, a.stats, a.telemetryInterval)
	a.supervisor.Add(fanout, ticker, settlement, telemetry)
	a.mu.Unlock()

	a.log.Info("Starting arena and all supervised workers")
	a.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown: every supervised worker, session
// workers included, observes the cancellation.
func (a *Arena) Stop() {
	a.log.Info("Requesting arena shutdown")
	a.supervisor.Stop()
}

// CreateSession allocates a new waiting session, seeds the type-specific
// initial state, spawns its serialized worker, and returns the initial
// snapshot. Recording the snapshot is best-effort.
func (a *Arena) CreateSession(gameType string, player1, player2 domain.PlayerID) (domain.Snapshot, error) {
	typ, err := game.ParseType(gameType)
	if err != nil {
		return domain.Snapshot{}, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	state, err := game.New(typ, rng)
	if err != nil {
		return domain.Snapshot{}, err
	}

	id := domain.SessionID(uuid.NewString())
	session := domain.NewSession(id, typ, player1, player2, state)
	// The snapshot is taken before the worker starts: afterwards the state
	// belongs to the worker goroutine.
	snapshot := session.Snapshot()

	handle := &sessionHandle{
		players:  session.Players,
		gameType: typ,
		commands: make(chan domain.Command, a.queueSize),
	}

	a.mu.Lock()
	if a.runCtx == nil {
		a.mu.Unlock()
		return domain.Snapshot{}, fmt.Errorf("%w: arena not started", apperrors.ErrInternal)
	}
	runCtx := a.runCtx
	a.sessions[id] = handle
	a.mu.Unlock()

	worker := workers.NewSessionWorker(a.log, session, handle.commands, a.events, a.settlements, a.gracePeriod, a.retire)
	a.supervisor.Start(runCtx, worker)

	if err := a.repository.Record(snapshot); err != nil {
		a.log.Warn("Failed to record session snapshot", "session", id, "error", err)
	}

	a.log.Info("Created session", "session", id, "game_type", typ, "player1", player1, "player2", player2)
	return snapshot, nil
}

// Join validates the participant, binds the connection in the registry and
// enqueues the join on the session's serialized queue. The joiner receives
// the current snapshot asynchronously through the fanout.
func (a *Arena) Join(player domain.PlayerID, id domain.SessionID, sink contract.EventSink) error {
	handle, ok := a.lookup(id)
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if !handle.seatOf(player) {
		return apperrors.ErrNotAParticipant
	}

	// The binding must exist before the worker fans out the joiner's
	// snapshot; a refused join rolls it back so the registry never holds a
	// seat the session worker knows nothing about.
	a.registry.Bind(player, sink)
	if err := a.enqueue(handle, domain.JoinCommand{ID: id, Player: player}); err != nil {
		a.registry.Unbind(sink)
		return err
	}
	return nil
}

// SubmitMove enqueues a player move. Status and legality checks happen on
// the session worker; their failures come back to the player as rejection
// events.
func (a *Arena) SubmitMove(player domain.PlayerID, id domain.SessionID, mv game.Move) error {
	handle, ok := a.lookup(id)
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	if !handle.seatOf(player) {
		return apperrors.ErrNotAParticipant
	}
	return a.enqueue(handle, domain.MoveCommand{ID: id, Player: player, Move: mv})
}

// RequestTick injects one explicit tick for a continuous-motion session.
// Unknown sessions and turn-driven games are silently ignored.
func (a *Arena) RequestTick(id domain.SessionID) {
	handle, ok := a.lookup(id)
	if !ok || !handle.gameType.Continuous() {
		return
	}
	a.offer(handle, domain.TickCommand{ID: id})
}

// Disconnect unbinds the connection and notifies every session the player
// participates in, arming the forfeiture grace period.
func (a *Arena) Disconnect(sink contract.EventSink) {
	player, ok := a.registry.LookupPlayer(sink)
	a.registry.Unbind(sink)
	if !ok {
		return
	}

	a.mu.Lock()
	var handles []*sessionHandle
	var ids []domain.SessionID
	for id, handle := range a.sessions {
		if handle.seatOf(player) {
			handles = append(handles, handle)
			ids = append(ids, id)
		}
	}
	a.mu.Unlock()

	for i, handle := range handles {
		a.offer(handle, domain.LeaveCommand{ID: ids[i], Player: player})
	}
	a.log.Info("Player disconnected", "player", player)
}

// TickContinuous injects a Tick command into every advance-capable
// session's queue. Called by the simulation ticker on each period; a full
// queue drops the tick rather than blocking the ticker.
func (a *Arena) TickContinuous() {
	a.mu.Lock()
	var handles []*sessionHandle
	var ids []domain.SessionID
	for id, handle := range a.sessions {
		if handle.gameType.Continuous() {
			handles = append(handles, handle)
			ids = append(ids, id)
		}
	}
	a.mu.Unlock()

	for i, handle := range handles {
		a.offer(handle, domain.TickCommand{ID: ids[i]})
	}
}

// Player resolves the identity currently bound to a connection sink.
func (a *Arena) Player(sink contract.EventSink) (domain.PlayerID, bool) {
	return a.registry.LookupPlayer(sink)
}

// ActiveSessions reports the size of the active-session table.
func (a *Arena) ActiveSessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

func (a *Arena) lookup(id domain.SessionID) (*sessionHandle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	handle, ok := a.sessions[id]
	return handle, ok
}

// retire removes a finished session from the table. Invoked by the session
// worker right after the terminal transition is fanned out.
func (a *Arena) retire(id domain.SessionID) {
	a.mu.Lock()
	delete(a.sessions, id)
	a.mu.Unlock()
	a.log.Info("Session retired", "session", id)
}

// enqueue adds a command to a session queue, failing fast when the bounded
// queue is full instead of blocking a transport goroutine.
func (a *Arena) enqueue(handle *sessionHandle, cmd domain.Command) error {
	select {
	case handle.commands <- cmd:
		return nil
	default:
		a.log.Warn("Session command queue full, rejecting command", "session", cmd.Session())
		return apperrors.ErrQueueFull
	}
}

// offer is enqueue for synthetic commands where dropping is acceptable.
func (a *Arena) offer(handle *sessionHandle, cmd domain.Command) {
	select {
	case handle.commands <- cmd:
	default:
		a.log.Debug("Session command queue full, dropping command", "session", cmd.Session())
	}
}
