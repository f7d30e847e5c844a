package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"neon-arena/domain"
	"neon-arena/domain/event"
	"neon-arena/errors"
	"neon-arena/game"
)

// SessionWorker is the single serialized processor of one session: the only
// goroutine that ever touches the session's mutable state. Join, Move, Tick
// and Leave commands arrive through a bounded queue and are applied one at
// a time to completion, so ticker-driven and player-driven mutation can
// never interleave.
//
// The worker terminates cleanly once the session is finished and retired.
type SessionWorker struct {
	log         *slog.Logger
	session     *domain.Session
	advancer    game.Advancer // nil for turn-driven variants
	commands    <-chan domain.Command
	events      chan<- event.DomainEvent
	settlements chan<- domain.Settlement
	grace       time.Duration
	retire      func(domain.SessionID)

	bound     [2]bool
	deadlines [2]time.Time
	forfeit   *time.Timer
}

func NewSessionWorker(
	log *slog.Logger,
	session *domain.Session,
	commands <-chan domain.Command,
	events chan<- event.DomainEvent,
	settlements chan<- domain.Settlement,
	grace time.Duration,
	retire func(domain.SessionID),
) *SessionWorker {
	advancer, _ := session.State.(game.Advancer)
	return &SessionWorker{
		log:         log,
		session:     session,
		advancer:    advancer,
		commands:    commands,
		events:      events,
		settlements: settlements,
		grace:       grace,
		retire:      retire,
	}
}

func (w *SessionWorker) Run(ctx context.Context) error {
	defer w.stopForfeitTimer()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping session worker", "session", w.session.ID)
			return ctx.Err()
		case <-w.forfeitC():
			if done := w.handleForfeitDeadline(ctx); done {
				return nil
			}
		case cmd, ok := <-w.commands:
			if !ok {
				return nil
			}
			if done := w.handle(ctx, cmd); done {
				return nil
			}
		}
	}
}

// handle applies one command. It returns true once the session reached its
// terminal state and was retired, which ends the worker.
func (w *SessionWorker) handle(ctx context.Context, cmd domain.Command) bool {
	switch c := cmd.(type) {
	case domain.JoinCommand:
		return w.handleJoin(ctx, c)
	case domain.MoveCommand:
		return w.handleMove(ctx, c)
	case domain.TickCommand:
		return w.handleTick(ctx)
	case domain.LeaveCommand:
		w.handleLeave(c)
		return false
	default:
		w.log.Warn("Unknown command type", "session", w.session.ID, "command", fmt.Sprintf("%T", cmd))
		return false
	}
}

func (w *SessionWorker) handleJoin(ctx context.Context, c domain.JoinCommand) bool {
	seat, ok := w.session.Seat(c.Player)
	if !ok {
		w.emit(ctx, event.CommandRejected{ID: w.session.ID, To: c.Player, Reason: errors.ErrNotAParticipant})
		return false
	}

	w.bound[seat-1] = true
	w.deadlines[seat-1] = time.Time{}
	w.resetForfeitTimer()

	// The joiner always receives the current full snapshot first.
	w.emit(ctx, event.StateSnapshot{ID: w.session.ID, To: c.Player, Snapshot: w.session.Snapshot()})

	if w.session.Status == domain.StatusWaiting && w.bound[0] && w.bound[1] {
		w.session.Status = domain.StatusActive
		w.emit(ctx, event.SessionStarted{ID: w.session.ID, Players: w.session.Players, Snapshot: w.session.Snapshot()})
	}
	return false
}

func (w *SessionWorker) handleMove(ctx context.Context, c domain.MoveCommand) bool {
	if w.session.Status != domain.StatusActive {
		w.emit(ctx, event.CommandRejected{ID: w.session.ID, To: c.Player, Reason: errors.ErrSessionNotActive})
		return false
	}

	seat, ok := w.session.Seat(c.Player)
	if !ok {
		w.emit(ctx, event.CommandRejected{ID: w.session.ID, To: c.Player, Reason: errors.ErrNotAParticipant})
		return false
	}

	if err := w.session.State.Apply(seat, c.Move); err != nil {
		w.emit(ctx, event.CommandRejected{ID: w.session.ID, To: c.Player, Reason: err})
		return false
	}

	w.emit(ctx, event.StateBroadcast{ID: w.session.ID, Players: w.session.Players, Snapshot: w.session.Snapshot()})
	return w.finishIfTerminal(ctx)
}

func (w *SessionWorker) handleTick(ctx context.Context) bool {
	// Ticks against waiting or turn-driven sessions are no-ops, not errors:
	// the ticker runs on a coarse view of the session table.
	if w.session.Status != domain.StatusActive || w.advancer == nil {
		return false
	}

	w.advancer.Advance()
	w.emit(ctx, event.StateBroadcast{ID: w.session.ID, Players: w.session.Players, Snapshot: w.session.Snapshot()})
	return w.finishIfTerminal(ctx)
}

func (w *SessionWorker) handleLeave(c domain.LeaveCommand) {
	seat, ok := w.session.Seat(c.Player)
	if !ok {
		return
	}
	w.bound[seat-1] = false
	if w.session.Status == domain.StatusActive && w.grace > 0 {
		w.deadlines[seat-1] = time.Now().Add(w.grace)
		w.resetForfeitTimer()
	}
}

// handleForfeitDeadline forfeits the session to the opponent of a player
// whose disconnect grace period expired without a rebind.
func (w *SessionWorker) handleForfeitDeadline(ctx context.Context) bool {
	now := time.Now()
	for i := range w.deadlines {
		if w.deadlines[i].IsZero() || now.Before(w.deadlines[i]) || w.bound[i] {
			continue
		}
		gone := game.Seat(i + 1)
		w.log.Info("Forfeiting session after disconnect grace period",
			"session", w.session.ID, "player", w.session.Player(gone))
		return w.finish(ctx, gone.Opponent())
	}
	w.resetForfeitTimer()
	return false
}

func (w *SessionWorker) finishIfTerminal(ctx context.Context) bool {
	if !w.session.State.Terminal() {
		return false
	}
	winner, ok := w.session.State.Winner()
	if !ok {
		w.log.Error("Terminal state without winner", "session", w.session.ID)
		return false
	}
	return w.finish(ctx, winner)
}

// finish performs the terminal transition exactly once: mark the session
// finished, broadcast the outcome, hand the result to settlement, and
// retire the session from the arena table.
func (w *SessionWorker) finish(ctx context.Context, winner game.Seat) bool {
	winnerID := w.session.Player(winner)
	loserID := w.session.Player(winner.Opponent())
	w.session.Status = domain.StatusFinished
	w.session.Winner = lo.ToPtr(winnerID)

	w.emit(ctx, event.SessionEnded{
		ID:       w.session.ID,
		Players:  w.session.Players,
		Winner:   winnerID,
		Snapshot: w.session.Snapshot(),
	})

	settlement := domain.Settlement{
		Key:     uuid.New(),
		Session: w.session.ID,
		Winner:  winnerID,
		Loser:   loserID,
	}
	select {
	case <-ctx.Done():
	case w.settlements <- settlement:
	}

	w.retire(w.session.ID)
	w.log.Info("Session finished", "session", w.session.ID, "winner", winnerID)
	return true
}

func (w *SessionWorker) emit(ctx context.Context, e event.DomainEvent) {
	select {
	case <-ctx.Done():
	case w.events <- e:
	}
}

// forfeitC returns the active forfeit timer channel, or nil (never ready)
// when no deadline is armed.
func (w *SessionWorker) forfeitC() <-chan time.Time {
	if w.forfeit == nil {
		return nil
	}
	return w.forfeit.C
}

// resetForfeitTimer re-arms the timer on the earliest pending deadline.
func (w *SessionWorker) resetForfeitTimer() {
	w.stopForfeitTimer()

	var next time.Time
	for i := range w.deadlines {
		if w.deadlines[i].IsZero() || w.bound[i] {
			continue
		}
		if next.IsZero() || w.deadlines[i].Before(next) {
			next = w.deadlines[i]
		}
	}
	if !next.IsZero() {
		w.forfeit = time.NewTimer(time.Until(next))
	}
}

func (w *SessionWorker) stopForfeitTimer() {
	if w.forfeit != nil {
		w.forfeit.Stop()
		w.forfeit = nil
	}
}
