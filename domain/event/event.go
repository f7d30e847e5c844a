// Package event defines the domain events fanned out to session
// participants and permanent sinks.
package event

import "neon-arena/domain"

// DomainEvent is anything produced by a session worker. Recipients lists
// the players the event is delivered to; sinks outside the registry
// (persistence, telemetry) receive every event regardless.
type DomainEvent interface {
	Session() domain.SessionID
	Recipients() []domain.PlayerID
}

// StateBroadcast carries a fresh snapshot to both participants after a
// successful move or tick.
type StateBroadcast struct {
	ID       domain.SessionID
	Players  [2]domain.PlayerID
	Snapshot domain.Snapshot
}

func (e StateBroadcast) Session() domain.SessionID     { return e.ID }
func (e StateBroadcast) Recipients() []domain.PlayerID { return e.Players[:] }

// StateSnapshot is the addressed snapshot sent to a single player, the
// reply to a successful join.
type StateSnapshot struct {
	ID       domain.SessionID
	To       domain.PlayerID
	Snapshot domain.Snapshot
}

func (e StateSnapshot) Session() domain.SessionID     { return e.ID }
func (e StateSnapshot) Recipients() []domain.PlayerID { return []domain.PlayerID{e.To} }

// SessionStarted fires once, when the second participant binds and the
// session transitions from waiting to active.
type SessionStarted struct {
	ID       domain.SessionID
	Players  [2]domain.PlayerID
	Snapshot domain.Snapshot
}

func (e SessionStarted) Session() domain.SessionID     { return e.ID }
func (e SessionStarted) Recipients() []domain.PlayerID { return e.Players[:] }

// SessionEnded fires exactly once per session, on the terminal transition.
type SessionEnded struct {
	ID       domain.SessionID
	Players  [2]domain.PlayerID
	Winner   domain.PlayerID
	Snapshot domain.Snapshot
}

func (e SessionEnded) Session() domain.SessionID     { return e.ID }
func (e SessionEnded) Recipients() []domain.PlayerID { return e.Players[:] }

// CommandRejected reports a recoverable per-command failure back to the
// originating player only. The connection stays open.
type CommandRejected struct {
	ID     domain.SessionID
	To     domain.PlayerID
	Reason error
}

func (e CommandRejected) Session() domain.SessionID     { return e.ID }
func (e CommandRejected) Recipients() []domain.PlayerID { return []domain.PlayerID{e.To} }
