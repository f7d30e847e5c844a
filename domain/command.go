package domain

import "neon-arena/game"

// Command is the tagged variant of everything a session worker can process.
// Commands for one session are strictly ordered by its queue; commands for
// different sessions are unrelated.
type Command interface {
	Session() SessionID
}

// JoinCommand binds a participant's connection to their seat.
type JoinCommand struct {
	ID     SessionID
	Player PlayerID
}

func (c JoinCommand) Session() SessionID { return c.ID }

// MoveCommand applies a player move to the game state.
type MoveCommand struct {
	ID     SessionID
	Player PlayerID
	Move   game.Move
}

func (c MoveCommand) Session() SessionID { return c.ID }

// TickCommand is the synthetic command injected by the simulation ticker
// for continuous-motion games.
type TickCommand struct {
	ID SessionID
}

func (c TickCommand) Session() SessionID { return c.ID }

// LeaveCommand marks a participant's connection as gone, arming the
// disconnect forfeiture timer.
type LeaveCommand struct {
	ID     SessionID
	Player PlayerID
}

func (c LeaveCommand) Session() SessionID { return c.ID }
