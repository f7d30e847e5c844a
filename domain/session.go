// Package domain holds the session model shared by the runtime and the
// transport. Session state itself is exclusively owned by the session's
// worker; every other component only ever sees immutable fields and
// snapshots.
package domain

import (
	"time"

	"neon-arena/game"
)

// PlayerID is the external player identity handed out by the lobby.
type PlayerID int64

// SessionID is the opaque identifier of one game session.
type SessionID string

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Session is one in-progress or finished game between exactly two players.
// ID, GameType and Players never change after creation. Status, Winner and
// State are mutated only by the session worker.
type Session struct {
	ID        SessionID
	GameType  game.Type
	Players   [2]PlayerID
	Status    Status
	Winner    *PlayerID
	CreatedAt time.Time
	State     game.State
}

func NewSession(id SessionID, gameType game.Type, player1, player2 PlayerID, state game.State) *Session {
	return &Session{
		ID:        id,
		GameType:  gameType,
		Players:   [2]PlayerID{player1, player2},
		Status:    StatusWaiting,
		CreatedAt: time.Now(),
		State:     state,
	}
}

// Seat maps a player identity to its seat. The second return is false for
// non-participants.
func (s *Session) Seat(p PlayerID) (game.Seat, bool) {
	switch p {
	case s.Players[0]:
		return game.SeatOne, true
	case s.Players[1]:
		return game.SeatTwo, true
	default:
		return 0, false
	}
}

// Player returns the identity seated at the given seat.
func (s *Session) Player(seat game.Seat) PlayerID {
	return s.Players[seat-1]
}

// Snapshot is the full serialized view of a session, sent to clients and
// persisted best-effort. The game payload keeps the per-variant field names
// under the state key.
type Snapshot struct {
	GameID    string    `json:"game_id"`
	GameType  game.Type `json:"game_type"`
	Player1ID PlayerID  `json:"player1_id"`
	Player2ID PlayerID  `json:"player2_id"`
	Status    Status    `json:"status"`
	WinnerID  *PlayerID `json:"winner_id"`
	CreatedAt int64     `json:"created_at"`
	State     any       `json:"state"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		GameID:    string(s.ID),
		GameType:  s.GameType,
		Player1ID: s.Players[0],
		Player2ID: s.Players[1],
		Status:    s.Status,
		WinnerID:  s.Winner,
		CreatedAt: s.CreatedAt.Unix(),
		State:     s.State.Snapshot(),
	}
}
