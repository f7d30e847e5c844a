// Package game contains the pure state machines for the supported game
// variants. It performs no I/O: every transition is a synchronous function
// of the current state and the incoming move, so a single owner can apply
// commands one at a time without suspension points.
package game

import (
	"fmt"
	"math/rand"

	apperrors "neon-arena/errors"
)

// Seat identifies one of the two sides of a session. Seat semantics are
// game-specific (left/right paddle, top/bottom snake, own tetris board).
type Seat int

const (
	SeatOne Seat = iota + 1
	SeatTwo
)

func (s Seat) Opponent() Seat {
	if s == SeatOne {
		return SeatTwo
	}
	return SeatOne
}

// Type is the tagged variant over the supported games. Dispatch on it is
// exhaustive: there is no runtime capability probing anywhere else.
type Type string

const (
	Snake  Type = "snake"
	Pong   Type = "pong"
	Tetris Type = "tetris"
)

// ParseType validates a wire-level game type token.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Snake, Pong, Tetris:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidGameType, s)
	}
}

// Continuous reports whether the variant evolves without player input and
// therefore must be driven by the simulation ticker.
func (t Type) Continuous() bool {
	return t == Pong
}

// Move is the player-supplied payload of a move command. Snake and pong use
// Direction, tetris uses Action.
type Move struct {
	Direction string
	Action    string
}

// State is the capability set shared by all variants.
//
// Apply returns ErrInvalidMove when the payload is malformed or illegal for
// the current state. A legal move that loses the game is not an error: the
// state simply becomes terminal with the opponent as winner.
type State interface {
	Apply(seat Seat, mv Move) error
	Terminal() bool
	Winner() (Seat, bool)
	Snapshot() any
}

// Advancer is implemented by continuous-motion variants. Advance performs
// one simulation step with no player input.
type Advancer interface {
	Advance()
}

// New seeds the initial state for a game type. The rng is owned by the
// returned state and must not be shared with another goroutine.
func New(t Type, rng *rand.Rand) (State, error) {
	switch t {
	case Snake:
		return NewSnakeState(rng), nil
	case Pong:
		return NewPongState(rng), nil
	case Tetris:
		return NewTetrisState(rng), nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidGameType, t)
	}
}
