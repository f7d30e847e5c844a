package game

import (
	"fmt"
	"math/rand"

	"github.com/samber/lo"

	apperrors "neon-arena/errors"
)

const snakeBoardSize = 20

// Cell is a grid coordinate. X grows rightward, Y grows downward.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type snakeSide struct {
	body      []Cell // head first
	direction string
	score     int
}

// SnakeState is a two-player snake duel on a 20x20 grid. Each move request
// translates the mover's head one cell; leaving the board or biting any body
// loses the game immediately.
type SnakeState struct {
	rng    *rand.Rand
	sides  [2]snakeSide
	food   Cell
	over   bool
	winner Seat
}

func NewSnakeState(rng *rand.Rand) *SnakeState {
	s := &SnakeState{
		rng: rng,
		sides: [2]snakeSide{
			{body: []Cell{{10, 5}, {10, 4}, {10, 3}}, direction: "UP"},
			{body: []Cell{{10, 15}, {10, 16}, {10, 17}}, direction: "DOWN"},
		},
	}
	s.food = s.spawnFood()
	return s
}

// spawnFood picks a uniformly random cell outside both bodies by rejection
// sampling. The board is 400 cells and bodies stay tiny relative to it, so
// the loop terminates quickly in practice.
func (s *SnakeState) spawnFood() Cell {
	for {
		c := Cell{X: s.rng.Intn(snakeBoardSize), Y: s.rng.Intn(snakeBoardSize)}
		if !s.occupied(c) {
			return c
		}
	}
}

func (s *SnakeState) occupied(c Cell) bool {
	for i := range s.sides {
		if lo.Contains(s.sides[i].body, c) {
			return true
		}
	}
	return false
}

func (s *SnakeState) Apply(seat Seat, mv Move) error {
	if s.over {
		return apperrors.ErrInvalidMove
	}

	dx, dy, err := direction(mv.Direction)
	if err != nil {
		return err
	}

	mover := &s.sides[seat-1]
	opponent := &s.sides[seat.Opponent()-1]
	mover.direction = mv.Direction

	head := mover.body[0]
	next := Cell{X: head.X + dx, Y: head.Y + dy}

	// Boundary first, then body collisions: the mover loses in either case.
	if next.X < 0 || next.X >= snakeBoardSize || next.Y < 0 || next.Y >= snakeBoardSize {
		s.finish(seat.Opponent())
		return nil
	}
	if lo.Contains(mover.body, next) || lo.Contains(opponent.body, next) {
		s.finish(seat.Opponent())
		return nil
	}

	mover.body = append([]Cell{next}, mover.body...)
	if next == s.food {
		// Growing move: keep the tail and relocate the food.
		mover.score++
		s.food = s.spawnFood()
	} else {
		mover.body = mover.body[:len(mover.body)-1]
	}
	return nil
}

func (s *SnakeState) finish(winner Seat) {
	s.over = true
	s.winner = winner
}

func (s *SnakeState) Terminal() bool { return s.over }

func (s *SnakeState) Winner() (Seat, bool) {
	if !s.over {
		return 0, false
	}
	return s.winner, true
}

func direction(token string) (dx, dy int, err error) {
	switch token {
	case "UP":
		return 0, -1, nil
	case "DOWN":
		return 0, 1, nil
	case "LEFT":
		return -1, 0, nil
	case "RIGHT":
		return 1, 0, nil
	default:
		return 0, 0, fmt.Errorf("%w: unknown direction %q", apperrors.ErrInvalidMove, token)
	}
}

type SnakeSnapshot struct {
	BoardSize        int    `json:"board_size"`
	Player1Snake     []Cell `json:"player1_snake"`
	Player2Snake     []Cell `json:"player2_snake"`
	Player1Direction string `json:"player1_direction"`
	Player2Direction string `json:"player2_direction"`
	Food             Cell   `json:"food"`
	Player1Score     int    `json:"player1_score"`
	Player2Score     int    `json:"player2_score"`
}

func (s *SnakeState) Snapshot() any {
	return SnakeSnapshot{
		BoardSize:        snakeBoardSize,
		Player1Snake:     append([]Cell(nil), s.sides[0].body...),
		Player2Snake:     append([]Cell(nil), s.sides[1].body...),
		Player1Direction: s.sides[0].direction,
		Player2Direction: s.sides[1].direction,
		Food:             s.food,
		Player1Score:     s.sides[0].score,
		Player2Score:     s.sides[1].score,
	}
}
