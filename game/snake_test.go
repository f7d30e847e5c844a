package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "neon-arena/errors"
)

func newTestSnake() *SnakeState {
	return NewSnakeState(rand.New(rand.NewSource(42)))
}

func TestSnakeState_InitialLayout(t *testing.T) {
	req := require.New(t)
	s := newTestSnake()

	snap := s.Snapshot().(SnakeSnapshot)

	// Then both snakes face each other on the 20x20 grid
	req.Equal(20, snap.BoardSize)
	req.Equal([]Cell{{10, 5}, {10, 4}, {10, 3}}, snap.Player1Snake)
	req.Equal([]Cell{{10, 15}, {10, 16}, {10, 17}}, snap.Player2Snake)
	req.Equal("UP", snap.Player1Direction)
	req.Equal("DOWN", snap.Player2Direction)
	req.Zero(snap.Player1Score)
	req.Zero(snap.Player2Score)

	// And the food spawned outside both bodies
	req.False(s.occupied(snap.Food))
	req.False(s.Terminal())
}

func TestSnakeState_LegalMoveTranslatesHead(t *testing.T) {
	req := require.New(t)
	s := newTestSnake()
	foodBefore := s.food

	// When player one turns left
	req.NoError(s.Apply(SeatOne, Move{Direction: "LEFT"}))

	snap := s.Snapshot().(SnakeSnapshot)
	req.Equal(Cell{9, 5}, snap.Player1Snake[0])
	req.Equal("LEFT", snap.Player1Direction)

	// Then the snake grew only if it landed on the food
	if foodBefore == (Cell{9, 5}) {
		req.Len(snap.Player1Snake, 4)
		req.Equal(1, snap.Player1Score)
		req.NotEqual(foodBefore, snap.Food)
	} else {
		req.Len(snap.Player1Snake, 3)
		req.Zero(snap.Player1Score)
	}
	req.False(s.Terminal())
}

func TestSnakeState_UnknownDirectionIsRejected(t *testing.T) {
	req := require.New(t)
	s := newTestSnake()

	err := s.Apply(SeatOne, Move{Direction: "DIAGONAL"})

	req.ErrorIs(err, apperrors.ErrInvalidMove)
	req.False(s.Terminal())
}

func TestSnakeState_BodyCollisionLosesTheGame(t *testing.T) {
	req := require.New(t)
	s := newTestSnake()

	// When player one moves up into its own body
	req.NoError(s.Apply(SeatOne, Move{Direction: "UP"}))

	// Then a losing move is not an error: the state is terminal and the
	// opponent won
	req.True(s.Terminal())
	winner, ok := s.Winner()
	req.True(ok)
	req.Equal(SeatTwo, winner)
}

func TestSnakeState_WallCollisionLosesTheGame(t *testing.T) {
	req := require.New(t)
	s := newTestSnake()

	// Given player one sidesteps then runs straight for the top wall
	req.NoError(s.Apply(SeatOne, Move{Direction: "LEFT"}))
	for y := 4; y >= 0; y-- {
		req.NoError(s.Apply(SeatOne, Move{Direction: "UP"}))
		req.False(s.Terminal())
	}

	// When the head would leave the board
	req.NoError(s.Apply(SeatOne, Move{Direction: "UP"}))

	req.True(s.Terminal())
	winner, ok := s.Winner()
	req.True(ok)
	req.Equal(SeatTwo, winner)
}

func TestSnakeState_MoveAfterTerminalIsRejected(t *testing.T) {
	req := require.New(t)
	s := newTestSnake()
	req.NoError(s.Apply(SeatOne, Move{Direction: "UP"}))
	req.True(s.Terminal())

	err := s.Apply(SeatTwo, Move{Direction: "DOWN"})

	req.ErrorIs(err, apperrors.ErrInvalidMove)
}

func TestSnakeState_EatingFoodGrowsAndRespawns(t *testing.T) {
	req := require.New(t)
	s := newTestSnake()

	// Given the food placed directly left of player one's head
	s.food = Cell{9, 5}

	req.NoError(s.Apply(SeatOne, Move{Direction: "LEFT"}))

	snap := s.Snapshot().(SnakeSnapshot)
	req.Len(snap.Player1Snake, 4)
	req.Equal(1, snap.Player1Score)
	req.NotEqual(Cell{9, 5}, snap.Food)
	req.False(s.occupied(snap.Food))
}
