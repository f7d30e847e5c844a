package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "neon-arena/errors"
)

var squarePiece = [][]int{{1, 1}, {1, 1}}

func newTestTetris() *TetrisState {
	return NewTetrisState(rand.New(rand.NewSource(13)))
}

func TestTetrisState_InitialLayout(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()

	snap := ts.Snapshot().(TetrisSnapshot)

	req.Len(snap.Player1Board, 20)
	req.Len(snap.Player1Board[0], 10)
	req.Equal(4, snap.Player1PieceX)
	req.Equal(0, snap.Player1PieceY)
	req.Equal(4, snap.Player2PieceX)
	req.NotEmpty(snap.Player1Piece)
	req.False(ts.Terminal())
}

func TestTetrisState_ShiftsMoveThePiece(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()
	ts.sides[0].piece = copyGrid(squarePiece)

	req.NoError(ts.Apply(SeatOne, Move{Action: "LEFT"}))
	req.Equal(3, ts.sides[0].pieceX)

	req.NoError(ts.Apply(SeatOne, Move{Action: "RIGHT"}))
	req.Equal(4, ts.sides[0].pieceX)
}

func TestTetrisState_BlockedShiftIsRejected(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()

	// Given the square piece flush against the left wall
	ts.sides[0].piece = copyGrid(squarePiece)
	ts.sides[0].pieceX = 0

	err := ts.Apply(SeatOne, Move{Action: "LEFT"})

	// Then the shift is rejected and the piece did not move
	req.ErrorIs(err, apperrors.ErrInvalidMove)
	req.Equal(0, ts.sides[0].pieceX)
	req.False(ts.Terminal())
}

func TestTetrisState_RotateTurnsClockwise(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()

	// Given the I piece lying flat
	ts.sides[0].piece = [][]int{{1, 1, 1, 1}}

	req.NoError(ts.Apply(SeatOne, Move{Action: "ROTATE"}))

	req.Equal([][]int{{1}, {1}, {1}, {1}}, ts.sides[0].piece)
}

func TestTetrisState_BlockedRotationIsRejected(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()

	// Given a vertical I piece against the right wall: rotating it flat
	// would stick out of the board
	ts.sides[0].piece = [][]int{{1}, {1}, {1}, {1}}
	ts.sides[0].pieceX = 9

	err := ts.Apply(SeatOne, Move{Action: "ROTATE"})

	req.ErrorIs(err, apperrors.ErrInvalidMove)
	req.Equal([][]int{{1}, {1}, {1}, {1}}, ts.sides[0].piece)
}

func TestTetrisState_UnknownActionIsRejected(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()

	err := ts.Apply(SeatOne, Move{Action: "HOLD"})

	req.ErrorIs(err, apperrors.ErrInvalidMove)
}

func TestTetrisState_DownLocksAtTheBottomAndSpawnsAFreshPiece(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()
	ts.sides[0].piece = copyGrid(squarePiece)

	// When the piece is dropped row by row to the floor
	for i := 0; i < 18; i++ {
		req.NoError(ts.Apply(SeatOne, Move{Action: "DOWN"}))
	}
	req.Equal(18, ts.sides[0].pieceY)

	// Then one more down locks it into the board and respawns at the top
	req.NoError(ts.Apply(SeatOne, Move{Action: "DOWN"}))
	req.Equal(1, ts.sides[0].board[19][4])
	req.Equal(1, ts.sides[0].board[19][5])
	req.Equal(1, ts.sides[0].board[18][4])
	req.Equal(0, ts.sides[0].pieceY)
	req.Equal(4, ts.sides[0].pieceX)
	req.False(ts.Terminal())
}

func TestTetrisState_CompletedRowClearsAndScores(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()

	// Given the bottom row filled except where the square piece will land
	side := &ts.sides[0]
	for x := 0; x < 10; x++ {
		if x != 4 && x != 5 {
			side.board[19][x] = 1
		}
	}
	side.piece = copyGrid(squarePiece)
	side.pieceY = 18

	// When the piece locks
	req.NoError(ts.Apply(SeatOne, Move{Action: "DOWN"}))

	// Then the full bottom row cleared, the half-filled one above it
	// shifted down, and the clear was scored
	req.Equal(100, side.score)
	req.Equal(1, side.lines)
	req.Equal(1, side.board[19][4])
	req.Equal(1, side.board[19][5])
	req.Equal(0, side.board[19][0])
	req.False(ts.Terminal())
}

func TestTetrisState_BlockedSpawnEndsTheGame(t *testing.T) {
	req := require.New(t)
	ts := newTestTetris()

	// Given garbage occupying the spawn area and the current piece about to
	// lock in a corner without clearing anything
	side := &ts.sides[0]
	for x := 4; x <= 7; x++ {
		side.board[0][x] = 1
	}
	side.piece = copyGrid(squarePiece)
	side.pieceX = 0
	side.pieceY = 18

	// When the piece locks and the next spawn collides with the garbage
	req.NoError(ts.Apply(SeatOne, Move{Action: "DOWN"}))

	req.True(ts.Terminal())
	winner, ok := ts.Winner()
	req.True(ok)
	req.Equal(SeatTwo, winner)

	// And the finished game rejects further input from either side
	err := ts.Apply(SeatTwo, Move{Action: "LEFT"})
	req.ErrorIs(err, apperrors.ErrInvalidMove)
}
