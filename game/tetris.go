package game

import (
	"fmt"
	"math/rand"

	"github.com/samber/lo"

	apperrors "neon-arena/errors"
)

const (
	tetrisBoardWidth  = 10
	tetrisBoardHeight = 20
	tetrisSpawnX      = 4
	tetrisSpawnY      = 0
	tetrisLineScore   = 100
)

// The seven standard tetromino shapes in spawn orientation.
var tetrominoes = [][][]int{
	{{1, 1, 1, 1}},         // I
	{{1, 1}, {1, 1}},       // O
	{{0, 1, 0}, {1, 1, 1}}, // T
	{{0, 1, 1}, {1, 1, 0}}, // S
	{{1, 1, 0}, {0, 1, 1}}, // Z
	{{1, 0, 0}, {1, 1, 1}}, // J
	{{0, 0, 1}, {1, 1, 1}}, // L
}

type tetrisSide struct {
	board  [][]int // row-major, 1 = occupied
	piece  [][]int
	pieceX int
	pieceY int
	score  int
	lines  int
}

// TetrisState runs two independent tetris boards side by side. The first
// player whose fresh piece cannot spawn loses.
type TetrisState struct {
	rng    *rand.Rand
	sides  [2]tetrisSide
	over   bool
	winner Seat
}

func NewTetrisState(rng *rand.Rand) *TetrisState {
	t := &TetrisState{rng: rng}
	for i := range t.sides {
		t.sides[i] = tetrisSide{
			board:  emptyBoard(),
			piece:  t.randomPiece(),
			pieceX: tetrisSpawnX,
			pieceY: tetrisSpawnY,
		}
	}
	return t
}

func emptyBoard() [][]int {
	board := make([][]int, tetrisBoardHeight)
	for y := range board {
		board[y] = make([]int, tetrisBoardWidth)
	}
	return board
}

func (t *TetrisState) randomPiece() [][]int {
	return copyGrid(tetrominoes[t.rng.Intn(len(tetrominoes))])
}

func (t *TetrisState) Apply(seat Seat, mv Move) error {
	if t.over {
		return apperrors.ErrInvalidMove
	}

	side := &t.sides[seat-1]
	switch mv.Action {
	case "LEFT":
		if !canPlace(side.board, side.piece, side.pieceX-1, side.pieceY) {
			return fmt.Errorf("%w: blocked shift", apperrors.ErrInvalidMove)
		}
		side.pieceX--
	case "RIGHT":
		if !canPlace(side.board, side.piece, side.pieceX+1, side.pieceY) {
			return fmt.Errorf("%w: blocked shift", apperrors.ErrInvalidMove)
		}
		side.pieceX++
	case "ROTATE":
		rotated := rotate(side.piece)
		if !canPlace(side.board, rotated, side.pieceX, side.pieceY) {
			return fmt.Errorf("%w: blocked rotation", apperrors.ErrInvalidMove)
		}
		side.piece = rotated
	case "DOWN":
		t.stepDown(seat, side)
	default:
		return fmt.Errorf("%w: unknown action %q", apperrors.ErrInvalidMove, mv.Action)
	}
	return nil
}

// stepDown lowers the piece one row, or locks it when blocked: the piece is
// merged into the board, full rows are cleared and scored, and a fresh piece
// spawns. A spawn into occupied cells ends the game for the mover.
func (t *TetrisState) stepDown(seat Seat, side *tetrisSide) {
	if canPlace(side.board, side.piece, side.pieceX, side.pieceY+1) {
		side.pieceY++
		return
	}

	place(side.board, side.piece, side.pieceX, side.pieceY)
	cleared := clearFullRows(side.board)
	side.lines += cleared
	side.score += cleared * tetrisLineScore

	side.piece = t.randomPiece()
	side.pieceX = tetrisSpawnX
	side.pieceY = tetrisSpawnY
	if !canPlace(side.board, side.piece, side.pieceX, side.pieceY) {
		t.over = true
		t.winner = seat.Opponent()
	}
}

func canPlace(board, piece [][]int, x, y int) bool {
	for py, row := range piece {
		for px, cell := range row {
			if cell == 0 {
				continue
			}
			nx, ny := x+px, y+py
			if nx < 0 || nx >= tetrisBoardWidth || ny >= tetrisBoardHeight {
				return false
			}
			if ny >= 0 && board[ny][nx] != 0 {
				return false
			}
		}
	}
	return true
}

func place(board, piece [][]int, x, y int) {
	for py, row := range piece {
		for px, cell := range row {
			if cell != 0 && y+py >= 0 {
				board[y+py][x+px] = 1
			}
		}
	}
}

// clearFullRows removes every fully-occupied row, shifts the rows above it
// down and inserts empty rows at the top. Returns the number of cleared rows.
func clearFullRows(board [][]int) int {
	cleared := 0
	y := tetrisBoardHeight - 1
	for y >= 0 {
		if isFullRow(board[y]) {
			copy(board[1:y+1], board[0:y])
			board[0] = make([]int, tetrisBoardWidth)
			cleared++
		} else {
			y--
		}
	}
	return cleared
}

func isFullRow(row []int) bool {
	for _, cell := range row {
		if cell == 0 {
			return false
		}
	}
	return true
}

// rotate turns the piece clockwise: transpose of the vertically flipped grid.
func rotate(piece [][]int) [][]int {
	rows := len(piece)
	cols := len(piece[0])
	rotated := make([][]int, cols)
	for y := 0; y < cols; y++ {
		rotated[y] = make([]int, rows)
		for x := 0; x < rows; x++ {
			rotated[y][x] = piece[rows-1-x][y]
		}
	}
	return rotated
}

func (t *TetrisState) Terminal() bool { return t.over }

func (t *TetrisState) Winner() (Seat, bool) {
	if !t.over {
		return 0, false
	}
	return t.winner, true
}

type TetrisSnapshot struct {
	Player1Board  [][]int `json:"player1_board"`
	Player2Board  [][]int `json:"player2_board"`
	Player1Piece  [][]int `json:"player1_piece"`
	Player2Piece  [][]int `json:"player2_piece"`
	Player1PieceX int     `json:"player1_piece_x"`
	Player1PieceY int     `json:"player1_piece_y"`
	Player2PieceX int     `json:"player2_piece_x"`
	Player2PieceY int     `json:"player2_piece_y"`
	Player1Score  int     `json:"player1_score"`
	Player2Score  int     `json:"player2_score"`
	Player1Lines  int     `json:"player1_lines"`
	Player2Lines  int     `json:"player2_lines"`
}

func (t *TetrisState) Snapshot() any {
	return TetrisSnapshot{
		Player1Board:  copyGrid(t.sides[0].board),
		Player2Board:  copyGrid(t.sides[1].board),
		Player1Piece:  copyGrid(t.sides[0].piece),
		Player2Piece:  copyGrid(t.sides[1].piece),
		Player1PieceX: t.sides[0].pieceX,
		Player1PieceY: t.sides[0].pieceY,
		Player2PieceX: t.sides[1].pieceX,
		Player2PieceY: t.sides[1].pieceY,
		Player1Score:  t.sides[0].score,
		Player2Score:  t.sides[1].score,
		Player1Lines:  t.sides[0].lines,
		Player2Lines:  t.sides[1].lines,
	}
}

func copyGrid(grid [][]int) [][]int {
	return lo.Map(grid, func(row []int, _ int) []int {
		return append([]int(nil), row...)
	})
}
