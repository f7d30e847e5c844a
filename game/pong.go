package game

import (
	"fmt"
	"math/rand"

	apperrors "neon-arena/errors"
)

const (
	pongBoardWidth   = 800.0
	pongBoardHeight  = 400.0
	pongPaddleHeight = 80.0
	pongPaddleWidth  = 10.0
	pongBallSize     = 10.0
	pongPaddleStep   = 20.0
	pongMaxScore     = 5
)

// PongState is a continuous-motion variant: player moves only steer the
// paddles, the ball evolves through Advance calls injected by the ticker.
type PongState struct {
	rng     *rand.Rand
	paddleY [2]float64
	ballX   float64
	ballY   float64
	ballVX  float64
	ballVY  float64
	scores  [2]int
	over    bool
	winner  Seat
}

func NewPongState(rng *rand.Rand) *PongState {
	p := &PongState{
		rng:     rng,
		paddleY: [2]float64{pongBoardHeight/2 - pongPaddleHeight/2, pongBoardHeight/2 - pongPaddleHeight/2},
	}
	p.resetBall()
	return p
}

func (p *PongState) resetBall() {
	p.ballX = pongBoardWidth / 2
	p.ballY = pongBoardHeight / 2
	p.ballVX = 5
	if p.rng.Intn(2) == 0 {
		p.ballVX = -5
	}
	p.ballVY = float64(p.rng.Intn(7) - 3)
}

func (p *PongState) Apply(seat Seat, mv Move) error {
	if p.over {
		return apperrors.ErrInvalidMove
	}

	y := p.paddleY[seat-1]
	switch mv.Direction {
	case "UP":
		y -= pongPaddleStep
	case "DOWN":
		y += pongPaddleStep
	default:
		return fmt.Errorf("%w: unknown direction %q", apperrors.ErrInvalidMove, mv.Direction)
	}

	p.paddleY[seat-1] = clamp(y, 0, pongBoardHeight-pongPaddleHeight)
	return nil
}

// Advance moves the ball one simulation step: wall bounces, paddle bounces
// with a small random vertical kick, scoring past either side, and the
// first-to-five terminal check.
func (p *PongState) Advance() {
	if p.over {
		return
	}

	p.ballX += p.ballVX
	p.ballY += p.ballVY

	// Top and bottom walls reflect vertically. Position is clamped back onto
	// the board so a snapshot never shows the ball outside it.
	if p.ballY <= 0 {
		p.ballY = 0
		p.ballVY = -p.ballVY
	} else if p.ballY >= pongBoardHeight-pongBallSize {
		p.ballY = pongBoardHeight - pongBallSize
		p.ballVY = -p.ballVY
	}

	if p.ballX <= pongPaddleWidth && p.ballVX < 0 &&
		p.ballY >= p.paddleY[0] && p.ballY <= p.paddleY[0]+pongPaddleHeight {
		p.ballX = pongPaddleWidth
		p.ballVX = -p.ballVX
		p.ballVY += float64(p.rng.Intn(5) - 2)
	} else if p.ballX >= pongBoardWidth-pongPaddleWidth-pongBallSize && p.ballVX > 0 &&
		p.ballY >= p.paddleY[1] && p.ballY <= p.paddleY[1]+pongPaddleHeight {
		p.ballX = pongBoardWidth - pongPaddleWidth - pongBallSize
		p.ballVX = -p.ballVX
		p.ballVY += float64(p.rng.Intn(5) - 2)
	}

	if p.ballX < 0 {
		p.scores[1]++
		p.resetBall()
	} else if p.ballX > pongBoardWidth {
		p.scores[0]++
		p.resetBall()
	}

	if p.scores[0] >= pongMaxScore {
		p.over = true
		p.winner = SeatOne
	} else if p.scores[1] >= pongMaxScore {
		p.over = true
		p.winner = SeatTwo
	}
}

func (p *PongState) Terminal() bool { return p.over }

func (p *PongState) Winner() (Seat, bool) {
	if !p.over {
		return 0, false
	}
	return p.winner, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type PongSnapshot struct {
	BoardWidth   float64 `json:"board_width"`
	BoardHeight  float64 `json:"board_height"`
	Player1Y     float64 `json:"player1_y"`
	Player2Y     float64 `json:"player2_y"`
	BallX        float64 `json:"ball_x"`
	BallY        float64 `json:"ball_y"`
	Player1Score int     `json:"player1_score"`
	Player2Score int     `json:"player2_score"`
}

func (p *PongState) Snapshot() any {
	return PongSnapshot{
		BoardWidth:   pongBoardWidth,
		BoardHeight:  pongBoardHeight,
		Player1Y:     p.paddleY[0],
		Player2Y:     p.paddleY[1],
		BallX:        p.ballX,
		BallY:        p.ballY,
		Player1Score: p.scores[0],
		Player2Score: p.scores[1],
	}
}
