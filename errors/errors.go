package errors

import "fmt"

var (
	ErrWorkerPanic      = fmt.Errorf("worker panic")
	ErrMalformedMessage = fmt.Errorf("malformed message")
	ErrUnknownAction    = fmt.Errorf("unknown action")
	ErrInvalidGameType  = fmt.Errorf("invalid game type")
	ErrSessionNotFound  = fmt.Errorf("session not found")
	ErrNotAParticipant  = fmt.Errorf("player is not a participant of this session")
	ErrSessionNotActive = fmt.Errorf("session is not active")
	ErrInvalidMove      = fmt.Errorf("invalid move")
	ErrQueueFull        = fmt.Errorf("session command queue full")
	ErrInternal         = fmt.Errorf("internal error")
)
