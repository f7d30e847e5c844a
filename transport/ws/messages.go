package ws

import (
	"encoding/json"

	"neon-arena/domain"
	"neon-arena/domain/event"
	"neon-arena/game"
	"neon-arena/observability"
)

// Client messages arrive as flat JSON selected by the action field. The
// envelope is decoded first, then the same bytes again into the
// action-specific request struct.
const (
	actionCreateGame = "create_game"
	actionJoin       = "join"
	actionMove       = "move"
	actionGameUpdate = "game_update"
	actionPing       = "ping"
)

type clientEnvelope struct {
	Action string `json:"action"`
}

type createGameRequest struct {
	GameType  string          `json:"game_type" validate:"required"`
	Player1ID domain.PlayerID `json:"player1_id" validate:"required"`
	Player2ID domain.PlayerID `json:"player2_id" validate:"required,nefield=Player1ID"`
}

type joinRequest struct {
	PlayerID domain.PlayerID `json:"player_id" validate:"required"`
	GameID   string          `json:"game_id" validate:"required"`
}

type moveRequest struct {
	GameID   string   `json:"game_id" validate:"required"`
	MoveData moveData `json:"move_data"`
}

type moveData struct {
	Direction string `json:"direction,omitempty"`
	Action    string `json:"action,omitempty"`
}

func (m moveData) toMove() game.Move {
	return game.Move{Direction: m.Direction, Action: m.Action}
}

type updateRequest struct {
	GameID string `json:"game_id" validate:"required"`
}

type pingRequest struct {
	Timestamp json.RawMessage `json:"timestamp"`
}

// Server messages are selected by the type field.
const (
	typeWelcome     = "welcome"
	typeGameCreated = "game_created"
	typeGameState   = "game_state"
	typeGameStarted = "game_started"
	typeGameEnded   = "game_ended"
	typeError       = "error"
	typePong        = "pong"
)

type serverMessage struct {
	Type       string               `json:"type"`
	Message    string               `json:"message,omitempty"`
	Data       any                  `json:"data,omitempty"`
	ServerInfo *observability.Stats `json:"server_info,omitempty"`
	Timestamp  json.RawMessage      `json:"timestamp,omitempty"`
}

type gameCreatedData struct {
	GameID   string            `json:"game_id"`
	GameType game.Type         `json:"game_type"`
	Players  []domain.PlayerID `json:"players"`
}

type gameEndedData struct {
	WinnerID   domain.PlayerID `json:"winner_id"`
	FinalState domain.Snapshot `json:"final_state"`
}

// eventToMessage maps a domain event onto its wire representation. Events
// with no wire form return false.
func eventToMessage(e event.DomainEvent) (serverMessage, bool) {
	switch evt := e.(type) {
	case event.StateSnapshot:
		return serverMessage{Type: typeGameState, Data: evt.Snapshot}, true
	case event.StateBroadcast:
		return serverMessage{Type: typeGameState, Data: evt.Snapshot}, true
	case event.SessionStarted:
		return serverMessage{Type: typeGameStarted, Data: evt.Snapshot}, true
	case event.SessionEnded:
		return serverMessage{Type: typeGameEnded, Data: gameEndedData{WinnerID: evt.Winner, FinalState: evt.Snapshot}}, true
	case event.CommandRejected:
		return serverMessage{Type: typeError, Message: evt.Reason.Error()}, true
	default:
		return serverMessage{}, false
	}
}
