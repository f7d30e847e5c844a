// Package ws exposes the arena over a websocket endpoint speaking flat JSON
// messages: client actions in, typed server messages out.
package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"neon-arena/contract"
	"neon-arena/domain"
	apperrors "neon-arena/errors"
	"neon-arena/observability"
	"neon-arena/services"
)

type Server struct {
	log          *slog.Logger
	service      services.IArenaService
	stats        *observability.ServerStats
	validate     *validator.Validate
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

func NewServer(log *slog.Logger, service services.IArenaService, stats *observability.ServerStats, writeTimeout time.Duration) *Server {
	return &Server{
		log:      log,
		service:  service,
		stats:    stats,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		writeTimeout: writeTimeout,
	}
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	sink := newConnSink(conn, s.writeTimeout)
	defer func() {
		s.service.Disconnect(sink)
		_ = conn.Close()
	}()

	s.log.Info("Client connected", "remote", r.RemoteAddr)
	stats := s.stats.GetLatest()
	if err := sink.send(serverMessage{
		Type:       typeWelcome,
		Message:    "Connected to game server",
		ServerInfo: &stats,
	}); err != nil {
		s.log.Warn("Failed to send welcome", "remote", r.RemoteAddr, "error", err)
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn("Client connection dropped", "remote", r.RemoteAddr, "error", err)
			} else {
				s.log.Info("Client disconnected", "remote", r.RemoteAddr)
			}
			return
		}
		s.dispatch(sink, raw)
	}
}

// dispatch decodes one client message and routes it. Failures stay on this
// connection as error messages; the connection itself survives bad input.
func (s *Server) dispatch(sink *connSink, raw []byte) {
	var envelope clientEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		s.sendError(sink, apperrors.ErrMalformedMessage)
		return
	}

	var err error
	switch envelope.Action {
	case actionCreateGame:
		err = s.handleCreate(sink, raw)
	case actionJoin:
		err = s.handleJoin(sink, raw)
	case actionMove:
		err = s.handleMove(sink, raw)
	case actionGameUpdate:
		err = s.handleUpdate(raw)
	case actionPing:
		err = s.handlePing(sink, raw)
	default:
		err = apperrors.ErrUnknownAction
	}
	if err != nil {
		s.sendError(sink, err)
	}
}

func (s *Server) handleCreate(sink *connSink, raw []byte) error {
	var req createGameRequest
	if err := s.decode(raw, &req); err != nil {
		return err
	}

	snapshot, err := s.service.CreateSession(req.GameType, req.Player1ID, req.Player2ID)
	if err != nil {
		return err
	}
	return sink.send(serverMessage{
		Type: typeGameCreated,
		Data: gameCreatedData{
			GameID:   snapshot.GameID,
			GameType: snapshot.GameType,
			Players:  []domain.PlayerID{snapshot.Player1ID, snapshot.Player2ID},
		},
	})
}

func (s *Server) handleJoin(sink *connSink, raw []byte) error {
	var req joinRequest
	if err := s.decode(raw, &req); err != nil {
		return err
	}
	return s.service.Join(req.PlayerID, domain.SessionID(req.GameID), sink)
}

func (s *Server) handleMove(sink *connSink, raw []byte) error {
	var req moveRequest
	if err := s.decode(raw, &req); err != nil {
		return err
	}

	player, ok := s.service.Player(sink)
	if !ok {
		return apperrors.ErrNotAParticipant
	}
	return s.service.SubmitMove(player, domain.SessionID(req.GameID), req.MoveData.toMove())
}

func (s *Server) handleUpdate(raw []byte) error {
	var req updateRequest
	if err := s.decode(raw, &req); err != nil {
		return err
	}
	s.service.RequestUpdate(domain.SessionID(req.GameID))
	return nil
}

func (s *Server) handlePing(sink *connSink, raw []byte) error {
	var req pingRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return apperrors.ErrMalformedMessage
	}
	return sink.send(serverMessage{Type: typePong, Timestamp: req.Timestamp})
}

func (s *Server) decode(raw []byte, req any) error {
	if err := json.Unmarshal(raw, req); err != nil {
		return apperrors.ErrMalformedMessage
	}
	if err := s.validate.Struct(req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return apperrors.ErrInternal
		}
		return apperrors.ErrMalformedMessage
	}
	return nil
}

func (s *Server) sendError(sink *connSink, err error) {
	if sendErr := sink.send(serverMessage{Type: typeError, Message: err.Error()}); sendErr != nil {
		s.log.Warn("Failed to send error message", "error", sendErr)
	}
}

var _ contract.EventSink = (*connSink)(nil)
