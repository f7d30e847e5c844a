package services

import (
	"neon-arena/contract"
	"neon-arena/domain"
	"neon-arena/game"
	"neon-arena/runtime"
)

type IArenaService interface {
	CreateSession(gameType string, player1, player2 domain.PlayerID) (domain.Snapshot, error)
	Join(player domain.PlayerID, id domain.SessionID, sink contract.EventSink) error
	SubmitMove(player domain.PlayerID, id domain.SessionID, mv game.Move) error
	RequestUpdate(id domain.SessionID)
	Player(sink contract.EventSink) (domain.PlayerID, bool)
	Disconnect(sink contract.EventSink)
}

// ArenaService is the thin facade the transport talks to; all decisions
// live in the arena and its workers.
type ArenaService struct {
	arena *runtime.Arena
}

func NewArenaService(arena *runtime.Arena) *ArenaService {
	return &ArenaService{arena: arena}
}

func (s *ArenaService) CreateSession(gameType string, player1, player2 domain.PlayerID) (domain.Snapshot, error) {
	return s.arena.CreateSession(gameType, player1, player2)
}

func (s *ArenaService) Join(player domain.PlayerID, id domain.SessionID, sink contract.EventSink) error {
	return s.arena.Join(player, id, sink)
}

func (s *ArenaService) SubmitMove(player domain.PlayerID, id domain.SessionID, mv game.Move) error {
	return s.arena.SubmitMove(player, id, mv)
}

func (s *ArenaService) RequestUpdate(id domain.SessionID) {
	s.arena.RequestTick(id)
}

func (s *ArenaService) Player(sink contract.EventSink) (domain.PlayerID, bool) {
	return s.arena.Player(sink)
}

func (s *ArenaService) Disconnect(sink contract.EventSink) {
	s.arena.Disconnect(sink)
}
