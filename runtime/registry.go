package runtime

import (
	"sync"

	"neon-arena/contract"
	"neon-arena/domain"
)

// Registry maps player identities to their live connection sinks, both
// directions. A player has at most one sink and a sink at most one player;
// rebinding either side atomically evicts the stale half so the mapping is
// never ambiguous.
type Registry struct {
	mu      sync.RWMutex
	players map[domain.PlayerID]contract.EventSink
	conns   map[contract.EventSink]domain.PlayerID
}

func NewRegistry() *Registry {
	return &Registry{
		players: make(map[domain.PlayerID]contract.EventSink),
		conns:   make(map[contract.EventSink]domain.PlayerID),
	}
}

// Bind records the mapping, replacing any prior binding for that player or
// that sink. Last bind wins.
func (r *Registry) Bind(player domain.PlayerID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.players[player]; ok {
		delete(r.conns, old)
	}
	if oldPlayer, ok := r.conns[sink]; ok {
		delete(r.players, oldPlayer)
	}
	r.players[player] = sink
	r.conns[sink] = player
}

// Unbind removes both directions atomically. Unknown sinks are a no-op.
func (r *Registry) Unbind(sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, ok := r.conns[sink]
	if !ok {
		return
	}
	delete(r.conns, sink)
	delete(r.players, player)
}

func (r *Registry) Lookup(player domain.PlayerID) (contract.EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sink, ok := r.players[player]
	return sink, ok
}

func (r *Registry) LookupPlayer(sink contract.EventSink) (domain.PlayerID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	player, ok := r.conns[sink]
	return player, ok
}

// Count reports the number of connected players.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
