// Package observability exposes a small shared view of server health used
// by the telemetry worker and the welcome greeting.
package observability

import "sync"

// Stats is the latest point-in-time server picture.
type Stats struct {
	ActiveGames      int     `json:"active_games"`
	ConnectedPlayers int     `json:"connected_players"`
	CPUPercent       float64 `json:"cpu_percent"`
	RAMBytes         uint64  `json:"ram_bytes"`
}

// ServerStats is a thread-safe holder for the latest Stats sample.
type ServerStats struct {
	mu     sync.RWMutex
	latest Stats
}

func NewServerStats() *ServerStats {
	return &ServerStats{}
}

func (s *ServerStats) Set(stats Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = stats
}

func (s *ServerStats) GetLatest() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}
