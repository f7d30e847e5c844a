package workers

import (
	"context"
	"log/slog"
	"time"

	"neon-arena/contract"
)

// SimulationTicker drives continuous-motion games at a fixed rate. It never
// mutates session state itself: each period it asks the arena to inject a
// Tick command into every advance-capable session's command queue, keeping
// tick-driven and player-driven mutation on the same serialized path.
type SimulationTicker struct {
	log      *slog.Logger
	interval time.Duration
	source   contract.ITickSource
}

func NewSimulationTicker(log *slog.Logger, interval time.Duration, source contract.ITickSource) *SimulationTicker {
	return &SimulationTicker{log: log, interval: interval, source: source}
}

func (w *SimulationTicker) Run(ctx context.Context) error {
	w.log.Info("Starting simulation ticker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.source.TickContinuous()
		}
	}
}
