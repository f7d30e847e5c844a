package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"neon-arena/contract"
	"neon-arena/observability"
)

// TelemetryWorker periodically samples process health (CPU, RSS) together
// with arena counters and publishes the result for the welcome greeting and
// the logs.
type TelemetryWorker struct {
	log      *slog.Logger
	arena    contract.IArenaInfo
	registry contract.IRegistry
	stats    *observability.ServerStats
	interval time.Duration
}

func NewTelemetryWorker(
	log *slog.Logger,
	arena contract.IArenaInfo,
	registry contract.IRegistry,
	stats *observability.ServerStats,
	interval time.Duration,
) *TelemetryWorker {
	return &TelemetryWorker{log: log, arena: arena, registry: registry, stats: stats, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting telemetry worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := observability.Stats{
				ActiveGames:      w.arena.ActiveSessions(),
				ConnectedPlayers: w.registry.Count(),
				CPUPercent:       cpu,
				RAMBytes:         rss,
			}
			w.stats.Set(stats)
			w.log.Debug("Telemetry sample",
				"active_games", stats.ActiveGames,
				"connected_players", stats.ConnectedPlayers,
				"cpu_percent", stats.CPUPercent,
				"ram_bytes", stats.RAMBytes,
			)
		}
	}
}

// selfStats retrieves memory and CPU usage for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
