package workers

import (
	"context"
	"log/slog"
	"time"

	"neon-arena/contract"
	"neon-arena/domain"
)

// SettlementWorker drains the settlement queue and invokes the external
// stake settlement collaborator. Each settlement carries a stable
// idempotency key, so the bounded retry loop cannot double-settle an
// outcome. A settlement that exhausts its attempts is logged for manual
// reconciliation; gameplay is never blocked on it.
type SettlementWorker struct {
	log           *slog.Logger
	settler       contract.Settler
	jobs          <-chan domain.Settlement
	maxAttempts   int
	retryInterval time.Duration
}

func NewSettlementWorker(
	log *slog.Logger,
	settler contract.Settler,
	jobs <-chan domain.Settlement,
	maxAttempts int,
	retryInterval time.Duration,
) *SettlementWorker {
	return &SettlementWorker{
		log:           log,
		settler:       settler,
		jobs:          jobs,
		maxAttempts:   maxAttempts,
		retryInterval: retryInterval,
	}
}

func (w *SettlementWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping settlement worker")
			return ctx.Err()
		case settlement, ok := <-w.jobs:
			if !ok {
				return nil
			}
			w.process(ctx, settlement)
		}
	}
}

func (w *SettlementWorker) process(ctx context.Context, settlement domain.Settlement) {
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.settler.Settle(ctx, settlement)
		if err == nil {
			w.log.Info("Settlement delivered",
				"session", settlement.Session, "winner", settlement.Winner, "key", settlement.Key)
			return
		}

		w.log.Warn("Settlement attempt failed",
			"session", settlement.Session, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryInterval):
		}
	}

	w.log.Error("Settlement exhausted retries, needs manual reconciliation",
		"session", settlement.Session, "key", settlement.Key,
		"winner", settlement.Winner, "loser", settlement.Loser)
}
