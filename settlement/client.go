// Package settlement implements the external stake settlement collaborator
// boundary.
package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"neon-arena/domain"
)

type settleRequest struct {
	SessionID      string          `json:"session_id"`
	WinnerID       domain.PlayerID `json:"winner_id"`
	LoserID        domain.PlayerID `json:"loser_id"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// HTTPClient posts settled outcomes to the payments service. The settlement
// key rides both the body and a header so the receiver can deduplicate
// retries.
type HTTPClient struct {
	log    *slog.Logger
	url    string
	client *http.Client
}

func NewHTTPClient(log *slog.Logger, url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		log:    log,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Settle(ctx context.Context, settlement domain.Settlement) error {
	body, err := json.Marshal(settleRequest{
		SessionID:      string(settlement.Session),
		WinnerID:       settlement.Winner,
		LoserID:        settlement.Loser,
		IdempotencyKey: settlement.Key.String(),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", settlement.Key.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("settlement rejected: status %d", resp.StatusCode)
	}
	return nil
}

// Noop logs outcomes instead of settling them, for local runs without a
// payments service.
type Noop struct {
	log *slog.Logger
}

func NewNoop(log *slog.Logger) Noop {
	return Noop{log: log}
}

func (n Noop) Settle(_ context.Context, settlement domain.Settlement) error {
	n.log.Info("Settlement skipped (no payments service configured)",
		"session", settlement.Session, "winner", settlement.Winner, "loser", settlement.Loser)
	return nil
}
