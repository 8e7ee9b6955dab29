// Package notify publishes balance drift alerts.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Drift is a wallet whose stored balance disagrees with its entry log.
type Drift struct {
	WalletID   uuid.UUID       `json:"wallet_id"`
	Owner      string          `json:"owner"`
	Stored     decimal.Decimal `json:"stored"`
	Expected   decimal.Decimal `json:"expected"`
	DetectedAt time.Time       `json:"detected_at"`
}

func (d Drift) Difference() decimal.Decimal {
	return d.Stored.Sub(d.Expected)
}

type message struct {
	Drift
	Difference decimal.Decimal `json:"difference"`
}

func encode(d Drift) ([]byte, error) {
	return json.Marshal(message{Drift: d, Difference: d.Difference()})
}

// LogPublisher writes drifts to the default logger. It is used when no broker
// is configured.
type LogPublisher struct{}

func (LogPublisher) PublishDrift(ctx context.Context, d Drift) error {
	slog.WarnContext(ctx, "wallet balance drift",
		"wallet_id", d.WalletID,
		"owner", d.Owner,
		"stored", d.Stored.StringFixed(2),
		"expected", d.Expected.StringFixed(2),
	)

	return nil
}

func (LogPublisher) Close() error { return nil }
