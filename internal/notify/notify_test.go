package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	id := uuid.New()
	d := Drift{
		WalletID:   id,
		Owner:      "user:" + id.String(),
		Stored:     decimal.RequireFromString("120.50"),
		Expected:   decimal.RequireFromString("100"),
		DetectedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := encode(d)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Equal(t, id.String(), got["wallet_id"])
	assert.Equal(t, "120.5", got["stored"])
	assert.Equal(t, "20.5", got["difference"])
	assert.Equal(t, "2026-03-01T12:00:00Z", got["detected_at"])
}

func TestLogPublisher(t *testing.T) {
	var p LogPublisher

	assert.NoError(t, p.PublishDrift(context.Background(), Drift{WalletID: uuid.New()}))
	assert.NoError(t, p.Close())
}
