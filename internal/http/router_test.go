package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	api "github.com/MrJamesThe3rd/pocketbook/internal/http"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/group"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/report"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/rule"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/user"
	domain "github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/metrics"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

type fixture struct {
	router http.Handler
	ledger *ledger.MockService
	tokens *auth.Manager
}

func newFixture(t *testing.T, db api.Pinger) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	tokens := auth.NewManager("test-secret", "pocketbook", time.Hour)
	ledgerSvc := ledger.NewMockService(ctrl)
	m := metrics.New()

	router := api.New(api.Handlers{
		Users:   user.NewHandler(user.NewMockService(ctrl)),
		Groups:  group.NewHandler(group.NewMockService(ctrl), group.NewMockBalances(ctrl)),
		Ledger:  ledger.NewHandler(ledgerSvc, ledger.NewMockImporter(ctrl), 1<<20),
		Rules:   rule.NewHandler(rule.NewMockService(ctrl)),
		Reports: report.NewHandler(report.NewMockService(ctrl)),
	}, api.Options{
		Authenticate: tokens.Middleware,
		Instrument:   m.Middleware,
		Metrics:      m.Handler(),
		DB:           db,
		CORSOrigins:  []string{"http://localhost:5173"},
	})

	return &fixture{router: router, ledger: ledgerSvc, tokens: tokens}
}

func TestHealth(t *testing.T) {
	t.Run("Up", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newFixture(t, pinger{}).router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("DatabaseDown", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newFixture(t, pinger{err: errors.New("down")}).router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t, pinger{})

	for _, path := range []string{"/api/v1/wallets", "/api/v1/groups", "/api/v1/users/me", "/api/v1/reports/overview"} {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAuthenticatedRequestReachesHandler(t *testing.T) {
	f := newFixture(t, pinger{})
	actor := uuid.New()

	token, err := f.tokens.Issue(actor, "ana@example.com")
	require.NoError(t, err)

	f.ledger.EXPECT().ListWallets(gomock.Any(), actor, nil).Return([]*domain.Wallet{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	metricsRec := httptest.NewRecorder()
	f.router.ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metricsRec.Body.String(), `route="/api/v1/wallets`)
}
