package ledger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	handler "github.com/MrJamesThe3rd/pocketbook/internal/http/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

type env struct {
	actor    uuid.UUID
	svc      *handler.MockService
	importer *handler.MockImporter
	router   chi.Router
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctrl := gomock.NewController(t)
	e := &env{
		actor:    uuid.New(),
		svc:      handler.NewMockService(ctrl),
		importer: handler.NewMockImporter(ctrl),
	}

	h := handler.NewHandler(e.svc, e.importer, 1<<20)

	e.router = chi.NewRouter()
	e.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), e.actor)))
		})
	})
	e.router.Route("/wallets", h.WalletRoutes)
	e.router.Route("/expenses", h.EntryRoutes(ledger.KindExpense))
	e.router.Route("/transfers", h.TransferRoutes)

	return e
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body
}

func TestCreateWallet(t *testing.T) {
	e := newEnv(t)
	groupID := uuid.New()

	e.svc.EXPECT().
		CreateWallet(gomock.Any(), e.actor, ledger.CreateWalletParams{
			Owner:   ledger.GroupOwner(groupID),
			Name:    "Mercado",
			Balance: decimal.RequireFromString("150000.5"),
		}).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p ledger.CreateWalletParams) (*ledger.Wallet, error) {
			return &ledger.Wallet{ID: uuid.New(), Owner: p.Owner, Name: p.Name, Balance: p.Balance}, nil
		})

	rec := e.do(http.MethodPost, "/wallets", `{"group_id":"`+groupID.String()+`","name":"Mercado","balance":150000.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "150000.50", body["balance"])
	assert.Equal(t, groupID.String(), body["group_id"])
	assert.NotContains(t, body, "user_id")
}

func TestCreateWallet_PersonalByDefault(t *testing.T) {
	e := newEnv(t)

	e.svc.EXPECT().
		CreateWallet(gomock.Any(), e.actor, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p ledger.CreateWalletParams) (*ledger.Wallet, error) {
			assert.Equal(t, ledger.PersonalOwner(e.actor), p.Owner)
			return &ledger.Wallet{ID: uuid.New(), Owner: p.Owner, Name: p.Name}, nil
		})

	rec := e.do(http.MethodPost, "/wallets", `{"name":"Ahorros","balance":"0"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateExpense_ErrorMapping(t *testing.T) {
	type testCase struct {
		name     string
		err      error
		wantCode int
	}

	tests := []testCase{
		{name: "InsufficientFunds", err: apperr.ErrInsufficientFunds, wantCode: http.StatusUnprocessableEntity},
		{name: "GroupCapacity", err: apperr.ErrInsufficientGroupBalance, wantCode: http.StatusUnprocessableEntity},
		{name: "Ownership", err: apperr.ErrOwnership, wantCode: http.StatusForbidden},
		{name: "Validation", err: apperr.ErrValidation, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			e.svc.EXPECT().CreateEntry(gomock.Any(), e.actor, ledger.KindExpense, gomock.Any()).Return(nil, tt.err)

			rec := e.do(http.MethodPost, "/expenses", `{"amount":"10.00","date":"2026-02-01"}`)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCreateExpense_ParsesDate(t *testing.T) {
	e := newEnv(t)
	walletID := uuid.New()

	e.svc.EXPECT().
		CreateEntry(gomock.Any(), e.actor, ledger.KindExpense, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, kind ledger.Kind, p ledger.CreateEntryParams) (*ledger.Entry, error) {
			assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), p.Date)
			assert.Equal(t, &walletID, p.WalletID)

			return &ledger.Entry{ID: uuid.New(), Kind: kind, Owner: p.Owner, WalletID: p.WalletID, Amount: p.Amount, Date: p.Date}, nil
		})

	rec := e.do(http.MethodPost, "/expenses", `{"wallet_id":"`+walletID.String()+`","amount":"10","date":"2026-02-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "10.00", body["amount"])
	assert.Equal(t, "2026-02-01", body["date"])
}

func TestCreateExpense_BadDate(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/expenses", `{"amount":"10","date":"01/02/2026"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateExpense_NullClearsReference(t *testing.T) {
	e := newEnv(t)
	id := uuid.New()
	categoryID := uuid.New()

	e.svc.EXPECT().
		UpdateEntry(gomock.Any(), e.actor, ledger.KindExpense, id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, _ ledger.Kind, _ uuid.UUID, p ledger.UpdateEntryParams) (*ledger.Entry, error) {
			assert.True(t, p.ClearWallet)
			assert.Nil(t, p.WalletID)
			assert.False(t, p.ClearCategory)
			assert.Equal(t, &categoryID, p.CategoryID)
			assert.Nil(t, p.Amount)

			return &ledger.Entry{ID: id, Kind: ledger.KindExpense, CategoryID: p.CategoryID}, nil
		})

	rec := e.do(http.MethodPatch, "/expenses/"+id.String(), `{"wallet_id":null,"category_id":"`+categoryID.String()+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetWallet_InvalidID(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/wallets/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListWallets_GroupFilter(t *testing.T) {
	e := newEnv(t)
	groupID := uuid.New()
	owner := ledger.GroupOwner(groupID)

	e.svc.EXPECT().ListWallets(gomock.Any(), e.actor, &owner).Return([]*ledger.Wallet{}, nil)

	rec := e.do(http.MethodGet, "/wallets?group_id="+groupID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateTransfer_Amounts(t *testing.T) {
	from, to := uuid.New(), uuid.New()

	type testCase struct {
		name     string
		body     string
		wantFrom string
		wantTo   string
		wantCode int
	}

	tests := []testCase{
		{
			name:     "SameAmount",
			body:     `{"amount":"25.00"}`,
			wantFrom: "25",
			wantTo:   "25",
			wantCode: http.StatusCreated,
		},
		{
			name:     "CrossCurrency",
			body:     `{"from_amount":"100000","to_amount":"23.40"}`,
			wantFrom: "100000",
			wantTo:   "23.4",
			wantCode: http.StatusCreated,
		},
		{
			name:     "Ambiguous",
			body:     `{"amount":"1","from_amount":"1","to_amount":"1"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Missing",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)

			if tt.wantCode == http.StatusCreated {
				e.svc.EXPECT().
					CreateTransfer(gomock.Any(), e.actor, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, p ledger.TransferParams) (*ledger.Transfer, error) {
						assert.Equal(t, tt.wantFrom, p.FromAmount.String())
						assert.Equal(t, tt.wantTo, p.ToAmount.String())

						return &ledger.Transfer{ID: uuid.New(), FromAmount: p.FromAmount, ToAmount: p.ToAmount}, nil
					})
			}

			body := strings.TrimSuffix(tt.body, "}")
			if body != "{" {
				body += ","
			}

			body += `"from_wallet_id":"` + from.String() + `","to_wallet_id":"` + to.String() + `"}`

			rec := e.do(http.MethodPost, "/transfers", body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestImportStatement(t *testing.T) {
	e := newEnv(t)
	walletID := uuid.New()
	statement := "Fecha;Descripción;Valor\n30/01/2026;EXITO;-10.000,00\n"

	e.importer.EXPECT().
		Import(gomock.Any(), e.actor, walletID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID, r io.Reader) (*ledger.ImportResult, error) {
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, statement, string(got))

			return &ledger.ImportResult{
				Imported: []*ledger.Entry{{ID: uuid.New(), Kind: ledger.KindExpense, Amount: decimal.NewFromInt(10000)}},
				Skipped:  []ledger.ImportRow{{}},
			}, nil
		})

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "extracto.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(statement))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/wallets/"+walletID.String()+"/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["skipped"])
	assert.Len(t, body["imported"], 1)
}

func TestImportStatement_MissingFile(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/wallets/"+uuid.NewString()+"/import", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
