package rule_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	handler "github.com/MrJamesThe3rd/pocketbook/internal/http/rule"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/matching"
)

func serve(actor uuid.UUID, svc handler.Service, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/category-rules", handler.NewHandler(svc).Routes)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(auth.WithActor(req.Context(), actor))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestSuggest(t *testing.T) {
	actor := uuid.New()
	groupID := uuid.New()
	categoryID := uuid.New()

	ctrl := gomock.NewController(t)
	svc := handler.NewMockService(ctrl)
	svc.EXPECT().
		Suggest(gomock.Any(), actor, ledger.GroupOwner(groupID), "UBER *TRIP").
		Return(&categoryID, nil)

	q := url.Values{"description": {"UBER *TRIP"}, "group_id": {groupID.String()}}
	rec := serve(actor, svc, http.MethodGet, "/category-rules/suggest?"+q.Encode(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category_id":"`+categoryID.String()+`"}`, rec.Body.String())
}

func TestSuggest_NoMatch(t *testing.T) {
	actor := uuid.New()

	ctrl := gomock.NewController(t)
	svc := handler.NewMockService(ctrl)
	svc.EXPECT().Suggest(gomock.Any(), actor, ledger.PersonalOwner(actor), "X").Return(nil, nil)

	rec := serve(actor, svc, http.MethodGet, "/category-rules/suggest?description=X", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"category_id":null}`, rec.Body.String())
}

func TestLearn(t *testing.T) {
	actor := uuid.New()
	categoryID := uuid.New()

	ctrl := gomock.NewController(t)
	svc := handler.NewMockService(ctrl)
	svc.EXPECT().
		Learn(gomock.Any(), actor, matching.LearnParams{
			Owner:      ledger.PersonalOwner(actor),
			Pattern:    "uber",
			CategoryID: categoryID,
		}).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p matching.LearnParams) (*matching.Rule, error) {
			return &matching.Rule{ID: uuid.New(), Owner: p.Owner, Pattern: p.Pattern, CategoryID: p.CategoryID}, nil
		})

	rec := serve(actor, svc, http.MethodPost, "/category-rules", `{"pattern":"uber","category_id":"`+categoryID.String()+`"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"`+actor.String()+`"`)
}
