package user_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	handler "github.com/MrJamesThe3rd/pocketbook/internal/http/user"
	"github.com/MrJamesThe3rd/pocketbook/internal/user"
)

func router(h *handler.Handler) chi.Router {
	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Group(h.PublicRoutes)
		r.Group(h.Routes)
	})

	return r
}

func TestRegister(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := handler.NewMockService(ctrl)

	svc.EXPECT().
		Register(gomock.Any(), user.RegisterParams{Name: "Ana", Email: "ana@example.com", Password: "correct horse"}).
		DoAndReturn(func(_ context.Context, p user.RegisterParams) (*user.Registration, error) {
			return &user.Registration{
				User:  &user.User{ID: uuid.New(), Name: p.Name, Email: p.Email, Currency: user.DefaultCurrency},
				Token: "tok",
			}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"correct horse"}`))
	rec := httptest.NewRecorder()
	router(handler.NewHandler(svc)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)
	assert.Contains(t, rec.Body.String(), `"currency":"COP"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := handler.NewMockService(ctrl)
	svc.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperr.ErrDuplicateName)

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"email":"a@b.co","password":"12345678"}`))
	rec := httptest.NewRecorder()
	router(handler.NewHandler(svc)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMe(t *testing.T) {
	actor := uuid.New()

	t.Run("Authenticated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := handler.NewMockService(ctrl)
		svc.EXPECT().Get(gomock.Any(), actor).Return(&user.User{ID: actor, Email: "ana@example.com"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req = req.WithContext(auth.WithActor(req.Context(), actor))
		rec := httptest.NewRecorder()
		router(handler.NewHandler(svc)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("NoActor", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		rec := httptest.NewRecorder()
		router(handler.NewHandler(handler.NewMockService(ctrl))).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
