package user

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/user"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=user
type Service interface {
	Register(ctx context.Context, params user.RegisterParams) (*user.Registration, error)
	Get(ctx context.Context, actor uuid.UUID) (*user.User, error)
	UpdateProfile(ctx context.Context, actor uuid.UUID, params user.UpdateParams) (*user.User, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// PublicRoutes are reachable without a token.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Post("/", h.register)
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/me", h.me)
	r.Patch("/me", h.update)
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(u *user.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Currency:  u.Currency,
		CreatedAt: u.CreatedAt,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Currency string `json:"currency"`
}

type registerResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	reg, err := h.svc.Register(r.Context(), user.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Currency: req.Currency,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, registerResponse{User: toResponse(reg.User), Token: reg.Token})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	u, err := h.svc.Get(r.Context(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(u))
}

type updateRequest struct {
	Name     *string `json:"name"`
	Currency *string `json:"currency"`
	Password *string `json:"password"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), actor, user.UpdateParams{
		Name:     req.Name,
		Currency: req.Currency,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(u))
}
