package rule

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/matching"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=rule
type Service interface {
	Suggest(ctx context.Context, actor uuid.UUID, owner ledger.Owner, rawDescription string) (*uuid.UUID, error)
	Learn(ctx context.Context, actor uuid.UUID, params matching.LearnParams) (*matching.Rule, error)
	List(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) ([]*matching.Rule, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.learn)
	r.Get("/suggest", h.suggest)
}

type ruleResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	GroupID    *uuid.UUID `json:"group_id,omitempty"`
	Pattern    string     `json:"pattern"`
	CategoryID uuid.UUID  `json:"category_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toResponse(rule *matching.Rule) ruleResponse {
	userID, groupID := rule.Owner.Columns()

	return ruleResponse{
		ID:         rule.ID,
		UserID:     userID,
		GroupID:    groupID,
		Pattern:    rule.Pattern,
		CategoryID: rule.CategoryID,
		CreatedAt:  rule.CreatedAt,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	owner, ok := respond.OwnerFilter(w, r, actor)
	if !ok {
		return
	}

	rules, err := h.svc.List(r.Context(), actor, owner)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toResponse(rule)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type learnRequest struct {
	GroupID    *uuid.UUID `json:"group_id"`
	Pattern    string     `json:"pattern"`
	CategoryID uuid.UUID  `json:"category_id"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	rule, err := h.svc.Learn(r.Context(), actor, matching.LearnParams{
		Owner:      respond.Owner(actor, req.GroupID),
		Pattern:    req.Pattern,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(rule))
}

type suggestResponse struct {
	CategoryID *uuid.UUID `json:"category_id"`
}

// suggest takes ?description= and an optional ?group_id= (personal otherwise).
func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var groupID *uuid.UUID

	if s := r.URL.Query().Get("group_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.BadRequest(w, "invalid group_id")
			return
		}

		groupID = &id
	}

	categoryID, err := h.svc.Suggest(r.Context(), actor, respond.Owner(actor, groupID), r.URL.Query().Get("description"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, suggestResponse{CategoryID: categoryID})
}
