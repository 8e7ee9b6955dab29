package group

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/group"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=group
type Service interface {
	Create(ctx context.Context, actor uuid.UUID, params group.CreateParams) (*group.Group, error)
	Get(ctx context.Context, actor, id uuid.UUID) (*group.Group, error)
	List(ctx context.Context, actor uuid.UUID) ([]*group.Group, error)
	Update(ctx context.Context, actor, id uuid.UUID, params group.UpdateParams) (*group.Group, error)
	Delete(ctx context.Context, actor, id uuid.UUID) error
	ListMembers(ctx context.Context, actor, groupID uuid.UUID) ([]*group.Member, error)
	AddMember(ctx context.Context, actor, groupID uuid.UUID, email string, role group.Role) (*group.Member, error)
	ChangeRole(ctx context.Context, actor, groupID, target uuid.UUID, role group.Role) (*group.Member, error)
	RemoveMember(ctx context.Context, actor, groupID, target uuid.UUID) error
}

// Balances reports the money of a group that is not yet assigned to a wallet.
type Balances interface {
	AvailableBalance(ctx context.Context, actor, groupID uuid.UUID) (ledger.GroupTotals, error)
}

type Handler struct {
	svc      Service
	balances Balances
}

func NewHandler(svc Service, balances Balances) *Handler {
	return &Handler{svc: svc, balances: balances}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/available", h.available)
	r.Get("/{id}/members", h.listMembers)
	r.Post("/{id}/members", h.addMember)
	r.Patch("/{id}/members/{userID}", h.changeRole)
	r.Delete("/{id}/members/{userID}", h.removeMember)
}

type groupResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedBy   *uuid.UUID `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toResponse(g *group.Group) groupResponse {
	return groupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
	}
}

type memberResponse struct {
	UserID   uuid.UUID  `json:"user_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     group.Role `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
}

func toMemberResponse(m *group.Member) memberResponse {
	return memberResponse{
		UserID:   m.UserID,
		Name:     m.Name,
		Email:    m.Email,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

type groupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req groupRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := group.CreateParams{}
	if req.Name != nil {
		params.Name = *req.Name
	}

	if req.Description != nil {
		params.Description = *req.Description
	}

	g, err := h.svc.Create(r.Context(), actor, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(g))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	groups, err := h.svc.List(r.Context(), actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toResponse(g)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	g, err := h.svc.Get(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	var req groupRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	g, err := h.svc.Update(r.Context(), actor, id, group.UpdateParams{Name: req.Name, Description: req.Description})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), actor, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.NoContent(w)
}

type availableResponse struct {
	Incomes   string `json:"incomes"`
	Expenses  string `json:"expenses"`
	Wallets   string `json:"wallets"`
	Available string `json:"available"`
}

func (h *Handler) available(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	totals, err := h.balances.AvailableBalance(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, availableResponse{
		Incomes:   respond.Amount(totals.Incomes),
		Expenses:  respond.Amount(totals.Expenses),
		Wallets:   respond.Amount(totals.Wallets),
		Available: respond.Amount(totals.Available()),
	})
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.svc.ListMembers(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]memberResponse, len(members))
	for i, m := range members {
		resp[i] = toMemberResponse(m)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type addMemberRequest struct {
	Email string     `json:"email"`
	Role  group.Role `json:"role"`
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	var req addMemberRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	m, err := h.svc.AddMember(r.Context(), actor, id, strings.TrimSpace(req.Email), req.Role)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toMemberResponse(m))
}

type changeRoleRequest struct {
	Role group.Role `json:"role"`
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	target, ok := respond.ID(w, r, "userID")
	if !ok {
		return
	}

	var req changeRoleRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	m, err := h.svc.ChangeRole(r.Context(), actor, id, target, req.Role)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toMemberResponse(m))
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	target, ok := respond.ID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.svc.RemoveMember(r.Context(), actor, id, target); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.NoContent(w)
}
