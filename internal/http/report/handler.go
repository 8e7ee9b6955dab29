package report

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/report"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=report
type Service interface {
	MonthlySummary(ctx context.Context, actor uuid.UUID, owner *ledger.Owner, months int) ([]report.Month, error)
	Overview(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) (*report.Overview, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly", h.monthly)
	r.Get("/overview", h.overview)
}

type monthResponse struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Net     string `json:"net"`
}

// monthly takes ?months=N (default and cap applied by the service).
func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	owner, ok := respond.OwnerFilter(w, r, actor)
	if !ok {
		return
	}

	var months int

	if s := r.URL.Query().Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			respond.BadRequest(w, "months must be a number")
			return
		}

		months = n
	}

	summary, err := h.svc.MonthlySummary(r.Context(), actor, owner, months)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]monthResponse, len(summary))
	for i, m := range summary {
		resp[i] = monthResponse{
			Month:   m.Month,
			Income:  respond.Amount(m.Income),
			Expense: respond.Amount(m.Expense),
			Net:     respond.Amount(m.Net),
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

type categoryShareResponse struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Name       string     `json:"name"`
	Amount     string     `json:"amount"`
	Percent    int        `json:"percent"`
}

type overviewResponse struct {
	WalletBalance string                  `json:"wallet_balance"`
	Income        string                  `json:"income"`
	Expense       string                  `json:"expense"`
	Net           string                  `json:"net"`
	Categories    []categoryShareResponse `json:"categories"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	owner, ok := respond.OwnerFilter(w, r, actor)
	if !ok {
		return
	}

	o, err := h.svc.Overview(r.Context(), actor, owner)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := overviewResponse{
		WalletBalance: respond.Amount(o.WalletBalance),
		Income:        respond.Amount(o.Income),
		Expense:       respond.Amount(o.Expense),
		Net:           respond.Amount(o.Net),
		Categories:    make([]categoryShareResponse, len(o.Categories)),
	}
	for i, c := range o.Categories {
		resp.Categories[i] = categoryShareResponse{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Amount:     respond.Amount(c.Amount),
			Percent:    c.Percent,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
