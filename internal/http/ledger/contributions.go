package ledger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

func (h *Handler) ContributionRoutes(r chi.Router) {
	r.Post("/", h.contribute)
	r.Get("/", h.listContributions)
	r.Get("/{id}", h.getContribution)
}

type contributionResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	GroupID       uuid.UUID `json:"group_id"`
	UserWalletID  uuid.UUID `json:"user_wallet_id"`
	GroupWalletID uuid.UUID `json:"group_wallet_id"`
	ExpenseID     uuid.UUID `json:"expense_id"`
	IncomeID      uuid.UUID `json:"income_id"`
	Amount        string    `json:"amount"`
	Date          string    `json:"date"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func toContributionResponse(c *ledger.Contribution) contributionResponse {
	return contributionResponse{
		ID:            c.ID,
		UserID:        c.UserID,
		GroupID:       c.GroupID,
		UserWalletID:  c.UserWalletID,
		GroupWalletID: c.GroupWalletID,
		ExpenseID:     c.ExpenseID,
		IncomeID:      c.IncomeID,
		Amount:        respond.Amount(c.Amount),
		Date:          dateOnly(c.Date),
		Description:   c.Description,
		CreatedAt:     c.CreatedAt,
	}
}

type contributeRequest struct {
	GroupID       uuid.UUID       `json:"group_id"`
	UserWalletID  uuid.UUID       `json:"user_wallet_id"`
	GroupWalletID uuid.UUID       `json:"group_wallet_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
}

func (h *Handler) contribute(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req contributeRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, err := respond.Date(req.Date)
	if err != nil {
		respond.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	c, err := h.svc.Contribute(r.Context(), actor, ledger.ContributeParams{
		GroupID:       req.GroupID,
		UserWalletID:  req.UserWalletID,
		GroupWalletID: req.GroupWalletID,
		Amount:        req.Amount,
		Date:          date,
		Description:   req.Description,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toContributionResponse(c))
}

// listContributions accepts ?group_id= to narrow to one group.
func (h *Handler) listContributions(w http.ResponseWriter, r *http.Request) {
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

	contributions, err := h.svc.ListContributions(r.Context(), actor, groupID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]contributionResponse, len(contributions))
	for i, c := range contributions {
		resp[i] = toContributionResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) getContribution(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.svc.GetContribution(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toContributionResponse(c))
}
