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

func (h *Handler) TransferRoutes(r chi.Router) {
	r.Post("/", h.createTransfer)
	r.Get("/", h.listTransfers)
	r.Get("/{id}", h.getTransfer)
}

type transferResponse struct {
	ID           uuid.UUID `json:"id"`
	FromWalletID uuid.UUID `json:"from_wallet_id"`
	ToWalletID   uuid.UUID `json:"to_wallet_id"`
	FromAmount   string    `json:"from_amount"`
	ToAmount     string    `json:"to_amount"`
	Description  string    `json:"description"`
	ExpenseID    uuid.UUID `json:"expense_id"`
	IncomeID     uuid.UUID `json:"income_id"`
	CreatedBy    uuid.UUID `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTransferResponse(t *ledger.Transfer) transferResponse {
	return transferResponse{
		ID:           t.ID,
		FromWalletID: t.FromWalletID,
		ToWalletID:   t.ToWalletID,
		FromAmount:   respond.Amount(t.FromAmount),
		ToAmount:     respond.Amount(t.ToAmount),
		Description:  t.Description,
		ExpenseID:    t.ExpenseID,
		IncomeID:     t.IncomeID,
		CreatedBy:    t.CreatedBy,
		CreatedAt:    t.CreatedAt,
	}
}

// createTransferRequest takes "amount" for same-amount transfers or
// from_amount/to_amount when the wallets hold different currencies.
type createTransferRequest struct {
	FromWalletID uuid.UUID        `json:"from_wallet_id"`
	ToWalletID   uuid.UUID        `json:"to_wallet_id"`
	Amount       *decimal.Decimal `json:"amount"`
	FromAmount   *decimal.Decimal `json:"from_amount"`
	ToAmount     *decimal.Decimal `json:"to_amount"`
	Description  string           `json:"description"`
}

func (req createTransferRequest) amounts() (from, to decimal.Decimal, ok bool) {
	switch {
	case req.Amount != nil && req.FromAmount == nil && req.ToAmount == nil:
		return *req.Amount, *req.Amount, true
	case req.Amount == nil && req.FromAmount != nil && req.ToAmount != nil:
		return *req.FromAmount, *req.ToAmount, true
	}

	return decimal.Zero, decimal.Zero, false
}

func (h *Handler) createTransfer(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req createTransferRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	from, to, ok := req.amounts()
	if !ok {
		respond.BadRequest(w, "give either amount or both from_amount and to_amount")
		return
	}

	t, err := h.svc.CreateTransfer(r.Context(), actor, ledger.TransferParams{
		FromWalletID: req.FromWalletID,
		ToWalletID:   req.ToWalletID,
		FromAmount:   from,
		ToAmount:     to,
		Description:  req.Description,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toTransferResponse(t))
}

func (h *Handler) listTransfers(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	owner, ok := respond.OwnerFilter(w, r, actor)
	if !ok {
		return
	}

	transfers, err := h.svc.ListTransfers(r.Context(), actor, owner)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]transferResponse, len(transfers))
	for i, t := range transfers {
		resp[i] = toTransferResponse(t)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) getTransfer(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.svc.GetTransfer(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toTransferResponse(t))
}
