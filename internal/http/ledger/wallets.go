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

const uploadField = "file"

func (h *Handler) WalletRoutes(r chi.Router) {
	r.Post("/", h.createWallet)
	r.Get("/", h.listWallets)
	r.Get("/{id}", h.getWallet)
	r.Patch("/{id}", h.updateWallet)
	r.Delete("/{id}", h.deleteWallet)
	r.Post("/{id}/import", h.importStatement)
}

type walletResponse struct {
	ID uuid.UUID `json:"id"`
	ownerFields
	Name      string    `json:"name"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func toWalletResponse(w *ledger.Wallet) walletResponse {
	return walletResponse{
		ID:          w.ID,
		ownerFields: ownerOf(w.Owner),
		Name:        w.Name,
		Balance:     respond.Amount(w.Balance),
		CreatedAt:   w.CreatedAt,
	}
}

type createWalletRequest struct {
	GroupID *uuid.UUID      `json:"group_id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

func (h *Handler) createWallet(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req createWalletRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	wallet, err := h.svc.CreateWallet(r.Context(), actor, ledger.CreateWalletParams{
		Owner:   respond.Owner(actor, req.GroupID),
		Name:    req.Name,
		Balance: req.Balance,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toWalletResponse(wallet))
}

func (h *Handler) listWallets(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	owner, ok := respond.OwnerFilter(w, r, actor)
	if !ok {
		return
	}

	wallets, err := h.svc.ListWallets(r.Context(), actor, owner)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]walletResponse, len(wallets))
	for i, wallet := range wallets {
		resp[i] = toWalletResponse(wallet)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) getWallet(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	wallet, err := h.svc.GetWallet(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toWalletResponse(wallet))
}

type updateWalletRequest struct {
	Name    *string          `json:"name"`
	Balance *decimal.Decimal `json:"balance"`
}

func (h *Handler) updateWallet(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	var req updateWalletRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	wallet, err := h.svc.UpdateWallet(r.Context(), actor, id, ledger.UpdateWalletParams{
		Name:    req.Name,
		Balance: req.Balance,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toWalletResponse(wallet))
}

func (h *Handler) deleteWallet(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteWallet(r.Context(), actor, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.NoContent(w)
}

type importResponse struct {
	Imported []entryResponse `json:"imported"`
	Skipped  int             `json:"skipped"`
}

// importStatement takes the statement as multipart field "file".
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		respond.BadRequest(w, "statement file is required in field \""+uploadField+"\"")
		return
	}
	defer file.Close()

	result, err := h.importer.Import(r.Context(), actor, id, file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := importResponse{
		Imported: make([]entryResponse, len(result.Imported)),
		Skipped:  len(result.Skipped),
	}
	for i, e := range result.Imported {
		resp.Imported[i] = toEntryResponse(e)
	}

	respond.JSON(w, http.StatusCreated, resp)
}
