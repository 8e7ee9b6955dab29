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

// EntryRoutes mounts the incomes or the expenses resource.
func (h *Handler) EntryRoutes(kind ledger.Kind) func(r chi.Router) {
	e := entryHandler{Handler: h, kind: kind}

	return func(r chi.Router) {
		r.Post("/", e.create)
		r.Get("/", e.list)
		r.Get("/{id}", e.get)
		r.Patch("/{id}", e.update)
		r.Delete("/{id}", e.delete)
	}
}

type entryHandler struct {
	*Handler
	kind ledger.Kind
}

type entryResponse struct {
	ID   uuid.UUID   `json:"id"`
	Kind ledger.Kind `json:"kind"`
	ownerFields
	CategoryID  *uuid.UUID `json:"category_id"`
	WalletID    *uuid.UUID `json:"wallet_id"`
	TransferID  *uuid.UUID `json:"transfer_id,omitempty"`
	Amount      string     `json:"amount"`
	Date        string     `json:"date"`
	Description string     `json:"description"`
	Managed     bool       `json:"managed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func toEntryResponse(e *ledger.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Kind:        e.Kind,
		ownerFields: ownerOf(e.Owner),
		CategoryID:  e.CategoryID,
		WalletID:    e.WalletID,
		TransferID:  e.TransferID,
		Amount:      respond.Amount(e.Amount),
		Date:        dateOnly(e.Date),
		Description: e.Description,
		Managed:     e.Managed,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type createEntryRequest struct {
	GroupID     *uuid.UUID      `json:"group_id"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	WalletID    *uuid.UUID      `json:"wallet_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func (e entryHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req createEntryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	date, err := respond.Date(req.Date)
	if err != nil {
		respond.BadRequest(w, "date must be YYYY-MM-DD")
		return
	}

	entry, err := e.svc.CreateEntry(r.Context(), actor, e.kind, ledger.CreateEntryParams{
		Owner:       respond.Owner(actor, req.GroupID),
		CategoryID:  req.CategoryID,
		WalletID:    req.WalletID,
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toEntryResponse(entry))
}

// list accepts the owner filter plus wallet_id, start_date and end_date.
func (e entryHandler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	owner, ok := respond.OwnerFilter(w, r, actor)
	if !ok {
		return
	}

	params := ledger.ListEntriesParams{Owner: owner}

	if s := r.URL.Query().Get("wallet_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.BadRequest(w, "invalid wallet_id")
			return
		}

		params.WalletID = &id
	}

	if params.StartDate, ok = respond.DateQuery(w, r, "start_date"); !ok {
		return
	}

	if params.EndDate, ok = respond.DateQuery(w, r, "end_date"); !ok {
		return
	}

	entries, err := e.svc.ListEntries(r.Context(), actor, e.kind, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]entryResponse, len(entries))
	for i, entry := range entries {
		resp[i] = toEntryResponse(entry)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (e entryHandler) get(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	entry, err := e.svc.GetEntry(r.Context(), actor, e.kind, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toEntryResponse(entry))
}

// updateEntryRequest distinguishes an absent field from an explicit null only
// for the optional references: "category_id": null clears the category.
type updateEntryRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
	CategoryID  optionalID       `json:"category_id"`
	WalletID    optionalID       `json:"wallet_id"`
}

func (e entryHandler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	var req updateEntryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := ledger.UpdateEntryParams{
		Amount:        req.Amount,
		Description:   req.Description,
		CategoryID:    req.CategoryID.ID,
		ClearCategory: req.CategoryID.Set && req.CategoryID.ID == nil,
		WalletID:      req.WalletID.ID,
		ClearWallet:   req.WalletID.Set && req.WalletID.ID == nil,
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			respond.BadRequest(w, "date must be YYYY-MM-DD")
			return
		}

		params.Date = &date
	}

	entry, err := e.svc.UpdateEntry(r.Context(), actor, e.kind, id, params)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toEntryResponse(entry))
}

func (e entryHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	if err := e.svc.DeleteEntry(r.Context(), actor, e.kind, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.NoContent(w)
}
