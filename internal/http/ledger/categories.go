package ledger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/respond"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

func (h *Handler) CategoryRoutes(r chi.Router) {
	r.Post("/", h.createCategory)
	r.Get("/", h.listCategories)
	r.Get("/{id}", h.getCategory)
	r.Patch("/{id}", h.renameCategory)
	r.Delete("/{id}", h.deleteCategory)
}

type categoryResponse struct {
	ID uuid.UUID `json:"id"`
	ownerFields
	Name      string      `json:"name"`
	Kind      ledger.Kind `json:"kind"`
	CreatedAt time.Time   `json:"created_at"`
}

func toCategoryResponse(c *ledger.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		ownerFields: ownerOf(c.Owner),
		Name:        c.Name,
		Kind:        c.Kind,
		CreatedAt:   c.CreatedAt,
	}
}

type createCategoryRequest struct {
	GroupID *uuid.UUID  `json:"group_id"`
	Name    string      `json:"name"`
	Kind    ledger.Kind `json:"kind"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	var req createCategoryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), actor, ledger.CreateCategoryParams{
		Owner: respond.Owner(actor, req.GroupID),
		Name:  req.Name,
		Kind:  req.Kind,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toCategoryResponse(c))
}

// listCategories accepts ?kind=income|expense besides the owner filter.
func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	owner, ok := respond.OwnerFilter(w, r, actor)
	if !ok {
		return
	}

	categories, err := h.svc.ListCategories(r.Context(), actor, owner, ledger.Kind(r.URL.Query().Get("kind")))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.svc.GetCategory(r.Context(), actor, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toCategoryResponse(c))
}

type renameCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) renameCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	var req renameCategoryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.RenameCategory(r.Context(), actor, id, req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toCategoryResponse(c))
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	actor, ok := respond.Actor(w, r)
	if !ok {
		return
	}

	id, ok := respond.ID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), actor, id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.NoContent(w)
}
