// Package respond holds the JSON helpers shared by the HTTP handlers.
package respond

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: apperr.KindValidation.Code(), Message: msg})
}

// Error writes err with the status of its kind. Unclassified errors are logged
// and hidden from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)

	if kind == apperr.KindUnknown {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, status, errorBody{Error: kind.Code(), Message: "internal error"})

		return
	}

	var e *apperr.Error
	errors.As(err, &e)

	JSON(w, status, errorBody{Error: kind.Code(), Message: e.Error()})
}

func StatusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindOwnership, apperr.KindPermissionDenied, apperr.KindNotGroupMember:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindReferentialConflict, apperr.KindDuplicateName,
		apperr.KindLastAdminProtected, apperr.KindCreatorProtected:
		return http.StatusConflict
	case apperr.KindInsufficientFunds, apperr.KindInsufficientGroupBalance, apperr.KindGroupHasNoFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into v, answering 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			BadRequest(w, "request body is required")
		} else {
			BadRequest(w, "invalid request body: "+err.Error())
		}

		return false
	}

	return true
}

// ID parses the named path parameter as a uuid, answering 400 on failure.
func ID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		BadRequest(w, "invalid "+param)
		return uuid.Nil, false
	}

	return id, true
}

// Actor returns the authenticated user, answering 401 when there is none.
func Actor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		JSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized", Message: auth.ErrMissingToken.Error()})
		return uuid.Nil, false
	}

	return actor, true
}

// Amount renders money with exactly two fractional digits.
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Owner builds the owner of a new record: the group when groupID is set, the
// actor otherwise.
func Owner(actor uuid.UUID, groupID *uuid.UUID) ledger.Owner {
	if groupID != nil {
		return ledger.GroupOwner(*groupID)
	}

	return ledger.PersonalOwner(actor)
}

// OwnerFilter reads the optional listing filter: ?group_id=<id> narrows to a
// group and ?personal=true to the actor's own records. Without either the
// listing is unfiltered.
func OwnerFilter(w http.ResponseWriter, r *http.Request, actor uuid.UUID) (*ledger.Owner, bool) {
	q := r.URL.Query()

	if s := q.Get("group_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			BadRequest(w, "invalid group_id")
			return nil, false
		}

		o := ledger.GroupOwner(id)

		return &o, true
	}

	if q.Get("personal") == "true" {
		o := ledger.PersonalOwner(actor)
		return &o, true
	}

	return nil, true
}

// Date parses an optional YYYY-MM-DD value; empty means zero.
func Date(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	return time.Parse(time.DateOnly, s)
}

// DateQuery parses an optional YYYY-MM-DD query parameter, answering 400 on failure.
func DateQuery(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, true
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		BadRequest(w, "invalid "+name+": expected YYYY-MM-DD")
		return nil, false
	}

	return &t, true
}
