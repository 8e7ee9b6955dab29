// Package apperr defines the business error taxonomy shared by the services.
//
// Every failure a caller can act on carries a Kind. Sentinels exist per kind so
// callers can match with errors.Is regardless of the message:
//
//	if errors.Is(err, apperr.ErrInsufficientFunds) { ... }
package apperr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindOwnership
	KindInsufficientFunds
	KindInsufficientGroupBalance
	KindGroupHasNoFunds
	KindNotGroupMember
	KindPermissionDenied
	KindLastAdminProtected
	KindCreatorProtected
	KindReferentialConflict
	KindDuplicateName
	KindNotFound
)

var kindCodes = map[Kind]string{
	KindUnknown:                  "internal",
	KindValidation:               "validation_error",
	KindOwnership:                "ownership_violation",
	KindInsufficientFunds:        "insufficient_funds",
	KindInsufficientGroupBalance: "insufficient_group_balance",
	KindGroupHasNoFunds:          "group_has_no_funds",
	KindNotGroupMember:           "not_group_member",
	KindPermissionDenied:         "permission_denied",
	KindLastAdminProtected:       "last_admin_protected",
	KindCreatorProtected:         "creator_protected",
	KindReferentialConflict:      "referential_conflict",
	KindDuplicateName:            "duplicate_name",
	KindNotFound:                 "not_found",
}

// Code is the stable machine-readable name of the kind.
func (k Kind) Code() string {
	if c, ok := kindCodes[k]; ok {
		return c
	}

	return kindCodes[KindUnknown]
}

func (k Kind) String() string { return k.Code() }

// Error is a classified business failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Code()
	}

	return e.Msg
}

// Is reports a match on kind, so any *Error of the same kind matches a sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

var (
	ErrValidation               = New(KindValidation, "validation error")
	ErrOwnership                = New(KindOwnership, "ownership violation")
	ErrInsufficientFunds        = New(KindInsufficientFunds, "insufficient funds")
	ErrInsufficientGroupBalance = New(KindInsufficientGroupBalance, "insufficient group balance")
	ErrGroupHasNoFunds          = New(KindGroupHasNoFunds, "group has no funds")
	ErrNotGroupMember           = New(KindNotGroupMember, "not a group member")
	ErrPermissionDenied         = New(KindPermissionDenied, "permission denied")
	ErrLastAdminProtected       = New(KindLastAdminProtected, "the last admin of a group cannot be demoted")
	ErrCreatorProtected         = New(KindCreatorProtected, "the group creator cannot be demoted")
	ErrReferentialConflict      = New(KindReferentialConflict, "record is still referenced")
	ErrDuplicateName            = New(KindDuplicateName, "name already in use")
	ErrNotFound                 = New(KindNotFound, "not found")
)
