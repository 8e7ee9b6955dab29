package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := apperr.Newf(apperr.KindInsufficientFunds, "wallet %s holds %s", "w1", "10.00")
	wrapped := fmt.Errorf("create expense: %w", err)

	assert.ErrorIs(t, wrapped, apperr.ErrInsufficientFunds)
	assert.NotErrorIs(t, wrapped, apperr.ErrInsufficientGroupBalance)
	assert.Equal(t, "wallet w1 holds 10.00", err.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(fmt.Errorf("x: %w", apperr.ErrNotFound)))
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(errors.New("boom")))
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(nil))
}

func TestKind_Code(t *testing.T) {
	assert.Equal(t, "last_admin_protected", apperr.KindLastAdminProtected.Code())
	assert.Equal(t, "internal", apperr.Kind(200).Code())
}
