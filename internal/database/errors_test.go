package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind apperr.Kind
	}{
		{name: "NoRows", err: sql.ErrNoRows, wantKind: apperr.KindNotFound},
		{name: "WrappedNoRows", err: fmt.Errorf("scan: %w", sql.ErrNoRows), wantKind: apperr.KindNotFound},
		{name: "Unique", err: &pgconn.PgError{Code: "23505"}, wantKind: apperr.KindDuplicateName},
		{name: "ForeignKey", err: &pgconn.PgError{Code: "23503"}, wantKind: apperr.KindReferentialConflict},
		{name: "Check", err: &pgconn.PgError{Code: "23514", ConstraintName: "wallets_balance_check"}, wantKind: apperr.KindValidation},
		{name: "OtherPgError", err: &pgconn.PgError{Code: "40001"}, wantKind: apperr.KindUnknown},
		{name: "Plain", err: errors.New("connection reset"), wantKind: apperr.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err, "saving wallet")
			require.Error(t, got)
			assert.Equal(t, tt.wantKind, apperr.KindOf(got))
		})
	}

	assert.NoError(t, Translate(nil, "anything"))

	plain := errors.New("boom")
	assert.ErrorIs(t, Translate(plain, "x"), plain)
}
