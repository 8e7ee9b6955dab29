package matching_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/matching"
)

func TestService_Suggest(t *testing.T) {
	actor := uuid.New()
	owner := ledger.PersonalOwner(actor)
	scope := ledger.Scope{UserID: actor}
	category := uuid.New()

	type testCase struct {
		name      string
		raw       string
		setupMock func(repo *matching.MockRepository, l *matching.MockLedger)
		want      *uuid.UUID
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Match",
			raw:  "COMPRA CONTINENTE LISBOA",
			setupMock: func(repo *matching.MockRepository, l *matching.MockLedger) {
				l.EXPECT().Scope(gomock.Any(), actor, &owner).Return(scope, nil)
				repo.EXPECT().
					FindMatch(gomock.Any(), scope, "COMPRA CONTINENTE LISBOA").
					Return(&matching.Rule{Pattern: "continente", CategoryID: category}, nil)
			},
			want: &category,
		},
		{
			name: "NoMatch",
			raw:  "UNKNOWN",
			setupMock: func(repo *matching.MockRepository, l *matching.MockLedger) {
				l.EXPECT().Scope(gomock.Any(), actor, &owner).Return(scope, nil)
				repo.EXPECT().FindMatch(gomock.Any(), scope, "UNKNOWN").Return(nil, nil)
			},
		},
		{
			name: "EmptyDescription",
			raw:  "  ",
			setupMock: func(_ *matching.MockRepository, l *matching.MockLedger) {
				l.EXPECT().Scope(gomock.Any(), actor, &owner).Return(scope, nil)
			},
		},
		{
			name: "Unauthorized",
			raw:  "X",
			setupMock: func(_ *matching.MockRepository, l *matching.MockLedger) {
				l.EXPECT().Scope(gomock.Any(), actor, &owner).Return(ledger.Scope{}, apperr.ErrOwnership)
			},
			wantErr: apperr.ErrOwnership,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := matching.NewMockRepository(ctrl)
			l := matching.NewMockLedger(ctrl)
			tt.setupMock(repo, l)

			got, err := matching.NewService(repo, l).Suggest(context.Background(), actor, owner, tt.raw)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	actor := uuid.New()
	groupOwner := ledger.GroupOwner(uuid.New())
	personal := &ledger.Category{ID: uuid.New(), Owner: ledger.PersonalOwner(actor), Kind: ledger.KindExpense}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := matching.NewMockRepository(ctrl)
		l := matching.NewMockLedger(ctrl)

		l.EXPECT().GetCategory(gomock.Any(), actor, personal.ID).Return(personal, nil)
		repo.EXPECT().CreateRule(gomock.Any(), gomock.Any()).Return(nil)

		r, err := matching.NewService(repo, l).Learn(context.Background(), actor, matching.LearnParams{
			Owner: personal.Owner, Pattern: "  uber ", CategoryID: personal.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "uber", r.Pattern)
	})

	t.Run("CategoryOfAnotherOwner", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		l := matching.NewMockLedger(ctrl)

		l.EXPECT().GetCategory(gomock.Any(), actor, personal.ID).Return(personal, nil)

		_, err := matching.NewService(matching.NewMockRepository(ctrl), l).Learn(context.Background(), actor, matching.LearnParams{
			Owner: groupOwner, Pattern: "uber", CategoryID: personal.ID,
		})
		require.ErrorIs(t, err, apperr.ErrOwnership)
	})

	t.Run("EmptyPattern", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		_, err := matching.NewService(matching.NewMockRepository(ctrl), matching.NewMockLedger(ctrl)).Learn(context.Background(), actor, matching.LearnParams{
			Owner: personal.Owner, CategoryID: personal.ID,
		})
		require.ErrorIs(t, err, apperr.ErrValidation)
	})
}
