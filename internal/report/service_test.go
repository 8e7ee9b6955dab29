package report_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/report"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestService_MonthlySummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)
	scoper := report.NewMockScoper(ctrl)
	svc := report.NewService(repo, scoper)

	actor := uuid.New()
	scope := ledger.Scope{UserID: actor}

	scoper.EXPECT().Scope(gomock.Any(), actor, nil).Return(scope, nil)
	repo.EXPECT().MonthlyTotals(gomock.Any(), scope).Return([]report.Month{
		{Month: "2025-01", Income: dec("10"), Expense: dec("5")},
		{Month: "2025-02", Income: dec("100"), Expense: dec("40")},
		{Month: "2025-04", Income: dec("0"), Expense: dec("12.50")},
	}, nil)

	got, err := svc.MonthlySummary(context.Background(), actor, nil, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2025-02", got[0].Month)
	assert.True(t, dec("60").Equal(got[0].Net))
	assert.Equal(t, "2025-04", got[1].Month)
	assert.True(t, dec("-12.50").Equal(got[1].Net))
}

func TestService_MonthlySummary_NotMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	scoper := report.NewMockScoper(ctrl)
	svc := report.NewService(report.NewMockRepository(ctrl), scoper)

	owner := ledger.GroupOwner(uuid.New())
	scoper.EXPECT().Scope(gomock.Any(), gomock.Any(), &owner).Return(ledger.Scope{}, apperr.ErrNotGroupMember)

	_, err := svc.MonthlySummary(context.Background(), uuid.New(), &owner, 0)
	require.ErrorIs(t, err, apperr.ErrNotGroupMember)
}

func TestService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)
	scoper := report.NewMockScoper(ctrl)
	svc := report.NewService(repo, scoper)

	actor := uuid.New()
	scope := ledger.Scope{UserID: actor}
	food := uuid.New()

	scoper.EXPECT().Scope(gomock.Any(), actor, nil).Return(scope, nil)
	repo.EXPECT().Totals(gomock.Any(), scope).Return(report.Totals{
		WalletBalance: dec("250"),
		Income:        dec("1000"),
		Expense:       dec("300"),
	}, nil)
	repo.EXPECT().ExpensesByCategory(gomock.Any(), scope).Return([]report.CategoryShare{
		{CategoryID: &food, Name: "Food", Amount: dec("200")},
		{Name: "", Amount: dec("100")},
	}, nil)

	got, err := svc.Overview(context.Background(), actor, nil)
	require.NoError(t, err)

	assert.True(t, dec("700").Equal(got.Net))
	require.Len(t, got.Categories, 2)
	assert.Equal(t, 67, got.Categories[0].Percent)
	assert.Equal(t, report.UncategorizedName, got.Categories[1].Name)
	assert.Equal(t, 33, got.Categories[1].Percent)
}
