// Package report aggregates incomes and expenses for dashboards.
package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

const (
	defaultMonths = 6
	maxMonths     = 120
)

// UncategorizedName labels expenses without a category.
const UncategorizedName = "Uncategorized"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	// MonthlyTotals returns one row per YYYY-MM with any entry, ascending.
	MonthlyTotals(ctx context.Context, scope ledger.Scope) ([]Month, error)
	Totals(ctx context.Context, scope ledger.Scope) (Totals, error)
	ExpensesByCategory(ctx context.Context, scope ledger.Scope) ([]CategoryShare, error)
}

// Scoper authorizes the actor and builds the listing scope.
type Scoper interface {
	Scope(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) (ledger.Scope, error)
}

type Month struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

type Totals struct {
	WalletBalance decimal.Decimal
	Income        decimal.Decimal
	Expense       decimal.Decimal
}

type CategoryShare struct {
	CategoryID *uuid.UUID
	Name       string
	Amount     decimal.Decimal
	Percent    int
}

type Overview struct {
	Totals
	Net        decimal.Decimal
	Categories []CategoryShare
}

type Service struct {
	repo   Repository
	scoper Scoper
}

func NewService(repo Repository, scoper Scoper) *Service {
	return &Service{repo: repo, scoper: scoper}
}

// MonthlySummary returns the last months that have activity, oldest first.
func (s *Service) MonthlySummary(ctx context.Context, actor uuid.UUID, owner *ledger.Owner, months int) ([]Month, error) {
	if months <= 0 {
		months = defaultMonths
	}

	months = min(months, maxMonths)

	scope, err := s.scoper.Scope(ctx, actor, owner)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.MonthlyTotals(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading monthly totals: %w", err)
	}

	if len(all) > months {
		all = all[len(all)-months:]
	}

	for i := range all {
		all[i].Net = all[i].Income.Sub(all[i].Expense)
	}

	return all, nil
}

func (s *Service) Overview(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) (*Overview, error) {
	scope, err := s.scoper.Scope(ctx, actor, owner)
	if err != nil {
		return nil, err
	}

	totals, err := s.repo.Totals(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading totals: %w", err)
	}

	categories, err := s.repo.ExpensesByCategory(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading category breakdown: %w", err)
	}

	sum := decimal.Zero
	for _, c := range categories {
		sum = sum.Add(c.Amount)
	}

	hundred := decimal.NewFromInt(100)

	for i := range categories {
		if categories[i].Name == "" {
			categories[i].Name = UncategorizedName
		}

		if sum.IsPositive() {
			categories[i].Percent = int(categories[i].Amount.Div(sum).Mul(hundred).Round(0).IntPart())
		}
	}

	return &Overview{
		Totals:     totals,
		Net:        totals.Income.Sub(totals.Expense),
		Categories: categories,
	}, nil
}
