package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/report"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const scopeFilter = `(user_id = $1 OR group_id = ANY($2::uuid[]))`

func scopeArgs(scope ledger.Scope) []any {
	groups := make([]string, len(scope.GroupIDs))
	for i, id := range scope.GroupIDs {
		groups[i] = id.String()
	}

	return []any{scope.UserID, groups}
}

func (s *Store) MonthlyTotals(ctx context.Context, scope ledger.Scope) ([]report.Month, error) {
	query := `
		SELECT month, SUM(income), SUM(expense)
		FROM (
			SELECT to_char(date, 'YYYY-MM') AS month, amount AS income, 0 AS expense
			FROM incomes WHERE ` + scopeFilter + `
			UNION ALL
			SELECT to_char(date, 'YYYY-MM'), 0, amount
			FROM expenses WHERE ` + scopeFilter + `
		) t
		GROUP BY month
		ORDER BY month ASC`

	rows, err := s.db.QueryContext(ctx, query, scopeArgs(scope)...)
	if err != nil {
		return nil, fmt.Errorf("summing by month: %w", err)
	}
	defer rows.Close()

	var months []report.Month

	for rows.Next() {
		var m report.Month
		if err := rows.Scan(&m.Month, &m.Income, &m.Expense); err != nil {
			return nil, fmt.Errorf("scanning month: %w", err)
		}

		months = append(months, m)
	}

	return months, rows.Err()
}

func (s *Store) Totals(ctx context.Context, scope ledger.Scope) (report.Totals, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(balance), 0) FROM wallets WHERE ` + scopeFilter + `),
			(SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE ` + scopeFilter + `),
			(SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE ` + scopeFilter + `)`

	var t report.Totals

	if err := s.db.QueryRowContext(ctx, query, scopeArgs(scope)...).Scan(&t.WalletBalance, &t.Income, &t.Expense); err != nil {
		return report.Totals{}, fmt.Errorf("summing totals: %w", err)
	}

	return t, nil
}

func (s *Store) ExpensesByCategory(ctx context.Context, scope ledger.Scope) ([]report.CategoryShare, error) {
	query := `
		SELECT e.category_id, COALESCE(c.name, ''), SUM(e.amount) AS total
		FROM expenses e
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE (e.user_id = $1 OR e.group_id = ANY($2::uuid[]))
		GROUP BY e.category_id, c.name
		ORDER BY total DESC`

	rows, err := s.db.QueryContext(ctx, query, scopeArgs(scope)...)
	if err != nil {
		return nil, fmt.Errorf("summing by category: %w", err)
	}
	defer rows.Close()

	var shares []report.CategoryShare

	for rows.Next() {
		var (
			c  report.CategoryShare
			id *uuid.UUID
		)

		if err := rows.Scan(&id, &c.Name, &c.Amount); err != nil {
			return nil, fmt.Errorf("scanning category total: %w", err)
		}

		c.CategoryID = id
		shares = append(shares, c)
	}

	return shares, rows.Err()
}
