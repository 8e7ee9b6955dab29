package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const ruleColumns = `id, user_id, group_id, pattern, category_id, created_at`

func scanRule(s scanner) (*matching.Rule, error) {
	var (
		r               matching.Rule
		userID, groupID *uuid.UUID
	)

	if err := s.Scan(&r.ID, &userID, &groupID, &r.Pattern, &r.CategoryID, &r.CreatedAt); err != nil {
		return nil, err
	}

	owner, err := ledger.OwnerFromColumns(userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", r.ID, err)
	}

	r.Owner = owner

	return &r, nil
}

func groupStrings(scope ledger.Scope) []string {
	out := make([]string, len(scope.GroupIDs))
	for i, id := range scope.GroupIDs {
		out[i] = id.String()
	}

	return out
}

func (s *Store) FindMatch(ctx context.Context, scope ledger.Scope, rawDescription string) (*matching.Rule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM category_rules
		WHERE (user_id = $1 OR group_id = ANY($2::uuid[]))
		  AND $3 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	r, err := scanRule(s.db.QueryRowContext(ctx, query, scope.UserID, groupStrings(scope), rawDescription))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return r, nil
}

func (s *Store) CreateRule(ctx context.Context, r *matching.Rule) error {
	userID, groupID := r.Owner.Columns()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO category_rules (user_id, group_id, pattern, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		userID, groupID, r.Pattern, r.CategoryID,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return database.Translate(err, "creating rule")
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context, scope ledger.Scope) ([]*matching.Rule, error) {
	query := `SELECT ` + ruleColumns + ` FROM category_rules
		WHERE user_id = $1 OR group_id = ANY($2::uuid[])
		ORDER BY pattern ASC`

	rows, err := s.db.QueryContext(ctx, query, scope.UserID, groupStrings(scope))
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*matching.Rule

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, r)
	}

	return rules, rows.Err()
}
