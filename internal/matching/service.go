// Package matching suggests categories for raw statement descriptions from
// learned rules.
package matching

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// Rule maps descriptions containing Pattern (case-insensitive) to a category.
type Rule struct {
	ID         uuid.UUID
	Owner      ledger.Owner
	Pattern    string
	CategoryID uuid.UUID
	CreatedAt  time.Time
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns the longest matching rule in scope, or nil.
	FindMatch(ctx context.Context, scope ledger.Scope, rawDescription string) (*Rule, error)
	CreateRule(ctx context.Context, r *Rule) error
	ListRules(ctx context.Context, scope ledger.Scope) ([]*Rule, error)
}

// Ledger is the slice of the ledger service rules depend on.
type Ledger interface {
	Scope(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) (ledger.Scope, error)
	GetCategory(ctx context.Context, actor, id uuid.UUID) (*ledger.Category, error)
}

type Service struct {
	repo   Repository
	ledger Ledger
}

func NewService(repo Repository, l Ledger) *Service {
	return &Service{repo: repo, ledger: l}
}

// Suggest returns the category of the best rule of owner matching rawDescription,
// or nil when no rule matches.
func (s *Service) Suggest(ctx context.Context, actor uuid.UUID, owner ledger.Owner, rawDescription string) (*uuid.UUID, error) {
	scope, err := s.ledger.Scope(ctx, actor, &owner)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(rawDescription) == "" {
		return nil, nil
	}

	rule, err := s.repo.FindMatch(ctx, scope, rawDescription)
	if err != nil || rule == nil {
		return nil, err
	}

	return &rule.CategoryID, nil
}

type LearnParams struct {
	Owner      ledger.Owner
	Pattern    string
	CategoryID uuid.UUID
}

// Learn remembers that descriptions containing Pattern belong to CategoryID.
func (s *Service) Learn(ctx context.Context, actor uuid.UUID, params LearnParams) (*Rule, error) {
	pattern := strings.TrimSpace(params.Pattern)
	if pattern == "" {
		return nil, apperr.New(apperr.KindValidation, "pattern is required")
	}

	c, err := s.ledger.GetCategory(ctx, actor, params.CategoryID)
	if err != nil {
		return nil, err
	}

	if c.Owner != params.Owner {
		return nil, apperr.New(apperr.KindOwnership, "category belongs to a different owner")
	}

	r := &Rule{Owner: params.Owner, Pattern: pattern, CategoryID: c.ID}
	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) List(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) ([]*Rule, error) {
	scope, err := s.ledger.Scope(ctx, actor, owner)
	if err != nil {
		return nil, err
	}

	return s.repo.ListRules(ctx, scope)
}
