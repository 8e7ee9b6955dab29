package ledger

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

type CreateCategoryParams struct {
	Owner Owner
	Name  string
	Kind  Kind
}

func (s *Service) CreateCategory(ctx context.Context, actor uuid.UUID, params CreateCategoryParams) (*Category, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "category name is required")
	}

	if !params.Kind.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown category kind %q", params.Kind)
	}

	if err := s.Authorize(ctx, actor, params.Owner); err != nil {
		return nil, err
	}

	c := &Category{Owner: params.Owner, Name: name, Kind: params.Kind}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) RenameCategory(ctx context.Context, actor, id uuid.UUID, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "category name is required")
	}

	c, err := s.GetCategory(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	c.Name = name
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, actor, id); err != nil {
		return err
	}

	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) GetCategory(ctx context.Context, actor, id uuid.UUID) (*Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, actor, c.Owner); err != nil {
		return nil, err
	}

	return c, nil
}

// ListCategories lists visible categories; an empty kind lists both.
func (s *Service) ListCategories(ctx context.Context, actor uuid.UUID, owner *Owner, kind Kind) ([]*Category, error) {
	if kind != "" && !kind.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown category kind %q", kind)
	}

	scope, err := s.Scope(ctx, actor, owner)
	if err != nil {
		return nil, err
	}

	return s.repo.ListCategories(ctx, scope, kind)
}

// checkCategory verifies an entry may use the category.
func (s *Service) checkCategory(ctx context.Context, e *Entry) error {
	if e.CategoryID == nil {
		return nil
	}

	c, err := s.repo.GetCategory(ctx, *e.CategoryID)
	if err != nil {
		return err
	}

	if c.Owner != e.Owner {
		return apperr.New(apperr.KindOwnership, "category belongs to a different owner")
	}

	if c.Kind != e.Kind {
		return apperr.Newf(apperr.KindValidation, "category %q is for %s records", c.Name, c.Kind)
	}

	return nil
}
