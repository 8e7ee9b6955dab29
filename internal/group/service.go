// Package group manages groups and their memberships, including the admin role
// guards that keep every group administrable.
package group

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=group
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	Get(ctx context.Context, id uuid.UUID) (*Group, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*Group, error)
	// Membership returns apperr.ErrNotFound when the user is not in the group.
	Membership(ctx context.Context, groupID, userID uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*Member, error)
}

// Tx serializes membership changes of one group behind its row lock.
type Tx interface {
	Create(ctx context.Context, g *Group) error
	Update(ctx context.Context, g *Group) error
	Delete(ctx context.Context, id uuid.UUID) error

	LockGroup(ctx context.Context, id uuid.UUID) (*Group, error)
	Membership(ctx context.Context, groupID, userID uuid.UUID) (*Member, error)
	AddMember(ctx context.Context, m *Member) error
	SetRole(ctx context.Context, groupID, userID uuid.UUID, role Role) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	CountAdmins(ctx context.Context, groupID uuid.UUID) (int, error)

	Commit() error
	Rollback() error
}

// UserDirectory resolves users invited by email.
type UserDirectory interface {
	UserIDByEmail(ctx context.Context, email string) (uuid.UUID, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

type CreateParams struct {
	Name        string
	Description string
}

type UpdateParams struct {
	Name        *string
	Description *string
}

// Create makes the actor the creator and first admin of a new group.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, params CreateParams) (*Group, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "group name is required")
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	g := &Group{
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		CreatedBy:   &actor,
	}
	if err := tx.Create(ctx, g); err != nil {
		return nil, err
	}

	if err := tx.AddMember(ctx, &Member{GroupID: g.ID, UserID: actor, Role: RoleAdmin}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return g, nil
}

func (s *Service) Get(ctx context.Context, actor, id uuid.UUID) (*Group, error) {
	if _, err := s.membership(ctx, id, actor); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// List returns only the groups the actor belongs to.
func (s *Service) List(ctx context.Context, actor uuid.UUID) ([]*Group, error) {
	return s.repo.ListForUser(ctx, actor)
}

func (s *Service) Update(ctx context.Context, actor, id uuid.UUID, params UpdateParams) (*Group, error) {
	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, apperr.New(apperr.KindValidation, "group name is required")
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	g, err := s.lockAsAdmin(ctx, tx, id, actor)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		g.Name = strings.TrimSpace(*params.Name)
	}

	if params.Description != nil {
		g.Description = strings.TrimSpace(*params.Description)
	}

	if err := tx.Update(ctx, g); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return g, nil
}

// Delete removes the group with its memberships and group-owned records.
func (s *Service) Delete(ctx context.Context, actor, id uuid.UUID) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.lockAsAdmin(ctx, tx, id, actor); err != nil {
		return err
	}

	if err := tx.Delete(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Service) ListMembers(ctx context.Context, actor, groupID uuid.UUID) ([]*Member, error) {
	if _, err := s.membership(ctx, groupID, actor); err != nil {
		return nil, err
	}

	return s.repo.ListMembers(ctx, groupID)
}

// AddMember invites a registered user by email. Only admins may add members.
func (s *Service) AddMember(ctx context.Context, actor, groupID uuid.UUID, email string, role Role) (*Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.New(apperr.KindValidation, "email is required")
	}

	if role == "" {
		role = RoleMember
	}

	if !role.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown role %q", role)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.lockAsAdmin(ctx, tx, groupID, actor); err != nil {
		return nil, err
	}

	userID, err := s.users.UserIDByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	_, err = tx.Membership(ctx, groupID, userID)
	switch {
	case err == nil:
		return nil, apperr.Newf(apperr.KindDuplicateName, "%s is already a member", email)
	case !errors.Is(err, apperr.ErrNotFound):
		return nil, err
	}

	m := &Member{GroupID: groupID, UserID: userID, Email: email, Role: role}
	if err := tx.AddMember(ctx, m); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return m, nil
}

// ChangeRole moves target between member and admin. Demoting the group's creator
// fails with CreatorProtected, demoting the last admin with LastAdminProtected.
func (s *Service) ChangeRole(ctx context.Context, actor, groupID, target uuid.UUID, role Role) (*Member, error) {
	if !role.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown role %q", role)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	g, err := s.lockAsAdmin(ctx, tx, groupID, actor)
	if err != nil {
		return nil, err
	}

	m, err := tx.Membership(ctx, groupID, target)
	if err != nil {
		return nil, err
	}

	if m.Role == role {
		return m, nil
	}

	if m.Role == RoleAdmin {
		if err := guardAdminLoss(ctx, tx, g, target); err != nil {
			return nil, err
		}
	}

	if err := tx.SetRole(ctx, groupID, target, role); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	m.Role = role

	return m, nil
}

// RemoveMember lets admins remove others and any member leave. The creator and
// the last admin cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, actor, groupID, target uuid.UUID) error {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var g *Group

	if actor == target {
		if g, err = tx.LockGroup(ctx, groupID); err != nil {
			return err
		}
	} else if g, err = s.lockAsAdmin(ctx, tx, groupID, actor); err != nil {
		return err
	}

	m, err := tx.Membership(ctx, groupID, target)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) && actor == target {
			return apperr.Newf(apperr.KindNotGroupMember, "not a member of group %s", groupID)
		}

		return err
	}

	if m.Role == RoleAdmin {
		if err := guardAdminLoss(ctx, tx, g, target); err != nil {
			return err
		}
	} else if g.IsCreator(target) {
		return apperr.New(apperr.KindCreatorProtected, "the group creator cannot leave the group")
	}

	if err := tx.RemoveMember(ctx, groupID, target); err != nil {
		return err
	}

	return tx.Commit()
}

// guardAdminLoss checks that target may stop being an admin of g.
func guardAdminLoss(ctx context.Context, tx Tx, g *Group, target uuid.UUID) error {
	if g.IsCreator(target) {
		return apperr.ErrCreatorProtected
	}

	admins, err := tx.CountAdmins(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("counting admins: %w", err)
	}

	if admins <= 1 {
		return apperr.ErrLastAdminProtected
	}

	return nil
}

// lockAsAdmin locks the group row and requires the actor to be one of its admins.
func (s *Service) lockAsAdmin(ctx context.Context, tx Tx, groupID, actor uuid.UUID) (*Group, error) {
	g, err := tx.LockGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	m, err := tx.Membership(ctx, groupID, actor)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotGroupMember, "not a member of group %s", groupID)
		}

		return nil, err
	}

	if m.Role != RoleAdmin {
		return nil, apperr.New(apperr.KindPermissionDenied, "only group admins can do this")
	}

	return g, nil
}

func (s *Service) membership(ctx context.Context, groupID, userID uuid.UUID) (*Member, error) {
	m, err := s.repo.Membership(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotGroupMember, "not a member of group %s", groupID)
		}

		return nil, err
	}

	return m, nil
}
