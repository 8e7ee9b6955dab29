package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

// Authorize lets the actor act on records of owner: their own, or a group's they
// belong to.
func (s *Service) Authorize(ctx context.Context, actor uuid.UUID, owner Owner) error {
	if owner.IsZero() {
		return apperr.New(apperr.KindValidation, "owner is required")
	}

	if userID, ok := owner.User(); ok {
		if userID != actor {
			return apperr.New(apperr.KindOwnership, "record belongs to another user")
		}

		return nil
	}

	groupID, _ := owner.Group()

	member, err := s.repo.IsMember(ctx, groupID, actor)
	if err != nil {
		return fmt.Errorf("checking membership: %w", err)
	}

	if !member {
		return apperr.Newf(apperr.KindNotGroupMember, "not a member of group %s", groupID)
	}

	return nil
}

// Scope builds the listing scope. With an explicit owner the listing is narrowed
// to it after authorization; otherwise it covers the actor and all their groups.
func (s *Service) Scope(ctx context.Context, actor uuid.UUID, owner *Owner) (Scope, error) {
	if owner != nil {
		if err := s.Authorize(ctx, actor, *owner); err != nil {
			return Scope{}, err
		}

		if groupID, ok := owner.Group(); ok {
			return Scope{GroupIDs: []uuid.UUID{groupID}}, nil
		}

		return Scope{UserID: actor}, nil
	}

	groups, err := s.repo.GroupIDsForUser(ctx, actor)
	if err != nil {
		return Scope{}, fmt.Errorf("listing groups: %w", err)
	}

	return Scope{UserID: actor, GroupIDs: groups}, nil
}
