package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

type CreateEntryParams struct {
	Owner       Owner
	CategoryID  *uuid.UUID
	WalletID    *uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
}

// UpdateEntryParams carries the fields to change. Clear* drops an optional
// reference; it wins over a new id for the same field.
type UpdateEntryParams struct {
	Amount        *decimal.Decimal
	Date          *time.Time
	Description   *string
	CategoryID    *uuid.UUID
	ClearCategory bool
	WalletID      *uuid.UUID
	ClearWallet   bool
}

// CreateEntry records an income or expense and applies its effect to the wallet.
func (s *Service) CreateEntry(ctx context.Context, actor uuid.UUID, kind Kind, params CreateEntryParams) (*Entry, error) {
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown entry kind %q", kind)
	}

	e := &Entry{
		Kind:        kind,
		Owner:       params.Owner,
		CategoryID:  params.CategoryID,
		WalletID:    params.WalletID,
		Amount:      params.Amount,
		Date:        params.Date,
		Description: strings.TrimSpace(params.Description),
	}

	if e.Date.IsZero() {
		e.Date = s.today()
	}

	if err := ValidateAmount("amount", e.Amount); err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, actor, e.Owner); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, e); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	m, err := s.lockForEntries(ctx, tx, e.Owner, e.WalletID)
	if err != nil {
		return nil, err
	}

	if e.WalletID != nil {
		if err := m.apply(kind, *e.WalletID, e.Amount); err != nil {
			return nil, err
		}
	}

	if groupID, ok := e.Owner.Group(); ok {
		if err := checkCapacityDelta(ctx, tx, groupID, capacityEffect(e)); err != nil {
			return nil, err
		}
	}

	if err := m.settle(); err != nil {
		return nil, err
	}

	if err := tx.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	if err := m.persist(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return e, nil
}

// UpdateEntry reverts the stored effect, then applies the new one. Amount and
// wallet may change independently, including moving the effect to another wallet.
func (s *Service) UpdateEntry(ctx context.Context, actor uuid.UUID, kind Kind, id uuid.UUID, params UpdateEntryParams) (*Entry, error) {
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown entry kind %q", kind)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	old, err := tx.GetEntryForUpdate(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, actor, old.Owner); err != nil {
		return nil, err
	}

	if old.Managed {
		return nil, apperr.New(apperr.KindValidation, "entry belongs to a transfer or contribution and cannot be edited directly")
	}

	next := *old
	params.applyTo(&next)

	if err := ValidateAmount("amount", next.Amount); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, &next); err != nil {
		return nil, err
	}

	m, err := s.lockForEntries(ctx, tx, old.Owner, old.WalletID, next.WalletID)
	if err != nil {
		return nil, err
	}

	if old.WalletID != nil {
		if err := m.revert(kind, *old.WalletID, old.Amount); err != nil {
			return nil, err
		}
	}

	if next.WalletID != nil {
		if err := m.apply(kind, *next.WalletID, next.Amount); err != nil {
			return nil, err
		}
	}

	if groupID, ok := old.Owner.Group(); ok {
		delta := capacityEffect(&next).Sub(capacityEffect(old))
		if err := checkCapacityDelta(ctx, tx, groupID, delta); err != nil {
			return nil, err
		}
	}

	if err := m.settle(); err != nil {
		return nil, err
	}

	if err := tx.UpdateEntry(ctx, &next); err != nil {
		return nil, err
	}

	if err := m.persist(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &next, nil
}

// DeleteEntry reverts the stored effect and removes the record.
func (s *Service) DeleteEntry(ctx context.Context, actor uuid.UUID, kind Kind, id uuid.UUID) error {
	if !kind.Valid() {
		return apperr.Newf(apperr.KindValidation, "unknown entry kind %q", kind)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	old, err := tx.GetEntryForUpdate(ctx, kind, id)
	if err != nil {
		return err
	}

	if err := s.Authorize(ctx, actor, old.Owner); err != nil {
		return err
	}

	if old.Managed {
		return apperr.New(apperr.KindValidation, "entry belongs to a transfer or contribution and cannot be deleted directly")
	}

	m, err := s.lockForEntries(ctx, tx, old.Owner, old.WalletID)
	if err != nil {
		return err
	}

	if old.WalletID != nil {
		if err := m.revert(kind, *old.WalletID, old.Amount); err != nil {
			return err
		}
	}

	if groupID, ok := old.Owner.Group(); ok {
		if err := checkCapacityDelta(ctx, tx, groupID, capacityEffect(old).Neg()); err != nil {
			return err
		}
	}

	if err := m.settle(); err != nil {
		return err
	}

	if err := tx.DeleteEntry(ctx, kind, id); err != nil {
		return err
	}

	if err := m.persist(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Service) GetEntry(ctx context.Context, actor uuid.UUID, kind Kind, id uuid.UUID) (*Entry, error) {
	e, err := s.repo.GetEntry(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, actor, e.Owner); err != nil {
		return nil, err
	}

	return e, nil
}

type ListEntriesParams struct {
	Owner     *Owner
	WalletID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) ListEntries(ctx context.Context, actor uuid.UUID, kind Kind, params ListEntriesParams) ([]*Entry, error) {
	if !kind.Valid() {
		return nil, apperr.Newf(apperr.KindValidation, "unknown entry kind %q", kind)
	}

	scope, err := s.Scope(ctx, actor, params.Owner)
	if err != nil {
		return nil, err
	}

	return s.repo.ListEntries(ctx, EntryFilter{
		Scope:     scope,
		Kind:      kind,
		WalletID:  params.WalletID,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
	})
}

// lockForEntries takes the group lock for group owners, then locks the wallets,
// and checks every wallet belongs to owner.
func (s *Service) lockForEntries(ctx context.Context, tx Tx, owner Owner, walletIDs ...*uuid.UUID) (*mutation, error) {
	if groupID, ok := owner.Group(); ok {
		if err := tx.LockGroup(ctx, groupID); err != nil {
			return nil, fmt.Errorf("locking group: %w", err)
		}
	}

	ids := uniqueIDs(walletIDs...)

	wallets, err := tx.LockWallets(ctx, ids...)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		w, ok := wallets[id]
		if !ok {
			return nil, apperr.Newf(apperr.KindNotFound, "wallet %s not found", id)
		}

		if w.Owner != owner {
			return nil, apperr.Newf(apperr.KindOwnership, "wallet %q belongs to a different owner", w.Name)
		}
	}

	return newMutation(wallets), nil
}

func (p UpdateEntryParams) applyTo(e *Entry) {
	if p.Amount != nil {
		e.Amount = *p.Amount
	}

	if p.Date != nil {
		e.Date = *p.Date
	}

	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}

	if p.CategoryID != nil {
		e.CategoryID = p.CategoryID
	}

	if p.ClearCategory {
		e.CategoryID = nil
	}

	if p.WalletID != nil {
		e.WalletID = p.WalletID
	}

	if p.ClearWallet {
		e.WalletID = nil
	}
}
