package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

type CreateWalletParams struct {
	Owner   Owner
	Name    string
	Balance decimal.Decimal
}

type UpdateWalletParams struct {
	Name    *string
	Balance *decimal.Decimal
}

func (s *Service) CreateWallet(ctx context.Context, actor uuid.UUID, params CreateWalletParams) (*Wallet, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.New(apperr.KindValidation, "wallet name is required")
	}

	if err := ValidateBalance("balance", params.Balance); err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, actor, params.Owner); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if groupID, ok := params.Owner.Group(); ok {
		if err := tx.LockGroup(ctx, groupID); err != nil {
			return nil, fmt.Errorf("locking group: %w", err)
		}

		if err := checkWalletCapacity(ctx, tx, groupID, nil, params.Balance); err != nil {
			return nil, err
		}
	}

	w := &Wallet{
		Owner:   params.Owner,
		Name:    name,
		Balance: params.Balance,
		Opening: params.Balance,
	}
	if err := tx.CreateWallet(ctx, w); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return w, nil
}

// UpdateWallet renames a wallet and/or sets its balance directly. A direct balance
// edit shifts Opening by the same delta so reconciliation stays exact.
func (s *Service) UpdateWallet(ctx context.Context, actor, id uuid.UUID, params UpdateWalletParams) (*Wallet, error) {
	current, err := s.GetWallet(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, apperr.New(apperr.KindValidation, "wallet name is required")
	}

	if params.Balance != nil {
		if err := ValidateBalance("balance", *params.Balance); err != nil {
			return nil, err
		}
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	groupID, isGroup := current.Owner.Group()
	if isGroup {
		if err := tx.LockGroup(ctx, groupID); err != nil {
			return nil, fmt.Errorf("locking group: %w", err)
		}
	}

	wallets, err := tx.LockWallets(ctx, id)
	if err != nil {
		return nil, err
	}

	w, ok := wallets[id]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "wallet %s not found", id)
	}

	if params.Name != nil {
		w.Name = strings.TrimSpace(*params.Name)
	}

	if params.Balance != nil {
		if isGroup {
			if err := checkWalletCapacity(ctx, tx, groupID, &id, *params.Balance); err != nil {
				return nil, err
			}
		}

		w.Opening = w.Opening.Add(params.Balance.Sub(w.Balance))
		w.Balance = *params.Balance
	}

	if err := tx.UpdateWallet(ctx, w); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return w, nil
}

// DeleteWallet is blocked while a transfer or contribution references the wallet.
func (s *Service) DeleteWallet(ctx context.Context, actor, id uuid.UUID) error {
	if _, err := s.GetWallet(ctx, actor, id); err != nil {
		return err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.LockWallets(ctx, id); err != nil {
		return err
	}

	referenced, err := tx.WalletReferenced(ctx, id)
	if err != nil {
		return fmt.Errorf("checking wallet references: %w", err)
	}

	if referenced {
		return apperr.New(apperr.KindReferentialConflict, "wallet is referenced by a transfer or contribution")
	}

	if err := tx.DeleteWallet(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Service) GetWallet(ctx context.Context, actor, id uuid.UUID) (*Wallet, error) {
	w, err := s.repo.GetWallet(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.Authorize(ctx, actor, w.Owner); err != nil {
		return nil, err
	}

	return w, nil
}

func (s *Service) ListWallets(ctx context.Context, actor uuid.UUID, owner *Owner) ([]*Wallet, error) {
	scope, err := s.Scope(ctx, actor, owner)
	if err != nil {
		return nil, err
	}

	return s.repo.ListWallets(ctx, scope)
}
