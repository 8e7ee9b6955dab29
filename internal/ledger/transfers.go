package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

// TransferParams moves FromAmount out of one wallet and ToAmount into another.
// The amounts differ when the wallets hold different currencies.
type TransferParams struct {
	FromWalletID uuid.UUID
	ToWalletID   uuid.UUID
	FromAmount   decimal.Decimal
	ToAmount     decimal.Decimal
	Description  string
}

func (s *Service) CreateTransfer(ctx context.Context, actor uuid.UUID, params TransferParams) (*Transfer, error) {
	if params.FromWalletID == params.ToWalletID {
		return nil, apperr.New(apperr.KindValidation, "source and destination wallets must differ")
	}

	if err := ValidateAmount("from_amount", params.FromAmount); err != nil {
		return nil, err
	}

	if err := ValidateAmount("to_amount", params.ToAmount); err != nil {
		return nil, err
	}

	// Ownership never changes, so the pre-lock read is enough for authorization.
	if _, err := s.GetWallet(ctx, actor, params.FromWalletID); err != nil {
		return nil, err
	}

	if _, err := s.GetWallet(ctx, actor, params.ToWalletID); err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	wallets, err := tx.LockWallets(ctx, params.FromWalletID, params.ToWalletID)
	if err != nil {
		return nil, err
	}

	from, ok := wallets[params.FromWalletID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "wallet %s not found", params.FromWalletID)
	}

	to, ok := wallets[params.ToWalletID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "wallet %s not found", params.ToWalletID)
	}

	m := newMutation(wallets)
	if err := m.applyExpense(from.ID, params.FromAmount); err != nil {
		return nil, err
	}

	if err := m.applyIncome(to.ID, params.ToAmount); err != nil {
		return nil, err
	}

	if err := m.settle(); err != nil {
		return nil, err
	}

	t := &Transfer{
		FromWalletID: from.ID,
		ToWalletID:   to.ID,
		FromAmount:   params.FromAmount,
		ToAmount:     params.ToAmount,
		Description:  strings.TrimSpace(params.Description),
		CreatedBy:    actor,
	}
	if err := tx.CreateTransfer(ctx, t); err != nil {
		return nil, err
	}

	date := s.today()
	expense := &Entry{
		Kind:        KindExpense,
		Owner:       from.Owner,
		WalletID:    &from.ID,
		TransferID:  &t.ID,
		Amount:      params.FromAmount,
		Date:        date,
		Description: transferDescription(t, "to", to.Name),
		Managed:     true,
	}

	income := &Entry{
		Kind:        KindIncome,
		Owner:       to.Owner,
		WalletID:    &to.ID,
		TransferID:  &t.ID,
		Amount:      params.ToAmount,
		Date:        date,
		Description: transferDescription(t, "from", from.Name),
		Managed:     true,
	}

	for _, e := range []*Entry{expense, income} {
		if err := tx.CreateEntry(ctx, e); err != nil {
			return nil, err
		}
	}

	if err := m.persist(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	t.ExpenseID = expense.ID
	t.IncomeID = income.ID

	return t, nil
}

func (s *Service) GetTransfer(ctx context.Context, actor, id uuid.UUID) (*Transfer, error) {
	t, err := s.repo.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.canSeeTransfer(ctx, actor, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) ListTransfers(ctx context.Context, actor uuid.UUID, owner *Owner) ([]*Transfer, error) {
	scope, err := s.Scope(ctx, actor, owner)
	if err != nil {
		return nil, err
	}

	return s.repo.ListTransfers(ctx, scope)
}

// canSeeTransfer allows anyone with access to either side.
func (s *Service) canSeeTransfer(ctx context.Context, actor uuid.UUID, t *Transfer) error {
	var firstErr error

	for _, id := range []uuid.UUID{t.FromWalletID, t.ToWalletID} {
		_, err := s.GetWallet(ctx, actor, id)
		if err == nil {
			return nil
		}

		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func transferDescription(t *Transfer, direction, walletName string) string {
	if t.Description != "" {
		return t.Description
	}

	return fmt.Sprintf("Transfer %s %s", direction, walletName)
}
