package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

// mutation is the Balance Mutator working set: wallets locked inside one Tx,
// changed in memory and written back only once every check has passed.
type mutation struct {
	wallets map[uuid.UUID]*Wallet
	touched map[uuid.UUID]bool
}

func newMutation(wallets map[uuid.UUID]*Wallet) *mutation {
	return &mutation{wallets: wallets, touched: make(map[uuid.UUID]bool)}
}

func (m *mutation) wallet(id uuid.UUID) (*Wallet, error) {
	w, ok := m.wallets[id]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "wallet %s not found", id)
	}

	return w, nil
}

func (m *mutation) applyIncome(walletID uuid.UUID, amount decimal.Decimal) error {
	w, err := m.wallet(walletID)
	if err != nil {
		return err
	}

	w.Balance = w.Balance.Add(amount)
	m.touched[walletID] = true

	return nil
}

func (m *mutation) applyExpense(walletID uuid.UUID, amount decimal.Decimal) error {
	w, err := m.wallet(walletID)
	if err != nil {
		return err
	}

	if w.Balance.LessThan(amount) {
		return insufficientFunds(w, amount)
	}

	w.Balance = w.Balance.Sub(amount)
	m.touched[walletID] = true

	return nil
}

func (m *mutation) apply(kind Kind, walletID uuid.UUID, amount decimal.Decimal) error {
	if kind == KindIncome {
		return m.applyIncome(walletID, amount)
	}

	return m.applyExpense(walletID, amount)
}

// revert is the exact inverse of apply. The balance may go negative here; settle
// rejects the mutation if it stays that way.
func (m *mutation) revert(kind Kind, walletID uuid.UUID, amount decimal.Decimal) error {
	w, err := m.wallet(walletID)
	if err != nil {
		return err
	}

	if kind == KindIncome {
		w.Balance = w.Balance.Sub(amount)
	} else {
		w.Balance = w.Balance.Add(amount)
	}

	m.touched[walletID] = true

	return nil
}

// settle verifies no touched wallet ends below zero.
func (m *mutation) settle() error {
	for id := range m.touched {
		w := m.wallets[id]
		if w.Balance.IsNegative() {
			return apperr.Newf(apperr.KindInsufficientFunds,
				"wallet %q would end with a negative balance of %s", w.Name, w.Balance.StringFixed(2))
		}
	}

	return nil
}

// persist writes every touched wallet back through the Tx.
func (m *mutation) persist(ctx context.Context, tx Tx) error {
	for _, id := range sortedIDs(m.touched) {
		if err := tx.UpdateWallet(ctx, m.wallets[id]); err != nil {
			return fmt.Errorf("saving wallet %s: %w", id, err)
		}
	}

	return nil
}

func insufficientFunds(w *Wallet, amount decimal.Decimal) error {
	return apperr.Newf(apperr.KindInsufficientFunds,
		"wallet %q holds %s, %s required", w.Name, w.Balance.StringFixed(2), amount.StringFixed(2))
}

// signed is the effect an entry has on its wallet and on group capacity.
func signed(kind Kind, amount decimal.Decimal) decimal.Decimal {
	if kind == KindExpense {
		return amount.Neg()
	}

	return amount
}
