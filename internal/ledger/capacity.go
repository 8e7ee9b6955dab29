package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

// checkWalletCapacity is the Group Capacity Validator for a group wallet whose
// balance is about to become requested. exclude is the wallet being updated, nil
// on creation. The group row must already be locked.
func checkWalletCapacity(ctx context.Context, tx Tx, groupID uuid.UUID, exclude *uuid.UUID, requested decimal.Decimal) error {
	totals, err := tx.GroupTotals(ctx, groupID, exclude)
	if err != nil {
		return fmt.Errorf("reading group totals: %w", err)
	}

	if exclude == nil && totals.Incomes.IsZero() {
		return apperr.Newf(apperr.KindGroupHasNoFunds, "group %s has no recorded incomes", groupID)
	}

	if available := totals.Available(); requested.GreaterThan(available) {
		return apperr.Newf(apperr.KindInsufficientGroupBalance,
			"requested %s exceeds the group's available balance of %s",
			requested.StringFixed(2), available.StringFixed(2))
	}

	return nil
}

// checkCapacityDelta rejects a change to group-level incomes/expenses that would
// leave the group's wallets holding more than the group has.
func checkCapacityDelta(ctx context.Context, tx Tx, groupID uuid.UUID, delta decimal.Decimal) error {
	if !delta.IsNegative() {
		return nil
	}

	totals, err := tx.GroupTotals(ctx, groupID, nil)
	if err != nil {
		return fmt.Errorf("reading group totals: %w", err)
	}

	if after := totals.Available().Add(delta); after.IsNegative() {
		return apperr.Newf(apperr.KindInsufficientGroupBalance,
			"change of %s exceeds the group's available balance of %s",
			delta.Neg().StringFixed(2), totals.Available().StringFixed(2))
	}

	return nil
}

// capacityEffect is what an entry contributes to its group's available balance.
// Entries booked on a wallet move the wallet by the same amount, so they net out.
func capacityEffect(e *Entry) decimal.Decimal {
	if e == nil || e.WalletID != nil {
		return decimal.Zero
	}

	if _, ok := e.Owner.Group(); !ok {
		return decimal.Zero
	}

	return signed(e.Kind, e.Amount)
}

// AvailableBalance reports a group's capacity figures to its members.
func (s *Service) AvailableBalance(ctx context.Context, actor, groupID uuid.UUID) (GroupTotals, error) {
	if err := s.Authorize(ctx, actor, GroupOwner(groupID)); err != nil {
		return GroupTotals{}, err
	}

	return s.repo.GroupTotals(ctx, groupID)
}
