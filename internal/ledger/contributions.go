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

type ContributeParams struct {
	GroupID       uuid.UUID
	UserWalletID  uuid.UUID
	GroupWalletID uuid.UUID
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
}

// Contribute moves money from the actor's personal wallet into a group wallet:
// an expense on the personal wallet, an income on the group wallet and the
// contribution record linking them, all committed together or not at all.
func (s *Service) Contribute(ctx context.Context, actor uuid.UUID, params ContributeParams) (*Contribution, error) {
	if err := ValidateAmount("amount", params.Amount); err != nil {
		return nil, err
	}

	date := params.Date
	if date.IsZero() {
		date = s.today()
	}

	description := strings.TrimSpace(params.Description)
	if description == "" {
		description = "Contribution"
	}

	member, err := s.repo.IsMember(ctx, params.GroupID, actor)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}

	if !member {
		return nil, apperr.Newf(apperr.KindNotGroupMember, "not a member of group %s", params.GroupID)
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	wallets, err := tx.LockWallets(ctx, params.UserWalletID, params.GroupWalletID)
	if err != nil {
		return nil, err
	}

	userWallet, ok := wallets[params.UserWalletID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "wallet %s not found", params.UserWalletID)
	}

	if userWallet.Owner != PersonalOwner(actor) {
		return nil, apperr.New(apperr.KindOwnership, "source wallet is not one of your personal wallets")
	}

	groupWallet, ok := wallets[params.GroupWalletID]
	if !ok {
		return nil, apperr.Newf(apperr.KindNotFound, "wallet %s not found", params.GroupWalletID)
	}

	if groupWallet.Owner != GroupOwner(params.GroupID) {
		return nil, apperr.New(apperr.KindOwnership, "destination wallet does not belong to the group")
	}

	m := newMutation(wallets)
	if err := m.applyExpense(userWallet.ID, params.Amount); err != nil {
		return nil, err
	}

	if err := m.applyIncome(groupWallet.ID, params.Amount); err != nil {
		return nil, err
	}

	if err := m.settle(); err != nil {
		return nil, err
	}

	expense := &Entry{
		Kind:        KindExpense,
		Owner:       userWallet.Owner,
		WalletID:    &userWallet.ID,
		Amount:      params.Amount,
		Date:        date,
		Description: description,
		Managed:     true,
	}
	if err := tx.CreateEntry(ctx, expense); err != nil {
		return nil, err
	}

	income := &Entry{
		Kind:        KindIncome,
		Owner:       groupWallet.Owner,
		WalletID:    &groupWallet.ID,
		Amount:      params.Amount,
		Date:        date,
		Description: description,
		Managed:     true,
	}
	if err := tx.CreateEntry(ctx, income); err != nil {
		return nil, err
	}

	c := &Contribution{
		UserID:        actor,
		GroupID:       params.GroupID,
		UserWalletID:  userWallet.ID,
		GroupWalletID: groupWallet.ID,
		ExpenseID:     expense.ID,
		IncomeID:      income.ID,
		Amount:        params.Amount,
		Date:          date,
		Description:   description,
	}
	if err := tx.CreateContribution(ctx, c); err != nil {
		return nil, err
	}

	if err := m.persist(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return c, nil
}

// GetContribution is visible to the contributor and to members of the group.
func (s *Service) GetContribution(ctx context.Context, actor, id uuid.UUID) (*Contribution, error) {
	c, err := s.repo.GetContribution(ctx, id)
	if err != nil {
		return nil, err
	}

	if c.UserID == actor {
		return c, nil
	}

	if err := s.Authorize(ctx, actor, GroupOwner(c.GroupID)); err != nil {
		return nil, err
	}

	return c, nil
}

// ListContributions lists the actor's own contributions plus those made to their
// groups, or only those of one group when groupID is given.
func (s *Service) ListContributions(ctx context.Context, actor uuid.UUID, groupID *uuid.UUID) ([]*Contribution, error) {
	var owner *Owner
	if groupID != nil {
		o := GroupOwner(*groupID)
		owner = &o
	}

	scope, err := s.Scope(ctx, actor, owner)
	if err != nil {
		return nil, err
	}

	return s.repo.ListContributions(ctx, scope)
}
