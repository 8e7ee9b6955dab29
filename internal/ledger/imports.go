package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
)

// ImportRow is one statement line to book on a wallet.
type ImportRow struct {
	Kind        Kind
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CategoryID  *uuid.UUID
}

type ImportResult struct {
	Imported []*Entry
	Skipped  []ImportRow
}

type importKey struct {
	Date        string
	Kind        Kind
	Amount      string
	Description string
}

func keyOf(kind Kind, amount decimal.Decimal, date time.Time, description string) importKey {
	return importKey{
		Date:        date.Format(time.DateOnly),
		Kind:        kind,
		Amount:      amount.StringFixed(2),
		Description: description,
	}
}

// ImportEntries books statement rows on a wallet in one transaction. Rows already
// on the wallet (same date, kind, amount and description) are skipped. Credits
// are applied before debits, so line order within the statement does not matter.
func (s *Service) ImportEntries(ctx context.Context, actor, walletID uuid.UUID, rows []ImportRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return &ImportResult{}, nil
	}

	w, err := s.GetWallet(ctx, actor, walletID)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(rows))

	for i, r := range rows {
		if !r.Kind.Valid() {
			return nil, apperr.Newf(apperr.KindValidation, "row %d: unknown kind %q", i+1, r.Kind)
		}

		if err := ValidateAmount(fmt.Sprintf("row %d amount", i+1), r.Amount); err != nil {
			return nil, err
		}

		e := &Entry{
			Kind:        r.Kind,
			Owner:       w.Owner,
			CategoryID:  r.CategoryID,
			WalletID:    &w.ID,
			Amount:      r.Amount,
			Date:        r.Date,
			Description: r.Description,
		}
		if err := s.checkCategory(ctx, e); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		entries = append(entries, e)
	}

	minDate, maxDate := entries[0].Date, entries[0].Date
	for _, e := range entries[1:] {
		if e.Date.Before(minDate) {
			minDate = e.Date
		}

		if e.Date.After(maxDate) {
			maxDate = e.Date
		}
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	m, err := s.lockForEntries(ctx, tx, w.Owner, &w.ID)
	if err != nil {
		return nil, err
	}

	existing, err := tx.WalletEntries(ctx, w.ID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("finding existing entries: %w", err)
	}

	seen := make(map[importKey]bool, len(existing))
	for _, e := range existing {
		seen[keyOf(e.Kind, e.Amount, e.Date, e.Description)] = true
	}

	result := &ImportResult{}

	var fresh []*Entry

	for i, e := range entries {
		k := keyOf(e.Kind, e.Amount, e.Date, e.Description)
		if seen[k] {
			result.Skipped = append(result.Skipped, rows[i])
			continue
		}

		fresh = append(fresh, e)
	}

	// Credits first, then by date.
	slices.SortStableFunc(fresh, func(a, b *Entry) int {
		if a.Kind != b.Kind {
			if a.Kind == KindIncome {
				return -1
			}

			return 1
		}

		return cmp.Compare(a.Date.Unix(), b.Date.Unix())
	})

	for _, e := range fresh {
		if err := m.apply(e.Kind, w.ID, e.Amount); err != nil {
			return nil, err
		}
	}

	if err := m.settle(); err != nil {
		return nil, err
	}

	for _, e := range fresh {
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

	result.Imported = fresh

	return result, nil
}
