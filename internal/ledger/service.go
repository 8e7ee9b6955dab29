// Package ledger is the wallet balance consistency engine: wallets, categories,
// incomes, expenses, transfers and group contributions, with every balance change
// applied inside a single storage transaction.
package ledger

import (
	"bytes"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence collaborator. Reads outside a Tx see committed
// state only; every balance change goes through Begin.
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	GroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GroupTotals(ctx context.Context, groupID uuid.UUID) (GroupTotals, error)

	GetWallet(ctx context.Context, id uuid.UUID) (*Wallet, error)
	ListWallets(ctx context.Context, scope Scope) ([]*Wallet, error)

	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context, scope Scope, kind Kind) ([]*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	GetEntry(ctx context.Context, kind Kind, id uuid.UUID) (*Entry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	GetTransfer(ctx context.Context, id uuid.UUID) (*Transfer, error)
	ListTransfers(ctx context.Context, scope Scope) ([]*Transfer, error)

	GetContribution(ctx context.Context, id uuid.UUID) (*Contribution, error)
	ListContributions(ctx context.Context, scope Scope) ([]*Contribution, error)
}

// Tx is one atomic unit of work. Locks taken through it are held until Commit or
// Rollback. Callers lock groups before wallets.
type Tx interface {
	LockGroup(ctx context.Context, groupID uuid.UUID) error
	// LockWallets locks the rows in ascending id order and returns them keyed by id.
	LockWallets(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*Wallet, error)
	GroupTotals(ctx context.Context, groupID uuid.UUID, excludeWallet *uuid.UUID) (GroupTotals, error)

	CreateWallet(ctx context.Context, w *Wallet) error
	UpdateWallet(ctx context.Context, w *Wallet) error
	DeleteWallet(ctx context.Context, id uuid.UUID) error
	WalletReferenced(ctx context.Context, id uuid.UUID) (bool, error)

	GetEntryForUpdate(ctx context.Context, kind Kind, id uuid.UUID) (*Entry, error)
	CreateEntry(ctx context.Context, e *Entry) error
	UpdateEntry(ctx context.Context, e *Entry) error
	DeleteEntry(ctx context.Context, kind Kind, id uuid.UUID) error
	WalletEntries(ctx context.Context, walletID uuid.UUID, from, to time.Time) ([]*Entry, error)

	CreateTransfer(ctx context.Context, t *Transfer) error
	CreateContribution(ctx context.Context, c *Contribution) error

	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sortedIDs returns the set's keys in ascending byte order, the global lock order.
func sortedIDs(set map[uuid.UUID]bool) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}

	sortIDs(ids)

	return ids
}

func sortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
}

// uniqueIDs drops nil pointers and duplicates.
func uniqueIDs(ids ...*uuid.UUID) []uuid.UUID {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id != nil {
			set[*id] = true
		}
	}

	return sortedIDs(set)
}
