package ledger_test

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

// memState is the committed data of memStore.
type memState struct {
	wallets       map[uuid.UUID]ledger.Wallet
	categories    map[uuid.UUID]ledger.Category
	entries       map[uuid.UUID]ledger.Entry
	transfers     map[uuid.UUID]ledger.Transfer
	contributions map[uuid.UUID]ledger.Contribution
}

func (s memState) clone() memState {
	return memState{
		wallets:       maps.Clone(s.wallets),
		categories:    maps.Clone(s.categories),
		entries:       maps.Clone(s.entries),
		transfers:     maps.Clone(s.transfers),
		contributions: maps.Clone(s.contributions),
	}
}

// memStore is an in-memory Repository. Transactions are fully serialized and
// work on a private copy that replaces the committed state on Commit.
type memStore struct {
	txMu sync.Mutex

	mu      sync.RWMutex
	state   memState
	members map[uuid.UUID]map[uuid.UUID]bool

	failCreateContribution error
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			wallets:       map[uuid.UUID]ledger.Wallet{},
			categories:    map[uuid.UUID]ledger.Category{},
			entries:       map[uuid.UUID]ledger.Entry{},
			transfers:     map[uuid.UUID]ledger.Transfer{},
			contributions: map[uuid.UUID]ledger.Contribution{},
		},
		members: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (m *memStore) addMember(groupID, userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.members[groupID] == nil {
		m.members[groupID] = map[uuid.UUID]bool{}
	}

	m.members[groupID][userID] = true
}

func (m *memStore) snapshot() memState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.state.clone()
}

func inScope(scope ledger.Scope, owner ledger.Owner) bool {
	if id, ok := owner.User(); ok {
		return id == scope.UserID
	}

	id, _ := owner.Group()

	return slices.Contains(scope.GroupIDs, id)
}

func (m *memStore) Begin(_ context.Context) (ledger.Tx, error) {
	m.txMu.Lock()
	return &memTx{store: m, state: m.snapshot()}, nil
}

func (m *memStore) IsMember(_ context.Context, groupID, userID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.members[groupID][userID], nil
}

func (m *memStore) GroupIDsForUser(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []uuid.UUID

	for g, users := range m.members {
		if users[userID] {
			ids = append(ids, g)
		}
	}

	return ids, nil
}

func (m *memStore) GroupTotals(_ context.Context, groupID uuid.UUID) (ledger.GroupTotals, error) {
	return groupTotals(m.snapshot(), groupID, nil), nil
}

func (m *memStore) GetWallet(_ context.Context, id uuid.UUID) (*ledger.Wallet, error) {
	w, ok := m.snapshot().wallets[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &w, nil
}

func (m *memStore) ListWallets(_ context.Context, scope ledger.Scope) ([]*ledger.Wallet, error) {
	var out []*ledger.Wallet

	for _, w := range m.snapshot().wallets {
		if inScope(scope, w.Owner) {
			out = append(out, &w)
		}
	}

	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, id uuid.UUID) (*ledger.Category, error) {
	c, ok := m.snapshot().categories[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &c, nil
}

func (m *memStore) ListCategories(_ context.Context, scope ledger.Scope, kind ledger.Kind) ([]*ledger.Category, error) {
	var out []*ledger.Category

	for _, c := range m.snapshot().categories {
		if inScope(scope, c.Owner) && (kind == "" || c.Kind == kind) {
			out = append(out, &c)
		}
	}

	return out, nil
}

func (m *memStore) CreateCategory(_ context.Context, c *ledger.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.state.categories {
		if other.Owner == c.Owner && other.Name == c.Name && other.Kind == c.Kind {
			return apperr.ErrDuplicateName
		}
	}

	c.ID = uuid.New()
	m.state.categories[c.ID] = *c

	return nil
}

func (m *memStore) UpdateCategory(_ context.Context, c *ledger.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.categories[c.ID] = *c

	return nil
}

func (m *memStore) DeleteCategory(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.state.categories, id)

	for eid, e := range m.state.entries {
		if e.CategoryID != nil && *e.CategoryID == id {
			e.CategoryID = nil
			m.state.entries[eid] = e
		}
	}

	return nil
}

func (m *memStore) GetEntry(_ context.Context, kind ledger.Kind, id uuid.UUID) (*ledger.Entry, error) {
	e, ok := m.snapshot().entries[id]
	if !ok || e.Kind != kind {
		return nil, apperr.ErrNotFound
	}

	return &e, nil
}

func (m *memStore) ListEntries(_ context.Context, f ledger.EntryFilter) ([]*ledger.Entry, error) {
	var out []*ledger.Entry

	for _, e := range m.snapshot().entries {
		if e.Kind != f.Kind || !inScope(f.Scope, e.Owner) {
			continue
		}

		if f.WalletID != nil && (e.WalletID == nil || *e.WalletID != *f.WalletID) {
			continue
		}

		out = append(out, &e)
	}

	return out, nil
}

func (m *memStore) GetTransfer(_ context.Context, id uuid.UUID) (*ledger.Transfer, error) {
	t, ok := m.snapshot().transfers[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &t, nil
}

func (m *memStore) ListTransfers(_ context.Context, scope ledger.Scope) ([]*ledger.Transfer, error) {
	st := m.snapshot()

	var out []*ledger.Transfer

	for _, t := range st.transfers {
		if inScope(scope, st.wallets[t.FromWalletID].Owner) || inScope(scope, st.wallets[t.ToWalletID].Owner) {
			out = append(out, &t)
		}
	}

	return out, nil
}

func (m *memStore) GetContribution(_ context.Context, id uuid.UUID) (*ledger.Contribution, error) {
	c, ok := m.snapshot().contributions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return &c, nil
}

func (m *memStore) ListContributions(_ context.Context, scope ledger.Scope) ([]*ledger.Contribution, error) {
	var out []*ledger.Contribution

	for _, c := range m.snapshot().contributions {
		if c.UserID == scope.UserID || slices.Contains(scope.GroupIDs, c.GroupID) {
			out = append(out, &c)
		}
	}

	return out, nil
}

func groupTotals(st memState, groupID uuid.UUID, exclude *uuid.UUID) ledger.GroupTotals {
	owner := ledger.GroupOwner(groupID)
	totals := ledger.GroupTotals{}

	for _, e := range st.entries {
		if e.Owner != owner {
			continue
		}

		if e.Kind == ledger.KindIncome {
			totals.Incomes = totals.Incomes.Add(e.Amount)
		} else {
			totals.Expenses = totals.Expenses.Add(e.Amount)
		}
	}

	for _, w := range st.wallets {
		if w.Owner == owner && (exclude == nil || *exclude != w.ID) {
			totals.Wallets = totals.Wallets.Add(w.Balance)
		}
	}

	return totals
}

type memTx struct {
	store *memStore
	state memState
	done  bool
}

func (t *memTx) LockGroup(context.Context, uuid.UUID) error { return nil }

func (t *memTx) LockWallets(_ context.Context, ids ...uuid.UUID) (map[uuid.UUID]*ledger.Wallet, error) {
	out := make(map[uuid.UUID]*ledger.Wallet, len(ids))

	for _, id := range ids {
		if w, ok := t.state.wallets[id]; ok {
			out[id] = &w
		}
	}

	return out, nil
}

func (t *memTx) GroupTotals(_ context.Context, groupID uuid.UUID, exclude *uuid.UUID) (ledger.GroupTotals, error) {
	return groupTotals(t.state, groupID, exclude), nil
}

func (t *memTx) CreateWallet(_ context.Context, w *ledger.Wallet) error {
	for _, other := range t.state.wallets {
		if other.Owner == w.Owner && other.Name == w.Name {
			return apperr.ErrDuplicateName
		}
	}

	w.ID = uuid.New()
	w.CreatedAt = time.Now()
	t.state.wallets[w.ID] = *w

	return nil
}

func (t *memTx) UpdateWallet(_ context.Context, w *ledger.Wallet) error {
	if _, ok := t.state.wallets[w.ID]; !ok {
		return apperr.ErrNotFound
	}

	t.state.wallets[w.ID] = *w

	return nil
}

func (t *memTx) DeleteWallet(_ context.Context, id uuid.UUID) error {
	delete(t.state.wallets, id)

	for eid, e := range t.state.entries {
		if e.WalletID != nil && *e.WalletID == id {
			e.WalletID = nil
			t.state.entries[eid] = e
		}
	}

	return nil
}

func (t *memTx) WalletReferenced(_ context.Context, id uuid.UUID) (bool, error) {
	for _, tr := range t.state.transfers {
		if tr.FromWalletID == id || tr.ToWalletID == id {
			return true, nil
		}
	}

	for _, c := range t.state.contributions {
		if c.UserWalletID == id || c.GroupWalletID == id {
			return true, nil
		}
	}

	return false, nil
}

func (t *memTx) GetEntryForUpdate(_ context.Context, kind ledger.Kind, id uuid.UUID) (*ledger.Entry, error) {
	e, ok := t.state.entries[id]
	if !ok || e.Kind != kind {
		return nil, apperr.ErrNotFound
	}

	return &e, nil
}

func (t *memTx) CreateEntry(_ context.Context, e *ledger.Entry) error {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	t.state.entries[e.ID] = *e

	return nil
}

func (t *memTx) UpdateEntry(_ context.Context, e *ledger.Entry) error {
	t.state.entries[e.ID] = *e
	return nil
}

func (t *memTx) DeleteEntry(_ context.Context, _ ledger.Kind, id uuid.UUID) error {
	delete(t.state.entries, id)
	return nil
}

func (t *memTx) WalletEntries(_ context.Context, walletID uuid.UUID, from, to time.Time) ([]*ledger.Entry, error) {
	var out []*ledger.Entry

	for _, e := range t.state.entries {
		if e.WalletID == nil || *e.WalletID != walletID {
			continue
		}

		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}

		out = append(out, &e)
	}

	return out, nil
}

func (t *memTx) CreateTransfer(_ context.Context, tr *ledger.Transfer) error {
	tr.ID = uuid.New()
	tr.CreatedAt = time.Now()
	t.state.transfers[tr.ID] = *tr

	return nil
}

func (t *memTx) CreateContribution(_ context.Context, c *ledger.Contribution) error {
	if t.store.failCreateContribution != nil {
		return t.store.failCreateContribution
	}

	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	t.state.contributions[c.ID] = *c

	return nil
}

func (t *memTx) Commit() error {
	if t.done {
		return nil
	}

	t.store.mu.Lock()
	t.store.state = t.state
	t.store.mu.Unlock()

	t.done = true
	t.store.txMu.Unlock()

	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}

	t.done = true
	t.store.txMu.Unlock()

	return nil
}

// expectedBalance recomputes a wallet from its opening balance and entry log.
func (m *memStore) expectedBalance(walletID uuid.UUID) (decimal.Decimal, decimal.Decimal) {
	st := m.snapshot()
	w := st.wallets[walletID]
	sum := w.Opening

	for _, e := range st.entries {
		if e.WalletID == nil || *e.WalletID != walletID {
			continue
		}

		if e.Kind == ledger.KindIncome {
			sum = sum.Add(e.Amount)
		} else {
			sum = sum.Sub(e.Amount)
		}
	}

	return sum, w.Balance
}
