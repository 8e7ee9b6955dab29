package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/database"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func entryTable(kind ledger.Kind) string {
	if kind == ledger.KindIncome {
		return "incomes"
	}

	return "expenses"
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}

const walletColumns = `id, user_id, group_id, name, balance, opening_balance, created_at`

// scanWallet expects walletColumns order.
func scanWallet(s scanner) (*ledger.Wallet, error) {
	var (
		w               ledger.Wallet
		userID, groupID *uuid.UUID
	)

	if err := s.Scan(&w.ID, &userID, &groupID, &w.Name, &w.Balance, &w.Opening, &w.CreatedAt); err != nil {
		return nil, err
	}

	owner, err := ledger.OwnerFromColumns(userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", w.ID, err)
	}

	w.Owner = owner

	return &w, nil
}

const categoryColumns = `id, user_id, group_id, name, kind, created_at`

func scanCategory(s scanner) (*ledger.Category, error) {
	var (
		c               ledger.Category
		userID, groupID *uuid.UUID
		kind            string
	)

	if err := s.Scan(&c.ID, &userID, &groupID, &c.Name, &kind, &c.CreatedAt); err != nil {
		return nil, err
	}

	owner, err := ledger.OwnerFromColumns(userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", c.ID, err)
	}

	c.Owner = owner
	c.Kind = ledger.Kind(kind)

	return &c, nil
}

const entryColumns = `id, user_id, group_id, category_id, wallet_id, transfer_id, amount, date,
	description, managed, created_at, updated_at`

func scanEntry(s scanner, kind ledger.Kind) (*ledger.Entry, error) {
	var (
		e               ledger.Entry
		userID, groupID *uuid.UUID
	)

	if err := s.Scan(
		&e.ID, &userID, &groupID, &e.CategoryID, &e.WalletID, &e.TransferID, &e.Amount, &e.Date,
		&e.Description, &e.Managed, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	owner, err := ledger.OwnerFromColumns(userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind, e.ID, err)
	}

	e.Owner = owner
	e.Kind = kind

	return &e, nil
}

func scanEntries(rows *sql.Rows, kind ledger.Kind) ([]*ledger.Entry, error) {
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", kind, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Transfers do not store their entry ids; the managed entries point back instead.
const transferColumns = `t.id, t.from_wallet_id, t.to_wallet_id, t.from_amount, t.to_amount,
	t.description, t.created_by, t.created_at,
	(SELECT e.id FROM expenses e WHERE e.transfer_id = t.id),
	(SELECT i.id FROM incomes i WHERE i.transfer_id = t.id)`

func scanTransfer(s scanner) (*ledger.Transfer, error) {
	var (
		t                   ledger.Transfer
		createdBy           *uuid.UUID
		expenseID, incomeID *uuid.UUID
	)

	if err := s.Scan(
		&t.ID, &t.FromWalletID, &t.ToWalletID, &t.FromAmount, &t.ToAmount,
		&t.Description, &createdBy, &t.CreatedAt, &expenseID, &incomeID,
	); err != nil {
		return nil, err
	}

	if createdBy != nil {
		t.CreatedBy = *createdBy
	}

	if expenseID != nil {
		t.ExpenseID = *expenseID
	}

	if incomeID != nil {
		t.IncomeID = *incomeID
	}

	return &t, nil
}

const contributionColumns = `id, user_id, group_id, user_wallet_id, group_wallet_id, expense_id, income_id,
	amount, date, description, created_at`

func scanContribution(s scanner) (*ledger.Contribution, error) {
	var c ledger.Contribution

	if err := s.Scan(
		&c.ID, &c.UserID, &c.GroupID, &c.UserWalletID, &c.GroupWalletID, &c.ExpenseID, &c.IncomeID,
		&c.Amount, &c.Date, &c.Description, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

func (s *Store) Begin(ctx context.Context) (ledger.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	return &tx{tx: dbTx}, nil
}

func (s *Store) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var member bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`,
		groupID, userID,
	).Scan(&member)
	if err != nil {
		return false, fmt.Errorf("checking membership: %w", err)
	}

	return member, nil
}

func (s *Store) GroupIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT group_id FROM group_members WHERE user_id = $1 ORDER BY group_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing user groups: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning group id: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (s *Store) GroupTotals(ctx context.Context, groupID uuid.UUID) (ledger.GroupTotals, error) {
	return groupTotals(ctx, s.db, groupID, nil)
}

func groupTotals(ctx context.Context, q querier, groupID uuid.UUID, exclude *uuid.UUID) (ledger.GroupTotals, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE group_id = $1),
			(SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE group_id = $1),
			(SELECT COALESCE(SUM(balance), 0) FROM wallets
				WHERE group_id = $1 AND ($2::uuid IS NULL OR id <> $2::uuid))
	`

	var totals ledger.GroupTotals

	if err := q.QueryRowContext(ctx, query, groupID, exclude).Scan(&totals.Incomes, &totals.Expenses, &totals.Wallets); err != nil {
		return ledger.GroupTotals{}, fmt.Errorf("summing group %s: %w", groupID, err)
	}

	return totals, nil
}

func (s *Store) GetWallet(ctx context.Context, id uuid.UUID) (*ledger.Wallet, error) {
	w, err := scanWallet(s.db.QueryRowContext(ctx, `SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id))
	if err != nil {
		return nil, database.Translate(err, "getting wallet")
	}

	return w, nil
}

func (s *Store) ListWallets(ctx context.Context, scope ledger.Scope) ([]*ledger.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE user_id = $1 OR group_id = ANY($2::uuid[])
		ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query, scope.UserID, idStrings(scope.GroupIDs))
	if err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*ledger.Wallet

	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wallet: %w", err)
		}

		wallets = append(wallets, w)
	}

	return wallets, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*ledger.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		return nil, database.Translate(err, "getting category")
	}

	return c, nil
}

func (s *Store) ListCategories(ctx context.Context, scope ledger.Scope, kind ledger.Kind) ([]*ledger.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories
		WHERE (user_id = $1 OR group_id = ANY($2::uuid[]))`
	args := []any{scope.UserID, idStrings(scope.GroupIDs)}

	if kind != "" {
		query += " AND kind = $3"

		args = append(args, kind)
	}

	query += " ORDER BY kind, name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*ledger.Category

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (s *Store) CreateCategory(ctx context.Context, c *ledger.Category) error {
	userID, groupID := c.Owner.Columns()

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (user_id, group_id, name, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		userID, groupID, c.Name, c.Kind,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return database.Translate(err, "creating category")
	}

	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *ledger.Category) error {
	res, err := s.db.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID)
	if err != nil {
		return database.Translate(err, "updating category")
	}

	return expectOne(res, "updating category")
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return database.Translate(err, "deleting category")
	}

	return expectOne(res, "deleting category")
}

func (s *Store) GetEntry(ctx context.Context, kind ledger.Kind, id uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ` + entryTable(kind) + ` WHERE id = $1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id), kind)
	if err != nil {
		return nil, database.Translate(err, "getting "+string(kind))
	}

	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, filter ledger.EntryFilter) ([]*ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ` + entryTable(filter.Kind) + `
		WHERE (user_id = $1 OR group_id = ANY($2::uuid[]))`
	args := []any{filter.Scope.UserID, idStrings(filter.Scope.GroupIDs)}
	argIdx := 3

	if filter.WalletID != nil {
		query += fmt.Sprintf(" AND wallet_id = $%d", argIdx)

		args = append(args, *filter.WalletID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
	}

	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", filter.Kind, err)
	}

	return scanEntries(rows, filter.Kind)
}

func (s *Store) GetTransfer(ctx context.Context, id uuid.UUID) (*ledger.Transfer, error) {
	t, err := scanTransfer(s.db.QueryRowContext(ctx, `SELECT `+transferColumns+` FROM transfers t WHERE t.id = $1`, id))
	if err != nil {
		return nil, database.Translate(err, "getting transfer")
	}

	return t, nil
}

func (s *Store) ListTransfers(ctx context.Context, scope ledger.Scope) ([]*ledger.Transfer, error) {
	query := `SELECT ` + transferColumns + `
		FROM transfers t
		WHERE EXISTS (
			SELECT 1 FROM wallets w
			WHERE w.id IN (t.from_wallet_id, t.to_wallet_id)
			  AND (w.user_id = $1 OR w.group_id = ANY($2::uuid[]))
		)
		ORDER BY t.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, scope.UserID, idStrings(scope.GroupIDs))
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*ledger.Transfer

	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}

		transfers = append(transfers, t)
	}

	return transfers, rows.Err()
}

func (s *Store) GetContribution(ctx context.Context, id uuid.UUID) (*ledger.Contribution, error) {
	c, err := scanContribution(s.db.QueryRowContext(ctx, `SELECT `+contributionColumns+` FROM contributions WHERE id = $1`, id))
	if err != nil {
		return nil, database.Translate(err, "getting contribution")
	}

	return c, nil
}

func (s *Store) ListContributions(ctx context.Context, scope ledger.Scope) ([]*ledger.Contribution, error) {
	query := `SELECT ` + contributionColumns + ` FROM contributions
		WHERE user_id = $1 OR group_id = ANY($2::uuid[])
		ORDER BY date DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, scope.UserID, idStrings(scope.GroupIDs))
	if err != nil {
		return nil, fmt.Errorf("listing contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*ledger.Contribution

	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contribution: %w", err)
		}

		contributions = append(contributions, c)
	}

	return contributions, rows.Err()
}

// WalletSnapshot is a wallet together with the balance its entry log implies.
type WalletSnapshot struct {
	Wallet   *ledger.Wallet
	Expected decimal.Decimal
}

// WalletSnapshot recomputes one wallet from its opening balance and entries.
func (s *Store) WalletSnapshot(ctx context.Context, id uuid.UUID) (*WalletSnapshot, error) {
	query := `SELECT ` + prefixed("w.", walletColumns) + `,
			w.opening_balance
			+ (SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE wallet_id = w.id)
			- (SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE wallet_id = w.id)
		FROM wallets w WHERE w.id = $1`

	var (
		snap            WalletSnapshot
		w               ledger.Wallet
		userID, groupID *uuid.UUID
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&w.ID, &userID, &groupID, &w.Name, &w.Balance, &w.Opening, &w.CreatedAt, &snap.Expected,
	)
	if err != nil {
		return nil, database.Translate(err, "recomputing wallet")
	}

	owner, err := ledger.OwnerFromColumns(userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", w.ID, err)
	}

	w.Owner = owner
	snap.Wallet = &w

	return &snap, nil
}

// AllWalletIDs lists every wallet id, for the reconciliation sweep.
func (s *Store) AllWalletIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM wallets ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing wallet ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning wallet id: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = prefix + strings.TrimSpace(p)
	}

	return strings.Join(parts, ", ")
}

func expectOne(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	if n == 0 {
		return database.Translate(sql.ErrNoRows, what)
	}

	return nil
}

type tx struct {
	tx *sql.Tx
}

func (t *tx) Commit() error   { return t.tx.Commit() }
func (t *tx) Rollback() error { return t.tx.Rollback() }

func (t *tx) LockGroup(ctx context.Context, groupID uuid.UUID) error {
	var id uuid.UUID

	err := t.tx.QueryRowContext(ctx, `SELECT id FROM groups WHERE id = $1 FOR UPDATE`, groupID).Scan(&id)
	if err != nil {
		return database.Translate(err, "locking group")
	}

	return nil
}

// LockWallets takes the row locks in ascending id order so concurrent mutations
// over overlapping wallets cannot deadlock.
func (t *tx) LockWallets(ctx context.Context, ids ...uuid.UUID) (map[uuid.UUID]*ledger.Wallet, error) {
	wallets := make(map[uuid.UUID]*ledger.Wallet, len(ids))
	if len(ids) == 0 {
		return wallets, nil
	}

	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE`

	rows, err := t.tx.QueryContext(ctx, query, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("locking wallets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wallet: %w", err)
		}

		wallets[w.ID] = w
	}

	return wallets, rows.Err()
}

func (t *tx) GroupTotals(ctx context.Context, groupID uuid.UUID, excludeWallet *uuid.UUID) (ledger.GroupTotals, error) {
	return groupTotals(ctx, t.tx, groupID, excludeWallet)
}

func (t *tx) CreateWallet(ctx context.Context, w *ledger.Wallet) error {
	userID, groupID := w.Owner.Columns()

	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO wallets (user_id, group_id, name, balance, opening_balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		userID, groupID, w.Name, w.Balance, w.Opening,
	).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return database.Translate(err, "creating wallet")
	}

	return nil
}

func (t *tx) UpdateWallet(ctx context.Context, w *ledger.Wallet) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE wallets SET name = $1, balance = $2, opening_balance = $3 WHERE id = $4`,
		w.Name, w.Balance, w.Opening, w.ID,
	)
	if err != nil {
		return database.Translate(err, "updating wallet")
	}

	return expectOne(res, "updating wallet")
}

func (t *tx) DeleteWallet(ctx context.Context, id uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return database.Translate(err, "deleting wallet")
	}

	return expectOne(res, "deleting wallet")
}

func (t *tx) WalletReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var referenced bool

	err := t.tx.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM transfers WHERE from_wallet_id = $1 OR to_wallet_id = $1)
		    OR EXISTS (SELECT 1 FROM contributions WHERE user_wallet_id = $1 OR group_wallet_id = $1)`,
		id,
	).Scan(&referenced)
	if err != nil {
		return false, fmt.Errorf("checking wallet references: %w", err)
	}

	return referenced, nil
}

func (t *tx) GetEntryForUpdate(ctx context.Context, kind ledger.Kind, id uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ` + entryTable(kind) + ` WHERE id = $1 FOR UPDATE`

	e, err := scanEntry(t.tx.QueryRowContext(ctx, query, id), kind)
	if err != nil {
		return nil, database.Translate(err, "getting "+string(kind))
	}

	return e, nil
}

func (t *tx) CreateEntry(ctx context.Context, e *ledger.Entry) error {
	userID, groupID := e.Owner.Columns()
	query := `
		INSERT INTO ` + entryTable(e.Kind) + ` (user_id, group_id, category_id, wallet_id, transfer_id, amount, date, description, managed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := t.tx.QueryRowContext(ctx, query,
		userID, groupID, e.CategoryID, e.WalletID, e.TransferID, e.Amount, e.Date, e.Description, e.Managed,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return database.Translate(err, "creating "+string(e.Kind))
	}

	return nil
}

func (t *tx) UpdateEntry(ctx context.Context, e *ledger.Entry) error {
	query := `
		UPDATE ` + entryTable(e.Kind) + `
		SET category_id = $1, wallet_id = $2, amount = $3, date = $4, description = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	var updated time.Time
	if err := t.tx.QueryRowContext(ctx, query,
		e.CategoryID, e.WalletID, e.Amount, e.Date, e.Description, e.ID,
	).Scan(&updated); err != nil {
		return database.Translate(err, "updating "+string(e.Kind))
	}

	e.UpdatedAt = &updated

	return nil
}

func (t *tx) DeleteEntry(ctx context.Context, kind ledger.Kind, id uuid.UUID) error {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM `+entryTable(kind)+` WHERE id = $1`, id)
	if err != nil {
		return database.Translate(err, "deleting "+string(kind))
	}

	return expectOne(res, "deleting "+string(kind))
}

func (t *tx) WalletEntries(ctx context.Context, walletID uuid.UUID, from, to time.Time) ([]*ledger.Entry, error) {
	var all []*ledger.Entry

	for _, kind := range []ledger.Kind{ledger.KindIncome, ledger.KindExpense} {
		query := `SELECT ` + entryColumns + ` FROM ` + entryTable(kind) + `
			WHERE wallet_id = $1 AND date >= $2 AND date <= $3`

		rows, err := t.tx.QueryContext(ctx, query, walletID, from, to)
		if err != nil {
			return nil, fmt.Errorf("listing wallet %ss: %w", kind, err)
		}

		entries, err := scanEntries(rows, kind)
		if err != nil {
			return nil, err
		}

		all = append(all, entries...)
	}

	return all, nil
}

func (t *tx) CreateTransfer(ctx context.Context, tr *ledger.Transfer) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO transfers (from_wallet_id, to_wallet_id, from_amount, to_amount, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		tr.FromWalletID, tr.ToWalletID, tr.FromAmount, tr.ToAmount, tr.Description, tr.CreatedBy,
	).Scan(&tr.ID, &tr.CreatedAt)
	if err != nil {
		return database.Translate(err, "creating transfer")
	}

	return nil
}

func (t *tx) CreateContribution(ctx context.Context, c *ledger.Contribution) error {
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO contributions (user_id, group_id, user_wallet_id, group_wallet_id, expense_id, income_id, amount, date, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		c.UserID, c.GroupID, c.UserWalletID, c.GroupWalletID, c.ExpenseID, c.IncomeID, c.Amount, c.Date, c.Description,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return database.Translate(err, "creating contribution")
	}

	return nil
}
