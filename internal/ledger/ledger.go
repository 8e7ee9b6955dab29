package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind tells incomes and expenses apart.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Wallet is a named balance bucket ("bolsillo").
type Wallet struct {
	ID    uuid.UUID
	Owner Owner
	Name  string
	// Balance is maintained incrementally by every entry mutation.
	Balance decimal.Decimal
	// Opening is the initial balance plus direct balance edits; reconciliation
	// expects Balance == Opening + signed entry effects.
	Opening   decimal.Decimal
	CreatedAt time.Time
}

type Category struct {
	ID        uuid.UUID
	Owner     Owner
	Name      string
	Kind      Kind
	CreatedAt time.Time
}

// Entry is an income or an expense record.
type Entry struct {
	ID          uuid.UUID
	Kind        Kind
	Owner       Owner
	CategoryID  *uuid.UUID
	WalletID    *uuid.UUID
	TransferID  *uuid.UUID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	// Managed entries were produced by a transfer or a contribution and can only
	// change through those.
	Managed   bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type Transfer struct {
	ID           uuid.UUID
	FromWalletID uuid.UUID
	ToWalletID   uuid.UUID
	FromAmount   decimal.Decimal
	ToAmount     decimal.Decimal
	Description  string
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	ExpenseID    uuid.UUID
	IncomeID     uuid.UUID
}

type Contribution struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	GroupID       uuid.UUID
	UserWalletID  uuid.UUID
	GroupWalletID uuid.UUID
	ExpenseID     uuid.UUID
	IncomeID      uuid.UUID
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	CreatedAt     time.Time
}

// GroupTotals are the aggregates the capacity check works from.
type GroupTotals struct {
	Incomes  decimal.Decimal
	Expenses decimal.Decimal
	Wallets  decimal.Decimal
}

// Available is incomes minus expenses minus the wallet balances already carved out.
func (t GroupTotals) Available() decimal.Decimal {
	return t.Incomes.Sub(t.Expenses).Sub(t.Wallets)
}

// Scope selects the records an actor may see in a listing. An explicit Owner
// narrows it to one owner; otherwise it is the actor plus every group they
// belong to.
type Scope struct {
	UserID   uuid.UUID
	GroupIDs []uuid.UUID
}

type EntryFilter struct {
	Scope     Scope
	Kind      Kind
	WalletID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}
