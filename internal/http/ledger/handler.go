// Package ledger exposes wallets, categories, entries, transfers and
// contributions over HTTP.
package ledger

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

//go:generate mockgen -source=handler.go -destination=service_mock.go -package=ledger
type Service interface {
	CreateWallet(ctx context.Context, actor uuid.UUID, params ledger.CreateWalletParams) (*ledger.Wallet, error)
	UpdateWallet(ctx context.Context, actor, id uuid.UUID, params ledger.UpdateWalletParams) (*ledger.Wallet, error)
	DeleteWallet(ctx context.Context, actor, id uuid.UUID) error
	GetWallet(ctx context.Context, actor, id uuid.UUID) (*ledger.Wallet, error)
	ListWallets(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) ([]*ledger.Wallet, error)

	CreateCategory(ctx context.Context, actor uuid.UUID, params ledger.CreateCategoryParams) (*ledger.Category, error)
	RenameCategory(ctx context.Context, actor, id uuid.UUID, name string) (*ledger.Category, error)
	DeleteCategory(ctx context.Context, actor, id uuid.UUID) error
	GetCategory(ctx context.Context, actor, id uuid.UUID) (*ledger.Category, error)
	ListCategories(ctx context.Context, actor uuid.UUID, owner *ledger.Owner, kind ledger.Kind) ([]*ledger.Category, error)

	CreateEntry(ctx context.Context, actor uuid.UUID, kind ledger.Kind, params ledger.CreateEntryParams) (*ledger.Entry, error)
	UpdateEntry(ctx context.Context, actor uuid.UUID, kind ledger.Kind, id uuid.UUID, params ledger.UpdateEntryParams) (*ledger.Entry, error)
	DeleteEntry(ctx context.Context, actor uuid.UUID, kind ledger.Kind, id uuid.UUID) error
	GetEntry(ctx context.Context, actor uuid.UUID, kind ledger.Kind, id uuid.UUID) (*ledger.Entry, error)
	ListEntries(ctx context.Context, actor uuid.UUID, kind ledger.Kind, params ledger.ListEntriesParams) ([]*ledger.Entry, error)

	CreateTransfer(ctx context.Context, actor uuid.UUID, params ledger.TransferParams) (*ledger.Transfer, error)
	GetTransfer(ctx context.Context, actor, id uuid.UUID) (*ledger.Transfer, error)
	ListTransfers(ctx context.Context, actor uuid.UUID, owner *ledger.Owner) ([]*ledger.Transfer, error)

	Contribute(ctx context.Context, actor uuid.UUID, params ledger.ContributeParams) (*ledger.Contribution, error)
	GetContribution(ctx context.Context, actor, id uuid.UUID) (*ledger.Contribution, error)
	ListContributions(ctx context.Context, actor uuid.UUID, groupID *uuid.UUID) ([]*ledger.Contribution, error)
}

type Importer interface {
	Import(ctx context.Context, actor, walletID uuid.UUID, r io.Reader) (*ledger.ImportResult, error)
}

type Handler struct {
	svc       Service
	importer  Importer
	maxUpload int64
}

func NewHandler(svc Service, importer Importer, maxUpload int64) *Handler {
	return &Handler{svc: svc, importer: importer, maxUpload: maxUpload}
}

type ownerFields struct {
	UserID  *uuid.UUID `json:"user_id,omitempty"`
	GroupID *uuid.UUID `json:"group_id,omitempty"`
}

func ownerOf(o ledger.Owner) ownerFields {
	userID, groupID := o.Columns()
	return ownerFields{UserID: userID, GroupID: groupID}
}

func dateOnly(t time.Time) string {
	return t.Format(time.DateOnly)
}
