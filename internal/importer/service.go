// Package importer books bank statements on a wallet.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer/statement"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Parser interface {
	Parse(r io.Reader) ([]statement.Row, error)
}

type Ledger interface {
	GetWallet(ctx context.Context, actor, id uuid.UUID) (*ledger.Wallet, error)
	GetCategory(ctx context.Context, actor, id uuid.UUID) (*ledger.Category, error)
	ImportEntries(ctx context.Context, actor, walletID uuid.UUID, rows []ledger.ImportRow) (*ledger.ImportResult, error)
}

type Suggester interface {
	Suggest(ctx context.Context, actor uuid.UUID, owner ledger.Owner, rawDescription string) (*uuid.UUID, error)
}

type Service struct {
	parser    Parser
	ledger    Ledger
	suggester Suggester
}

func NewService(parser Parser, l Ledger, suggester Suggester) *Service {
	return &Service{parser: parser, ledger: l, suggester: suggester}
}

// Import parses the statement in r and books it on the wallet. Each row gets the
// category suggested by the owner's rules when that category has the row's kind.
func (s *Service) Import(ctx context.Context, actor, walletID uuid.UUID, r io.Reader) (*ledger.ImportResult, error) {
	w, err := s.ledger.GetWallet(ctx, actor, walletID)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parser.Parse(r)
	if err != nil {
		if errors.Is(err, statement.ErrUnknownFormat) {
			return nil, apperr.New(apperr.KindValidation, err.Error())
		}

		return nil, apperr.Newf(apperr.KindValidation, "parsing statement: %v", err)
	}

	kinds := make(map[uuid.UUID]ledger.Kind)
	rows := make([]ledger.ImportRow, 0, len(parsed))

	for _, p := range parsed {
		row := ledger.ImportRow{
			Kind:        p.Kind,
			Amount:      p.Amount,
			Date:        p.Date,
			Description: p.Description,
		}

		categoryID, err := s.suggest(ctx, actor, w.Owner, p, kinds)
		if err != nil {
			return nil, err
		}

		row.CategoryID = categoryID
		rows = append(rows, row)
	}

	result, err := s.ledger.ImportEntries(ctx, actor, w.ID, rows)
	if err != nil {
		return nil, err
	}

	slog.Info("statement imported",
		"wallet_id", w.ID,
		"imported", len(result.Imported),
		"skipped", len(result.Skipped),
	)

	return result, nil
}

func (s *Service) suggest(ctx context.Context, actor uuid.UUID, owner ledger.Owner, row statement.Row, kinds map[uuid.UUID]ledger.Kind) (*uuid.UUID, error) {
	id, err := s.suggester.Suggest(ctx, actor, owner, row.Description)
	if err != nil {
		return nil, fmt.Errorf("suggesting category: %w", err)
	}

	if id == nil {
		return nil, nil
	}

	kind, ok := kinds[*id]
	if !ok {
		c, err := s.ledger.GetCategory(ctx, actor, *id)
		if err != nil {
			return nil, fmt.Errorf("loading category %s: %w", *id, err)
		}

		kind = c.Kind
		kinds[*id] = kind
	}

	if kind != row.Kind {
		return nil, nil
	}

	return id, nil
}
