// Package reconcile audits stored wallet balances against the entry log.
package reconcile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/notify"
)

const defaultConcurrency = 4

type Store interface {
	AllWalletIDs(ctx context.Context) ([]uuid.UUID, error)
	WalletSnapshot(ctx context.Context, id uuid.UUID) (*store.WalletSnapshot, error)
}

type Publisher interface {
	PublishDrift(ctx context.Context, d notify.Drift) error
}

type Recorder interface {
	ObserveReconcile(checked, drifted int, took time.Duration, err error)
}

type Report struct {
	StartedAt time.Time
	Took      time.Duration
	Checked   int
	Drifts    []notify.Drift
}

type Service struct {
	store       Store
	publisher   Publisher
	recorder    Recorder
	concurrency int
	now         func() time.Time
}

type Option func(*Service)

func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func NewService(st Store, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		store:       st,
		publisher:   publisher,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run checks every wallet once. Drifts are published one by one; a failed
// publish is logged and does not fail the run.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: s.now()}

	drifts, checked, err := s.sweep(ctx, report.StartedAt)
	report.Took = s.now().Sub(report.StartedAt)

	if s.recorder != nil {
		s.recorder.ObserveReconcile(checked, len(drifts), report.Took, err)
	}

	if err != nil {
		return nil, err
	}

	report.Checked = checked
	report.Drifts = drifts

	for _, d := range drifts {
		slog.WarnContext(ctx, "wallet balance drift",
			"wallet_id", d.WalletID,
			"stored", d.Stored.StringFixed(2),
			"expected", d.Expected.StringFixed(2),
		)

		if err := s.publisher.PublishDrift(ctx, d); err != nil {
			slog.ErrorContext(ctx, "failed to publish drift", "wallet_id", d.WalletID, "error", err)
		}
	}

	return report, nil
}

func (s *Service) sweep(ctx context.Context, at time.Time) ([]notify.Drift, int, error) {
	ids, err := s.store.AllWalletIDs(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing wallets: %w", err)
	}

	var (
		mu      sync.Mutex
		drifts  []notify.Drift
		checked int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, id := range ids {
		g.Go(func() error {
			snap, err := s.store.WalletSnapshot(gctx, id)
			if err != nil {
				// Deleted since the listing.
				if errors.Is(err, apperr.ErrNotFound) {
					return nil
				}

				return fmt.Errorf("checking wallet %s: %w", id, err)
			}

			mu.Lock()
			defer mu.Unlock()

			checked++

			if !snap.Wallet.Balance.Equal(snap.Expected) {
				drifts = append(drifts, notify.Drift{
					WalletID:   snap.Wallet.ID,
					Owner:      snap.Wallet.Owner.String(),
					Stored:     snap.Wallet.Balance,
					Expected:   snap.Expected,
					DetectedAt: at,
				})
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, checked, err
	}

	slices.SortFunc(drifts, func(a, b notify.Drift) int {
		return bytes.Compare(a.WalletID[:], b.WalletID[:])
	})

	return drifts, checked, nil
}

// Start runs a sweep immediately and then every interval until ctx ends.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if report, err := s.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}

			slog.Error("reconciliation failed", "error", err)
		} else {
			slog.Info("reconciliation finished",
				"checked", report.Checked,
				"drifted", len(report.Drifts),
				"took", report.Took,
			)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
