package reconcile_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/pocketbook/internal/apperr"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger/store"
	"github.com/MrJamesThe3rd/pocketbook/internal/notify"
	"github.com/MrJamesThe3rd/pocketbook/internal/reconcile"
)

type fakeStore struct {
	snapshots map[uuid.UUID]*store.WalletSnapshot
	ids       []uuid.UUID
	listErr   error
	snapErr   map[uuid.UUID]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		snapshots: make(map[uuid.UUID]*store.WalletSnapshot),
		snapErr:   make(map[uuid.UUID]error),
	}
}

func (f *fakeStore) add(balance, expected string) uuid.UUID {
	id := uuid.New()
	f.ids = append(f.ids, id)
	f.snapshots[id] = &store.WalletSnapshot{
		Wallet: &ledger.Wallet{
			ID:      id,
			Owner:   ledger.PersonalOwner(uuid.New()),
			Balance: decimal.RequireFromString(balance),
		},
		Expected: decimal.RequireFromString(expected),
	}

	return id
}

func (f *fakeStore) AllWalletIDs(context.Context) ([]uuid.UUID, error) {
	return f.ids, f.listErr
}

func (f *fakeStore) WalletSnapshot(_ context.Context, id uuid.UUID) (*store.WalletSnapshot, error) {
	if err := f.snapErr[id]; err != nil {
		return nil, err
	}

	return f.snapshots[id], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	drifts []notify.Drift
	err    error
}

func (p *recordingPublisher) PublishDrift(_ context.Context, d notify.Drift) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.drifts = append(p.drifts, d)

	return p.err
}

type recorder struct {
	checked, drifted int
	err              error
	calls            int
}

func (r *recorder) ObserveReconcile(checked, drifted int, _ time.Duration, err error) {
	r.checked, r.drifted, r.err = checked, drifted, err
	r.calls++
}

func TestRun_ReportsOnlyDriftedWallets(t *testing.T) {
	st := newFakeStore()
	for range 20 {
		st.add("100.00", "100")
	}

	drifted := st.add("150.00", "100.00")
	gone := st.add("1", "1")
	st.snapErr[gone] = apperr.ErrNotFound

	pub := &recordingPublisher{}
	rec := &recorder{}

	svc := reconcile.NewService(st, pub, reconcile.WithConcurrency(3), reconcile.WithRecorder(rec))

	report, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 21, report.Checked)
	require.Len(t, report.Drifts, 1)
	assert.Equal(t, drifted, report.Drifts[0].WalletID)
	assert.True(t, decimal.RequireFromString("50").Equal(report.Drifts[0].Difference()))

	require.Len(t, pub.drifts, 1)
	assert.Equal(t, drifted, pub.drifts[0].WalletID)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, 21, rec.checked)
	assert.Equal(t, 1, rec.drifted)
	assert.NoError(t, rec.err)
}

func TestRun_PublishFailureDoesNotFailRun(t *testing.T) {
	st := newFakeStore()
	st.add("1", "2")
	st.add("3", "4")

	pub := &recordingPublisher{err: errors.New("broker down")}

	report, err := reconcile.NewService(st, pub).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Drifts, 2)
	assert.Len(t, pub.drifts, 2)
}

func TestRun_StoreFailure(t *testing.T) {
	t.Run("Listing", func(t *testing.T) {
		st := newFakeStore()
		st.listErr = errors.New("connection refused")
		rec := &recorder{}

		_, err := reconcile.NewService(st, &recordingPublisher{}, reconcile.WithRecorder(rec)).Run(context.Background())
		require.ErrorContains(t, err, "connection refused")
		assert.Error(t, rec.err)
	})

	t.Run("Snapshot", func(t *testing.T) {
		st := newFakeStore()
		id := st.add("1", "1")
		st.snapErr[id] = errors.New("timeout")
		pub := &recordingPublisher{}

		_, err := reconcile.NewService(st, pub).Run(context.Background())
		require.ErrorContains(t, err, "timeout")
		assert.Empty(t, pub.drifts)
	})
}

func TestStart_StopsWithContext(t *testing.T) {
	st := newFakeStore()
	st.add("1", "1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		reconcile.NewService(st, &recordingPublisher{}).Start(ctx, time.Hour)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
