package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satwatch/satwatch/internal/models"
	"github.com/satwatch/satwatch/internal/portfolio"
)

type fakePersister struct{}

func (fakePersister) SaveAddresses([]models.AddressRecord) error { return nil }
func (fakePersister) SavePrivacy(bool) error                     { return nil }

// fakeBalances serves canned per-address results; nil entry means failure
type fakeBalances struct {
	mu      sync.Mutex
	results map[string]*models.FetchResult
	calls   int32
	block   chan struct{} // when set, fetches wait until closed
	started chan struct{} // signalled once per fetch start
}

func (f *fakeBalances) FetchAddress(ctx context.Context, address string) (*models.FetchResult, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	res := f.results[address]
	f.mu.Unlock()
	if res == nil {
		return nil, errors.New("fetch failed")
	}
	return res, nil
}

type fakePrices struct {
	quote *models.PriceQuote
	err   error
	calls int32
}

func (f *fakePrices) FetchPrice(ctx context.Context) (*models.PriceQuote, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.quote, f.err
}

type fakeFees struct {
	est *models.FeeEstimate
	err error
}

func (f *fakeFees) FetchFees(ctx context.Context) (*models.FeeEstimate, error) {
	return f.est, f.err
}

func newTestStore(records []models.AddressRecord) *portfolio.Store {
	return portfolio.NewStore(fakePersister{}, records, false)
}

func TestRunCycleMergesResults(t *testing.T) {
	store := newTestStore([]models.AddressRecord{
		{ID: "1", Address: "addr1", BalanceSats: 100},
		{ID: "2", Address: "addr2", BalanceSats: 200},
	})
	balances := &fakeBalances{results: map[string]*models.FetchResult{
		"addr1": {BalanceSats: 150, LastTx: models.ConfirmedTxTime(1700000000)},
		"addr2": {BalanceSats: 250, LastTx: models.PendingTxTime()},
	}}
	r := NewRefresher(store, balances,
		&fakePrices{quote: &models.PriceQuote{Price: 50000, Change24h: 1.5}},
		&fakeFees{est: &models.FeeEstimate{Fastest: 30, HalfHour: 20, Hour: 10}},
		time.Minute)

	require.True(t, r.RunCycle(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, int64(150), snap[0].BalanceSats)
	assert.Equal(t, int64(250), snap[1].BalanceSats)
	assert.Equal(t, models.TxTimePending, snap[1].LastTx.State)

	require.NotNil(t, r.Price())
	assert.Equal(t, float64(50000), r.Price().Price)
	require.NotNil(t, r.Fees())
	assert.Equal(t, int64(30), r.Fees().Fastest)
}

func TestFailedFetchRetainsRecordData(t *testing.T) {
	before := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newTestStore([]models.AddressRecord{
		{ID: "1", Address: "addr1", BalanceSats: 100, LastTx: models.ConfirmedTxTime(1690000000), LastUpdated: before},
	})
	// No canned result for addr1: every fetch fails
	balances := &fakeBalances{results: map[string]*models.FetchResult{}}
	r := NewRefresher(store, balances, &fakePrices{err: errors.New("down")}, &fakeFees{err: errors.New("down")}, time.Minute)

	require.True(t, r.RunCycle(context.Background()))

	snap := store.Snapshot()
	assert.Equal(t, int64(100), snap[0].BalanceSats)
	assert.Equal(t, models.TxTimeConfirmed, snap[0].LastTx.State)
	assert.Equal(t, int64(1690000000), snap[0].LastTx.Time)
	assert.True(t, snap[0].LastUpdated.After(before), "failed fetch still stamps the attempt")
}

func TestFeedFailureKeepsPriorValues(t *testing.T) {
	store := newTestStore(nil)
	prices := &fakePrices{quote: &models.PriceQuote{Price: 42000}}
	fees := &fakeFees{est: &models.FeeEstimate{Fastest: 25}}
	r := NewRefresher(store, &fakeBalances{results: map[string]*models.FetchResult{}}, prices, fees, time.Minute)

	require.True(t, r.RunCycle(context.Background()))
	require.NotNil(t, r.Price())

	// Both feeds go dark; stale-but-present beats absent
	prices.err = errors.New("unreachable")
	prices.quote = nil
	fees.err = errors.New("unreachable")
	fees.est = nil

	require.True(t, r.RunCycle(context.Background()))
	require.NotNil(t, r.Price())
	assert.Equal(t, float64(42000), r.Price().Price)
	require.NotNil(t, r.Fees())
	assert.Equal(t, int64(25), r.Fees().Fastest)
}

func TestConcurrentCycleIsDropped(t *testing.T) {
	store := newTestStore([]models.AddressRecord{{ID: "1", Address: "addr1"}})
	balances := &fakeBalances{
		results: map[string]*models.FetchResult{"addr1": {BalanceSats: 1}},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	prices := &fakePrices{quote: &models.PriceQuote{Price: 1}}
	r := NewRefresher(store, balances, prices, &fakeFees{est: &models.FeeEstimate{}}, time.Minute)

	done := make(chan bool)
	go func() {
		done <- r.RunCycle(context.Background())
	}()

	// Wait until the first cycle is inside its fan-out
	<-balances.started

	assert.False(t, r.RunCycle(context.Background()), "second concurrent cycle must be a no-op")
	assert.False(t, r.Trigger(), "on-demand trigger shares the same guard")

	close(balances.block)
	assert.True(t, <-done)

	// Only the first cycle ran its fetches
	assert.Equal(t, int32(1), atomic.LoadInt32(&balances.calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&prices.calls))

	// Guard released: a new cycle runs again
	assert.True(t, r.RunCycle(context.Background()))
}

func TestTriggerRunsCycleInBackground(t *testing.T) {
	store := newTestStore([]models.AddressRecord{{ID: "1", Address: "addr1", BalanceSats: 5}})
	balances := &fakeBalances{results: map[string]*models.FetchResult{
		"addr1": {BalanceSats: 77},
	}}
	r := NewRefresher(store, balances, &fakePrices{quote: &models.PriceQuote{}}, &fakeFees{est: &models.FeeEstimate{}}, time.Minute)

	require.True(t, r.Trigger())
	r.Stop() // waits for the triggered cycle to complete and merge

	assert.Equal(t, int64(77), store.Snapshot()[0].BalanceSats)
}

func TestStartRunsImmediateCycleAndStopWaits(t *testing.T) {
	store := newTestStore([]models.AddressRecord{{ID: "1", Address: "addr1"}})
	balances := &fakeBalances{results: map[string]*models.FetchResult{
		"addr1": {BalanceSats: 9},
	}}
	r := NewRefresher(store, balances, &fakePrices{quote: &models.PriceQuote{}}, &fakeFees{est: &models.FeeEstimate{}}, time.Hour)

	r.Start(context.Background())
	r.Stop()

	assert.Equal(t, int64(9), store.Snapshot()[0].BalanceSats)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&balances.calls), int32(1))
}

func TestCycleSnapshotTolerantOfConcurrentRemoval(t *testing.T) {
	store := newTestStore([]models.AddressRecord{
		{ID: "1", Address: "addr1", BalanceSats: 100},
		{ID: "2", Address: "addr2", BalanceSats: 200},
	})
	balances := &fakeBalances{
		results: map[string]*models.FetchResult{
			"addr1": {BalanceSats: 111},
			"addr2": {BalanceSats: 222},
		},
		block:   make(chan struct{}),
		started: make(chan struct{}, 2),
	}
	r := NewRefresher(store, balances, &fakePrices{quote: &models.PriceQuote{}}, &fakeFees{est: &models.FeeEstimate{}}, time.Minute)

	done := make(chan bool)
	go func() {
		done <- r.RunCycle(context.Background())
	}()

	// Both fetches are in flight; remove one record mid-cycle
	<-balances.started
	<-balances.started
	require.NoError(t, store.Remove("2"))

	close(balances.block)
	require.True(t, <-done)

	// The surviving record merged; the removed one did not reappear
	snap := store.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "1", snap[0].ID)
	assert.Equal(t, int64(111), snap[0].BalanceSats)
}
