package refresh

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/satwatch/satwatch/internal/models"
	"github.com/satwatch/satwatch/internal/portfolio"
)

// BalanceSource resolves one address's balance and latest activity
type BalanceSource interface {
	FetchAddress(ctx context.Context, address string) (*models.FetchResult, error)
}

// PriceSource fetches the current spot price quote
type PriceSource interface {
	FetchPrice(ctx context.Context) (*models.PriceQuote, error)
}

// FeeSource fetches the current fee-rate recommendations
type FeeSource interface {
	FetchFees(ctx context.Context) (*models.FeeEstimate, error)
}

// Refresher orchestrates refresh cycles: one price fetch, one fee fetch
// and a concurrent fan-out of per-address balance fetches, merged into the
// store as a single batch. At most one cycle runs at a time; a cycle
// requested while another is in flight is dropped, not queued.
type Refresher struct {
	store    *portfolio.Store
	balances BalanceSource
	prices   PriceSource
	fees     FeeSource
	interval time.Duration

	mu       sync.Mutex
	inFlight bool
	price    *models.PriceQuote
	feeEst   *models.FeeEstimate

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRefresher creates a new Refresher
func NewRefresher(store *portfolio.Store, balances BalanceSource, prices PriceSource, fees FeeSource, interval time.Duration) *Refresher {
	return &Refresher{
		store:    store,
		balances: balances,
		prices:   prices,
		fees:     fees,
		interval: interval,
	}
}

// Start runs one cycle immediately, then on a fixed interval until Stop.
// Cycles fetch with their own context so stopping the loop never aborts a
// request already in flight.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.loop(ctx)
}

// Stop suppresses future cycles and waits for an in-flight cycle to
// complete and merge.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Refresher) loop(ctx context.Context) {
	defer r.wg.Done()

	r.RunCycle(context.Background())

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunCycle(context.Background())
		case <-ctx.Done():
			return
		}
	}
}

// RunCycle executes one refresh cycle synchronously. Returns false without
// doing any work when a cycle is already in flight.
func (r *Refresher) RunCycle(ctx context.Context) bool {
	if !r.claim() {
		return false
	}
	defer r.release()

	r.cycle(ctx)
	return true
}

// Trigger starts an on-demand cycle in the background, sharing the same
// in-flight guard as the periodic loop. Returns false when a cycle is
// already running.
func (r *Refresher) Trigger() bool {
	if !r.claim() {
		return false
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.release()
		r.cycle(context.Background())
	}()
	return true
}

func (r *Refresher) claim() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight {
		return false
	}
	r.inFlight = true
	return true
}

func (r *Refresher) release() {
	r.mu.Lock()
	r.inFlight = false
	r.mu.Unlock()
}

// cycle does the actual work. Feed failures keep the prior known-good
// value; per-address failures are recorded as nil results so the merge
// stamps the attempt without touching the record's data.
func (r *Refresher) cycle(ctx context.Context) {
	start := time.Now()

	if quote, err := r.prices.FetchPrice(ctx); err != nil {
		log.Printf("[REFRESH] price fetch failed: %v", err)
	} else {
		r.mu.Lock()
		r.price = quote
		r.mu.Unlock()
	}

	if est, err := r.fees.FetchFees(ctx); err != nil {
		log.Printf("[REFRESH] fee fetch failed: %v", err)
	} else {
		r.mu.Lock()
		r.feeEst = est
		r.mu.Unlock()
	}

	// Snapshot once at cycle start: addresses added during the cycle are
	// picked up next cycle, and removals make the merge a no-op for them.
	snapshot := r.store.Snapshot()

	results := make(map[string]*models.FetchResult, len(snapshot))
	var resMu sync.Mutex
	var wg sync.WaitGroup
	for _, rec := range snapshot {
		wg.Add(1)
		go func(id, address string) {
			defer wg.Done()
			res, err := r.balances.FetchAddress(ctx, address)
			if err != nil {
				log.Printf("[REFRESH] balance fetch failed for %s: %v", address, err)
				res = nil
			}
			resMu.Lock()
			results[id] = res
			resMu.Unlock()
		}(rec.ID, rec.Address)
	}
	wg.Wait()

	if err := r.store.MergeRefreshResults(results); err != nil {
		log.Printf("[REFRESH] merge failed: %v", err)
	}

	log.Printf("[REFRESH] cycle completed in %v (%d addresses)", time.Since(start), len(snapshot))
}

// Price returns the last successfully fetched quote, or nil before one
func (r *Refresher) Price() *models.PriceQuote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.price
}

// Fees returns the last successfully fetched estimate, or nil before one
func (r *Refresher) Fees() *models.FeeEstimate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.feeEst
}
