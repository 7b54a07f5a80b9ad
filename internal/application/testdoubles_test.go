package application

import (
	"context"
	"sync"
	"time"

	"cryptorate-service/internal/domain"
)

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }

type fakeFetcher struct {
	mu      sync.Mutex
	quotes  map[domain.CoinID]domain.RawQuote
	err     error
	usage   domain.KeyUsage
	infoErr error
	calls   int
	asked   [][]domain.CoinID
}

func (f *fakeFetcher) FetchLatest(_ context.Context, coins []domain.CoinID) (map[domain.CoinID]domain.RawQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.asked = append(f.asked, append([]domain.CoinID(nil), coins...))
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

func (f *fakeFetcher) KeyInfo(context.Context) (domain.KeyUsage, error) {
	if f.infoErr != nil {
		return domain.KeyUsage{}, f.infoErr
	}
	return f.usage, nil
}

type fakeSink struct {
	batches []domain.QuoteBatch
	err     error
}

func (f *fakeSink) Publish(_ context.Context, b domain.QuoteBatch) error {
	f.batches = append(f.batches, b)
	return f.err
}

type recordingObserver struct {
	ok, failed, cfg int
	prices          map[domain.CoinID]float64
}

func (r *recordingObserver) RefreshSucceeded(time.Duration) { r.ok++ }
func (r *recordingObserver) RefreshFailed(time.Duration)    { r.failed++ }
func (r *recordingObserver) QuoteObserved(c domain.CoinID, p float64) {
	if r.prices == nil {
		r.prices = map[domain.CoinID]float64{}
	}
	r.prices[c] = p
}
func (r *recordingObserver) ConfigurationFailed() { r.cfg++ }

func testCatalog() domain.Catalog {
	return domain.NewCatalog([]domain.Coin{
		{ID: "btc", Name: "Bitcoin", Icon: "<svg>btc</svg>", Colour: "#F7931A"},
		{ID: "eth", Name: "Ethereum", Icon: "<svg>eth</svg>", Colour: "#627EEA"},
		{ID: "doge", Name: "Dogecoin", Icon: "<svg>doge</svg>", Colour: "#C2A633"},
	})
}

func price(p float64) domain.RawQuote { return domain.RawQuote{Price: p} }

func f64(v float64) *float64 { return &v }
