package application

import (
	"context"
	"time"

	"cryptorate-service/internal/domain"
)

// QuoteFetcher talks to the upstream price API.
type QuoteFetcher interface {
	// FetchLatest returns the latest quotes for all coins in one upstream call.
	// Coins the upstream does not know are simply missing from the result.
	FetchLatest(ctx context.Context, coins []domain.CoinID) (map[domain.CoinID]domain.RawQuote, error)
	KeyInfo(ctx context.Context) (domain.KeyUsage, error)
}

// FetchFunc is the shape of QuoteFetcher.FetchLatest accepted by RateStore.Refresh.
type FetchFunc func(ctx context.Context, coins []domain.CoinID) (map[domain.CoinID]domain.RawQuote, error)

// RefreshGuard prevents overlapping refresh runs.
type RefreshGuard interface {
	// TryReserve returns true if key was free and is now held by the caller.
	TryReserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// QuoteSink receives every batch of quotes applied to the store.
type QuoteSink interface {
	Publish(ctx context.Context, batch domain.QuoteBatch) error
}

type RefreshObserver interface {
	RefreshSucceeded(d time.Duration)
	RefreshFailed(d time.Duration)
	QuoteObserved(coin domain.CoinID, price float64)
	ConfigurationFailed()
}

type nopObserver struct{}

func (nopObserver) RefreshSucceeded(time.Duration)       {}
func (nopObserver) RefreshFailed(time.Duration)          {}
func (nopObserver) QuoteObserved(domain.CoinID, float64) {}
func (nopObserver) ConfigurationFailed()                 {}
