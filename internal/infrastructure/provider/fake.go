package provider

import (
	"context"
	"math/rand"
	"sync"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/domain"
)

// Ensure Fake implements application.QuoteFetcher.
var _ application.QuoteFetcher = (*Fake)(nil)

// Fake serves a bounded random walk around a base price per coin. It never
// calls out and is meant for local runs without an API key.
type Fake struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	base   float64
	prices map[domain.CoinID]float64
}

func NewFake(base float64, seed int64) *Fake {
	return &Fake{
		rnd:    rand.New(rand.NewSource(seed)),
		base:   base,
		prices: map[domain.CoinID]float64{},
	}
}

func (f *Fake) FetchLatest(_ context.Context, coins []domain.CoinID) (map[domain.CoinID]domain.RawQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[domain.CoinID]domain.RawQuote, len(coins))
	for _, c := range coins {
		prev, ok := f.prices[c]
		if !ok {
			prev = f.base
		}
		change := (f.rnd.Float64() - 0.5) / 50
		price := prev * (1 + change)
		f.prices[c] = price
		pct := change * 100
		out[c] = domain.RawQuote{Price: price, Change1h: &pct}
	}
	return out, nil
}

func (f *Fake) KeyInfo(context.Context) (domain.KeyUsage, error) {
	return domain.KeyUsage{CreditsLeftToday: 333, CreditsLeftMonth: 10000}, nil
}
