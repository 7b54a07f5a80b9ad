package application

import (
	"context"
	"fmt"
	"sync"

	"cryptorate-service/internal/domain"
)

// RateStore keeps the rolling quote history of every catalog coin.
type RateStore struct {
	catalog domain.Catalog
	latch   *ConfigLatch
	clock   Clock

	mu    sync.RWMutex
	rates map[domain.CoinID]domain.RateHistory
}

type StoreOption func(*RateStore)

func WithStoreClock(c Clock) StoreOption { return func(s *RateStore) { s.clock = c } }

// NewRateStore creates an empty history for every coin in the catalog,
// whether or not it is enabled.
func NewRateStore(catalog domain.Catalog, latch *ConfigLatch, opts ...StoreOption) *RateStore {
	s := &RateStore{
		catalog: catalog,
		latch:   latch,
		rates:   make(map[domain.CoinID]domain.RateHistory, catalog.Len()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.latch == nil {
		s.latch = NewConfigLatch()
	}
	for _, id := range catalog.IDs() {
		s.rates[id] = domain.RateHistory{}
	}
	return s
}

// Refresh fetches the latest quotes for the enabled coins with a single call
// to fetch and records them. A failed fetch leaves every history untouched.
func (s *RateStore) Refresh(ctx context.Context, enabled []domain.CoinID, fetch FetchFunc) (domain.QuoteBatch, error) {
	if err := s.latch.Err(); err != nil {
		return domain.QuoteBatch{}, err
	}
	if len(enabled) == 0 {
		return domain.QuoteBatch{}, nil
	}

	raw, err := fetch(ctx, enabled)
	if err != nil {
		return domain.QuoteBatch{}, fmt.Errorf("fetch quotes: %w", err)
	}

	batch := domain.QuoteBatch{
		FetchedAt: s.clock.Now(),
		Quotes:    make(map[domain.CoinID]domain.CoinQuote, len(enabled)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range enabled {
		r, ok := raw[id]
		if !ok {
			continue
		}
		if _, known := s.rates[id]; !known {
			continue
		}
		q := domain.NewCoinQuote(batch.FetchedAt, r)
		s.rates[id] = s.rates[id].Push(q)
		batch.Quotes[id] = q
	}
	return batch, nil
}

// Get returns a copy of one coin's history. An empty history means the coin
// has not been refreshed yet.
func (s *RateStore) Get(id domain.CoinID) (domain.RateHistory, error) {
	if err := s.latch.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.rates[id]
	if !ok {
		return nil, fmt.Errorf("coin %q: %w", id, domain.ErrNotFound)
	}
	return h.Clone(), nil
}

func (s *RateStore) GetAll() (map[domain.CoinID]domain.RateHistory, error) {
	if err := s.latch.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[domain.CoinID]domain.RateHistory, len(s.rates))
	for id, h := range s.rates {
		out[id] = h.Clone()
	}
	return out, nil
}
