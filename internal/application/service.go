package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptorate-service/internal/domain"

	"go.uber.org/zap"
)

// Overview lists every supported coin next to the enabled ones.
type Overview struct {
	AllCoins      map[domain.CoinID]string `json:"allCoins"`
	SelectedCoins map[domain.CoinID]string `json:"selectedCoins"`
	Icons         map[domain.CoinID]string `json:"icons"`
	Colours       map[domain.CoinID]string `json:"colours"`
}

type CoinDetail struct {
	Name   string             `json:"name"`
	Rates  domain.RateHistory `json:"rates"`
	Icon   string             `json:"icon"`
	Colour string             `json:"colour"`
}

type CryptoRateService struct {
	catalog  domain.Catalog
	settings domain.Settings
	store    *RateStore
	latch    *ConfigLatch
	fetcher  QuoteFetcher
	sinks    []QuoteSink
	observer RefreshObserver
	log      *zap.Logger
}

type Option func(*CryptoRateService)

func WithSinks(sinks ...QuoteSink) Option {
	return func(s *CryptoRateService) { s.sinks = append(s.sinks, sinks...) }
}
func WithObserver(o RefreshObserver) Option { return func(s *CryptoRateService) { s.observer = o } }
func WithLogger(l *zap.Logger) Option       { return func(s *CryptoRateService) { s.log = l } }

func NewCryptoRateService(catalog domain.Catalog, settings domain.Settings, store *RateStore, latch *ConfigLatch, fetcher QuoteFetcher, opts ...Option) *CryptoRateService {
	s := &CryptoRateService{
		catalog:  catalog,
		settings: settings,
		store:    store,
		latch:    latch,
		fetcher:  fetcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// ConfigErr returns the latched configuration error, if any.
func (s *CryptoRateService) ConfigErr() error { return s.latch.Err() }

// RefreshRates runs one refresh cycle. It does nothing once the configuration
// error is latched. Fetch failures are logged and returned; the cached
// histories stay as they were.
func (s *CryptoRateService) RefreshRates(ctx context.Context) error {
	if s.latch.Err() != nil {
		return nil
	}
	start := time.Now()
	batch, err := s.store.Refresh(ctx, s.settings.Coins, s.fetcher.FetchLatest)
	elapsed := time.Since(start)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			return nil
		}
		s.log.Error("cryptorate: could not load coin data", zap.Error(err))
		s.observer.RefreshFailed(elapsed)
		return err
	}
	s.observer.RefreshSucceeded(elapsed)
	if batch.Empty() {
		return nil
	}
	for id, q := range batch.Quotes {
		s.observer.QuoteObserved(id, q.Price)
	}
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, batch); err != nil {
			s.log.Warn("refresh.sink_failed", zap.Error(err))
		}
	}
	s.log.Info("refresh.done", zap.Int("coins", len(batch.Quotes)), zap.Duration("duration", elapsed))
	return nil
}

func (s *CryptoRateService) Overview() (Overview, error) {
	if err := s.latch.Err(); err != nil {
		return Overview{}, err
	}
	names := s.catalog.Names()
	selected := make(map[domain.CoinID]string, len(s.settings.Coins))
	for _, id := range s.settings.Coins {
		selected[id] = names[id]
	}
	return Overview{
		AllCoins:      names,
		SelectedCoins: selected,
		Icons:         s.catalog.Icons(),
		Colours:       s.catalog.Colours(),
	}, nil
}

func (s *CryptoRateService) CoinDetail(id domain.CoinID) (CoinDetail, error) {
	rates, err := s.store.Get(id)
	if err != nil {
		return CoinDetail{}, err
	}
	coin, _ := s.catalog.Lookup(id)
	return CoinDetail{
		Name:   coin.Name,
		Rates:  rates,
		Icon:   coin.Icon,
		Colour: coin.Colour,
	}, nil
}

// SettingsView returns the effective settings. The API key is never
// serialised.
func (s *CryptoRateService) SettingsView() (domain.Settings, error) {
	if err := s.latch.Err(); err != nil {
		return domain.Settings{}, err
	}
	out := s.settings
	out.Coins = append([]domain.CoinID(nil), s.settings.Coins...)
	return out, nil
}

// GetCryptoRateData is the accessor offered to other in-process consumers.
// An empty coinID returns every history; otherwise the result holds only
// that coin, keyed by its id. CoinRateData returns the bare history.
func (s *CryptoRateService) GetCryptoRateData(coinID string) (map[domain.CoinID]domain.RateHistory, error) {
	if coinID == "" {
		if err := s.configErr(); err != nil {
			return nil, err
		}
		return s.store.GetAll()
	}
	h, err := s.CoinRateData(coinID)
	if err != nil {
		return nil, err
	}
	return map[domain.CoinID]domain.RateHistory{domain.CoinID(coinID): h}, nil
}

// CoinRateData returns the rate history of a single coin.
func (s *CryptoRateService) CoinRateData(coinID string) (domain.RateHistory, error) {
	if err := s.configErr(); err != nil {
		return nil, err
	}
	h, err := s.store.Get(domain.CoinID(coinID))
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Error(fmt.Sprintf("getCryptoRateData: %s is not a valid coin identifier", coinID))
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// configErr logs and returns the latched configuration error.
func (s *CryptoRateService) configErr() error {
	err := s.latch.Err()
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		s.log.Error(fmt.Sprintf("getCryptoRateData: could not load rate data because of a configuration error: %s", cfgErr.Message))
	}
	return err
}
