package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"cryptorate-service/internal/domain"

	"go.uber.org/zap"
)

const (
	msgCoinsNotSequence = "Setting `coins` must be an array."
	msgUpstreamFailed   = "Encountered an error while trying to connect to CoinMarketCap API. Please make sure to set a valid API key in the cryptorate plugin settings."
)

// FetcherFactory builds the upstream client once the endpoint is known.
type FetcherFactory func(endpoint domain.Endpoint) QuoteFetcher

// Startup validates the stored settings before any refresh is scheduled.
type Startup struct {
	Catalog    domain.Catalog
	Latch      *ConfigLatch
	NewFetcher FetcherFactory
	Observer   RefreshObserver
	Log        *zap.Logger
}

// StartupResult is what the rest of the service runs with.
type StartupResult struct {
	Settings domain.Settings
	Endpoint domain.Endpoint
	Fetcher  QuoteFetcher
}

// Run performs the startup checks in order. Problems with the settings shape
// or with reaching the upstream API latch the configuration error; a missing
// API key on its own is only logged.
func (s *Startup) Run(ctx context.Context, raw domain.RawSettings, endpoint domain.Endpoint) StartupResult {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "startup"))

	settings := domain.Settings{
		APIKey:   raw.APIKey,
		Interval: raw.Interval,
		Sandbox:  raw.Sandbox,
	}
	endpoint.APIKey = raw.APIKey

	if settings.APIKey == "" && !settings.Sandbox {
		log.Error("CoinMarketCap API key is unset. Please enter one in the cryptorate plugin settings.")
	}

	if settings.Sandbox {
		endpoint.BaseURL = domain.SandboxAPIBase
		settings.APIKey = domain.SandboxAPIKey
		endpoint.APIKey = domain.SandboxAPIKey
		log.Warn("cryptorate: using sandbox API that only serves fake data")
	}

	if !(settings.Interval > 0) || math.IsInf(settings.Interval, 1) {
		log.Warn("cryptorate: refresh interval must be positive, using default",
			zap.Float64("interval", settings.Interval),
			zap.Int("default", domain.DefaultIntervalMinutes),
		)
		settings.Interval = domain.DefaultIntervalMinutes
	}
	if d := settings.Interval * float64(time.Minute); d < float64(domain.MinRefreshEvery) || d >= float64(domain.MaxRefreshEvery) {
		every := settings.RefreshEvery()
		log.Warn("cryptorate: refresh interval out of range, clamping",
			zap.Float64("interval", settings.Interval),
			zap.Duration("refresh_every", every),
		)
		settings.Interval = every.Minutes()
	}

	coins, ok := coinList(raw.Coins)
	if !ok {
		log.Error("cryptorate: setting `coins` must be an array.")
		s.fail(msgCoinsNotSequence)
	}
	settings.Coins = make([]domain.CoinID, 0, len(coins))
	for _, c := range coins {
		id := domain.CoinID(c)
		if !s.Catalog.Contains(id) {
			log.Warn(fmt.Sprintf("cryptorate: unknown coin identifier in plugin settings: %s. It will be ignored.", c))
			continue
		}
		settings.Coins = append(settings.Coins, id)
	}

	fetcher := s.NewFetcher(endpoint)

	usage, err := fetcher.KeyInfo(ctx)
	if err != nil {
		log.Error("cryptorate: key info request failed", zap.Error(err))
		log.Error("cryptorate: encountered an error while trying to connect to CoinMarketCap API. Please make sure to set a valid API key in the cryptorate plugin settings.")
		s.fail(msgUpstreamFailed)
	} else if !settings.Sandbox && s.Latch.Err() == nil {
		logUsage(log, usage, ProjectUsage(len(settings.Coins), settings.Interval))
	}

	return StartupResult{Settings: settings, Endpoint: endpoint, Fetcher: fetcher}
}

func (s *Startup) fail(msg string) {
	if s.Latch.Fail(msg) && s.Observer != nil {
		s.Observer.ConfigurationFailed()
	}
}

// coinList accepts any sequence; non-string elements are kept in printed
// form so they get reported as unknown identifiers.
func coinList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []domain.CoinID:
		out := make([]string, len(list))
		for i, c := range list {
			out[i] = string(c)
		}
		return out, true
	case []any:
		out := make([]string, len(list))
		for i, c := range list {
			if s, ok := c.(string); ok {
				out[i] = s
				continue
			}
			out[i] = fmt.Sprint(c)
		}
		return out, true
	default:
		return nil, false
	}
}

func logUsage(log *zap.Logger, usage domain.KeyUsage, p UsageProjection) {
	log.Info("CoinMarketCap API usage information",
		zap.Float64("credits_left_today", usage.CreditsLeftToday),
		zap.Float64("credits_left_month", usage.CreditsLeftMonth),
		zap.Int("credits_per_refresh", p.CreditsPerRefresh),
		zap.Float64("credits_per_day", p.CreditsPerDay),
		zap.Float64("credits_per_month", p.CreditsPerMonth),
		zap.Float64("refreshes_per_day", p.RefreshesPerDay),
		zap.Float64("refreshes_per_month", p.RefreshesPerMonth),
	)
}
