package bootstrap

import (
	"context"
	"errors"
	"net/http"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/config"
	"cryptorate-service/internal/domain"
	infraconfig "cryptorate-service/internal/infrastructure/config"
	httpserver "cryptorate-service/internal/infrastructure/http"
	"cryptorate-service/internal/infrastructure/worker"

	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required for ARCHIVE=pg")

// App is the fully wired process: the read API and the refresh job share one
// in-memory store.
type App struct {
	Service *application.CryptoRateService
	Handler http.Handler
	Worker  application.Worker
}

// BuildApp loads the plugin settings, runs startup validation and wires every
// collaborator. The returned cleanup releases resources in reverse order.
func BuildApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func(), error) {
	if log == nil {
		log = zap.NewNop()
	}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, func() {}, err
	}

	raw, err := config.LoadSettings(cfg.SettingsPath)
	if err != nil {
		return fail(err)
	}
	newFetcher, err := ProvideFetcherFactory(cfg)
	if err != nil {
		return fail(err)
	}
	observer, metricsHandler := ProvideMetrics()

	catalog := domain.DefaultCatalog()
	latch := application.NewConfigLatch()
	startup := &application.Startup{
		Catalog:    catalog,
		Latch:      latch,
		NewFetcher: newFetcher,
		Observer:   observer,
		Log:        log,
	}
	res := startup.Run(ctx, raw, domain.Endpoint{BaseURL: cfg.CMCAPIBase})
	interval := res.Settings.RefreshEvery()

	var checks []ReadyCheck
	var sinks []application.QuoteSink

	guard, check, closeGuard, err := ProvideGuard(cfg, interval, log)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closeGuard)
	if check != nil {
		checks = append(checks, check)
	}

	archive, check, closeArchive, err := ProvideArchive(ctx, cfg, log)
	if err != nil {
		return fail(err)
	}
	cleanups = append(cleanups, closeArchive)
	if archive != nil {
		sinks = append(sinks, archive)
		checks = append(checks, check)
	}

	publisher, closePublisher := ProvideQuotePublisher(cfg, log)
	cleanups = append(cleanups, closePublisher)
	if publisher != nil {
		sinks = append(sinks, publisher)
	}

	store := application.NewRateStore(catalog, latch)
	svc := application.NewCryptoRateService(catalog, res.Settings, store, latch, res.Fetcher,
		application.WithSinks(sinks...),
		application.WithObserver(observer),
		application.WithLogger(log.With(zap.String("component", "cryptorate"))),
	)

	srv := httpserver.NewServer(svc, log)
	for _, c := range checks {
		srv.SetReadyCheck(c)
	}
	srv.SetMetricsHandler(metricsHandler)

	w := &worker.TickerWorker{
		Key:       infraconfig.RefreshJobID,
		Job:       svc.RefreshRates,
		Interval:  interval,
		RunAtBoot: true,
		Guard:     guard,
		Log:       log,
	}

	log.Info("app.built",
		zap.Int("enabled_coins", len(res.Settings.Coins)),
		zap.Float64("interval_minutes", res.Settings.Interval),
		zap.Bool("sandbox", res.Settings.Sandbox),
		zap.Int("sinks", len(sinks)),
	)
	return &App{Service: svc, Handler: httpserver.NewRouter(srv), Worker: w}, cleanup, nil
}
