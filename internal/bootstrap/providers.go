package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/config"
	"cryptorate-service/internal/domain"
	"cryptorate-service/internal/infrastructure/httpx"
	"cryptorate-service/internal/infrastructure/kafka"
	"cryptorate-service/internal/infrastructure/logx"
	"cryptorate-service/internal/infrastructure/metrics"
	"cryptorate-service/internal/infrastructure/pg"
	"cryptorate-service/internal/infrastructure/provider"
	redisstore "cryptorate-service/internal/infrastructure/redis"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReadyCheck is consulted by /readyz.
type ReadyCheck func(ctx context.Context) error

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideMetrics() (*metrics.RefreshMetrics, http.Handler) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewRefreshMetrics(reg), promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ProvideFetcherFactory picks the upstream implementation. The factory is
// called by startup validation once the sandbox switch is resolved.
func ProvideFetcherFactory(cfg config.Config) (application.FetcherFactory, error) {
	switch cfg.Provider {
	case "coinmarketcap", "":
		client := &httpx.Client{HTTP: &http.Client{Timeout: cfg.RequestTimeout}}
		return func(ep domain.Endpoint) application.QuoteFetcher {
			return &provider.CoinMarketCapProvider{
				BaseURL: ep.BaseURL,
				APIKey:  ep.APIKey,
				Client:  client,
			}
		}, nil
	case "fake":
		fake := provider.NewFake(100, time.Now().UnixNano())
		return func(domain.Endpoint) application.QuoteFetcher { return fake }, nil
	default:
		return nil, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

// ProvideGuard returns the refresh guard for REFRESH_LOCK. The redis lock is
// scoped to this instance and its TTL equals the refresh interval, so a
// crashed run blocks at most one tick.
func ProvideGuard(cfg config.Config, interval time.Duration, log *zap.Logger) (application.RefreshGuard, ReadyCheck, func(), error) {
	switch cfg.RefreshLock {
	case "local", "":
		return application.NewLocalGuard(), nil, func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		lock := redisstore.New(client, interval)
		if cfg.InstanceID != "" {
			lock = redisstore.NewForInstance(client, interval, cfg.InstanceID)
		}
		cleanup := func() {
			log.Info("closing redis")
			_ = client.Close()
		}
		return lock, lock.Ping, cleanup, nil
	default:
		return nil, nil, func() {}, fmt.Errorf("unsupported REFRESH_LOCK=%q", cfg.RefreshLock)
	}
}

func ProvideArchive(ctx context.Context, cfg config.Config, log *zap.Logger) (application.QuoteSink, ReadyCheck, func(), error) {
	switch cfg.Archive {
	case "none", "":
		return nil, nil, func() {}, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, nil, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewQuoteArchive(db), db.Ping, cleanup, nil
	default:
		return nil, nil, func() {}, fmt.Errorf("unsupported ARCHIVE=%q", cfg.Archive)
	}
}

// ProvideQuotePublisher returns nil when no brokers are configured.
func ProvideQuotePublisher(cfg config.Config, log *zap.Logger) (application.QuoteSink, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, func() {}
	}
	p := kafka.NewQuotePublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	return p, func() {
		log.Info("closing kafka writer")
		_ = p.Close()
	}
}
