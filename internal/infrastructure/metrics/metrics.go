package metrics

import (
	"time"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var _ application.RefreshObserver = (*RefreshMetrics)(nil)

// RefreshMetrics records refresh outcomes and the latest price per coin.
type RefreshMetrics struct {
	RefreshTotal     *prometheus.CounterVec
	RefreshDuration  prometheus.Histogram
	CoinPrice        *prometheus.GaugeVec
	ConfigurationBad prometheus.Gauge
}

func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	f := promauto.With(reg)
	return &RefreshMetrics{
		RefreshTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptorate_refresh_total",
				Help: "Refresh runs by result.",
			},
			[]string{"result"},
		),
		RefreshDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cryptorate_refresh_duration_seconds",
			Help:    "Duration of refresh runs including the upstream call.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		CoinPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cryptorate_coin_price_eur",
				Help: "Latest quoted price per coin.",
			},
			[]string{"coin"},
		),
		ConfigurationBad: f.NewGauge(prometheus.GaugeOpts{
			Name: "cryptorate_configuration_error",
			Help: "1 once a configuration error has been latched.",
		}),
	}
}

func (m *RefreshMetrics) RefreshSucceeded(d time.Duration) {
	m.RefreshTotal.WithLabelValues("ok").Inc()
	m.RefreshDuration.Observe(d.Seconds())
}

func (m *RefreshMetrics) RefreshFailed(d time.Duration) {
	m.RefreshTotal.WithLabelValues("error").Inc()
	m.RefreshDuration.Observe(d.Seconds())
}

func (m *RefreshMetrics) QuoteObserved(coin domain.CoinID, price float64) {
	m.CoinPrice.WithLabelValues(string(coin)).Set(price)
}

func (m *RefreshMetrics) ConfigurationFailed() { m.ConfigurationBad.Set(1) }
