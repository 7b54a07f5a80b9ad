package domain

import (
	"math"
	"time"
)

const (
	DefaultIntervalMinutes = 10
	ProductionAPIBase      = "https://pro-api.coinmarketcap.com"
	SandboxAPIBase         = "https://sandbox-api.coinmarketcap.com"
	// SandboxAPIKey is the shared key CoinMarketCap publishes for its sandbox.
	SandboxAPIKey = "b54bcf4d-1bca-4e8e-9a24-22ff2c3d462c"
)

// DefaultCoins is the enabled-coins setting used when none is stored.
var DefaultCoins = []CoinID{"btc", "eth", "doge"}

// RawSettings is the plugin settings document as stored. Coins is left
// untyped so that a value of the wrong shape can be reported.
type RawSettings struct {
	APIKey   string
	Coins    any
	Interval float64
	Sandbox  bool
}

// Settings are the validated settings the service runs with.
type Settings struct {
	APIKey   string   `json:"-"`
	Coins    []CoinID `json:"coins"`
	Interval float64  `json:"interval"`
	Sandbox  bool     `json:"sandbox"`
}

// Bounds of the refresh period derived from Interval.
const (
	MinRefreshEvery = time.Second
	MaxRefreshEvery = time.Duration(math.MaxInt64)
)

// RefreshEvery converts Interval minutes to the refresh period, clamped to
// [MinRefreshEvery, MaxRefreshEvery].
func (s Settings) RefreshEvery() time.Duration {
	d := s.Interval * float64(time.Minute)
	switch {
	case !(d >= float64(MinRefreshEvery)):
		return MinRefreshEvery
	case d >= float64(MaxRefreshEvery):
		return MaxRefreshEvery
	}
	return time.Duration(d)
}

// Endpoint identifies the upstream API and the key sent to it.
type Endpoint struct {
	BaseURL string
	APIKey  string
}

// KeyUsage is the credit information reported for an API key.
type KeyUsage struct {
	CreditsLeftToday float64
	CreditsLeftMonth float64
}
