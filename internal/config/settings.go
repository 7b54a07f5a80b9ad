package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"cryptorate-service/internal/domain"

	"github.com/ilyakaznacheev/cleanenv"
)

// pluginSettings mirrors the settings document a dashboard host stores for
// this plugin. Coins stays untyped so that a malformed value survives
// decoding and can be reported by startup validation.
type pluginSettings struct {
	APIKey   string  `yaml:"apikey" json:"apikey" env:"CRYPTORATE_APIKEY"`
	Coins    any     `yaml:"coins" json:"coins"`
	Interval float64 `yaml:"interval" json:"interval" env:"CRYPTORATE_INTERVAL" env-default:"10"`
	Sandbox  bool    `yaml:"sandbox" json:"sandbox" env:"CRYPTORATE_SANDBOX" env-default:"false"`
}

// LoadSettings reads the plugin settings file at path (YAML or JSON) with
// environment overrides. A missing file yields the defaults.
func LoadSettings(path string) (domain.RawSettings, error) {
	var s pluginSettings
	_, statErr := os.Stat(path)
	switch {
	case path != "" && statErr == nil:
		if err := cleanenv.ReadConfig(path, &s); err != nil {
			return domain.RawSettings{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	case path == "" || errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&s); err != nil {
			return domain.RawSettings{}, fmt.Errorf("read settings env: %w", err)
		}
	default:
		return domain.RawSettings{}, fmt.Errorf("stat settings %s: %w", path, statErr)
	}

	if s.Coins == nil {
		coins := make([]any, len(domain.DefaultCoins))
		for i, c := range domain.DefaultCoins {
			coins[i] = string(c)
		}
		s.Coins = coins
	}
	return domain.RawSettings{
		APIKey:   s.APIKey,
		Coins:    s.Coins,
		Interval: s.Interval,
		Sandbox:  s.Sandbox,
	}, nil
}
