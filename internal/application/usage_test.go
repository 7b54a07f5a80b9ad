package application

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProjectUsage(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		coins     int
		interval  float64
		perUpdate int
		perDay    float64
	}{
		{"three coins every ten minutes", 3, 10, 1, 144},
		{"exactly one hundred", 100, 10, 2, 144},
		{"one hundred and fifty", 150, 60, 2, 24},
		{"none", 0, 1440, 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := ProjectUsage(c.coins, c.interval)
			require.Equal(t, c.perUpdate, p.CreditsPerRefresh)
			require.InDelta(t, c.perDay, p.RefreshesPerDay, 1e-9)
			require.InDelta(t, c.perDay*30, p.RefreshesPerMonth, 1e-9)
			require.InDelta(t, c.perDay*float64(c.perUpdate), p.CreditsPerDay, 1e-9)
			require.InDelta(t, c.perDay*float64(c.perUpdate)*30, p.CreditsPerMonth, 1e-9)
		})
	}
}
