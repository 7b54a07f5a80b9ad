package application

// UsageProjection estimates how many API credits the configured refresh
// schedule consumes.
type UsageProjection struct {
	CreditsPerRefresh int
	RefreshesPerDay   float64
	RefreshesPerMonth float64
	CreditsPerDay     float64
	CreditsPerMonth   float64
}

// ProjectUsage follows the upstream pricing of one credit per 100 symbols.
// The per-refresh figure is count/100 + 1 with integer division, so exact
// multiples of 100 are over-counted by one.
func ProjectUsage(coinCount int, intervalMinutes float64) UsageProjection {
	perRefresh := coinCount/100 + 1
	perDay := 1440 / intervalMinutes
	return UsageProjection{
		CreditsPerRefresh: perRefresh,
		RefreshesPerDay:   perDay,
		RefreshesPerMonth: perDay * 30,
		CreditsPerDay:     perDay * float64(perRefresh),
		CreditsPerMonth:   perDay * float64(perRefresh) * 30,
	}
}
