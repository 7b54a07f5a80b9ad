package domain

import "time"

// RawQuote carries the fields returned by the upstream API for one coin.
// Nil percentage fields were absent from the response.
type RawQuote struct {
	Price     float64
	Change1h  *float64
	Change24h *float64
	Change7d  *float64
	Change30d *float64
}

// CoinQuote is one point of a coin's rate history.
type CoinQuote struct {
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	Change1h  *float64  `json:"change1h,omitempty"`
	Change24h *float64  `json:"change24h,omitempty"`
	Change7d  *float64  `json:"change7d,omitempty"`
	Change30d *float64  `json:"change30d,omitempty"`
}

func NewCoinQuote(at time.Time, raw RawQuote) CoinQuote {
	return CoinQuote{
		Date:      at,
		Price:     raw.Price,
		Change1h:  copyFloat(raw.Change1h),
		Change24h: copyFloat(raw.Change24h),
		Change7d:  copyFloat(raw.Change7d),
		Change30d: copyFloat(raw.Change30d),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// QuoteBatch is the set of quotes applied by a single refresh.
type QuoteBatch struct {
	FetchedAt time.Time
	Quotes    map[CoinID]CoinQuote
}

func (b QuoteBatch) Empty() bool { return len(b.Quotes) == 0 }
