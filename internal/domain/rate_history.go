package domain

import "encoding/json"

// HistorySize is the number of quotes kept per coin.
const HistorySize = 10

// RateHistory is a coin's most recent quotes, oldest first. Its length is
// either 0 (never refreshed) or exactly HistorySize.
type RateHistory []CoinQuote

// Push returns the history after recording q. An empty history is filled
// with HistorySize copies of q; otherwise the oldest quote is dropped.
func (h RateHistory) Push(q CoinQuote) RateHistory {
	out := make(RateHistory, HistorySize)
	if len(h) == 0 {
		for i := range out {
			out[i] = q
		}
		return out
	}
	prev := h
	if len(prev) > HistorySize-1 {
		prev = prev[len(prev)-(HistorySize-1):]
	}
	copy(out[HistorySize-1-len(prev):], prev)
	out[HistorySize-1] = q
	return out
}

func (h RateHistory) Clone() RateHistory {
	out := make(RateHistory, len(h))
	copy(out, h)
	return out
}

// Latest returns the newest quote, if any.
func (h RateHistory) Latest() (CoinQuote, bool) {
	if len(h) == 0 {
		return CoinQuote{}, false
	}
	return h[len(h)-1], true
}

// MarshalJSON renders an unrefreshed history as [] rather than null.
func (h RateHistory) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]CoinQuote(h))
}
