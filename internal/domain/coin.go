package domain

import "strings"

// CoinID is the lowercase ticker symbol used throughout the service, e.g. "btc".
type CoinID string

// Upper returns the symbol in the form the upstream API expects.
func (c CoinID) Upper() string { return strings.ToUpper(string(c)) }

// ParseCoinID normalises a symbol received from upstream or from a request.
func ParseCoinID(s string) CoinID { return CoinID(strings.ToLower(strings.TrimSpace(s))) }

type Coin struct {
	ID     CoinID
	Name   string
	Icon   string
	Colour string
}

// Catalog is the fixed list of supported coins. It is never mutated after
// construction, so it can be shared freely between goroutines.
type Catalog struct {
	coins []Coin
	index map[CoinID]int
}

func NewCatalog(coins []Coin) Catalog {
	c := Catalog{
		coins: make([]Coin, len(coins)),
		index: make(map[CoinID]int, len(coins)),
	}
	copy(c.coins, coins)
	for i, coin := range c.coins {
		c.index[coin.ID] = i
	}
	return c
}

func (c Catalog) Len() int { return len(c.coins) }

func (c Catalog) Contains(id CoinID) bool {
	_, ok := c.index[id]
	return ok
}

func (c Catalog) Lookup(id CoinID) (Coin, bool) {
	i, ok := c.index[id]
	if !ok {
		return Coin{}, false
	}
	return c.coins[i], true
}

// IDs returns the catalog identifiers in catalog order.
func (c Catalog) IDs() []CoinID {
	out := make([]CoinID, len(c.coins))
	for i, coin := range c.coins {
		out[i] = coin.ID
	}
	return out
}

func (c Catalog) Names() map[CoinID]string {
	out := make(map[CoinID]string, len(c.coins))
	for _, coin := range c.coins {
		out[coin.ID] = coin.Name
	}
	return out
}

func (c Catalog) Icons() map[CoinID]string {
	out := make(map[CoinID]string, len(c.coins))
	for _, coin := range c.coins {
		out[coin.ID] = coin.Icon
	}
	return out
}

func (c Catalog) Colours() map[CoinID]string {
	out := make(map[CoinID]string, len(c.coins))
	for _, coin := range c.coins {
		out[coin.ID] = coin.Colour
	}
	return out
}
