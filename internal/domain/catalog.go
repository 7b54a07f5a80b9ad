package domain

import "fmt"

const iconTemplate = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><circle cx="16" cy="16" r="16" fill="%s"/><text x="16" y="20" fill="#fff" font-family="sans-serif" font-size="%d" font-weight="700" text-anchor="middle">%s</text></svg>`

var defaultCoins = []struct {
	id     CoinID
	name   string
	colour string
}{
	{"btc", "Bitcoin", "#F7931A"},
	{"eth", "Ethereum", "#627EEA"},
	{"usdt", "Tether", "#26A17B"},
	{"bnb", "BNB", "#F3BA2F"},
	{"sol", "Solana", "#9945FF"},
	{"xrp", "XRP", "#23292F"},
	{"usdc", "USD Coin", "#2775CA"},
	{"ada", "Cardano", "#0033AD"},
	{"doge", "Dogecoin", "#C2A633"},
	{"trx", "TRON", "#EF0027"},
	{"dot", "Polkadot", "#E6007A"},
	{"ltc", "Litecoin", "#345D9D"},
	{"link", "Chainlink", "#2A5ADA"},
	{"bch", "Bitcoin Cash", "#8DC351"},
	{"xlm", "Stellar", "#14B6E7"},
	{"atom", "Cosmos", "#2E3148"},
	{"xmr", "Monero", "#FF6600"},
	{"etc", "Ethereum Classic", "#328332"},
	{"avax", "Avalanche", "#E84142"},
	{"matic", "Polygon", "#8247E5"},
	{"shib", "Shiba Inu", "#FFA409"},
	{"uni", "Uniswap", "#FF007A"},
	{"algo", "Algorand", "#000000"},
	{"fil", "Filecoin", "#0090FF"},
	{"near", "NEAR Protocol", "#00C1DE"},
	{"xtz", "Tezos", "#2C7DF7"},
	{"dash", "Dash", "#008CE7"},
	{"zec", "Zcash", "#ECB244"},
	{"eos", "EOS", "#000000"},
	{"nano", "Nano", "#4A90E2"},
}

// DefaultCatalog returns the compiled-in list of supported coins.
func DefaultCatalog() Catalog {
	coins := make([]Coin, 0, len(defaultCoins))
	for _, c := range defaultCoins {
		coins = append(coins, Coin{
			ID:     c.id,
			Name:   c.name,
			Icon:   coinIcon(c.id, c.colour),
			Colour: c.colour,
		})
	}
	return NewCatalog(coins)
}

func coinIcon(id CoinID, colour string) string {
	label := id.Upper()
	size := 10
	if len(label) > 3 {
		size = 8
	}
	return fmt.Sprintf(iconTemplate, colour, size, label)
}
