package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/domain"
	"cryptorate-service/internal/infrastructure/httpx"
)

const (
	quotesLatestPath = "/v2/cryptocurrency/quotes/latest"
	keyInfoPath      = "/v1/key/info"
	apiKeyHeader     = "X-CMC_PRO_API_KEY"
	DefaultConvert   = "EUR"
)

type CoinMarketCapProvider struct {
	BaseURL string
	APIKey  string
	Convert string
	Client  *httpx.Client
}

var _ application.QuoteFetcher = (*CoinMarketCapProvider)(nil)

type cmcStatus struct {
	ErrorCode    int     `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

type cmcQuote struct {
	Price            *float64 `json:"price"`
	PercentChange1h  *float64 `json:"percent_change_1h"`
	PercentChange24h *float64 `json:"percent_change_24h"`
	PercentChange7d  *float64 `json:"percent_change_7d"`
	// The 30-day change is read from "percent_change_30"; the API names it
	// "percent_change_30d", so this is normally absent.
	PercentChange30 *float64 `json:"percent_change_30"`
}

type cmcCoin struct {
	ID     int                 `json:"id"`
	Symbol string              `json:"symbol"`
	Quote  map[string]cmcQuote `json:"quote"`
}

type cmcQuotesResp struct {
	Status cmcStatus            `json:"status"`
	Data   map[string][]cmcCoin `json:"data"`
}

type cmcCredits struct {
	CreditsLeft float64 `json:"credits_left"`
}

type cmcKeyInfoResp struct {
	Status cmcStatus `json:"status"`
	Data   struct {
		Usage struct {
			CurrentDay   cmcCredits `json:"current_day"`
			CurrentMonth cmcCredits `json:"current_month"`
		} `json:"usage"`
	} `json:"data"`
}

// FetchLatest requests all coins in a single call. Symbols missing from the
// response, or without a quote in the convert currency, are left out.
func (p *CoinMarketCapProvider) FetchLatest(ctx context.Context, coins []domain.CoinID) (map[domain.CoinID]domain.RawQuote, error) {
	if len(coins) == 0 {
		return map[domain.CoinID]domain.RawQuote{}, nil
	}
	symbols := make([]string, len(coins))
	for i, c := range coins {
		symbols[i] = c.Upper()
	}
	convert := p.convert()

	u, err := p.url(quotesLatestPath)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbol", strings.Join(symbols, ","))
	q.Set("convert", convert)
	u.RawQuery = q.Encode()

	var body cmcQuotesResp
	if err := p.get(ctx, u.String(), &body); err != nil {
		return nil, err
	}

	out := make(map[domain.CoinID]domain.RawQuote, len(body.Data))
	for symbol, entries := range body.Data {
		if len(entries) == 0 {
			continue
		}
		quote, ok := entries[0].Quote[convert]
		if !ok {
			continue
		}
		var price float64
		if quote.Price != nil {
			price = *quote.Price
		}
		out[domain.ParseCoinID(symbol)] = domain.RawQuote{
			Price:     price,
			Change1h:  quote.PercentChange1h,
			Change24h: quote.PercentChange24h,
			Change7d:  quote.PercentChange7d,
			Change30d: quote.PercentChange30,
		}
	}
	return out, nil
}

func (p *CoinMarketCapProvider) KeyInfo(ctx context.Context) (domain.KeyUsage, error) {
	u, err := p.url(keyInfoPath)
	if err != nil {
		return domain.KeyUsage{}, err
	}
	var body cmcKeyInfoResp
	if err := p.get(ctx, u.String(), &body); err != nil {
		return domain.KeyUsage{}, err
	}
	return domain.KeyUsage{
		CreditsLeftToday: body.Data.Usage.CurrentDay.CreditsLeft,
		CreditsLeftMonth: body.Data.Usage.CurrentMonth.CreditsLeft,
	}, nil
}

func (p *CoinMarketCapProvider) convert() string {
	if p.Convert == "" {
		return DefaultConvert
	}
	return p.Convert
}

func (p *CoinMarketCapProvider) url(path string) (*url.URL, error) {
	if p.BaseURL == "" {
		return nil, errors.New("coinmarketcap: missing base url")
	}
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap: invalid base url: %w", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u, nil
}

func (p *CoinMarketCapProvider) get(ctx context.Context, u string, out any) error {
	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	err := client.GetJSON(ctx, u, http.Header{apiKeyHeader: {p.APIKey}}, out)
	if err == nil {
		return nil
	}
	var se *httpx.StatusError
	if errors.As(err, &se) {
		var body struct {
			Status cmcStatus `json:"status"`
		}
		if json.Unmarshal(se.Body, &body) == nil && body.Status.ErrorMessage != nil {
			return fmt.Errorf("coinmarketcap: status %d: %d %s", se.Code, body.Status.ErrorCode, *body.Status.ErrorMessage)
		}
		return fmt.Errorf("coinmarketcap: status %d", se.Code)
	}
	return fmt.Errorf("coinmarketcap: %w", err)
}
