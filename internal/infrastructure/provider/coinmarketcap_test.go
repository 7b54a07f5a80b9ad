package provider_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"cryptorate-service/internal/domain"
	"cryptorate-service/internal/infrastructure/httpx"
	"cryptorate-service/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func stubClient(resBody string, code int, seen *[]*http.Request) *httpx.Client {
	return &httpx.Client{HTTP: &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) *http.Response {
			if seen != nil {
				*seen = append(*seen, r)
			}
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
			}
		}),
	}}
}

const quotesOK = `{
  "status": {"error_code": 0, "error_message": null},
  "data": {
    "BTC": [{"id": 1, "symbol": "BTC", "quote": {"EUR": {
      "price": 61234.5,
      "percent_change_1h": 0.12,
      "percent_change_24h": -1.5,
      "percent_change_7d": 4.2,
      "percent_change_30d": 10.1
    }}}],
    "ETH": [{"id": 1027, "symbol": "ETH", "quote": {"EUR": {
      "price": 2400.25,
      "percent_change_30": 7.5
    }}}],
    "DOGE": []
  }
}`

func TestFetchLatest_RequestShape(t *testing.T) {
	var seen []*http.Request
	p := &provider.CoinMarketCapProvider{
		BaseURL: "https://pro-api.coinmarketcap.com",
		APIKey:  "secret",
		Client:  stubClient(quotesOK, 200, &seen),
	}
	_, err := p.FetchLatest(context.Background(), []domain.CoinID{"btc", "eth", "doge"})
	require.NoError(t, err)
	require.Len(t, seen, 1)

	r := seen[0]
	require.Equal(t, "/v2/cryptocurrency/quotes/latest", r.URL.Path)
	require.Equal(t, "BTC,ETH,DOGE", r.URL.Query().Get("symbol"))
	require.Equal(t, "EUR", r.URL.Query().Get("convert"))
	require.Equal(t, "secret", r.Header.Get("X-CMC_PRO_API_KEY"))
	require.Equal(t, "application/json", r.Header.Get("Accept"))
}

func TestFetchLatest_Decode(t *testing.T) {
	p := &provider.CoinMarketCapProvider{
		BaseURL: "https://pro-api.coinmarketcap.com",
		APIKey:  "secret",
		Client:  stubClient(quotesOK, 200, nil),
	}
	got, err := p.FetchLatest(context.Background(), []domain.CoinID{"btc", "eth", "doge"})
	require.NoError(t, err)

	require.Len(t, got, 2, "DOGE has an empty entry list and is skipped")

	btc := got["btc"]
	require.InDelta(t, 61234.5, btc.Price, 1e-9)
	require.NotNil(t, btc.Change1h)
	require.InDelta(t, 0.12, *btc.Change1h, 1e-9)
	require.InDelta(t, -1.5, *btc.Change24h, 1e-9)
	require.InDelta(t, 4.2, *btc.Change7d, 1e-9)
	require.Nil(t, btc.Change30d, "30-day change is read from percent_change_30")

	eth := got["eth"]
	require.Nil(t, eth.Change1h)
	require.Nil(t, eth.Change24h)
	require.NotNil(t, eth.Change30d)
	require.InDelta(t, 7.5, *eth.Change30d, 1e-9)
}

func TestFetchLatest_NoCoinsSkipsUpstream(t *testing.T) {
	var seen []*http.Request
	p := &provider.CoinMarketCapProvider{
		BaseURL: "https://pro-api.coinmarketcap.com",
		Client:  stubClient(quotesOK, 200, &seen),
	}
	got, err := p.FetchLatest(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Empty(t, seen)
}

func TestFetchLatest_UpstreamErrorMessage(t *testing.T) {
	body := `{"status": {"error_code": 1001, "error_message": "This API Key is invalid."}}`
	p := &provider.CoinMarketCapProvider{
		BaseURL: "https://pro-api.coinmarketcap.com",
		APIKey:  "bad",
		Client:  stubClient(body, 401, nil),
	}
	_, err := p.FetchLatest(context.Background(), []domain.CoinID{"btc"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
	require.Contains(t, err.Error(), "This API Key is invalid.")
}

func TestFetchLatest_UndecodableErrorBody(t *testing.T) {
	p := &provider.CoinMarketCapProvider{
		BaseURL: "https://pro-api.coinmarketcap.com",
		Client:  stubClient("<html>bad gateway</html>", 502, nil),
	}
	_, err := p.FetchLatest(context.Background(), []domain.CoinID{"btc"})
	require.EqualError(t, err, "coinmarketcap: status 502")
}

func TestFetchLatest_MissingBaseURL(t *testing.T) {
	p := &provider.CoinMarketCapProvider{Client: stubClient(quotesOK, 200, nil)}
	_, err := p.FetchLatest(context.Background(), []domain.CoinID{"btc"})
	require.Error(t, err)
}

func TestKeyInfo(t *testing.T) {
	body := `{
	  "status": {"error_code": 0},
	  "data": {"usage": {
	    "current_minute": {"requests_made": 0, "requests_left": 30},
	    "current_day": {"credits_used": 12, "credits_left": 321},
	    "current_month": {"credits_used": 44, "credits_left": 9956}
	  }}
	}`
	var seen []*http.Request
	p := &provider.CoinMarketCapProvider{
		BaseURL: "https://sandbox-api.coinmarketcap.com/",
		APIKey:  domain.SandboxAPIKey,
		Client:  stubClient(body, 200, &seen),
	}
	usage, err := p.KeyInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.KeyUsage{CreditsLeftToday: 321, CreditsLeftMonth: 9956}, usage)

	require.Len(t, seen, 1)
	require.Equal(t, "sandbox-api.coinmarketcap.com", seen[0].URL.Host)
	require.Equal(t, "/v1/key/info", seen[0].URL.Path)
	require.Equal(t, domain.SandboxAPIKey, seen[0].Header.Get("X-CMC_PRO_API_KEY"))
}

func TestKeyInfo_Unauthorized(t *testing.T) {
	body := `{"status": {"error_code": 1002, "error_message": "API key missing."}}`
	p := &provider.CoinMarketCapProvider{
		BaseURL: "https://pro-api.coinmarketcap.com",
		Client:  stubClient(body, 401, nil),
	}
	_, err := p.KeyInfo(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "API key missing.")
}
