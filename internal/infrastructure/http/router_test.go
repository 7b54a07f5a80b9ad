package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubFetcher struct{ price float64 }

func (f stubFetcher) FetchLatest(_ context.Context, coins []domain.CoinID) (map[domain.CoinID]domain.RawQuote, error) {
	out := make(map[domain.CoinID]domain.RawQuote, len(coins))
	for _, c := range coins {
		out[c] = domain.RawQuote{Price: f.price}
	}
	return out, nil
}

func (stubFetcher) KeyInfo(context.Context) (domain.KeyUsage, error) { return domain.KeyUsage{}, nil }

type fixture struct {
	latch *application.ConfigLatch
	svc   *application.CryptoRateService
	srv   *Server
	h     http.Handler
}

func setup(t *testing.T) *fixture {
	t.Helper()
	catalog := domain.NewCatalog([]domain.Coin{
		{ID: "btc", Name: "Bitcoin", Icon: "<svg/>", Colour: "#f7931a"},
		{ID: "eth", Name: "Ethereum", Icon: "<svg/>", Colour: "#627eea"},
		{ID: "doge", Name: "Dogecoin", Icon: "<svg/>", Colour: "#c2a633"},
	})
	latch := application.NewConfigLatch()
	store := application.NewRateStore(catalog, latch)
	settings := domain.Settings{APIKey: "secret", Coins: []domain.CoinID{"btc", "eth"}, Interval: 10}
	svc := application.NewCryptoRateService(catalog, settings, store, latch, stubFetcher{price: 42})
	srv := NewServer(svc, nil)
	return &fixture{latch: latch, svc: svc, srv: srv, h: NewRouter(srv)}
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := setup(t).get(t, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	require.NotEmpty(t, rec.Header().Get("X-Trace-Id"))
}

func TestRequestIDEchoed(t *testing.T) {
	f := setup(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, req)
	require.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
}

func TestReadyz(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)

	f.srv.SetReadyCheck(func(context.Context) error { return errors.New("redis down") })
	rec = f.get(t, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"code":503,"message":"dependency not ready"}`, rec.Body.String())
}

func TestReadyz_Latched(t *testing.T) {
	f := setup(t)
	f.latch.Fail("bad key")
	rec := f.get(t, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"code":503,"message":"configuration error"}`, rec.Body.String())
}

func TestOverview(t *testing.T) {
	rec := setup(t).get(t, "/cryptorate")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AllCoins      map[string]string `json:"allCoins"`
		SelectedCoins map[string]string `json:"selectedCoins"`
		Icons         map[string]string `json:"icons"`
		Colours       map[string]string `json:"colours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.AllCoins, 3)
	require.Equal(t, map[string]string{"btc": "Bitcoin", "eth": "Ethereum"}, body.SelectedCoins)
	require.Equal(t, "#c2a633", body.Colours["doge"])
	require.Equal(t, "<svg/>", body.Icons["btc"])
}

func TestSettings_KeyStripped(t *testing.T) {
	rec := setup(t).get(t, "/cryptorate/settings")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"coins":["btc","eth"],"interval":10,"sandbox":false}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "secret")
}

func TestWidgets(t *testing.T) {
	rec := setup(t).get(t, "/cryptorate/widgets")
	require.Equal(t, http.StatusOK, rec.Code)

	var body domain.PluginInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "2.1.0", body.Version)
	require.Len(t, body.Widgets, 1)
	require.Equal(t, "rate.svelte", body.Widgets[0].Path)
	require.Equal(t, domain.CoinID("btc"), body.Widgets[0].Defaults.Coin)
}

func TestCoin_EmptyHistory(t *testing.T) {
	rec := setup(t).get(t, "/cryptorate/doge")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"name":"Dogecoin","rates":[],"icon":"<svg/>","colour":"#c2a633"}`, rec.Body.String())
}

func TestCoin_AfterRefresh(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.svc.RefreshRates(context.Background()))

	rec := f.get(t, "/cryptorate/btc")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Name  string `json:"name"`
		Rates []struct {
			Price float64 `json:"price"`
		} `json:"rates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Bitcoin", body.Name)
	require.Len(t, body.Rates, domain.HistorySize)
	require.InDelta(t, 42, body.Rates[9].Price, 1e-9)
}

func TestCoin_Unknown(t *testing.T) {
	rec := setup(t).get(t, "/cryptorate/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"code":404,"message":"no such coin exists"}`, rec.Body.String())
}

func TestLatchedRoutesReportError(t *testing.T) {
	f := setup(t)
	f.latch.Fail("Setting `coins` must be an array.")

	for _, path := range []string{"/cryptorate", "/cryptorate/settings", "/cryptorate/btc", "/cryptorate/nope"} {
		rec := f.get(t, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.JSONEq(t, `{"error":"Setting `+"`coins`"+` must be an array."}`, rec.Body.String(), path)
	}
}

func TestMetricsMounted(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusNotFound, f.get(t, "/metrics").Code)

	f.srv.SetMetricsHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	}))
	f.h = NewRouter(f.srv)
	rec := f.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "# metrics", rec.Body.String())
}

func TestRecoverer(t *testing.T) {
	h := recoverer(setup(t).srv.log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code":500,"message":"Internal Server Error"}`, rec.Body.String())
}

type brokenService struct{ err error }

func (b brokenService) ConfigErr() error                        { return nil }
func (b brokenService) Overview() (application.Overview, error) { return application.Overview{}, b.err }
func (b brokenService) SettingsView() (domain.Settings, error)  { return domain.Settings{}, b.err }
func (b brokenService) CoinDetail(domain.CoinID) (application.CoinDetail, error) {
	return application.CoinDetail{}, b.err
}

func TestUnexpectedErrorLoggedWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	srv := NewServer(brokenService{err: errors.New("disk on fire")}, zap.New(core))
	h := NewRouter(srv)

	req := httptest.NewRequest(http.MethodGet, "/cryptorate", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"code":500,"message":"Internal Server Error"}`, rec.Body.String())

	failed := logs.FilterMessage("http.handler_failed").All()
	require.Len(t, failed, 1)
	require.Equal(t, "req-42", failed[0].ContextMap()["request_id"])

	access := logs.FilterMessage("http_request").All()
	require.Len(t, access, 1)
	require.EqualValues(t, http.StatusInternalServerError, access[0].ContextMap()["status"])
}
