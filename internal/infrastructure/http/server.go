package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"cryptorate-service/internal/application"
	"cryptorate-service/internal/domain"
	"cryptorate-service/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RateService is the read side the routes are served from.
type RateService interface {
	ConfigErr() error
	Overview() (application.Overview, error)
	CoinDetail(id domain.CoinID) (application.CoinDetail, error)
	SettingsView() (domain.Settings, error)
}

type Server struct {
	svc     RateService
	ready   []func(ctx context.Context) error
	metrics http.Handler
	log     *zap.Logger
}

func NewServer(svc RateService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, log: log}
}

// SetReadyCheck adds a dependency check consulted by /readyz.
func (s *Server) SetReadyCheck(check func(ctx context.Context) error) {
	s.ready = append(s.ready, check)
}

// SetMetricsHandler mounts h on /metrics.
func (s *Server) SetMetricsHandler(h http.Handler) { s.metrics = h }

func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	if s.svc.ConfigErr() != nil {
		writeError(w, http.StatusServiceUnavailable, "configuration error")
		return
	}
	for _, check := range s.ready {
		if err := check(r.Context()); err != nil {
			s.log.Warn("http.ready_check_failed", zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "dependency not ready")
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}

func (s *Server) GetOverview(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.Overview()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.SettingsView()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) GetWidgets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Plugin)
}

func (s *Server) GetCoin(w http.ResponseWriter, r *http.Request) {
	id := domain.CoinID(chi.URLParam(r, "coinID"))
	out, err := s.svc.CoinDetail(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// fail maps service errors onto responses. A latched configuration error is
// reported in the body with status 200 so the UI can show it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var cfgErr *application.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		writeJSON(w, http.StatusOK, map[string]string{"error": cfgErr.Message})
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "no such coin exists")
	default:
		logx.WithFields(r.Context()).Error("http.handler_failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Code: status, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
