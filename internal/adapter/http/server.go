package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/snow-forecast-service/internal/adapter/chart"
	"github.com/couchcryptid/snow-forecast-service/internal/domain"
)

// ForecastService builds forecast reports for the API.
type ForecastService interface {
	Forecast(ctx context.Context, locationID string) (domain.Report, error)
	TimeZone(loc domain.ForecastLocation) *time.Location
}

// Server exposes the forecast API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	forecasts  ForecastService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics, and the /v1 API routes.
func NewServer(addr string, forecasts ForecastService, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	r := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		forecasts: forecasts,
		logger:    logger,
	}

	r.HandleFunc("/healthz", sharedobs.LivenessHandler()).Methods(http.MethodGet)
	r.HandleFunc("/readyz", sharedobs.ReadinessHandler(ready)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/forecast", s.handleForecast).Methods(http.MethodGet)
	api.HandleFunc("/forecast/chart", s.handleChart).Methods(http.MethodGet)
	api.HandleFunc("/locations", s.handleLocations).Methods(http.MethodGet)
	api.HandleFunc("/locations/{id}", s.handleLocation).Methods(http.MethodGet)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	report, err := s.forecasts.Forecast(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		s.writeForecastError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	report, err := s.forecasts.Forecast(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		s.writeForecastError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderForecast(w, report, s.forecasts.TimeZone(report.Location)); err != nil {
		s.logger.Error("chart render failed", "location", report.Location.ID, "error", err)
	}
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(r.URL.Query().Get("state"))
	locations := domain.ForecastLocations()
	if state != "" {
		locations = domain.LocationsForState(state)
	}
	if locations == nil {
		locations = []domain.ForecastLocation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"locations": locations,
		"states":    domain.ForecastStates(),
	})
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	loc, ok := domain.FindLocation(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown location " + id})
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) writeForecastError(w http.ResponseWriter, err error) {
	var upstream *domain.UpstreamFetchError
	if errors.As(err, &upstream) {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":     "upstream forecast unavailable",
			"gridpoint": upstream.Gridpoint.String(),
		})
		return
	}
	s.logger.Error("forecast request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
