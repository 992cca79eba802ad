package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// Service exposes the sample dashboard data over HTTP.
type Service struct {
	provider *Provider
}

func NewService(p *Provider) *Service {
	return &Service{provider: p}
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoadRoutes registers dashboard HTTP handlers on the given router.
func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	router := parentRouter.PathPrefix("/dashboard").Subrouter()
	router.StrictSlash(false)
	router.Use(jsonMiddleware)

	router.HandleFunc("/metrics", s.HandleMetrics).Methods("GET")
	router.HandleFunc("/marketing", s.HandleMarketing).Methods("GET")
	router.HandleFunc("/carts", s.HandleCarts).Methods("GET")
	router.HandleFunc("/insights", s.HandleInsights).Methods("GET")
	router.HandleFunc("/insights/refresh", s.HandleRefreshInsights).Methods("POST")
}

func (s *Service) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.provider.DashboardMetrics())
}

func (s *Service) HandleMarketing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.provider.MarketingMetrics())
}

// HandleCarts lists the sample carts, optionally filtered by ?status=.
func (s *Service) HandleCarts(w http.ResponseWriter, r *http.Request) {
	carts := s.provider.Carts()
	if status := CartStatus(r.URL.Query().Get("status")); status != "" {
		filtered := carts[:0]
		for _, c := range carts {
			if c.Status == status {
				filtered = append(filtered, c)
			}
		}
		carts = filtered
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(carts)
}

func (s *Service) HandleInsights(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(s.provider.Insights())
}

// HandleRefreshInsights blocks for the simulated analysis delay. A client
// that goes away cancels the refresh.
func (s *Service) HandleRefreshInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.provider.RefreshInsights(r.Context())
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.Info("Insights refresh cancelled", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"message": "insights refresh cancelled"})
		return
	}
	if err != nil {
		slog.Error("Insights refresh failed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(insights)
}
