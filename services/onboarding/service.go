package onboarding

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// Tour names the guided tour shown on a page.
type Tour string

const (
	TourDashboard    Tour = "dashboard"
	TourDecisionTree Tour = "decision-tree"
	TourComplete     Tour = "complete"
)

// TourFor picks the tour for a page route.
func TourFor(route string) Tour {
	switch route {
	case "/":
		return TourDashboard
	case "/ai-decision-tree":
		return TourDecisionTree
	default:
		return TourComplete
	}
}

// Status is what the client needs to decide whether to auto-start a tour.
type Status struct {
	Visitor   string `json:"visitor"`
	Tour      Tour   `json:"tour"`
	Seen      bool   `json:"seen"`
	AutoStart bool   `json:"autoStart"`
}

type Service struct {
	store SeenStore
}

func NewService(store SeenStore) *Service {
	return &Service{store: store}
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoadRoutes registers onboarding HTTP handlers on the given router.
func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	router := parentRouter.PathPrefix("/onboarding").Subrouter()
	router.StrictSlash(false)
	router.Use(jsonMiddleware)

	router.HandleFunc("/{visitor}", s.HandleStatus).Methods("GET")
	router.HandleFunc("/{visitor}/seen", s.HandleMarkSeen).Methods("POST")
}

// HandleStatus reports the tour for ?route= and whether it should start on
// its own. A tour auto-starts only for visitors who have never seen one.
func (s *Service) HandleStatus(w http.ResponseWriter, r *http.Request) {
	visitor := mux.Vars(r)["visitor"]
	route := r.URL.Query().Get("route")
	if route == "" {
		route = "/"
	}

	seen, err := s.store.Seen(r.Context(), visitor)
	if err != nil {
		slog.Error("Failed to read tour flag", "visitor", visitor, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Status{
		Visitor:   visitor,
		Tour:      TourFor(route),
		Seen:      seen,
		AutoStart: !seen,
	})
}

// HandleMarkSeen records that the visitor finished or skipped the tour.
func (s *Service) HandleMarkSeen(w http.ResponseWriter, r *http.Request) {
	visitor := mux.Vars(r)["visitor"]
	if err := s.store.MarkSeen(r.Context(), visitor); err != nil {
		slog.Error("Failed to store tour flag", "visitor", visitor, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	slog.Debug("Tour marked as seen", "visitor", visitor)
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
