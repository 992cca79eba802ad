package flow

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"campaign-flow/api/pkg/metrics"
)

// FlowRepo abstracts flow persistence for testability.
type FlowRepo interface {
	Get(ctx context.Context, id string) (*Flow, error)
	Save(ctx context.Context, f *Flow) error
	Delete(ctx context.Context, id string) (bool, error)
}

// FactSource resolves the decision facts of a known cart.
type FactSource interface {
	CartFacts(cartID string, now time.Time) (Facts, bool)
}

// Service wires together persistence, the editor reducer and the simulator
// for the flow domain.
type Service struct {
	repo      FlowRepo
	facts     FactSource
	simulator *Simulator
	nodes     *NodeFactory
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewService creates a Service over the given repository and fact source.
func NewService(repo FlowRepo, facts FactSource, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		facts:     facts,
		simulator: NewSimulator(NewRegistry()),
		nodes:     NewNodeFactory(nil),
		metrics:   m,
		now:       time.Now,
	}
}

// jsonMiddleware sets the Content-Type header to application/json.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// LoadRoutes registers flow HTTP handlers on the given router.
func (s *Service) LoadRoutes(parentRouter *mux.Router) {
	router := parentRouter.PathPrefix("/flows").Subrouter()
	router.StrictSlash(false)
	router.Use(jsonMiddleware)

	router.HandleFunc("/generate", s.HandleGenerate).Methods("POST")
	router.HandleFunc("/{id}", s.HandleGetFlow).Methods("GET")
	router.HandleFunc("/{id}", s.HandleImportFlow).Methods("PUT")
	router.HandleFunc("/{id}", s.HandleDeleteFlow).Methods("DELETE")
	router.HandleFunc("/{id}/layout", s.HandleLayout).Methods("POST")
	router.HandleFunc("/{id}/gestures", s.HandleGestures).Methods("POST")
	router.HandleFunc("/{id}/export", s.HandleExportFlow).Methods("GET")
	router.HandleFunc("/{id}/svg", s.HandleRenderSVG).Methods("GET")
	router.HandleFunc("/{id}/validate", s.HandleValidate).Methods("GET")
	router.HandleFunc("/{id}/simulate", s.HandleSimulate).Methods("POST")
}
