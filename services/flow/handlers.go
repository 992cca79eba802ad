package flow

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type flowResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Nodes     []Node    `json:"nodes"`
	Edges     []Edge    `json:"edges"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(f *Flow) flowResponse {
	resp := flowResponse{
		ID:        f.ID,
		Name:      f.Name,
		Nodes:     f.Graph.Nodes,
		Edges:     f.Graph.Edges,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if resp.Nodes == nil {
		resp.Nodes = []Node{}
	}
	if resp.Edges == nil {
		resp.Edges = []Edge{}
	}
	return resp
}

// loadFlow resolves the {id} route variable, writing the error response
// itself when the flow cannot be returned.
func (s *Service) loadFlow(w http.ResponseWriter, r *http.Request) (*Flow, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid flow id")
		return nil, false
	}

	f, err := s.repo.Get(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get flow", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil, false
	}
	if f == nil {
		writeError(w, http.StatusNotFound, "flow not found")
		return nil, false
	}
	return f, true
}

func (s *Service) saveFlow(w http.ResponseWriter, r *http.Request, f *Flow) bool {
	if err := s.repo.Save(r.Context(), f); err != nil {
		slog.Error("Failed to save flow", "id", f.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return false
	}
	return true
}

// HandleGetFlow loads a flow and returns its nodes and edges as JSON.
func (s *Service) HandleGetFlow(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Getting flow", "id", mux.Vars(r)["id"])

	f, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toResponse(f))
}

// HandleImportFlow replaces a flow's graph with an uploaded snapshot and lays
// it out. A snapshot that does not parse leaves the stored flow untouched.
func (s *Service) HandleImportFlow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid flow id")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := Deserialize(body)
	if err != nil {
		s.metrics.ImportFailures.Inc()
		slog.Warn("Rejected flow import", "id", id, "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := s.repo.Get(r.Context(), id)
	if err != nil {
		slog.Error("Failed to get flow for import", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if f == nil {
		f = &Flow{ID: id, Name: "Imported Flow"}
	}
	if name := r.URL.Query().Get("name"); name != "" {
		f.Name = name
	}

	state, _, _ := Reduce(State{Graph: f.Graph, LaidOut: true}, Replace{Graph: g})
	f.Graph = s.sync(state, "import").Graph

	if !s.saveFlow(w, r, f) {
		return
	}
	slog.Info("Imported flow", "id", id, "nodes", len(f.Graph.Nodes), "edges", len(f.Graph.Edges))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toResponse(f))
}

// HandleDeleteFlow removes a flow.
func (s *Service) HandleDeleteFlow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid flow id")
		return
	}

	deleted, err := s.repo.Delete(r.Context(), id)
	if err != nil {
		slog.Error("Failed to delete flow", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "flow not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleLayout runs the layout pass. Without force=true manually placed
// positions are kept and the call is a no-op.
func (s *Service) HandleLayout(w http.ResponseWriter, r *http.Request) {
	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errInvalid("force").Error())
			return
		}
		force = parsed
	}

	f, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	state := State{Graph: f.Graph, LaidOut: true}
	if force {
		state, _, _ = Reduce(state, AutoLayout{})
	}
	f.Graph = s.sync(state, "auto_layout").Graph

	if force && !s.saveFlow(w, r, f) {
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(toResponse(f))
}

// HandleGenerate expands a rule set into a new flow.
func (s *Service) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var rs RuleSet
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&rs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ValidateRules(rs.Rules); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := rs.Title
	if name == "" {
		name = "Generated Flow"
	}

	state, _, _ := Reduce(State{Graph: NewGraph()}, Replace{Graph: Generate(rs.Rules)})
	f := &Flow{ID: uuid.NewString(), Name: name, Graph: s.sync(state, "generate").Graph}

	if !s.saveFlow(w, r, f) {
		return
	}
	slog.Info("Generated flow", "id", f.ID, "rules", len(rs.Rules))

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toResponse(f))
}

// HandleExportFlow returns the flow as a downloadable snapshot document.
func (s *Service) HandleExportFlow(w http.ResponseWriter, r *http.Request) {
	f, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	data, err := Serialize(f.Graph, s.now())
	if err != nil {
		slog.Error("Failed to serialize flow", "id", f.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="decision-tree.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// HandleRenderSVG draws the flow, highlighting the node named by ?selected=.
func (s *Service) HandleRenderSVG(w http.ResponseWriter, r *http.Request) {
	f, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	view := Decorate(f.Graph, r.URL.Query().Get("selected"))
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	RenderSVG(w, f.Name, view)
}

// HandleValidate reports structural issues of a flow.
func (s *Service) HandleValidate(w http.ResponseWriter, r *http.Request) {
	f, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	issues := Validate(f.Graph)
	if issues == nil {
		issues = []Issue{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"valid": len(issues) == 0, "issues": issues})
}

// SimulateRequest is the body of a simulation: either explicit facts or the
// id of a sample cart whose facts are used.
type SimulateRequest struct {
	CartID string `json:"cartId,omitempty"`
	Facts  Facts  `json:"facts,omitempty"`
}

// HandleSimulate runs one cart through the flow and returns step-by-step results.
func (s *Service) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	facts := req.Facts
	if req.CartID != "" {
		cartFacts, ok := s.facts.CartFacts(req.CartID, s.now())
		if !ok {
			writeError(w, http.StatusBadRequest, errInvalid("cartId").Error())
			return
		}
		facts = cartFacts
	}
	if facts == nil {
		writeError(w, http.StatusBadRequest, errMissing("facts").Error())
		return
	}

	f, ok := s.loadFlow(w, r)
	if !ok {
		return
	}

	results, err := s.simulator.Simulate(r.Context(), f.Graph, facts)
	if errors.Is(err, ErrNoStart) || errors.Is(err, ErrStepLimit) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		slog.Error("Flow simulation failed", "id", f.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.metrics.Simulations.WithLabelValues(results.Status).Inc()

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(results)
}

// sync runs the layout pass and counts it when it did any work.
func (s *Service) sync(state State, trigger string) State {
	next := Sync(state)
	if !state.LaidOut && next.LaidOut {
		s.metrics.Layouts.WithLabelValues(trigger).Inc()
	}
	return next
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

type validationError struct {
	field string
	kind  string
}

func (e *validationError) Error() string {
	if e.kind == "missing" {
		return e.field + " is required"
	}
	return e.field + " is invalid"
}

func errMissing(field string) error { return &validationError{field: field, kind: "missing"} }
func errInvalid(field string) error { return &validationError{field: field, kind: "invalid"} }
