package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-flow/api/pkg/metrics"
)

const testFlowID = "550e8400-e29b-41d4-a716-446655440000"

// stubRepo keeps flows in a map and can be told to fail.
type stubRepo struct {
	flows map[string]*Flow
	err   error
	saves int
}

func (r *stubRepo) Get(_ context.Context, id string) (*Flow, error) {
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.flows[id]
	if !ok {
		return nil, nil
	}
	cp := *f
	cp.Graph = f.Graph.Clone()
	return &cp, nil
}

func (r *stubRepo) Save(_ context.Context, f *Flow) error {
	if r.err != nil {
		return r.err
	}
	r.saves++
	cp := *f
	cp.Graph = f.Graph.Clone()
	r.flows[f.ID] = &cp
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.flows[id]
	delete(r.flows, id)
	return ok, nil
}

type stubFacts map[string]Facts

func (s stubFacts) CartFacts(id string, _ time.Time) (Facts, bool) {
	f, ok := s[id]
	return f, ok
}

func newTestService(flows ...*Flow) (*Service, *stubRepo) {
	repo := &stubRepo{flows: make(map[string]*Flow)}
	for _, f := range flows {
		repo.flows[f.ID] = f
	}
	svc := &Service{
		repo:      repo,
		facts:     stubFacts{"cart1": {"cart_value": 129.97}},
		simulator: NewSimulator(NewRegistry()),
		nodes:     NewNodeFactory(rand.New(rand.NewPCG(1, 1))),
		metrics:   metrics.New(),
		now:       func() time.Time { return time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC) },
	}
	return svc, repo
}

func testFlow() *Flow {
	return &Flow{ID: testFlowID, Name: "Test Flow", Graph: ApplyLayout(testGraph(), true)}
}

func setupRouter(svc *Service) *mux.Router {
	router := mux.NewRouter()
	svc.LoadRoutes(router.PathPrefix("/api/v1").Subrouter())
	return router
}

func do(router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var result map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	return result["message"]
}

func TestHandleGetFlow_Success(t *testing.T) {
	svc, _ := newTestService(testFlow())
	w := do(setupRouter(svc), "GET", "/api/v1/flows/"+testFlowID, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var result flowResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, testFlowID, result.ID)
	assert.Len(t, result.Nodes, 4)
	assert.Len(t, result.Edges, 3)
}

func TestHandleGetFlow_NotFound(t *testing.T) {
	svc, _ := newTestService()
	w := do(setupRouter(svc), "GET", "/api/v1/flows/00000000-0000-0000-0000-000000000000", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "flow not found", decodeMessage(t, w))
}

func TestHandleGetFlow_InvalidID(t *testing.T) {
	svc, _ := newTestService()
	w := do(setupRouter(svc), "GET", "/api/v1/flows/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid flow id", decodeMessage(t, w))
}

func TestHandleGetFlow_RepoError(t *testing.T) {
	svc, repo := newTestService(testFlow())
	repo.err = errors.New("connection refused")
	w := do(setupRouter(svc), "GET", "/api/v1/flows/"+testFlowID, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeMessage(t, w))
}

func TestHandleImportFlow_LaysOutAndStores(t *testing.T) {
	svc, repo := newTestService(testFlow())

	data, err := Serialize(Generate(DefaultRuleSet().Rules), time.Now())
	require.NoError(t, err)

	w := do(setupRouter(svc), "PUT", "/api/v1/flows/"+testFlowID, string(data))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored := repo.flows[testFlowID]
	assert.Equal(t, "Test Flow", stored.Name)
	require.Len(t, stored.Graph.Nodes, 4)
	// Generator positions are replaced by the layout.
	start, _ := stored.Graph.Node(StartNodeID)
	assert.Equal(t, Position{X: 600, Y: 150}, start.Position)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Layouts.WithLabelValues("import")))
}

func TestHandleImportFlow_RejectsMalformed(t *testing.T) {
	svc, repo := newTestService(testFlow())
	before := repo.flows[testFlowID].Graph.Clone()

	doc := `{"nodes":[{"id":"x","type":"start","data":{}}],"edges":[{"id":"e","source":"x","target":"y"}]}`
	w := do(setupRouter(svc), "PUT", "/api/v1/flows/"+testFlowID, doc)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMessage(t, w), "malformed flow snapshot")
	assert.Equal(t, before, repo.flows[testFlowID].Graph)
	assert.Equal(t, 0, repo.saves)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.ImportFailures))
}

func TestHandleImportFlow_CreatesNewFlow(t *testing.T) {
	svc, repo := newTestService()
	id := "11111111-1111-1111-1111-111111111111"

	w := do(setupRouter(svc), "PUT", "/api/v1/flows/"+id+"?name=Winter", `{"nodes":[{"id":"s","type":"start","data":{}}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Winter", repo.flows[id].Name)
}

func TestHandleDeleteFlow(t *testing.T) {
	svc, repo := newTestService(testFlow())
	router := setupRouter(svc)

	w := do(router, "DELETE", "/api/v1/flows/"+testFlowID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.flows)

	w = do(router, "DELETE", "/api/v1/flows/"+testFlowID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleLayout(t *testing.T) {
	f := testFlow()
	f.Graph.MoveNode("email", Position{X: 1, Y: 1})
	svc, repo := newTestService(f)
	router := setupRouter(svc)

	w := do(router, "POST", "/api/v1/flows/"+testFlowID+"/layout", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, repo.saves)
	n, _ := repo.flows[testFlowID].Graph.Node("email")
	assert.Equal(t, Position{X: 1, Y: 1}, n.Position)

	w = do(router, "POST", "/api/v1/flows/"+testFlowID+"/layout?force=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, repo.saves)
	n, _ = repo.flows[testFlowID].Graph.Node("email")
	assert.Equal(t, Position{X: 200, Y: 850}, n.Position)

	w = do(router, "POST", "/api/v1/flows/"+testFlowID+"/layout?force=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "force is invalid", decodeMessage(t, w))
}

func TestHandleGenerate(t *testing.T) {
	svc, repo := newTestService()
	body, err := json.Marshal(DefaultRuleSet())
	require.NoError(t, err)

	w := do(setupRouter(svc), "POST", "/api/v1/flows/generate", string(body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var result flowResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, "Abandoned Cart Recovery Flow", result.Name)
	assert.Len(t, result.Nodes, 4)
	assert.Contains(t, repo.flows, result.ID)
}

func TestHandleGenerate_InvalidRules(t *testing.T) {
	svc, _ := newTestService()
	w := do(setupRouter(svc), "POST", "/api/v1/flows/generate", `{"rules":[{"id":"1","operator":"~"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(setupRouter(svc), "POST", "/api/v1/flows/generate", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeMessage(t, w))
}

func TestHandleGestures(t *testing.T) {
	svc, repo := newTestService(testFlow())

	body := `{"actions":[
		{"type":"addNode","kind":"action"},
		{"type":"connect","source":"email","target":"sms"},
		{"type":"clickNode","id":"decision"},
		{"type":"deleteNode","id":"missing"},
		{"type":"connect","source":"decision","target":"sms","sourceHandle":"true"}
	]}`
	w := do(setupRouter(svc), "POST", "/api/v1/flows/"+testFlowID+"/gestures", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result struct {
		Selected string           `json:"selected"`
		LaidOut  bool             `json:"laidOut"`
		Outcomes []GestureOutcome `json:"outcomes"`
		View     struct {
			Nodes []struct {
				Node       map[string]any `json:"node"`
				IsSelected bool           `json:"isSelected"`
			} `json:"nodes"`
			Edges []struct {
				Animated bool `json:"animated"`
			} `json:"edges"`
		} `json:"view"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))

	require.Len(t, result.Outcomes, 5)
	assert.Equal(t, Applied, result.Outcomes[0].Outcome)
	assert.True(t, strings.HasPrefix(result.Outcomes[0].NodeID, "action-"))
	assert.Equal(t, Applied, result.Outcomes[1].Outcome)
	assert.Equal(t, Applied, result.Outcomes[2].Outcome)
	assert.Equal(t, NotFound, result.Outcomes[3].Outcome)
	assert.Equal(t, Rejected, result.Outcomes[4].Outcome)
	assert.NotEmpty(t, result.Outcomes[4].Error)

	assert.Equal(t, "decision", result.Selected)
	assert.True(t, result.LaidOut)
	require.Len(t, result.View.Nodes, 5)
	assert.Equal(t, "decision", result.View.Nodes[1].Node["id"])
	assert.True(t, result.View.Nodes[1].IsSelected)

	stored := repo.flows[testFlowID]
	assert.Len(t, stored.Graph.Nodes, 5)
	assert.Len(t, stored.Graph.Edges, 4)
}

func TestHandleGestures_PendingLayout(t *testing.T) {
	svc, repo := newTestService(testFlow())

	body := `{"laidOut":false,"actions":[{"type":"moveNode","id":"email","position":{"x":3,"y":4}}]}`
	w := do(setupRouter(svc), "POST", "/api/v1/flows/"+testFlowID+"/gestures", body)
	require.Equal(t, http.StatusOK, w.Code)

	n, _ := repo.flows[testFlowID].Graph.Node("email")
	assert.Equal(t, Position{X: 200, Y: 850}, n.Position)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Layouts.WithLabelValues("gesture")))
}

func TestHandleGestures_UnknownType(t *testing.T) {
	svc, repo := newTestService(testFlow())
	w := do(setupRouter(svc), "POST", "/api/v1/flows/"+testFlowID+"/gestures", `{"actions":[{"type":"explode"}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, repo.saves)
}

func TestHandleExportFlow(t *testing.T) {
	svc, _ := newTestService(testFlow())
	w := do(setupRouter(svc), "GET", "/api/v1/flows/"+testFlowID+"/export", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "decision-tree.json")

	g, err := Deserialize(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, testFlow().Graph, g)
}

func TestHandleRenderSVG(t *testing.T) {
	svc, _ := newTestService(testFlow())
	w := do(setupRouter(svc), "GET", "/api/v1/flows/"+testFlowID+"/svg?selected=decision", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("<svg")))
}

func TestHandleValidate(t *testing.T) {
	f := testFlow()
	f.Graph.Nodes = append(f.Graph.Nodes, testAction("orphan", ActionPush))
	svc, _ := newTestService(f)

	w := do(setupRouter(svc), "GET", "/api/v1/flows/"+testFlowID+"/validate", "")
	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Valid  bool    `json:"valid"`
		Issues []Issue `json:"issues"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, IssueUnreachable, result.Issues[0].Code)
}

func TestHandleSimulate(t *testing.T) {
	svc, _ := newTestService(testFlow())
	router := setupRouter(svc)

	w := do(router, "POST", "/api/v1/flows/"+testFlowID+"/simulate", `{"cartId":"cart1"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result SimulationResults
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, "completed", result.Status)
	require.Len(t, result.Steps, 3)
	assert.Equal(t, "email", result.Steps[2].NodeID)
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.Simulations.WithLabelValues("completed")))

	w = do(router, "POST", "/api/v1/flows/"+testFlowID+"/simulate", `{"facts":{"cart_value":10}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, "sms", result.Steps[2].NodeID)
}

func TestHandleSimulate_BadRequests(t *testing.T) {
	svc, _ := newTestService(testFlow())
	router := setupRouter(svc)

	w := do(router, "POST", "/api/v1/flows/"+testFlowID+"/simulate", `{"cartId":"cart99"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cartId is invalid", decodeMessage(t, w))

	w = do(router, "POST", "/api/v1/flows/"+testFlowID+"/simulate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "facts is required", decodeMessage(t, w))
}

func TestHandleSimulate_NoStart(t *testing.T) {
	f := testFlow()
	f.Graph.DeleteNode("start")
	svc, _ := newTestService(f)

	w := do(setupRouter(svc), "POST", "/api/v1/flows/"+testFlowID+"/simulate", `{"facts":{}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
