package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inferlab/logicgraph/pkg/graph"
	"github.com/inferlab/logicgraph/pkg/propagate"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(graph.TypeDAG)
	if _, err := g.AddNode(graph.NodeConfig{ID: "g1", Kind: graph.KindLogicGate, Operator: "and"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := g.AddNode(graph.NodeConfig{ID: "g2", Kind: graph.KindLogicGate, Operator: "not"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := g.AddEdge("g1", "g2", graph.EdgeConfig{}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestGetGraphWithoutLoad(t *testing.T) {
	s := NewServer()
	req := httptest.NewRequest("GET", "/api/graph", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestGetGraph(t *testing.T) {
	s := NewServer()
	s.SetGraph(testGraph(t), "test")

	req := httptest.NewRequest("GET", "/api/graph", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rid := rec.Header().Get("X-Request-ID"); rid == "" {
		t.Error("missing X-Request-ID header")
	}

	var doc struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Nodes) != 2 || len(doc.Edges) != 1 {
		t.Errorf("got %d nodes / %d edges, want 2 / 1", len(doc.Nodes), len(doc.Edges))
	}
}

func TestStrategiesEndpoint(t *testing.T) {
	s := NewServer()
	req := httptest.NewRequest("GET", "/api/strategies", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var strategies []string
	if err := json.NewDecoder(rec.Body).Decode(&strategies); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(strategies) != len(propagate.Strategies()) {
		t.Errorf("got %d strategies, want %d", len(strategies), len(propagate.Strategies()))
	}
}

func TestExecuteEndpoint(t *testing.T) {
	s := NewServer()
	s.SetGraph(testGraph(t), "test")

	body := `{"strategy":"forward","startNodes":["g1"],"inputs":{"g1":[1,1]}}`
	req := httptest.NewRequest("POST", "/api/execute", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ExecuteResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Results["g1"] != 1 || resp.Results["g2"] != 0 {
		t.Errorf("results = %v, want g1=1 g2=0", resp.Results)
	}
	if resp.Metrics.NodesEvaluated != 2 {
		t.Errorf("nodes evaluated = %d, want 2", resp.Metrics.NodesEvaluated)
	}
}

func TestExecuteRejectsUnknownStrategy(t *testing.T) {
	s := NewServer()
	s.SetGraph(testGraph(t), "test")

	body := `{"strategy":"sideways"}`
	req := httptest.NewRequest("POST", "/api/execute", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestPutGraphReplacesDocument(t *testing.T) {
	s := NewServer()

	doc := `{"nodes":[{"id":"n1","nodeType":"decision"}],"edges":[]}`
	req := httptest.NewRequest("PUT", "/api/graph", strings.NewReader(doc))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/graph/node/n1", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("node lookup after PUT: status = %d", rec.Code)
	}
}

func TestCompareEndpoint(t *testing.T) {
	s := NewServer()
	s.SetGraph(testGraph(t), "test")

	body := `{"startNodes":["g1"],"inputs":{"g1":[1,1]}}`
	req := httptest.NewRequest("POST", "/api/compare", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var reports []propagate.StrategyReport
	if err := json.NewDecoder(rec.Body).Decode(&reports); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reports) != len(propagate.Strategies()) {
		t.Errorf("got %d reports, want %d", len(reports), len(propagate.Strategies()))
	}
}

func TestCompareEndpointStrategySelection(t *testing.T) {
	s := NewServer()
	s.SetGraph(testGraph(t), "test")

	body := `{"strategies":["forward","topological"],"startNodes":["g1"],"inputs":{"g1":[1,1]}}`
	req := httptest.NewRequest("POST", "/api/compare", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var reports []propagate.StrategyReport
	if err := json.NewDecoder(rec.Body).Decode(&reports); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].Strategy != "forward" || reports[1].Strategy != "topological" {
		t.Errorf("report order = %s, %s", reports[0].Strategy, reports[1].Strategy)
	}

	bad := httptest.NewRequest("POST", "/api/compare",
		strings.NewReader(`{"strategies":["sideways"]}`))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, bad)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown strategy name: status = %d, want 400", rec.Code)
	}
}
