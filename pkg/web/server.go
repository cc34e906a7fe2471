package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/inferlab/logicgraph/pkg/graph"
	"github.com/inferlab/logicgraph/pkg/logging"
	"github.com/inferlab/logicgraph/pkg/propagate"
	"github.com/inferlab/logicgraph/pkg/pubsub"
)

// Server exposes a loaded graph and the propagation engine over HTTP
type Server struct {
	router    *mux.Router
	publisher pubsub.Publisher

	mu        sync.RWMutex
	graph     *graph.Graph
	graphFile string
}

// NewServer creates a new web server
func NewServer() *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// Configure topic buffering
	// graph_status: buffer last 10 events, replay only last event to new subscribers
	ssePublisher.ConfigureTopic("graph_status", pubsub.TopicConfig{
		BufferSize: 10,
		ReplayAll:  false, // Only send current state
	})

	// run_results: buffer last 5 events, replay only last event
	ssePublisher.ConfigureTopic("run_results", pubsub.TopicConfig{
		BufferSize: 5,
		ReplayAll:  false,
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: ssePublisher,
	}
	s.setupRoutes()
	return s
}

// SetGraph replaces the served graph
func (s *Server) SetGraph(g *graph.Graph, source string) {
	s.mu.Lock()
	s.graph = g
	s.graphFile = source
	s.mu.Unlock()

	nodes, edges := 0, 0
	if g != nil {
		nodes, edges = g.NodeCount(), g.EdgeCount()
	}
	s.PublishGraphStatus("ready", fmt.Sprintf("loaded %s", source), nodes, edges)
}

// PublishGraphStatus publishes a graph lifecycle event
func (s *Server) PublishGraphStatus(state, message string, nodes, edges int) error {
	status := pubsub.GraphStatus{
		State:   state,
		Message: message,
		Nodes:   nodes,
		Edges:   edges,
	}
	return s.publisher.Publish("graph_status", state, status)
}

// PublishRunSummary publishes the outcome of a propagation run
func (s *Server) PublishRunSummary(strategy propagate.Strategy, m propagate.Metrics, errCount int) error {
	summary := pubsub.RunSummary{
		Strategy:       string(strategy),
		NodesEvaluated: m.NodesEvaluated,
		EdgesTraversed: m.EdgesTraversed,
		ElapsedMs:      float64(m.Elapsed.Microseconds()) / 1000.0,
		Errors:         errCount,
		Degraded:       m.Degraded,
	}
	eventType := "completed"
	if errCount > 0 {
		eventType = "degraded"
	}
	return s.publisher.Publish("run_results", eventType, summary)
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/graph_status", s.handleSubscribe("graph_status")).Methods("GET")
	s.router.HandleFunc("/api/subscribe/run_results", s.handleSubscribe("run_results")).Methods("GET")

	// API routes - more specific routes must come first
	s.router.HandleFunc("/api/graph", s.handleGetGraph).Methods("GET")
	s.router.HandleFunc("/api/graph", s.handlePutGraph).Methods("PUT")
	s.router.HandleFunc("/api/graph/node/{id}", s.handleGetNode).Methods("GET")
	s.router.HandleFunc("/api/strategies", s.handleStrategies).Methods("GET")
	s.router.HandleFunc("/api/execute", s.handleExecute).Methods("POST")
	s.router.HandleFunc("/api/compare", s.handleCompare).Methods("POST")
}

// handleSubscribe streams events for one topic as Server-Sent Events
func (s *Server) handleSubscribe(topic string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*") // CORS support

		// Send initial comment to establish connection (Safari compatibility)
		fmt.Fprintf(w, ": connected\n\n")
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}

		sub, err := s.publisher.Subscribe(r.Context(), topic)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer sub.Close()

		for event := range sub.Events() {
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.ErrorContext(r.Context(), "error writing SSE event", "error", err)
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "No graph loaded", http.StatusServiceUnavailable)
		return
	}
	json.NewEncoder(w).Encode(g.ToJSON())
}

func (s *Server) handlePutGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var doc json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	g, err := graph.Parse(doc)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid graph document: %v", err), http.StatusUnprocessableEntity)
		return
	}

	s.SetGraph(g, "api")
	logging.InfoContext(r.Context(), "graph replaced via API",
		"nodes", g.NodeCount(), "edges", g.EdgeCount())

	json.NewEncoder(w).Encode(map[string]interface{}{
		"nodes": g.NodeCount(),
		"edges": g.EdgeCount(),
	})
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "No graph loaded", http.StatusServiceUnavailable)
		return
	}

	id := mux.Vars(r)["id"]
	n, ok := g.Node(id)
	if !ok {
		http.Error(w, fmt.Sprintf("Node not found: %s", id), http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":        n.ID,
		"name":      n.Name,
		"nodeType":  n.Kind,
		"lastValue": n.State.LastValue,
		"branch":    n.State.Branch,
		"active":    n.State.Active,
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(propagate.Strategies())
}

// ExecuteRequest is the body of POST /api/execute and /api/compare.
// Strategy selects the one strategy to execute; Strategies narrows a
// comparison run (empty means compare all).
type ExecuteRequest struct {
	Strategy   string               `json:"strategy"`
	Strategies []string             `json:"strategies"`
	StartNodes []string             `json:"startNodes"`
	Inputs     map[string][]float64 `json:"inputs"`
}

// ExecuteResponse is the body of a successful POST /api/execute
type ExecuteResponse struct {
	Results map[string]float64 `json:"results"`
	Errors  []string           `json:"errors,omitempty"`
	Metrics propagate.Metrics  `json:"metrics"`
	Steps   []propagate.Step   `json:"steps"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "No graph loaded", http.StatusServiceUnavailable)
		return
	}

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	engine := propagate.New(g)
	if req.Strategy != "" {
		if err := engine.SetStrategy(req.Strategy); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	results, err := engine.Propagate(r.Context(), req.StartNodes, req.Inputs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	evalErrs := engine.Errors()
	errStrings := make([]string, 0, len(evalErrs))
	for _, e := range evalErrs {
		errStrings = append(errStrings, e.Error())
	}

	s.PublishRunSummary(engine.CurrentStrategy(), engine.Metrics(), len(evalErrs))

	json.NewEncoder(w).Encode(ExecuteResponse{
		Results: results,
		Errors:  errStrings,
		Metrics: engine.Metrics(),
		Steps:   engine.StepHistory(),
	})
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	g := s.graph
	s.mu.RUnlock()

	if g == nil {
		http.Error(w, "No graph loaded", http.StatusServiceUnavailable)
		return
	}

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	reports, err := propagate.CompareStrategies(r.Context(), g, req.Strategies, req.StartNodes, req.Inputs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(reports)
}

// Start runs the HTTP server on the given port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	logging.Info("starting web server", "addr", addr)
	return http.ListenAndServe(addr, logging.RequestIDMiddleware(s.router))
}

// Handler returns the routed handler with middleware, for tests
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}
