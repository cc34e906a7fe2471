package pubsub

import (
	"context"
	"encoding/json"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "graph_status", "run_results")
	Type    string          `json:"type"`    // Event type (e.g., "loading", "running", "completed", "failed")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// GraphStatus describes where a loaded graph is in its lifecycle
type GraphStatus struct {
	State   string `json:"state"`   // loading, ready, running, completed, failed
	Message string `json:"message"` // Human-readable status message
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
}

// RunSummary is published after each propagation run
type RunSummary struct {
	Strategy       string  `json:"strategy"`
	NodesEvaluated int     `json:"nodes_evaluated"`
	EdgesTraversed int     `json:"edges_traversed"`
	ElapsedMs      float64 `json:"elapsed_ms"`
	Errors         int     `json:"errors"`
	Degraded       bool    `json:"degraded,omitempty"`
}
