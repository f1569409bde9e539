package pipeline

import (
	"sync"

	"github.com/sawpanic/marketlink/internal/domain"
)

// Registry is the process-wide pipeline dispatcher (spec.md §4.3).
// Register is idempotent; registration order is irrelevant. A single
// package-level instance is initialized once at startup via
// RegisterDefaults and then treated as read-only.
type Registry struct {
	mu        sync.RWMutex
	pipelines map[domain.Topic]Pipeline
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{pipelines: make(map[domain.Topic]Pipeline)}
}

// Register adds or replaces the pipeline for its own Topic(). Calling
// Register twice with pipelines for the same topic is not an error —
// the second call simply wins, keeping registration idempotent.
func (r *Registry) Register(p Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelines[p.Topic()] = p
}

// Get returns the pipeline registered for topic, or (nil, false) if
// none is registered — the engine aborts with unsupported_topic in
// that case (spec.md §4.7 step 1).
func (r *Registry) Get(topic domain.Topic) (Pipeline, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pipelines[topic]
	return p, ok
}

// Topics lists every currently registered topic.
func (r *Registry) Topics() []domain.Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()
	topics := make([]domain.Topic, 0, len(r.pipelines))
	for t := range r.pipelines {
		topics = append(topics, t)
	}
	return topics
}
