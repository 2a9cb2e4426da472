package memstore

import (
	"context"
	"sync"

	"github.com/cognicore/triage/pkg/triage/store"
)

// Store is an in-memory implementation of store.Source for tests.
type Store struct {
	mu      sync.RWMutex
	dataset store.Dataset
}

// New creates an empty in-memory source with the given category names.
func New(categories []string) *Store {
	return &Store{dataset: store.Dataset{Categories: append([]string(nil), categories...)}}
}

// Add appends a message with one label per category.
func (s *Store) Add(message string, labels ...uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset.Append(store.Record{Message: message, Labels: labels})
}

// Load implements store.Source. The returned dataset is a copy.
func (s *Store) Load(ctx context.Context) (*store.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := &store.Dataset{
		Messages:   append([]string(nil), s.dataset.Messages...),
		Labels:     make([][]uint8, len(s.dataset.Labels)),
		Categories: append([]string(nil), s.dataset.Categories...),
	}
	for i, row := range s.dataset.Labels {
		out.Labels[i] = append([]uint8(nil), row...)
	}
	return out, nil
}

// Close implements store.Source.
func (s *Store) Close() error { return nil }
