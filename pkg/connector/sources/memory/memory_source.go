// Package memory provides an in-process Source backed by Go values. It is
// used by tests and by callers that already hold their documents.
package memory

import (
	"context"
	"sync"

	"github.com/ajitpratap0/docqual/pkg/connector/core"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/models"
)

var _ core.Source = (*Source)(nil)

// Source holds collections in insertion order.
type Source struct {
	mu          sync.RWMutex
	order       []string
	collections map[string][]models.Document
	failures    map[string]error
	closed      bool
}

// New creates a source from the given collections, keeping their order.
func New(collections ...models.Collection) *Source {
	s := &Source{
		collections: make(map[string][]models.Document),
		failures:    make(map[string]error),
	}
	for _, c := range collections {
		s.Add(c.Name, c.Documents...)
	}
	return s
}

// Add appends documents to a collection, registering it if new.
func (s *Source) Add(name string, docs ...models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; !ok {
		s.order = append(s.order, name)
		s.collections[name] = nil
	}
	s.collections[name] = append(s.collections[name], docs...)
}

// FailOn makes Materialize return err for the named collection. The
// collection still appears in ListCollections.
func (s *Source) FailOn(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; !ok {
		s.order = append(s.order, name)
		s.collections[name] = nil
	}
	s.failures[name] = err
}

// ListCollections implements core.Source.
func (s *Source) ListCollections(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.New(errors.ErrorTypeSourceUnavailable, "source is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSourceUnavailable, "list collections cancelled")
	}

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

// Materialize implements core.Source. The returned slice is a copy.
func (s *Source) Materialize(ctx context.Context, name string) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.New(errors.ErrorTypeSourceUnavailable, "source is closed")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeSourceUnavailable, "materialize cancelled").
			WithDetail("collection", name)
	}
	if err, ok := s.failures[name]; ok {
		return nil, errors.Wrap(err, errors.ErrorTypeSourceUnavailable, "failed to read collection").
			WithDetail("collection", name)
	}

	docs, ok := s.collections[name]
	if !ok {
		return nil, errors.New(errors.ErrorTypeSourceUnavailable, "collection not found").
			WithDetail("collection", name)
	}

	out := make([]models.Document, len(docs))
	copy(out, docs)
	return out, nil
}

// Close implements core.Source.
func (s *Source) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
