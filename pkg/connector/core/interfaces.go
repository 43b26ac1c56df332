// Package core defines the contracts between the profiling engine and the
// document stores it reads from.
package core

import (
	"context"

	"github.com/ajitpratap0/docqual/pkg/models"
)

// Source is the record materializer: it enumerates collections and returns
// their documents as ordered field/value records.
type Source interface {
	// ListCollections returns collection names in the store's enumeration
	// order. Names are unique within one call.
	ListCollections(ctx context.Context) ([]string, error)

	// Materialize returns every document of a collection in store order.
	// Errors should be of type errors.ErrorTypeSourceUnavailable.
	Materialize(ctx context.Context, name string) ([]models.Document, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
