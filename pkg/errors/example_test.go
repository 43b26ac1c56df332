package errors_test

import (
	"fmt"
	"io"

	"github.com/ajitpratap0/docqual/pkg/errors"
)

// Example demonstrates basic error creation and wrapping.
func Example() {
	err := errors.New(errors.ErrorTypeConnection, "failed to connect to document store")

	err = err.WithDetail("uri", "mongodb://localhost:27017/").
		WithDetail("database", "thesis_data")

	fmt.Println(err.Error())

	// Output:
	// connection: failed to connect to document store
}

// ExampleWrap shows how to wrap existing errors with context.
func ExampleWrap() {
	err := errors.Wrap(io.EOF, errors.ErrorTypeSourceUnavailable, "failed to read collection").
		WithDetail("collection", "orders")

	if errors.IsType(err, errors.ErrorTypeSourceUnavailable) {
		fmt.Println("collection could not be materialized")
	}

	if errors.Is(err, io.EOF) {
		fmt.Println("cause was EOF")
	}

	// Output:
	// collection could not be materialized
	// cause was EOF
}

// ExampleIsFatal shows which errors abort a whole run.
func ExampleIsFatal() {
	perCollection := errors.New(errors.ErrorTypeCalculator, "outlier statistics are not finite")
	noCollections := errors.New(errors.ErrorTypeNoCollections, "database has no collections")

	fmt.Println(errors.IsFatal(perCollection))
	fmt.Println(errors.IsFatal(noCollections))

	// Output:
	// false
	// true
}
