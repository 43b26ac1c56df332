// Package testutil provides testing utilities for docqual
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/docqual/pkg/models"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// Doc builds a document from alternating names and plain Go values.
// nil becomes an explicit null; ints, floats, strings, bools and
// time.Time map to their kinds.
//
//	testutil.Doc("id", 1, "amt", 10.5, "email", nil)
func Doc(pairs ...interface{}) models.Document {
	if len(pairs)%2 != 0 {
		panic("testutil.Doc: odd number of arguments")
	}
	d := models.Document{Fields: make([]models.Field, 0, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("testutil.Doc: field name %v is not a string", pairs[i]))
		}
		d.Fields = append(d.Fields, models.Field{Name: name, Value: Value(pairs[i+1])})
	}
	return d
}

// Value converts a plain Go value to a models.Value.
func Value(v interface{}) models.Value {
	switch x := v.(type) {
	case nil:
		return models.Null
	case models.Value:
		return x
	case int:
		return models.Int(int64(x))
	case int64:
		return models.Int(x)
	case float64:
		return models.Float(x)
	case string:
		return models.String(x)
	case bool:
		return models.Bool(x)
	case time.Time:
		return models.Time(x)
	}
	panic(fmt.Sprintf("testutil.Value: unsupported type %T", v))
}

// Docs builds one document per row of pairs.
func Docs(rows ...[]interface{}) []models.Document {
	out := make([]models.Document, len(rows))
	for i, r := range rows {
		out[i] = Doc(r...)
	}
	return out
}
