package memory

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/models"
)

func TestListCollectionsKeepsInsertionOrder(t *testing.T) {
	src := New(
		models.Collection{Name: "zeta"},
		models.Collection{Name: "alpha"},
	)
	src.Add("mid", models.NewDocument("x", models.Int(1)))

	names, err := src.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
}

func TestMaterialize(t *testing.T) {
	src := New(models.Collection{Name: "orders", Documents: []models.Document{
		models.NewDocument("id", models.Int(1)),
		models.NewDocument("id", models.Int(2)),
	}})

	docs, err := src.Materialize(context.Background(), "orders")
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = src.Materialize(context.Background(), "nope")
	assert.True(t, errors.IsType(err, errors.ErrorTypeSourceUnavailable))
}

func TestFailOn(t *testing.T) {
	src := New()
	src.FailOn("broken", io.ErrUnexpectedEOF)

	names, err := src.ListCollections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, names)

	_, err = src.Materialize(context.Background(), "broken")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSourceUnavailable))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestClosedSource(t *testing.T) {
	src := New(models.Collection{Name: "a"})
	require.NoError(t, src.Close(context.Background()))

	_, err := src.ListCollections(context.Background())
	assert.Error(t, err)
}
