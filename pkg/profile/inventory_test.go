package profile

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docqual/pkg/connector/sources/memory"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/testutil"
)

func TestBuildInventoryScenario(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := memory.New()
	src.Add("a", testutil.Doc("x", 1, "y", 2))
	src.Add("b", testutil.Doc("x", 1), testutil.Doc("y", 2, "z", 3))

	inv, err := BuildInventory(ctx, src, []string{"a", "b"}, testutil.TestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 3, inv.MaxWidth)
	assert.Equal(t, []string{"File Name", "Column_1", "Column_2", "Column_3"}, inv.Header)
	assert.Equal(t, []string{"a", "x", "y", ""}, inv.Rows[0])
	assert.Equal(t, []string{"b", "x", "y", "z"}, inv.Rows[1])
}

func TestBuildInventoryWidthInvariant(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := newTestSource()
	src.Add("wide", testutil.Doc("p", 1, "q", 2, "r", 3, "s", 4))
	names, err := src.ListCollections(ctx)
	require.NoError(t, err)

	inv, err := BuildInventory(ctx, src, names, nil)
	require.NoError(t, err)

	for i, row := range inv.Rows {
		assert.Len(t, row, 1+inv.MaxWidth)
		docs, err := src.Materialize(ctx, names[i])
		require.NoError(t, err)
		cols := Project(docs).Names()
		assert.Equal(t, cols, row[1:1+len(cols)])
		for _, pad := range row[1+len(cols):] {
			assert.Empty(t, pad)
		}
	}
	assert.Equal(t, []string{"logs", "", "", "", ""}, inv.Rows[2])
}

func TestBuildInventoryNoCollections(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	_, err := BuildInventory(ctx, memory.New(), nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNoCollections))
	assert.True(t, errors.IsFatal(err))
}

func TestBuildInventoryUnreadableCollection(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := memory.New()
	src.Add("empty")
	src.FailOn("bad", stderrors.New("denied"))

	inv, err := BuildInventory(ctx, src, []string{"empty", "bad"}, testutil.TestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, 1, inv.MaxWidth)
	assert.Equal(t, []string{"empty", ""}, inv.Rows[0])
	assert.Equal(t, []string{"bad", "ERROR"}, inv.Rows[1])
}
