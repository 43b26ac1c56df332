package profile

import (
	stderrors "errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docqual/pkg/connector/sources/memory"
	"github.com/ajitpratap0/docqual/pkg/errors"
	"github.com/ajitpratap0/docqual/pkg/models"
	"github.com/ajitpratap0/docqual/pkg/testutil"
)

func newTestSource() *memory.Source {
	src := memory.New()
	src.Add("orders", testutil.Docs(
		[]interface{}{"id", 1, "amt", 10},
		[]interface{}{"id", 2, "amt", 1000},
		[]interface{}{"id", 3, "amt", 12},
		[]interface{}{"id", 4, "amt", 11},
	)...)
	src.Add("users", testutil.Docs(
		[]interface{}{"name", "ann", "email", "ann@example.com"},
		[]interface{}{"name", "bob"},
		[]interface{}{"name", "cy"},
	)...)
	src.Add("logs")
	return src
}

func TestProfileCollectionProfiled(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	p := NewProfiler(newTestSource(), WithLogger(testutil.TestLogger(t)))
	r := p.ProfileCollection(ctx, "orders")

	require.Equal(t, StatusProfiled, r.Status)
	require.NotNil(t, r.Profile)
	assert.Nil(t, r.Failure)
	assert.Equal(t, 4, r.Profile.RowCount)
	assert.Equal(t, 2, r.Profile.ColumnCount)
	assert.Equal(t, map[string]string{"id": "int64", "amt": "int64"}, r.Profile.DataTypes)
	assert.Equal(t, 4, r.Profile.Uniqueness["amt"])
	assert.Equal(t, 1, r.Profile.Outliers["amt"].OutlierCount)
	assert.Equal(t, 0, r.Profile.DuplicateRows)
}

func TestProfileCollectionEmpty(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	p := NewProfiler(newTestSource(), WithLogger(testutil.TestLogger(t)))
	r := p.ProfileCollection(ctx, "logs")

	assert.Equal(t, StatusEmpty, r.Status)
	assert.Nil(t, r.Profile)
	assert.Nil(t, r.Failure)
	assert.Equal(t, 0, r.RowCount())
}

func TestProfileCollectionSourceFailure(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := newTestSource()
	src.FailOn("users", stderrors.New("cursor killed"))

	p := NewProfiler(src, WithLogger(testutil.TestLogger(t)))
	r := p.ProfileCollection(ctx, "users")

	require.Equal(t, StatusFailed, r.Status)
	require.NotNil(t, r.Failure)
	assert.Equal(t, StageMaterialize, r.Failure.Stage)
	assert.Contains(t, r.Failure.Message, "cursor killed")
}

func TestProfileCollectionWithInfiniteValue(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := memory.New()
	src.Add("sensors", testutil.Docs([]interface{}{"v", 1.0}, []interface{}{"v", math.Inf(1)})...)

	p := NewProfiler(src, WithLogger(testutil.TestLogger(t)))
	r := p.ProfileCollection(ctx, "sensors")

	require.Equal(t, StatusProfiled, r.Status)
	assert.Equal(t, 2, r.RowCount())
	assert.Equal(t, 1.0, r.Profile.Outliers["v"].Max)
}

func TestRunStageRecoversPanic(t *testing.T) {
	err := runStage(StageDuplicates, func() error { panic("boom") })

	require.Error(t, err)
	assert.Equal(t, StageDuplicates, StageOf(err))
	assert.True(t, errors.IsType(err, errors.ErrorTypeCalculator))
	assert.Contains(t, err.Error(), "boom")
}

func TestStageOfUnknown(t *testing.T) {
	assert.Equal(t, "unknown", StageOf(stderrors.New("plain")))
}

func TestAnalyzeRejectsEmpty(t *testing.T) {
	_, err := Analyze(nil)
	require.Error(t, err)
	assert.Equal(t, StageProject, StageOf(err))
}

func TestProfileAllKeepsOrderAndIsolatesFailures(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := memory.New()
	var names []string
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("c%02d", i)
		names = append(names, name)
		docs := make([]models.Document, i)
		for j := range docs {
			docs[j] = testutil.Doc("n", j)
		}
		src.Add(name, docs...)
	}
	src.FailOn("c07", stderrors.New("unreadable"))

	p := NewProfiler(src, WithWorkers(4), WithLogger(testutil.TestLogger(t)))
	set := p.ProfileAll(ctx, names)

	require.Equal(t, len(names), set.Len())
	for i, r := range set.Reports() {
		assert.Equal(t, names[i], r.Collection)
		switch {
		case names[i] == "c07":
			assert.Equal(t, StatusFailed, r.Status)
		case i == 0:
			assert.Equal(t, StatusEmpty, r.Status)
		default:
			assert.Equal(t, StatusProfiled, r.Status)
			assert.Equal(t, i, r.RowCount())
		}
	}

	counts := set.Counts()
	assert.Equal(t, 1, counts[StatusFailed])
	assert.Equal(t, 1, counts[StatusEmpty])
	assert.Equal(t, 18, counts[StatusProfiled])
}

func TestRowCountZeroIffEmpty(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := newTestSource()
	names, err := src.ListCollections(ctx)
	require.NoError(t, err)

	set := NewProfiler(src, WithWorkers(1), WithLogger(testutil.TestLogger(t))).ProfileAll(ctx, names)
	for _, r := range set.Reports() {
		assert.Equal(t, r.Status == StatusEmpty, r.RowCount() == 0, r.Collection)
	}
}

func TestWithWorkersFloor(t *testing.T) {
	p := NewProfiler(memory.New(), WithWorkers(0))
	assert.Equal(t, 1, p.workers)
}
