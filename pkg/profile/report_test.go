package profile

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docqual/pkg/testutil"
)

func TestReportSetJSON(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()

	src := newTestSource()
	names, err := src.ListCollections(ctx)
	require.NoError(t, err)
	set := NewProfiler(src, WithLogger(testutil.TestLogger(t))).ProfileAll(ctx, names)
	set.Add(&Report{Collection: "bad", Status: StatusFailed, Failure: &Failure{Stage: StageOutliers, Message: "non-finite"}})

	data, err := json.Marshal(set)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `"logs":{"note":"Empty collection"}`)
	assert.Contains(t, out, `"bad":{"error":"non-finite","stage":"outliers"}`)
	assert.Contains(t, out, `"DataTypes":{"id":"int64","amt":"int64"}`)
	assert.Less(t, strings.Index(out, `"orders"`), strings.Index(out, `"users"`))
	assert.Less(t, strings.Index(out, `"users"`), strings.Index(out, `"logs"`))

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 4, decoded["orders"]["RowCount"])
	users := decoded["users"]["MissingValues"].(map[string]interface{})
	email := users["email"].(map[string]interface{})
	assert.EqualValues(t, 2, email["MissingCount"])
}

func TestReportSetAddReplaces(t *testing.T) {
	set := NewReportSet()
	set.Add(&Report{Collection: "a", Status: StatusEmpty})
	set.Add(&Report{Collection: "b", Status: StatusEmpty})
	set.Add(&Report{Collection: "a", Status: StatusFailed, Failure: &Failure{Stage: "x"}})

	require.Equal(t, 2, set.Len())
	r, ok := set.Get("a")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "a", set.Reports()[0].Collection)

	_, ok = set.Get("missing")
	assert.False(t, ok)
}
