package remote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamkit/iamkit/internal/testutil"
	"github.com/iamkit/iamkit/pkg/frame"
	"github.com/iamkit/iamkit/pkg/frame/frametest"
	"github.com/iamkit/iamkit/pkg/remote"
)

func annual(model, scenario, variable string, year int, value float64) frame.Datum {
	return frame.Datum{
		Model: model, Scenario: scenario, Region: "World",
		Variable: variable, Unit: "EJ/yr", Subannual: frame.SubannualYear,
		Year: year, Value: value,
	}
}

// modelAFrame is the expected result of querying model_a with the full
// metadata merge.
func modelAFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New([]frame.Datum{
		annual("model_a", "scen_a", "Primary Energy", 2005, 1),
		annual("model_a", "scen_a", "Primary Energy", 2010, 6),
		annual("model_a", "scen_a", "Primary Energy|Coal", 2005, 0.5),
		annual("model_a", "scen_a", "Primary Energy|Coal", 2010, 3),
		annual("model_a", "scen_b", "Primary Energy", 2005, 2),
		annual("model_a", "scen_b", "Primary Energy", 2010, 7),
	})
	require.NoError(t, err)

	scenA := frame.Key{Model: "model_a", Scenario: "scen_a"}
	scenB := frame.Key{Model: "model_a", Scenario: "scen_b"}
	require.NoError(t, f.SetMetaSeries("version", map[frame.Key]any{scenA: 1, scenB: 1}))
	require.NoError(t, f.SetMetaSeries("number", map[frame.Key]any{scenA: 1, scenB: 2}))
	require.NoError(t, f.SetMetaSeries("string", map[frame.Key]any{scenA: "foo", scenB: nil}))
	return f
}

func TestQueryModel(t *testing.T) {
	c := connect(t)
	got, err := c.Query(context.Background(), remote.FilterModel("model_a"))
	require.NoError(t, err)
	frametest.AssertEqual(t, modelAFrame(t), got)
}

func TestQueryVariableWildcard(t *testing.T) {
	c := connect(t)
	got, err := c.Query(context.Background(),
		remote.FilterModel("model_a"),
		remote.FilterVariable("Primary Energy|*"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Primary Energy|Coal"}, got.Variables())
	assert.Equal(t, []frame.Key{{Model: "model_a", Scenario: "scen_a"}}, got.Keys())
}

func TestQuerySubannual(t *testing.T) {
	c := connect(t)
	got, err := c.Query(context.Background(), remote.FilterModel("model_b"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Summer", "Year"}, got.Subannuals())
	assert.Equal(t, 8, got.Len())

	k := frame.Key{Model: "model_b", Scenario: "scen_a"}
	v, ok := got.MetaValue(k, "string")
	require.True(t, ok)
	assert.Equal(t, "baz", v)
}

func TestQueryYearFilter(t *testing.T) {
	c := connect(t)
	got, err := c.Query(context.Background(),
		remote.FilterModel("model_a"),
		remote.FilterYear(2005))
	require.NoError(t, err)

	assert.Equal(t, []int{2005}, got.Years())
	assert.Equal(t, 3, got.Len())
}

func TestQueryMetaColumnSubset(t *testing.T) {
	c := connect(t)
	got, err := c.Query(context.Background(),
		remote.FilterModel("model_a"),
		remote.WithMetaColumns("string"))
	require.NoError(t, err)

	assert.Equal(t, []string{"version", "string"}, got.MetaColumns(),
		"version is always merged")
}

func TestQueryUnknownMetaColumn(t *testing.T) {
	c := connect(t)
	_, err := c.Query(context.Background(),
		remote.FilterModel("model_a"),
		remote.WithMetaColumns("nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown metadata column "nope"`)
}

func TestQueryWithoutMeta(t *testing.T) {
	c := connect(t)
	got, err := c.Query(context.Background(),
		remote.FilterModel("model_a"),
		remote.WithoutMeta())
	require.NoError(t, err)

	assert.Empty(t, got.MetaColumns())
	assert.Equal(t, modelAFrame(t).Data(), got.Data())
}

func TestQueryAllVersionsAmbiguous(t *testing.T) {
	c := connect(t)
	_, err := c.Query(context.Background(), remote.AllVersions())
	require.Error(t, err)

	var ambiguous *remote.AmbiguousVersionError
	require.ErrorAs(t, err, &ambiguous)
	assert.Contains(t, ambiguous.Keys, frame.Key{Model: "model_a", Scenario: "scen_a"})
}

func TestQueryServerAndClientFilterAgree(t *testing.T) {
	c := connect(t)

	server, err := c.Query(context.Background(), remote.FilterModel("model_a"))
	require.NoError(t, err)

	full, err := c.Query(context.Background())
	require.NoError(t, err)
	client := full.Filter(frame.Filter{Model: []string{"model_a"}})

	frametest.AssertEqual(t, server, client)
}

func TestRead(t *testing.T) {
	_, reg := testutil.Start(t)
	got, err := remote.Read(context.Background(), testutil.ServiceName,
		[]remote.Option{remote.WithRegistry(reg)},
		remote.FilterModel("model_a"))
	require.NoError(t, err)
	frametest.AssertEqual(t, modelAFrame(t), got)
}
