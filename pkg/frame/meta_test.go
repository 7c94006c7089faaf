package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamkit/iamkit/pkg/table"
)

func metaColumn(t *testing.T, f *Frame, name string) []any {
	t.Helper()
	col, err := f.Meta().Column(name)
	require.NoError(t, err)
	return col
}

func TestSetMetaSeries(t *testing.T) {
	f := testFrame(t)
	err := f.SetMetaSeries("meta_values", map[Key]any{
		{"model_a", "scen_a"}: 0.3,
	})
	require.NoError(t, err)

	// aligned pair gets the value, the other pair null
	assert.Equal(t, []any{0.3, nil}, metaColumn(t, f, "meta_values"))
}

func TestSetMetaSeriesUnknownKey(t *testing.T) {
	f := testFrame(t)
	err := f.SetMetaSeries("meta_values", map[Key]any{
		{"fail_model", "fail_scenario"}: 0.5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in frame")

	// failed set must not leave a column behind
	assert.Empty(t, f.MetaColumns())
}

func TestSetMetaValueBroadcast(t *testing.T) {
	f := testFrame(t)

	require.NoError(t, f.SetMetaValue("meta_int", 3.2))
	assert.Equal(t, []any{3.2, 3.2}, metaColumn(t, f, "meta_int"))

	require.NoError(t, f.SetMetaValue("meta_str", "testing"))
	assert.Equal(t, []any{"testing", "testing"}, metaColumn(t, f, "meta_str"))
}

func TestSetMetaList(t *testing.T) {
	f := testFrame(t)
	require.NoError(t, f.SetMetaList("category", []any{"testing", "testing2"}))

	got := f.Filter(Filter{}).Meta()
	col, err := got.Column("category")
	require.NoError(t, err)
	assert.Equal(t, []any{"testing", "testing2"}, col)

	err = f.SetMetaList("category", []any{"only one"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 values for 2 scenarios")
}

func TestSetMetaColumn(t *testing.T) {
	f := testFrame(t)

	src := table.New("model", "scenario", "version")
	src.MustAppendRow("model_a", "scen_a", 1)
	src.MustAppendRow("model_a", "scen_b", 1)
	require.NoError(t, f.SetMetaColumn("version", src))
	assert.Equal(t, []any{1, 1}, metaColumn(t, f, "version"))
}

func TestSetMetaColumnDuplicateRows(t *testing.T) {
	f := testFrame(t)

	src := table.New("model", "scenario", "version")
	src.MustAppendRow("model_a", "scen_a", 1)
	src.MustAppendRow("model_a", "scen_a", 2)
	err := f.SetMetaColumn("version", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate metadata rows")
}

func TestSetMetaColumnMissingColumn(t *testing.T) {
	f := testFrame(t)
	src := table.New("model", "scenario")
	err := f.SetMetaColumn("version", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no column "version"`)
}

func TestSetMetaReservedNames(t *testing.T) {
	f := testFrame(t)
	for _, name := range []string{"model", "scenario", "data", "meta"} {
		err := f.SetMetaValue(name, 1)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "reserved")
	}
	require.Error(t, f.SetMetaValue("", 1))
}

func TestMetaTableShape(t *testing.T) {
	f := testFrame(t)
	require.NoError(t, f.SetMetaList("number", []any{1, 2}))
	require.NoError(t, f.SetMetaSeries("string", map[Key]any{{"model_a", "scen_a"}: "foo"}))

	meta := f.Meta()
	assert.Equal(t, []string{"model", "scenario", "number", "string"}, meta.Columns())
	assert.Equal(t, [][]any{
		{"model_a", "scen_a", 1, "foo"},
		{"model_a", "scen_b", 2, nil},
	}, meta.Rows())
}
