package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamkit/iamkit/pkg/frame"
	"github.com/iamkit/iamkit/pkg/table"
)

func TestConvertRegionsPayloadEmpty(t *testing.T) {
	got, err := ConvertRegionsPayload([]byte(`[]`), true)
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Equal(t, []string{"region", "synonym"}, got.Columns())
}

func TestConvertRegionsPayloadNoSynonyms(t *testing.T) {
	raw := []byte(`[{"id":1,"name":"World","parent":"World","hierarchy":"common"}]`)
	got, err := ConvertRegionsPayload(raw, true)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"World", nil}}, got.Rows())
}

func TestConvertRegionsPayloadWithSynonyms(t *testing.T) {
	raw := []byte(`[
		{"id":1,"name":"World","parent":"World","hierarchy":"common","synonyms":[]},
		{"id":2,"name":"USA","parent":"World","hierarchy":"country","synonyms":["US","United States"]},
		{"id":3,"name":"Germany","parent":"World","hierarchy":"country","synonyms":["Deutschland","DE"]}
	]`)
	got, err := ConvertRegionsPayload(raw, true)
	require.NoError(t, err)

	exp := table.New("region", "synonym")
	exp.MustAppendRow("World", nil)
	exp.MustAppendRow("USA", "US")
	exp.MustAppendRow("USA", "United States")
	exp.MustAppendRow("Germany", "Deutschland")
	exp.MustAppendRow("Germany", "DE")
	assert.True(t, exp.Equal(got), "one row per (region, synonym) pair")
}

func TestConvertRegionsPayloadPlain(t *testing.T) {
	raw := []byte(`[{"id":1,"name":"World"},{"id":2,"name":"region_a","synonyms":["ISO_a"]}]`)
	got, err := ConvertRegionsPayload(raw, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"region"}, got.Columns())
	assert.Equal(t, [][]any{{"World"}, {"region_a"}}, got.Rows())
}

func TestConvertRegionsPayloadMalformed(t *testing.T) {
	_, err := ConvertRegionsPayload([]byte(`{"not":"a list"}`), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed regions payload")
}

func TestConvertTimeseriesPayloadSubannualDefault(t *testing.T) {
	raw := []byte(`[
		{"model":"model_a","scenario":"scen_a","region":"World","variable":"Primary Energy","unit":"EJ/yr","year":2005,"value":1},
		{"model":"model_b","scenario":"scen_a","region":"World","variable":"Primary Energy","unit":"EJ/yr","subannual":"Summer","year":2005,"value":1},
		{"model":"model_b","scenario":"scen_a","region":"World","variable":"Primary Energy","unit":"EJ/yr","subannual":null,"year":2010,"value":3}
	]`)
	got, err := convertTimeseriesPayload(raw)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, frame.SubannualYear, got[0].Subannual, "missing subannual defaults to the sentinel")
	assert.Equal(t, "Summer", got[1].Subannual, "explicit subannual is preserved")
	assert.Equal(t, frame.SubannualYear, got[2].Subannual, "null subannual defaults to the sentinel")
}

func TestConvertTimeseriesPayloadMixedUnits(t *testing.T) {
	raw := []byte(`[
		{"model":"model_a","scenario":"scen_a","region":"World","variable":"Primary Energy","unit":"EJ/yr","year":2005,"value":1},
		{"model":"model_a","scenario":"scen_a","region":"World","variable":"Emissions|CO2","unit":"Mt CO2/yr","year":2005,"value":40}
	]`)
	got, err := convertTimeseriesPayload(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "EJ/yr", got[0].Unit)
	assert.Equal(t, "Mt CO2/yr", got[1].Unit)
}

func TestConvertRunsPayload(t *testing.T) {
	raw := []byte(`[
		{"model":"model_a","scenario":"scen_a","version":1,"is_default":true,"metadata":{"number":1,"string":"foo"}},
		{"model":"model_a","scenario":"scen_b","version":1,"is_default":true,"metadata":{"number":2,"string":null}}
	]`)
	got, err := convertRunsPayload(raw, []string{"number", "string"})
	require.NoError(t, err)

	exp := table.New("model", "scenario", "version", "is_default", "number", "string")
	exp.MustAppendRow("model_a", "scen_a", 1, true, 1, "foo")
	exp.MustAppendRow("model_a", "scen_b", 1, true, 2, nil)
	assert.True(t, exp.Equal(got))
}

func TestConvertRunsPayloadMissingMetadataIsNull(t *testing.T) {
	raw := []byte(`[{"model":"m","scenario":"s","version":1,"is_default":true}]`)
	got, err := convertRunsPayload(raw, []string{"number"})
	require.NoError(t, err)
	v, ok := got.Cell(0, "number")
	require.True(t, ok)
	assert.Nil(t, v)
}
