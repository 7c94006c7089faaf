package remote

import (
	"encoding/json"
	"fmt"

	"github.com/guregu/null/v5"

	"github.com/iamkit/iamkit/pkg/frame"
	"github.com/iamkit/iamkit/pkg/table"
)

// Wire records as returned by the catalogue service. Optional fields are
// nullable; the normalizers below turn them into canonical tables.

type variableRecord struct {
	Variable string `json:"variable"`
}

type regionRecord struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	Parent    null.String `json:"parent"`
	Hierarchy null.String `json:"hierarchy"`
	Synonyms  []string    `json:"synonyms"`
}

type runRecord struct {
	Model     string         `json:"model"`
	Scenario  string         `json:"scenario"`
	Version   int            `json:"version"`
	IsDefault bool           `json:"is_default"`
	Metadata  map[string]any `json:"metadata"`
}

type timeseriesRecord struct {
	Model     string      `json:"model"`
	Scenario  string      `json:"scenario"`
	Region    string      `json:"region"`
	Variable  string      `json:"variable"`
	Unit      null.String `json:"unit"`
	Subannual null.String `json:"subannual"`
	Year      int         `json:"year"`
	Value     float64     `json:"value"`
}

// ConvertRegionsPayload normalizes a raw regions payload. Without synonym
// expansion the result has a single `region` column. With expansion it has
// columns {region, synonym}, one row per (region, synonym) pair and a
// single null-synonym row for regions without synonyms. An empty payload
// yields an empty table with the correct columns.
func ConvertRegionsPayload(raw []byte, includeSynonyms bool) (*table.Table, error) {
	var records []regionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("remote: malformed regions payload: %w", err)
	}

	if !includeSynonyms {
		t := table.New("region")
		for _, r := range records {
			t.MustAppendRow(r.Name)
		}
		return t, nil
	}

	t := table.New("region", "synonym")
	for _, r := range records {
		if len(r.Synonyms) == 0 {
			t.MustAppendRow(r.Name, nil)
			continue
		}
		for _, syn := range r.Synonyms {
			t.MustAppendRow(r.Name, syn)
		}
	}
	return t, nil
}

// convertTimeseriesPayload normalizes a raw timeseries payload into
// canonical long-format rows. A missing or null sub-annual label defaults
// to the "Year" sentinel; heterogeneous sub-annual reporting across models
// is preserved as-is.
func convertTimeseriesPayload(raw []byte) ([]frame.Datum, error) {
	var records []timeseriesRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("remote: malformed timeseries payload: %w", err)
	}

	data := make([]frame.Datum, 0, len(records))
	for _, r := range records {
		sub := r.Subannual.ValueOrZero()
		if sub == "" {
			sub = frame.SubannualYear
		}
		data = append(data, frame.Datum{
			Model:     r.Model,
			Scenario:  r.Scenario,
			Region:    r.Region,
			Variable:  r.Variable,
			Unit:      r.Unit.ValueOrZero(),
			Subannual: sub,
			Year:      r.Year,
			Value:     r.Value,
		})
	}
	return data, nil
}

// convertRunsPayload normalizes a raw runs payload into the meta table:
// columns {model, scenario, version, is_default, extras...} with the extra
// columns in the server-declared order. Metadata values the server does
// not report for a run are null.
func convertRunsPayload(raw []byte, metaCols []string) (*table.Table, error) {
	var records []runRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("remote: malformed runs payload: %w", err)
	}

	cols := append([]string{"model", "scenario", "version", "is_default"}, metaCols...)
	t := table.New(cols...)
	for _, r := range records {
		row := make([]any, 0, len(cols))
		row = append(row, r.Model, r.Scenario, r.Version, r.IsDefault)
		for _, c := range metaCols {
			row = append(row, r.Metadata[c])
		}
		t.MustAppendRow(row...)
	}
	return t, nil
}
