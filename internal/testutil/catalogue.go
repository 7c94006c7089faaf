// Package testutil provides an in-process scenario catalogue service for
// tests: a chi-routed HTTP server speaking the same wire protocol as the
// real catalogue, loaded with a small two-model fixture.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iamkit/iamkit/pkg/remote"
)

// Fixture credentials accepted by the catalogue login endpoint.
const (
	Username = "test-user"
	Password = "test-password"
	Token    = "test-token"
)

// Service identifiers registered for the fixture catalogue.
const (
	ServiceName  = "test-api"
	ServiceAlias = "Test Scenario Explorer"
)

// Region is one catalogue region record.
type Region struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Parent    string   `json:"parent"`
	Hierarchy string   `json:"hierarchy"`
	Synonyms  []string `json:"synonyms,omitempty"`
}

// Run is one catalogue run-index record.
type Run struct {
	Model     string         `json:"model"`
	Scenario  string         `json:"scenario"`
	Version   int            `json:"version"`
	IsDefault bool           `json:"is_default"`
	Metadata  map[string]any `json:"metadata"`
}

// Timeseries is one catalogue timeseries record. An empty Subannual is
// omitted from the payload so clients must apply the "Year" sentinel.
type Timeseries struct {
	Model     string  `json:"model"`
	Scenario  string  `json:"scenario"`
	Region    string  `json:"region"`
	Variable  string  `json:"variable"`
	Unit      string  `json:"unit"`
	Subannual string  `json:"subannual,omitempty"`
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
}

// Catalogue holds the fixture dataset served over HTTP.
type Catalogue struct {
	Regions    []Region
	MetaCols   []string
	Runs       []Run
	Timeseries []Timeseries
}

// NewCatalogue returns the standard fixture: model_a reporting annual data
// for two scenarios (one of them with a second, non-default version) and
// model_b reporting the same variable at both "Summer" and "Year"
// resolution.
func NewCatalogue() *Catalogue {
	c := &Catalogue{
		Regions: []Region{
			{ID: 1, Name: "World", Parent: "World", Hierarchy: "common"},
			{ID: 2, Name: "region_a", Parent: "World", Hierarchy: "country", Synonyms: []string{"ISO_a"}},
		},
		MetaCols: []string{"number", "string"},
		Runs: []Run{
			{Model: "model_a", Scenario: "scen_a", Version: 1, IsDefault: true, Metadata: map[string]any{"number": 1, "string": "foo"}},
			{Model: "model_a", Scenario: "scen_b", Version: 1, IsDefault: true, Metadata: map[string]any{"number": 2, "string": nil}},
			{Model: "model_a", Scenario: "scen_a", Version: 2, IsDefault: false, Metadata: map[string]any{"number": 1, "string": "bar"}},
			{Model: "model_b", Scenario: "scen_a", Version: 1, IsDefault: true, Metadata: map[string]any{"number": 3, "string": "baz"}},
		},
	}

	annual := func(model, scenario, variable string, v2005, v2010 float64) {
		c.Timeseries = append(c.Timeseries,
			Timeseries{Model: model, Scenario: scenario, Region: "World", Variable: variable, Unit: "EJ/yr", Year: 2005, Value: v2005},
			Timeseries{Model: model, Scenario: scenario, Region: "World", Variable: variable, Unit: "EJ/yr", Year: 2010, Value: v2010},
		)
	}
	subannual := func(variable, label string, v2005, v2010 float64) {
		c.Timeseries = append(c.Timeseries,
			Timeseries{Model: "model_b", Scenario: "scen_a", Region: "World", Variable: variable, Unit: "EJ/yr", Subannual: label, Year: 2005, Value: v2005},
			Timeseries{Model: "model_b", Scenario: "scen_a", Region: "World", Variable: variable, Unit: "EJ/yr", Subannual: label, Year: 2010, Value: v2010},
		)
	}

	annual("model_a", "scen_a", "Primary Energy", 1, 6)
	annual("model_a", "scen_a", "Primary Energy|Coal", 0.5, 3)
	annual("model_a", "scen_b", "Primary Energy", 2, 7)
	subannual("Primary Energy", "Summer", 1, 3)
	subannual("Primary Energy", "Year", 3, 8)
	subannual("Primary Energy|Coal", "Summer", 0.4, 2)
	subannual("Primary Energy|Coal", "Year", 0.9, 5)

	return c
}

// Router builds the chi router serving the catalogue API.
func (c *Catalogue) Router() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(req.Body).Decode(&creds); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if creds.Username != Username || creds.Password != Password {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		writeJSON(w, map[string]string{"token": Token})
	})

	r.Get("/variables", func(w http.ResponseWriter, req *http.Request) {
		type rec struct {
			Variable string `json:"variable"`
		}
		// one record per timeseries row: the client is expected to dedupe
		out := make([]rec, 0, len(c.Timeseries))
		for _, ts := range c.Timeseries {
			out = append(out, rec{Variable: ts.Variable})
		}
		writeJSON(w, out)
	})

	r.Get("/regions", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, c.Regions)
	})

	r.Get("/metadata/columns", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, c.MetaCols)
	})

	r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
		defaultOnly := req.URL.Query().Get("default_only") != "false"
		out := make([]Run, 0, len(c.Runs))
		for _, run := range c.Runs {
			if defaultOnly && !run.IsDefault {
				continue
			}
			out = append(out, run)
		}
		writeJSON(w, out)
	})

	r.Get("/timeseries", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		out := make([]Timeseries, 0, len(c.Timeseries))
		for _, ts := range c.Timeseries {
			if matches(q["model"], ts.Model) &&
				matches(q["scenario"], ts.Scenario) &&
				matches(q["variable"], ts.Variable) &&
				matches(q["region"], ts.Region) {
				out = append(out, ts)
			}
		}
		writeJSON(w, out)
	})

	return r
}

// matches implements the server-side filter semantics: empty criteria
// match everything, `*` is a wildcard, values combine with OR.
func matches(patterns []string, value string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if p == value {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "*"); ok && strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Start runs the catalogue on an httptest server and returns a registry
// with the fixture service registered under ServiceName. Cleanup is tied
// to the test.
func Start(t *testing.T) (*Catalogue, *remote.Registry) {
	t.Helper()
	c := NewCatalogue()
	srv := httptest.NewServer(c.Router())
	t.Cleanup(srv.Close)

	reg := remote.NewRegistry()
	reg.Register(remote.Service{
		Name:      ServiceName,
		Alias:     ServiceAlias,
		URL:       srv.URL,
		Anonymous: true,
	})
	return c, reg
}
