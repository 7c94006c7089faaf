package remote

import (
	"context"
	"net/url"

	"github.com/iamkit/iamkit/pkg/frame"
)

// queryParams collects query criteria and metadata selection. The zero
// value queries default-flagged runs with the full metadata set.
type queryParams struct {
	model    []string
	scenario []string
	variable []string
	region   []string
	year     []int

	allVersions bool
	meta        metaSelection
}

// metaSelection controls which metadata columns are merged into the
// resulting frame.
type metaSelection struct {
	none bool
	cols []string // nil means all
}

// QueryOption narrows a query or adjusts the metadata merge.
type QueryOption func(*queryParams)

// FilterModel restricts the query to the given models.
func FilterModel(models ...string) QueryOption {
	return func(q *queryParams) { q.model = append(q.model, models...) }
}

// FilterScenario restricts the query to the given scenarios.
func FilterScenario(scenarios ...string) QueryOption {
	return func(q *queryParams) { q.scenario = append(q.scenario, scenarios...) }
}

// FilterVariable restricts the query to the given variables.
func FilterVariable(variables ...string) QueryOption {
	return func(q *queryParams) { q.variable = append(q.variable, variables...) }
}

// FilterRegion restricts the query to the given regions.
func FilterRegion(regions ...string) QueryOption {
	return func(q *queryParams) { q.region = append(q.region, regions...) }
}

// FilterYear restricts the result to the given years. Applied client-side
// after normalization.
func FilterYear(years ...int) QueryOption {
	return func(q *queryParams) { q.year = append(q.year, years...) }
}

// AllVersions queries beyond the default-flagged runs. Fails with
// AmbiguousVersionError when the result would span several versions of the
// same (model, scenario).
func AllVersions() QueryOption {
	return func(q *queryParams) { q.allVersions = true }
}

// WithoutMeta skips the metadata merge entirely; the resulting frame has
// only the seeded (model, scenario) rows.
func WithoutMeta() QueryOption {
	return func(q *queryParams) { q.meta = metaSelection{none: true} }
}

// WithMetaColumns restricts the merged metadata to exactly the given extra
// columns (plus the mandatory version column).
func WithMetaColumns(cols ...string) QueryOption {
	return func(q *queryParams) { q.meta = metaSelection{cols: cols} }
}

// Query issues one data request, normalizes the payload, merges the
// requested metadata slice and returns the unified scenario frame.
// Filtering by the same criteria server-side or client-side (Frame.Filter
// on an unfiltered result) yields identical frames.
func (c *Connection) Query(ctx context.Context, opts ...QueryOption) (*frame.Frame, error) {
	var q queryParams
	for _, opt := range opts {
		opt(&q)
	}

	meta, err := c.fetchRuns(ctx, !q.allVersions)
	if err != nil {
		return nil, err
	}
	if q.allVersions {
		if err := checkVersionAmbiguity(meta); err != nil {
			return nil, err
		}
	}

	raw, err := c.get(ctx, "/timeseries", q.values())
	if err != nil {
		return nil, err
	}
	data, err := convertTimeseriesPayload(raw)
	if err != nil {
		return nil, err
	}

	f, err := buildFrame(data, meta, q.meta, !q.allVersions)
	if err != nil {
		return nil, err
	}
	if len(q.year) > 0 {
		f = f.Filter(frame.Filter{Year: q.year})
	}
	c.logger.Debug("query complete", "service", c.service.Name, "rows", f.Len())
	return f, nil
}

// values renders the server-side filter parameters.
func (q *queryParams) values() url.Values {
	v := url.Values{}
	for _, m := range q.model {
		v.Add("model", m)
	}
	for _, s := range q.scenario {
		v.Add("scenario", s)
	}
	for _, vr := range q.variable {
		v.Add("variable", vr)
	}
	for _, r := range q.region {
		v.Add("region", r)
	}
	if q.allVersions {
		v.Set("default_only", "false")
	} else {
		v.Set("default_only", "true")
	}
	return v
}

// Read connects to a service and queries it in one call. Pass nil connect
// options to use the defaults (stored credentials or anonymous access).
func Read(ctx context.Context, service string, connect []Option, query ...QueryOption) (*frame.Frame, error) {
	c, err := Connect(ctx, service, connect...)
	if err != nil {
		return nil, err
	}
	return c.Query(ctx, query...)
}
