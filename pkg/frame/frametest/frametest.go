// Package frametest provides assertion helpers for comparing frames in
// tests.
package frametest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iamkit/iamkit/pkg/frame"
	"github.com/iamkit/iamkit/pkg/table"
)

// AssertEqual fails the test unless both frames have identical timeseries
// rows and meta tables. Reports the rendered meta tables on mismatch to
// keep failures readable.
func AssertEqual(t testing.TB, want, got *frame.Frame) bool {
	t.Helper()
	if want == nil || got == nil {
		return assert.Equal(t, want, got)
	}
	ok := assert.Equal(t, want.Data(), got.Data(), "timeseries rows differ")
	if !want.Meta().Equal(got.Meta()) {
		assert.Fail(t, "meta tables differ",
			"want:\n%s\ngot:\n%s", renderCSV(want.Meta()), renderCSV(got.Meta()))
		ok = false
	}
	return ok
}

func renderCSV(tbl *table.Table) string {
	var buf bytes.Buffer
	_ = tbl.Render(&buf, table.FormatCSV)
	return buf.String()
}
