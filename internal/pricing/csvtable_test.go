package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableBasic(t *testing.T) {
	tbl, ok := ParseTable("Plan,Price\nFree,0\n\"Pro, Team\",49")
	require.True(t, ok)
	assert.Equal(t, []string{"Plan", "Price"}, tbl.Header)
	assert.Equal(t, [][]string{
		{"Free", "0"},
		{"Pro, Team", "49"},
	}, tbl.Rows)
}

func TestParseTableNoTableSignals(t *testing.T) {
	_, ok := ParseTable("")
	assert.False(t, ok)

	_, ok = ParseTable("\n\n")
	assert.False(t, ok)

	_, ok = ParseTable("  ,  \n,\n")
	assert.False(t, ok)
}

func TestParseTableHeaderHeuristic(t *testing.T) {
	// All-numeric first row is data, not a header.
	tbl, ok := ParseTable("1,2,3\n4,5,6")
	require.True(t, ok)
	assert.Equal(t, []string{"Column 1", "Column 2", "Column 3"}, tbl.Header)
	assert.Len(t, tbl.Rows, 2)

	// An empty cell in the first row disqualifies it as a header.
	tbl, ok = ParseTable("Plan,,Price\nFree,x,0")
	require.True(t, ok)
	assert.Equal(t, []string{"Column 1", "Column 2", "Column 3"}, tbl.Header)

	// Single row is always data.
	tbl, ok = ParseTable("Free,0")
	require.True(t, ok)
	assert.Equal(t, []string{"Column 1", "Column 2"}, tbl.Header)
	assert.Equal(t, [][]string{{"Free", "0"}}, tbl.Rows)

	// Signed and decimal cells count as numeric; exponents do not.
	tbl, ok = ParseTable("-1,+2.5\n3,4")
	require.True(t, ok)
	assert.Equal(t, []string{"Column 1", "Column 2"}, tbl.Header)

	tbl, ok = ParseTable("1e5,foo\n3,4")
	require.True(t, ok)
	assert.Equal(t, []string{"1e5", "foo"}, tbl.Header)
}

func TestParseTableRaggedRowsPadded(t *testing.T) {
	tbl, ok := ParseTable("Plan,Price,Limit\nFree,0\nPro")
	require.True(t, ok)
	assert.Equal(t, [][]string{
		{"Free", "0", ""},
		{"Pro", "", ""},
	}, tbl.Rows)
}

func TestParseTableLineEndings(t *testing.T) {
	for _, sep := range []string{"\n", "\r\n", "\r"} {
		tbl, ok := ParseTable("Plan,Price" + sep + "Free,0" + sep + "Pro,49")
		require.True(t, ok, "separator %q", sep)
		assert.Equal(t, []string{"Plan", "Price"}, tbl.Header)
		assert.Len(t, tbl.Rows, 2, "separator %q", sep)
	}
}

func TestParseTableQuotedNewlinesAndEscapes(t *testing.T) {
	tbl, ok := ParseTable("Plan,Notes\nFree,\"line one\nline two\"\nPro,\"say \"\"hi\"\"\"")
	require.True(t, ok)
	assert.Equal(t, "line one\nline two", tbl.Rows[0][1])
	assert.Equal(t, `say "hi"`, tbl.Rows[1][1])
}

func TestParseTableTrailingBlankRowsDropped(t *testing.T) {
	tbl, ok := ParseTable("Plan,Price\nFree,0\n\n  ,\n")
	require.True(t, ok)
	assert.Len(t, tbl.Rows, 1)
}

func TestMarshalRoundTrip(t *testing.T) {
	original := &Table{
		Header: []string{"Plan", "Price", "Notes"},
		Rows: [][]string{
			{"Free", "0", "basic"},
			{"Pro, Team", "49", `includes "SLA"`},
			{"Enterprise", "499", "multi\nline"},
		},
	}

	parsed, ok := ParseTable(original.MarshalCSV())
	require.True(t, ok)
	assert.Equal(t, original.Header, parsed.Header)
	assert.Equal(t, original.Rows, parsed.Rows)

	// Idempotent: a second round trip changes nothing.
	again, ok := ParseTable(parsed.MarshalCSV())
	require.True(t, ok)
	assert.Equal(t, parsed.Rows, again.Rows)
}
