package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/crawlboard/internal/crawler"
)

func sampleResults() []crawler.Result {
	return []crawler.Result{
		{ID: 1, Url: "https://example.com", Title: "Example Site", HTMLVersion: "HTML5", Status: crawler.StatusDone, InternalLinks: 5, ExternalLinks: 2},
		{ID: 2, Url: "https://golang.org", Title: "Go", HTMLVersion: "HTML5", Status: crawler.StatusQueued, InternalLinks: 6},
		{ID: 3, Url: "https://old.example.org", Title: "Legacy", HTMLVersion: "HTML 4.01", Status: crawler.StatusDone, InternalLinks: 4, BrokenLinks: 3, LoginFormDetected: true},
		{ID: 4, Url: "https://news.site", Title: "", HTMLVersion: "XHTML 1.0", Status: crawler.StatusError},
		{ID: 5, Url: "https://blog.example.net", Title: "Blog", HTMLVersion: "HTML5", Status: crawler.StatusQueued, InternalLinks: 5},
		{ID: 6, Url: "https://shop.site", Title: "Shop", HTMLVersion: "HTML5", Status: crawler.StatusDone, InternalLinks: 50, LoginFormDetected: true},
	}
}

func ids(results []crawler.Result) []int64 {
	out := make([]int64, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestApply_StatusEnumKeepsOrder(t *testing.T) {
	got := Apply(sampleResults(), FilterState{KeyStatus: Enum("done")})
	assert.Equal(t, []int64{1, 3, 6}, ids(got))
}

func TestApply_GlobalIsCaseSensitive(t *testing.T) {
	results := []crawler.Result{{ID: 1, Title: "Example Site", Url: "https://site.test", Status: crawler.StatusDone}}

	got := Apply(results, FilterState{KeyGlobal: Text("example")})
	assert.Empty(t, got, "lowercase query must not match \"Example Site\"")

	got = Apply(results, FilterState{KeyGlobal: Text("Example")})
	assert.Equal(t, []int64{1}, ids(got))
}

func TestApply_GlobalSearchesEveryDisplayedStringField(t *testing.T) {
	results := sampleResults()

	assert.Equal(t, []int64{1, 3, 5}, ids(Apply(results, FilterState{KeyGlobal: Text("example")})), "url")
	assert.Equal(t, []int64{3}, ids(Apply(results, FilterState{KeyGlobal: Text("4.01")})), "html version")
	assert.Equal(t, []int64{4}, ids(Apply(results, FilterState{KeyGlobal: Text("error")})), "status")
	assert.Empty(t, Apply(results, FilterState{KeyGlobal: Text("50")}), "counts are not string fields")
}

func TestApply_NumericIsExact(t *testing.T) {
	got := Apply(sampleResults(), FilterState{KeyInternalLinks: Numeric("5")})
	assert.Equal(t, []int64{1, 5}, ids(got))

	got = Apply(sampleResults(), FilterState{KeyInternalLinks: Numeric(" 05 ")})
	assert.Equal(t, []int64{1, 5}, ids(got), "surrounding spaces and leading zeros parse")
}

func TestApply_EmptyOrMalformedIsNoConstraint(t *testing.T) {
	all := ids(sampleResults())
	cases := []struct {
		name string
		fs   FilterState
	}{
		{"nil state", nil},
		{"empty text", FilterState{KeyTitle: Text("")}},
		{"empty enum", FilterState{KeyStatus: Enum("")}},
		{"empty numeric", FilterState{KeyBrokenLinks: Numeric("")}},
		{"malformed numeric", FilterState{KeyBrokenLinks: Numeric("lots")}},
		{"float numeric", FilterState{KeyBrokenLinks: Numeric("3.5")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, all, ids(Apply(sampleResults(), tc.fs)))
		})
	}
}

func TestApply_FieldTextFilters(t *testing.T) {
	results := sampleResults()

	assert.Equal(t, []int64{3}, ids(Apply(results, FilterState{KeyHTMLVersion: Text("4.01")})))
	assert.Equal(t, []int64{4, 6}, ids(Apply(results, FilterState{KeyURL: Text(".site")})))
	assert.Empty(t, Apply(results, FilterState{KeyTitle: Text("blog")}))
}

func TestApply_LoginFormEnum(t *testing.T) {
	results := sampleResults()

	assert.Equal(t, []int64{3, 6}, ids(Apply(results, FilterState{KeyLoginForm: Enum("true")})))
	assert.Equal(t, []int64{1, 2, 4, 5}, ids(Apply(results, FilterState{KeyLoginForm: Enum("false")})))
	assert.Empty(t, Apply(results, FilterState{KeyLoginForm: Enum("yes")}))
}

func TestApply_ANDAcrossKeysIncludingGlobal(t *testing.T) {
	fs := FilterState{
		KeyStatus:        Enum("done"),
		KeyGlobal:        Text("example"),
		KeyInternalLinks: Numeric("4"),
	}
	assert.Equal(t, []int64{3}, ids(Apply(sampleResults(), fs)))
}

func TestApply_SubsequenceAndPredicatesHold(t *testing.T) {
	results := sampleResults()
	states := []FilterState{
		{},
		{KeyStatus: Enum("queued")},
		{KeyGlobal: Text("HTML")},
		{KeyGlobal: Text("e"), KeyLoginForm: Enum("false")},
		{KeyExternalLinks: Numeric("0"), KeyHTMLVersion: Text("HTML5")},
	}
	for _, fs := range states {
		got := Apply(results, fs)

		// Order-preserving subsequence.
		pos := 0
		for _, r := range got {
			for pos < len(results) && results[pos].ID != r.ID {
				pos++
			}
			require.Less(t, pos, len(results), "result %d out of order for %v", r.ID, fs)
			pos++
		}
		for _, r := range got {
			for key, f := range fs {
				assert.True(t, f.Match(key, r), "result %d fails %s=%q", r.ID, key, f.Value)
			}
		}
	}
}

func TestApply_IdempotentAndPure(t *testing.T) {
	results := sampleResults()
	before := sampleResults()
	fs := FilterState{KeyGlobal: Text("HTML")}

	first := Apply(results, fs)
	second := Apply(results, fs)
	assert.Equal(t, first, second)
	assert.Equal(t, first, Apply(first, fs))
	assert.Equal(t, before, results, "input must not be modified")
}

func TestFilterState_Active(t *testing.T) {
	assert.False(t, FilterState{}.Active())
	assert.False(t, FilterState{KeyID: Numeric("x")}.Active())
	assert.True(t, FilterState{KeyTitle: Text("a")}.Active())
}

func TestParseKey(t *testing.T) {
	cases := map[string]Key{
		"status":            KeyStatus,
		"InternalLinks":     KeyInternalLinks,
		"internal_links":    KeyInternalLinks,
		"HTMLVersion":       KeyHTMLVersion,
		"LoginFormDetected": KeyLoginForm,
		"login-form":        KeyLoginForm,
		"Broken":            KeyBrokenLinks,
		"search":            KeyGlobal,
	}
	for in, want := range cases {
		got, err := ParseKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKey("nope")
	assert.Error(t, err)
}

func TestTruncateURL(t *testing.T) {
	long := "https://example.com/abcdefghijklmnopqrstuvwxyz0123456789abcdefghijklmnop"
	got := TruncateURL(long, URLCellWidth)
	assert.Equal(t, long[:60]+"...", got)
	assert.Equal(t, "short", TruncateURL("short", URLCellWidth))
	assert.Equal(t, "bü...", TruncateURL("bücher", 2))
}
