package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/crawlboard/internal/crawler"
)

func numbered(n int) []crawler.Result {
	out := make([]crawler.Result, n)
	for i := range out {
		out[i] = crawler.Result{ID: int64(i), Status: crawler.StatusDone}
	}
	return out
}

func TestProject_PagingBoundaries(t *testing.T) {
	results := numbered(25)

	first := Project(results, nil, PageState{Index: 0, Size: 10})
	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ids(first.Rows))
	assert.Equal(t, 25, first.Total)
	assert.Equal(t, 3, first.PageCount)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)

	last := Project(results, nil, PageState{Index: 2, Size: 10})
	assert.Equal(t, []int64{20, 21, 22, 23, 24}, ids(last.Rows))
	assert.Equal(t, 2, last.Page)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrevious)
}

func TestProject_ClampsOutOfRangePage(t *testing.T) {
	results := numbered(25)

	got := Project(results, nil, PageState{Index: 7, Size: 10})
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, []int64{20, 21, 22, 23, 24}, ids(got.Rows))

	got = Project(results, nil, PageState{Index: -3, Size: 10})
	assert.Equal(t, 0, got.Page)
	assert.Len(t, got.Rows, 10)
}

func TestProject_Empty(t *testing.T) {
	got := Project(nil, nil, PageState{Index: 4, Size: 10})
	assert.Equal(t, Projection{}, got)
}

func TestProject_NeverEmptyPageForNonEmptySet(t *testing.T) {
	for total := 1; total <= 23; total++ {
		results := numbered(total)
		for size := 1; size <= 7; size++ {
			for index := -1; index <= 25; index++ {
				got := Project(results, nil, PageState{Index: index, Size: size})
				require.NotEmpty(t, got.Rows, "total=%d size=%d index=%d", total, size, index)
				require.LessOrEqual(t, len(got.Rows), size)
				require.Equal(t, total, got.Total)
			}
		}
	}
}

func TestProject_DefaultPageSize(t *testing.T) {
	got := Project(numbered(15), nil, PageState{})
	assert.Len(t, got.Rows, DefaultPageSize)
	assert.Equal(t, 2, got.PageCount)
}

func TestProject_StableMultiKeySort(t *testing.T) {
	results := []crawler.Result{
		{ID: 1, Status: crawler.StatusDone, InternalLinks: 3},
		{ID: 2, Status: crawler.StatusQueued, InternalLinks: 3},
		{ID: 3, Status: crawler.StatusDone, InternalLinks: 1},
		{ID: 4, Status: crawler.StatusQueued, InternalLinks: 3},
		{ID: 5, Status: crawler.StatusDone, InternalLinks: 3},
	}

	got := Project(results, SortState{{Field: KeyInternalLinks, Desc: true}}, PageState{Size: 10})
	assert.Equal(t, []int64{1, 2, 4, 5, 3}, ids(got.Rows), "ties keep result set order")

	got = Project(results, SortState{{Field: KeyStatus}, {Field: KeyInternalLinks}}, PageState{Size: 10})
	assert.Equal(t, []int64{2, 4, 3, 1, 5}, ids(got.Rows), "queued sorts before done")
}

func TestProject_SortsByText(t *testing.T) {
	results := []crawler.Result{
		{ID: 1, Title: "beta"},
		{ID: 2, Title: "Alpha"},
		{ID: 3, Title: "alpha"},
	}
	got := Project(results, SortState{{Field: KeyTitle}}, PageState{Size: 10})
	assert.Equal(t, []int64{2, 3, 1}, ids(got.Rows))
}

func TestProject_IdempotentAndDoesNotMutateInput(t *testing.T) {
	results := sampleResults()
	before := sampleResults()
	sorting := SortState{{Field: KeyURL, Desc: true}}

	first := Project(results, sorting, PageState{Size: 4})
	second := Project(results, sorting, PageState{Size: 4})
	assert.Equal(t, first, second)
	assert.Equal(t, before, results)
}

func TestParseSortKey(t *testing.T) {
	cases := []struct {
		in   string
		want SortKey
	}{
		{"title", SortKey{Field: KeyTitle}},
		{"title:asc", SortKey{Field: KeyTitle}},
		{"InternalLinks:desc", SortKey{Field: KeyInternalLinks, Desc: true}},
		{"-broken_links", SortKey{Field: KeyBrokenLinks, Desc: true}},
	}
	for _, tc := range cases {
		got, err := ParseSortKey(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	for _, bad := range []string{"", "global", "title:sideways", "nope"} {
		_, err := ParseSortKey(bad)
		assert.Error(t, err, bad)
	}
}
