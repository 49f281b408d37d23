package grid

import (
	"fmt"
	"slices"

	"github.com/five82/crawlboard/internal/crawler"
)

// Table owns the view state for one result table: filters, sort, page and
// selection. Each slice changes only through the methods below. A Table is
// not safe for concurrent use; it belongs to the goroutine that renders it.
type Table struct {
	filters   FilterState
	sorting   SortState
	page      PageState
	selection Selection
}

// NewTable returns an unfiltered, unsorted table on page 0.
func NewTable(pageSize int) *Table {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Table{
		filters: FilterState{},
		page:    PageState{Size: pageSize},
	}
}

// View derives the current page from results.
func (t *Table) View(results []crawler.Result) Projection {
	return Project(Apply(results, t.filters), t.sorting, t.page)
}

// Filters returns a copy of the filter state.
func (t *Table) Filters() FilterState { return t.filters.Clone() }

// Filter returns the raw value set for key.
func (t *Table) Filter(key Key) string { return t.filters[key].Value }

// SetFilter sets the filter for key. An empty value removes it. The page
// resets to 0.
func (t *Table) SetFilter(key Key, value string) error {
	f, ok := ForKey(key, value)
	if !ok {
		return fmt.Errorf("unknown filter key %q", key)
	}
	if t.filters == nil {
		t.filters = FilterState{}
	}
	if value == "" {
		delete(t.filters, key)
	} else {
		t.filters[key] = f
	}
	t.page.Index = 0
	return nil
}

// SetGlobal sets the search-everything filter.
func (t *Table) SetGlobal(value string) {
	_ = t.SetFilter(KeyGlobal, value)
}

// ClearFilters drops every filter and resets the page.
func (t *Table) ClearFilters() {
	t.filters = FilterState{}
	t.page.Index = 0
}

// Sort returns a copy of the sort state.
func (t *Table) Sort() SortState { return slices.Clone(t.sorting) }

// SetSort replaces the sort state and resets the page.
func (t *Table) SetSort(keys ...SortKey) {
	t.sorting = slices.Clone(SortState(keys))
	t.page.Index = 0
}

// ToggleSort cycles field through ascending, descending and unsorted as
// the only sort key.
func (t *Table) ToggleSort(field Key) {
	desc, ok := t.sorting.Direction(field)
	switch {
	case !ok || len(t.sorting) > 1:
		t.SetSort(SortKey{Field: field})
	case !desc:
		t.SetSort(SortKey{Field: field, Desc: true})
	default:
		t.SetSort()
	}
}

// Page returns the requested page state.
func (t *Table) Page() PageState { return t.page }

// SettlePage adopts the effective page of v as the requested page, so a
// clamp caused by a shrinking result set sticks when the set grows again.
func (t *Table) SettlePage(v Projection) {
	t.page.Index = v.Page
}

// SetPage requests a page. Out of range values are clamped by View.
func (t *Table) SetPage(index int) {
	t.page.Index = max(index, 0)
}

// NextPage advances from the page shown in v. It reports whether it moved.
func (t *Table) NextPage(v Projection) bool {
	if !v.HasNext {
		return false
	}
	t.page.Index = v.Page + 1
	return true
}

// PreviousPage steps back from the page shown in v.
func (t *Table) PreviousPage(v Projection) bool {
	if !v.HasPrevious {
		return false
	}
	t.page.Index = v.Page - 1
	return true
}

// Select opens the detail view on a copy of r.
func (t *Table) Select(r crawler.Result) { t.selection.Select(r) }

// ClearSelection closes the detail view.
func (t *Table) ClearSelection() { t.selection.Clear() }

// Selection returns the selected result.
func (t *Table) Selection() (crawler.Result, bool) { return t.selection.Current() }

// IsOpen reports whether the detail view is open.
func (t *Table) IsOpen() bool { return t.selection.IsOpen() }

// SelectionStale reports whether the selected result has disappeared from
// results.
func (t *Table) SelectionStale(results []crawler.Result) bool {
	return t.selection.Stale(results)
}
