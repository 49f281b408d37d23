// Package grid derives the visible crawl-result table from the raw result set.
//
// The pipeline is pure:
//
//	results ─> Apply(filters) ─> Project(sort, page) ─> Projection
//
// Filters are tagged by Kind and evaluated by a single switch: text filters
// use case-sensitive substring containment, enum filters exact equality, and
// numeric filters exact integer equality. Empty input, or numeric input that
// does not parse, leaves a filter inactive.
//
// Sorting is stable so ties keep result set order. A requested page past the
// end is clamped to the last page rather than rejected.
//
// Table bundles the four pieces of view state (filters, sort, page and the
// detail selection) behind explicit transitions. Changing filters or sort
// resets the page to 0. Selection holds a copy of the chosen result, so a
// poll that edits or removes that result leaves the detail pane as it was;
// SelectionStale lets the caller flag the latter case.
package grid
