package grid

import "github.com/five82/crawlboard/internal/crawler"

// Selection holds at most one result for the detail pane. It keeps a copy
// taken at selection time; later polls do not update it.
type Selection struct {
	current crawler.Result
	open    bool
}

// Select replaces the selection with a copy of r.
func (s *Selection) Select(r crawler.Result) {
	s.current = r
	s.open = true
}

// Clear closes the selection.
func (s *Selection) Clear() {
	s.current = crawler.Result{}
	s.open = false
}

// IsOpen reports whether a result is selected.
func (s Selection) IsOpen() bool {
	return s.open
}

// Current returns the selected result.
func (s Selection) Current() (crawler.Result, bool) {
	return s.current, s.open
}

// Stale reports whether the selected ID is missing from results.
func (s Selection) Stale(results []crawler.Result) bool {
	if !s.open {
		return false
	}
	for _, r := range results {
		if r.ID == s.current.ID {
			return false
		}
	}
	return true
}
