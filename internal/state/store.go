package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/crawlboard/internal/crawler"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Results             []crawler.Result
	Loading             bool // True until the first fetch resolves
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int    // Number of consecutive poll failures
	Generation          uint64 // Generation of the last applied write
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the result set.
//
// Writers take a generation ticket with Issue before fetching and present it
// when the fetch resolves. Only the most recently issued ticket may write, so
// a slow fetch can never overwrite the outcome of a newer one.
type Store struct {
	mu       sync.RWMutex
	issued   uint64
	applied  uint64
	resolved bool
	snapshot Snapshot
}

// Issue hands out the generation for a fetch about to start.
func (s *Store) Issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Invalidate makes every outstanding ticket stale.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
}

// Replace swaps in a new result set. It reports false and leaves the store
// untouched when gen is stale.
func (s *Store) Replace(gen uint64, results []crawler.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(gen) {
		return false
	}
	s.snapshot.Results = cloneResults(results)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
	return true
}

// Fail records a fetch error under the same guard as Replace. The previous
// results are kept for display.
func (s *Store) Fail(gen uint64, err error) bool {
	if err == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.acceptLocked(gen) {
		return false
	}
	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
	return true
}

// DismissError clears the error signal without touching the results or the
// failure count.
func (s *Store) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = nil
}

func (s *Store) acceptLocked(gen uint64) bool {
	if gen == 0 || gen != s.issued || gen <= s.applied {
		return false
	}
	s.applied = gen
	s.resolved = true
	s.snapshot.Generation = gen
	return true
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Loading = !s.resolved
	snap.Results = cloneResults(s.snapshot.Results)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneResults(items []crawler.Result) []crawler.Result {
	if len(items) == 0 {
		return nil
	}
	dup := make([]crawler.Result, len(items))
	copy(dup, items)
	return dup
}
