// Package state holds the crawl result set shared between the poller and
// the UI.
//
// # Overview
//
// Store is the single owner of the latest result set. The poller writes to
// it, the UI reads copies from it on its own refresh tick. Reads never block
// on network I/O; the lock is held only while copying.
//
//	Producer (Poller):              Consumer (UI):
//	┌─────────────────────┐        ┌──────────────────┐
//	│ gen := store.Issue()│        │                  │
//	│ FetchResults()      │        │                  │
//	│ store.Replace(gen)  │───────→│ store.Snapshot() │
//	│   or Fail(gen, err) │(mutex) │      ↓           │
//	│  repeat...          │        │  filter / render │
//	└─────────────────────┘        └──────────────────┘
//
// # Generations
//
// Every fetch takes a ticket from Issue before it starts. Replace and Fail
// only apply when the ticket is the most recently issued one, so writes land
// in issue order regardless of the order in which fetches complete:
//
//	g1 := store.Issue()       // slow fetch
//	g2 := store.Issue()       // fast fetch
//	store.Replace(g2, newer)  // applied
//	store.Replace(g1, older)  // discarded, returns false
//
// Invalidate bumps the counter without handing out a ticket. The poller calls
// it on teardown so a fetch that is still in flight resolves into a no-op.
//
// # Update Semantics
//
//	// Success: replace the whole set
//	store.Replace(gen, results)
//	→ snapshot.Results = results (copied)
//	→ snapshot.LastError = nil
//	→ snapshot.ConsecutiveFailures = 0
//
//	// Error: keep old data, record the error
//	store.Fail(gen, err)
//	→ snapshot.Results = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// Loading reports true until the first accepted write of either kind.
// DismissError clears LastError only; the failure count still drives
// IsOffline.
//
// # Zero Value
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
package state
