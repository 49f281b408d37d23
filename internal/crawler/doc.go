// Package crawler provides an HTTP client for the remote crawl service.
//
// # Overview
//
// The crawl service owns fetching, parsing and link classification. This
// package only speaks its JSON API:
//
//   - GET /urls: the full result set (no server-side filtering or paging)
//   - GET /urls/{id}: a single result
//   - POST /urls: queue a URL for crawling, body {"Url": "..."}
//   - PUT /urls/{id}: re-queue an existing result
//   - DELETE /urls/{id} and DELETE /urls (JSON array of ids): removal
//   - GET /ping: liveness
//
// # Request Handling
//
// All requests carry Accept: application/json, a crawlboard User-Agent and a
// fresh X-Request-ID. Mutating requests pass through a token-bucket limiter
// so a burst of CLI submissions cannot flood the service.
//
// # Errors
//
// Non-2xx responses become errors that include the method, path, status code
// and the service's {"error": "..."} message when present. A 404 wraps
// ErrNotFound; submissions rejected before any I/O wrap ErrInvalidURL.
//
// Results are normalized on the way in (see Result.Normalize) so callers can
// rely on non-negative counters and lowercase statuses.
package crawler
