package crawler

import (
	"strings"
	"time"
)

// Status is the lifecycle state the crawl service reports for a result.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusQueued, StatusRunning, StatusDone, StatusError}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusRunning, StatusDone, StatusError:
		return true
	}
	return false
}

// Result mirrors one element of the GET /urls payload.
type Result struct {
	ID                int64  `json:"ID"`
	Url               string `json:"Url"`
	Title             string `json:"Title"`
	HTMLVersion       string `json:"HTMLVersion"`
	Status            Status `json:"Status"`
	InternalLinks     int    `json:"InternalLinks"`
	ExternalLinks     int    `json:"ExternalLinks"`
	BrokenLinks       int    `json:"BrokenLinks"`
	LoginFormDetected bool   `json:"LoginFormDetected"`

	H1Count   int    `json:"H1Count,omitempty"`
	H2Count   int    `json:"H2Count,omitempty"`
	H3Count   int    `json:"H3Count,omitempty"`
	H4Count   int    `json:"H4Count,omitempty"`
	H5Count   int    `json:"H5Count,omitempty"`
	H6Count   int    `json:"H6Count,omitempty"`
	CreatedAt string `json:"CreatedAt,omitempty"`
	UpdatedAt string `json:"UpdatedAt,omitempty"`
}

// Normalize clamps negative counters to zero and trims the status so
// downstream consumers can rely on the count invariants.
func (r Result) Normalize() Result {
	r.Status = Status(strings.ToLower(strings.TrimSpace(string(r.Status))))
	r.InternalLinks = max(r.InternalLinks, 0)
	r.ExternalLinks = max(r.ExternalLinks, 0)
	r.BrokenLinks = max(r.BrokenLinks, 0)
	r.H1Count = max(r.H1Count, 0)
	r.H2Count = max(r.H2Count, 0)
	r.H3Count = max(r.H3Count, 0)
	r.H4Count = max(r.H4Count, 0)
	r.H5Count = max(r.H5Count, 0)
	r.H6Count = max(r.H6Count, 0)
	return r
}

// Headings returns the h1..h6 counts in order.
func (r Result) Headings() [6]int {
	return [6]int{r.H1Count, r.H2Count, r.H3Count, r.H4Count, r.H5Count, r.H6Count}
}

// HasHeadings reports whether the service sent any heading counts.
func (r Result) HasHeadings() bool {
	for _, n := range r.Headings() {
		if n > 0 {
			return true
		}
	}
	return false
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (r Result) ParsedCreatedAt() time.Time {
	return parseTime(r.CreatedAt)
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (r Result) ParsedUpdatedAt() time.Time {
	return parseTime(r.UpdatedAt)
}

// SubmitRequest is the POST /urls body.
type SubmitRequest struct {
	Url string `json:"Url"`
}

// RequeueResponse mirrors PUT /urls/{id}.
type RequeueResponse struct {
	Message string `json:"message"`
	Result  Result `json:"url"`
}

// BulkDeleteResponse mirrors DELETE /urls.
type BulkDeleteResponse struct {
	Message      string  `json:"message"`
	RowsAffected int64   `json:"rows_affected"`
	DeletedIDs   []int64 `json:"deleted_ids"`
}

// apiError is the {"error": "..."} body the service returns on failure.
type apiError struct {
	Error string `json:"error"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
