package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultAPIURL)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want http://example.com:1234", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchResultsDecodesWireNames(t *testing.T) {
	t.Parallel()

	var gotUserAgent, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/urls" {
			http.NotFound(w, r)
			return
		}
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"ID": 7, "Url": "https://example.com", "Title": "Example Site", "HTMLVersion": "HTML5",
			 "Status": " Done ", "InternalLinks": 5, "ExternalLinks": -2, "BrokenLinks": 1,
			 "LoginFormDetected": true, "H1Count": 2}
		]`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{SubmitRate: -1})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	results, err := c.FetchResults(ctx)
	if err != nil {
		t.Fatalf("FetchResults returned error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("FetchResults = %d results, want 1", len(results))
	}
	got := results[0]
	if got.ID != 7 || got.Url != "https://example.com" || got.Title != "Example Site" || got.HTMLVersion != "HTML5" {
		t.Fatalf("FetchResults[0] = %#v, want decoded identity fields", got)
	}
	if got.Status != StatusDone {
		t.Fatalf("Status = %q, want %q", got.Status, StatusDone)
	}
	if got.InternalLinks != 5 || got.ExternalLinks != 0 || got.BrokenLinks != 1 {
		t.Fatalf("counts = %d/%d/%d, want 5/0/1", got.InternalLinks, got.ExternalLinks, got.BrokenLinks)
	}
	if !got.LoginFormDetected || !got.HasHeadings() {
		t.Fatalf("LoginFormDetected=%v HasHeadings=%v, want both true", got.LoginFormDetected, got.HasHeadings())
	}
	if !strings.HasPrefix(gotUserAgent, "crawlboard/") {
		t.Fatalf("User-Agent = %q, want crawlboard/*", gotUserAgent)
	}
	if gotRequestID == "" {
		t.Fatalf("X-Request-ID header missing")
	}
}

func TestClient_SubmitPostsNormalizedURL(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		body SubmitRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/urls" {
			http.NotFound(w, r)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"Invalid JSON"}`, http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Result{ID: 11, Url: body.Url, Status: StatusQueued})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{SubmitRate: -1})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	res, err := c.Submit(context.Background(), "  Example.COM/docs  ")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if body.Url != "https://example.com/docs" {
		t.Fatalf("posted Url = %q, want https://example.com/docs", body.Url)
	}
	if res.ID != 11 || res.Status != StatusQueued {
		t.Fatalf("Submit result = %#v, want id 11 queued", res)
	}
}

func TestClient_SubmitRejectsInvalidURLWithoutRequest(t *testing.T) {
	t.Parallel()

	var called atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{SubmitRate: -1})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Submit(context.Background(), "ftp://example.com")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("Submit error = %v, want ErrInvalidURL", err)
	}
	if called.Load() {
		t.Fatalf("Submit issued a request for an invalid url")
	}
}

func TestClient_MutationsUseExpectedRoutes(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		routes []string
		bulk   []int64
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		routes = append(routes, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/urls/3":
			_ = json.NewEncoder(w).Encode(RequeueResponse{Message: "ok", Result: Result{ID: 3, Status: StatusQueued}})
		case r.Method == http.MethodDelete && r.URL.Path == "/urls/3":
			_, _ = io.WriteString(w, `{"message":"URL deleted successfully"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/urls":
			mu.Lock()
			_ = json.NewDecoder(r.Body).Decode(&bulk)
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(BulkDeleteResponse{RowsAffected: 2, DeletedIDs: []int64{4, 5}})
		case r.Method == http.MethodGet && r.URL.Path == "/urls/99":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"URL not found"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{SubmitRate: -1})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	res, err := c.Requeue(ctx, 3)
	if err != nil || res.ID != 3 || res.Status != StatusQueued {
		t.Fatalf("Requeue = %#v, %v; want id 3 queued", res, err)
	}
	if err := c.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	resp, err := c.DeleteBulk(ctx, []int64{4, 5})
	if err != nil || resp.RowsAffected != 2 {
		t.Fatalf("DeleteBulk = %#v, %v; want 2 rows", resp, err)
	}
	if _, err := c.DeleteBulk(ctx, nil); err == nil {
		t.Fatalf("DeleteBulk(nil) returned nil error, want error")
	}

	_, err = c.FetchResult(ctx, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchResult(99) error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "URL not found") {
		t.Fatalf("FetchResult(99) error = %q, want service message", err.Error())
	}

	mu.Lock()
	defer mu.Unlock()
	want := []string{"PUT /urls/3", "DELETE /urls/3", "DELETE /urls", "GET /urls/99"}
	if strings.Join(routes, ",") != strings.Join(want, ",") {
		t.Fatalf("routes = %v, want %v", routes, want)
	}
	if len(bulk) != 2 || bulk[0] != 4 || bulk[1] != 5 {
		t.Fatalf("bulk body = %v, want [4 5]", bulk)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not-json"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{SubmitRate: -1})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchResults(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchResults error = %v, want status 500 error", err)
	}

	fail.Store(false)
	_, err = c.FetchResults(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchResults error = %v, want decode response error", err)
	}
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, ClientOptions{SubmitRate: 0.001, SubmitBurst: 1})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.Delete(context.Background(), 1); err != nil {
		t.Fatalf("first Delete returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = c.Delete(ctx, 2)
	if err == nil || !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("second Delete error = %v, want rate limit error", err)
	}
}
