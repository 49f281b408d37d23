package crawler

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"defaults scheme", "example.com", "https://example.com"},
		{"keeps http", "http://example.com/a?b=1", "http://example.com/a?b=1"},
		{"lowercases host", "HTTPS://Example.COM/Path", "https://example.com/Path"},
		{"keeps port", "localhost:8080/x", "https://localhost:8080/x"},
		{"punycode host", "https://bücher.example/", "https://xn--bcher-kva.example/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateURL(tc.in)
			if err != nil {
				t.Fatalf("ValidateURL(%q) returned error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ValidateURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidateURL_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://example.com", "not a url", "https://", "mailto:someone@example.com"} {
		if _, err := ValidateURL(in); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("ValidateURL(%q) error = %v, want ErrInvalidURL", in, err)
		}
	}
}

func TestResultNormalize(t *testing.T) {
	r := Result{Status: " RUNNING ", InternalLinks: -1, ExternalLinks: 3, BrokenLinks: -5, H2Count: -1}
	got := r.Normalize()
	if got.Status != StatusRunning {
		t.Fatalf("Status = %q, want running", got.Status)
	}
	if got.InternalLinks != 0 || got.ExternalLinks != 3 || got.BrokenLinks != 0 || got.H2Count != 0 {
		t.Fatalf("Normalize counts = %#v, want negatives clamped", got)
	}
	if r.InternalLinks != -1 {
		t.Fatalf("Normalize mutated receiver")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range Statuses {
		if !s.Valid() {
			t.Fatalf("%q.Valid() = false, want true", s)
		}
	}
	if Status("paused").Valid() {
		t.Fatalf("paused should not be valid")
	}
}

func TestParsedTimestamps(t *testing.T) {
	r := Result{CreatedAt: "2025-06-01T10:00:00Z", UpdatedAt: "garbage"}
	if r.ParsedCreatedAt().IsZero() {
		t.Fatalf("ParsedCreatedAt should parse RFC3339")
	}
	if !r.ParsedUpdatedAt().IsZero() {
		t.Fatalf("ParsedUpdatedAt should be zero for invalid input")
	}
}
