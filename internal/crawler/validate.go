package crawler

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// ErrInvalidURL is returned when a submission target is not an http(s) URL.
var ErrInvalidURL = errors.New("invalid url")

var urlPattern = regexp.MustCompile(`^(?i:https?://)?([^\s/:?#]+)(:[0-9]+)?([/?#].*)?$`)

// ValidateURL checks that raw looks like an http(s) URL with a host and
// returns it in normalized form: scheme defaulted to https, host lowercased
// and converted to its ASCII (punycode) form.
func ValidateURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !urlPattern.MatchString(trimmed) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, trimmed)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	ascii, err := idna.Lookup.ToASCII(hostname)
	if err != nil {
		return "", fmt.Errorf("%w: host %q: %v", ErrInvalidURL, hostname, err)
	}
	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(ascii, port)
	} else {
		u.Host = ascii
	}
	return u.String(), nil
}
