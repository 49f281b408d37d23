package grid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/crawlboard/internal/crawler"
)

// Key names a filterable or sortable column. KeyGlobal is the pseudo column
// matched against every displayed string field.
type Key string

const (
	KeyGlobal        Key = "global"
	KeyID            Key = "id"
	KeyTitle         Key = "title"
	KeyURL           Key = "url"
	KeyHTMLVersion   Key = "html_version"
	KeyStatus        Key = "status"
	KeyInternalLinks Key = "internal_links"
	KeyExternalLinks Key = "external_links"
	KeyBrokenLinks   Key = "broken_links"
	KeyLoginForm     Key = "login_form"
)

// Columns lists every field key in display order.
var Columns = []Key{
	KeyID,
	KeyTitle,
	KeyURL,
	KeyHTMLVersion,
	KeyStatus,
	KeyInternalLinks,
	KeyExternalLinks,
	KeyBrokenLinks,
	KeyLoginForm,
}

// Kind selects the matching rule a filter applies.
type Kind int

const (
	KindText Kind = iota
	KindEnum
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEnum:
		return "enum"
	case KindNumeric:
		return "numeric"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// KindOf returns the filter kind used for key.
func KindOf(key Key) (Kind, bool) {
	switch key {
	case KeyGlobal, KeyTitle, KeyURL, KeyHTMLVersion:
		return KindText, true
	case KeyStatus, KeyLoginForm:
		return KindEnum, true
	case KeyID, KeyInternalLinks, KeyExternalLinks, KeyBrokenLinks:
		return KindNumeric, true
	default:
		return KindText, false
	}
}

// Label is the column header shown for key.
func Label(key Key) string {
	switch key {
	case KeyID:
		return "ID"
	case KeyTitle:
		return "Title"
	case KeyURL:
		return "URL"
	case KeyHTMLVersion:
		return "HTML"
	case KeyStatus:
		return "Status"
	case KeyInternalLinks:
		return "Internal"
	case KeyExternalLinks:
		return "External"
	case KeyBrokenLinks:
		return "Broken"
	case KeyLoginForm:
		return "Login"
	case KeyGlobal:
		return "Search"
	default:
		return string(key)
	}
}

// ParseKey accepts the snake_case key, the wire field name, or the column
// label (case-insensitive) and returns the canonical key.
func ParseKey(raw string) (Key, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.ReplaceAll(norm, "_", "")
	norm = strings.ReplaceAll(norm, "-", "")
	switch norm {
	case "global", "search", "q":
		return KeyGlobal, nil
	case "id":
		return KeyID, nil
	case "title":
		return KeyTitle, nil
	case "url":
		return KeyURL, nil
	case "htmlversion", "html":
		return KeyHTMLVersion, nil
	case "status":
		return KeyStatus, nil
	case "internallinks", "internal":
		return KeyInternalLinks, nil
	case "externallinks", "external":
		return KeyExternalLinks, nil
	case "brokenlinks", "broken":
		return KeyBrokenLinks, nil
	case "loginform", "loginformdetected", "login":
		return KeyLoginForm, nil
	}
	return "", fmt.Errorf("unknown field %q", raw)
}

// Value renders a field of r in the string form filters compare against.
func Value(r crawler.Result, key Key) string {
	switch key {
	case KeyID:
		return strconv.FormatInt(r.ID, 10)
	case KeyTitle:
		return r.Title
	case KeyURL:
		return r.Url
	case KeyHTMLVersion:
		return r.HTMLVersion
	case KeyStatus:
		return string(r.Status)
	case KeyInternalLinks:
		return strconv.Itoa(r.InternalLinks)
	case KeyExternalLinks:
		return strconv.Itoa(r.ExternalLinks)
	case KeyBrokenLinks:
		return strconv.Itoa(r.BrokenLinks)
	case KeyLoginForm:
		return strconv.FormatBool(r.LoginFormDetected)
	default:
		return ""
	}
}

// globalFields are the displayed string fields the global filter searches.
func globalFields(r crawler.Result) [4]string {
	return [4]string{r.Title, r.Url, r.HTMLVersion, string(r.Status)}
}

func numericValue(r crawler.Result, key Key) (int64, bool) {
	switch key {
	case KeyID:
		return r.ID, true
	case KeyInternalLinks:
		return int64(r.InternalLinks), true
	case KeyExternalLinks:
		return int64(r.ExternalLinks), true
	case KeyBrokenLinks:
		return int64(r.BrokenLinks), true
	default:
		return 0, false
	}
}
