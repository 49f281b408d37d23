package grid

import (
	"maps"
	"strconv"
	"strings"

	"github.com/five82/crawlboard/internal/crawler"
)

// Filter is one predicate: a matching rule and the user's raw input.
type Filter struct {
	Kind  Kind
	Value string
}

// Text builds a case-sensitive substring filter.
func Text(value string) Filter { return Filter{Kind: KindText, Value: value} }

// Enum builds an exact-match filter.
func Enum(value string) Filter { return Filter{Kind: KindEnum, Value: value} }

// Numeric builds an exact integer filter.
func Numeric(value string) Filter { return Filter{Kind: KindNumeric, Value: value} }

// ForKey builds a filter of the kind key uses.
func ForKey(key Key, value string) (Filter, bool) {
	kind, ok := KindOf(key)
	if !ok {
		return Filter{}, false
	}
	return Filter{Kind: kind, Value: value}, true
}

// Active reports whether the filter constrains anything. Empty input and
// numeric input that does not parse are treated as absent.
func (f Filter) Active() bool {
	switch f.Kind {
	case KindNumeric:
		_, ok := f.number()
		return ok
	default:
		return f.Value != ""
	}
}

func (f Filter) number() (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(f.Value), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FilterState maps keys to their filters. A nil FilterState is empty.
type FilterState map[Key]Filter

// Clone returns an independent copy.
func (fs FilterState) Clone() FilterState {
	if len(fs) == 0 {
		return FilterState{}
	}
	return maps.Clone(fs)
}

// Active reports whether any filter constrains the result set.
func (fs FilterState) Active() bool {
	for _, f := range fs {
		if f.Active() {
			return true
		}
	}
	return false
}

// Apply returns the results that satisfy every active filter, in their
// original order. The input slice is never modified.
func Apply(results []crawler.Result, fs FilterState) []crawler.Result {
	out := make([]crawler.Result, 0, len(results))
	for _, r := range results {
		if matchesAll(r, fs) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(r crawler.Result, fs FilterState) bool {
	for key, f := range fs {
		if !f.Active() {
			continue
		}
		if !f.Match(key, r) {
			return false
		}
	}
	return true
}

// Match evaluates the filter against the field key of r.
func (f Filter) Match(key Key, r crawler.Result) bool {
	switch f.Kind {
	case KindText:
		if key == KeyGlobal {
			for _, field := range globalFields(r) {
				if strings.Contains(field, f.Value) {
					return true
				}
			}
			return false
		}
		return strings.Contains(Value(r, key), f.Value)
	case KindEnum:
		return Value(r, key) == f.Value
	case KindNumeric:
		want, ok := f.number()
		if !ok {
			return true
		}
		got, ok := numericValue(r, key)
		return ok && got == want
	default:
		return true
	}
}
