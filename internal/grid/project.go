package grid

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/five82/crawlboard/internal/crawler"
)

// DefaultPageSize is used when a PageState carries no positive size.
const DefaultPageSize = 10

// SortKey orders rows by one field.
type SortKey struct {
	Field Key
	Desc  bool
}

func (k SortKey) String() string {
	if k.Desc {
		return string(k.Field) + ":desc"
	}
	return string(k.Field) + ":asc"
}

// ParseSortKey accepts "field", "field:asc", "field:desc" or "-field".
func ParseSortKey(raw string) (SortKey, error) {
	raw = strings.TrimSpace(raw)
	desc := false
	if strings.HasPrefix(raw, "-") {
		desc = true
		raw = raw[1:]
	}
	if name, dir, ok := strings.Cut(raw, ":"); ok {
		raw = name
		switch strings.ToLower(dir) {
		case "asc":
		case "desc":
			desc = true
		default:
			return SortKey{}, fmt.Errorf("unknown sort direction %q", dir)
		}
	}
	key, err := ParseKey(raw)
	if err != nil {
		return SortKey{}, err
	}
	if key == KeyGlobal {
		return SortKey{}, fmt.Errorf("cannot sort by %q", raw)
	}
	return SortKey{Field: key, Desc: desc}, nil
}

// SortState is an ordered list of sort keys. Empty keeps result set order.
type SortState []SortKey

// Direction reports how field participates in the sort.
func (s SortState) Direction(field Key) (desc bool, ok bool) {
	for _, k := range s {
		if k.Field == field {
			return k.Desc, true
		}
	}
	return false, false
}

// PageState is the requested 0-based page and the page size.
type PageState struct {
	Index int
	Size  int
}

// Projection is what gets rendered: one page of sorted rows plus paging facts.
type Projection struct {
	Rows        []crawler.Result
	Total       int
	Page        int // Effective page after clamping
	PageCount   int
	HasPrevious bool
	HasNext     bool
}

// Offset is the position of the first row of the page within the sorted set.
func (p Projection) Offset(size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return p.Page * size
}

// Project sorts filtered and cuts out the requested page. A page index past
// the end is clamped to the last page; a negative index becomes 0.
func Project(filtered []crawler.Result, sorting SortState, page PageState) Projection {
	size := page.Size
	if size <= 0 {
		size = DefaultPageSize
	}

	rows := slices.Clone(filtered)
	if len(sorting) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			return compareRows(rows[i], rows[j], sorting) < 0
		})
	}

	total := len(rows)
	pageCount := (total + size - 1) / size
	index := page.Index
	if index >= pageCount {
		index = pageCount - 1
	}
	if index < 0 {
		index = 0
	}

	start := min(index*size, total)
	end := min(start+size, total)
	var pageRows []crawler.Result
	if end > start {
		pageRows = rows[start:end:end]
	}

	return Projection{
		Rows:        pageRows,
		Total:       total,
		Page:        index,
		PageCount:   pageCount,
		HasPrevious: index > 0,
		HasNext:     index < pageCount-1,
	}
}

func compareRows(a, b crawler.Result, sorting SortState) int {
	for _, k := range sorting {
		c := compareField(a, b, k.Field)
		if k.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareField(a, b crawler.Result, field Key) int {
	if x, ok := numericValue(a, field); ok {
		y, _ := numericValue(b, field)
		return cmp.Compare(x, y)
	}
	switch field {
	case KeyStatus:
		return cmp.Compare(statusRank(a.Status), statusRank(b.Status))
	case KeyLoginForm:
		return cmp.Compare(boolRank(a.LoginFormDetected), boolRank(b.LoginFormDetected))
	default:
		return strings.Compare(Value(a, field), Value(b, field))
	}
}

func statusRank(s crawler.Status) int {
	if i := slices.Index(crawler.Statuses, s); i >= 0 {
		return i
	}
	return len(crawler.Statuses)
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}
