package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/nao1215/markdown"
	"gopkg.in/yaml.v3"

	"github.com/five82/crawlboard/internal/crawler"
	"github.com/five82/crawlboard/internal/grid"
)

// Output formats accepted by --format.
const (
	formatTable    = "table"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatYAML     = "yaml"
)

var formats = []string{formatTable, formatMarkdown, formatJSON, formatYAML}

func checkFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(formats, ", "))
}

// record is the machine-readable form of a result. Keys match the field
// names accepted by --filter and --sort.
type record struct {
	ID            int64  `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	URL           string `json:"url" yaml:"url"`
	HTMLVersion   string `json:"html_version" yaml:"html_version"`
	Status        string `json:"status" yaml:"status"`
	InternalLinks int    `json:"internal_links" yaml:"internal_links"`
	ExternalLinks int    `json:"external_links" yaml:"external_links"`
	BrokenLinks   int    `json:"broken_links" yaml:"broken_links"`
	LoginForm     bool   `json:"login_form" yaml:"login_form"`
	Headings      []int  `json:"headings,omitempty" yaml:"headings,omitempty"`
	CreatedAt     string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

func toRecord(r crawler.Result) record {
	rec := record{
		ID:            r.ID,
		Title:         r.Title,
		URL:           r.Url,
		HTMLVersion:   r.HTMLVersion,
		Status:        string(r.Status),
		InternalLinks: r.InternalLinks,
		ExternalLinks: r.ExternalLinks,
		BrokenLinks:   r.BrokenLinks,
		LoginForm:     r.LoginFormDetected,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.HasHeadings() {
		h := r.Headings()
		rec.Headings = h[:]
	}
	return rec
}

// listing is one page of results in machine-readable form.
type listing struct {
	Total     int      `json:"total" yaml:"total"`
	Page      int      `json:"page" yaml:"page"` // 1-based
	PageCount int      `json:"page_count" yaml:"page_count"`
	Results   []record `json:"results" yaml:"results"`
}

func newListing(view grid.Projection) listing {
	l := listing{
		Total:     view.Total,
		Page:      view.Page + 1,
		PageCount: view.PageCount,
		Results:   make([]record, 0, len(view.Rows)),
	}
	for _, r := range view.Rows {
		l.Results = append(l.Results, toRecord(r))
	}
	return l
}

// writeListing renders one page of results in format.
func writeListing(w io.Writer, format string, view grid.Projection, pageSize int) error {
	switch format {
	case formatJSON:
		return writeJSON(w, newListing(view))
	case formatYAML:
		return writeYAML(w, newListing(view))
	case formatMarkdown:
		md := markdown.NewMarkdown(w)
		md.Table(markdown.TableSet{
			Header: columnHeaders(),
			Rows:   rowCells(view.Rows),
		})
		md.PlainText("")
		md.PlainText(pageSummary(view, pageSize))
		return md.Build()
	default:
		if len(view.Rows) == 0 {
			_, err := fmt.Fprintln(w, "No results.")
			return err
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(columnHeaders()...).
			Rows(rowCells(view.Rows)...)
		_, err := fmt.Fprintf(w, "%s\n%s\n", t.String(), pageSummary(view, pageSize))
		return err
	}
}

// writeResult renders a single result in format.
func writeResult(w io.Writer, format string, r crawler.Result) error {
	switch format {
	case formatJSON:
		return writeJSON(w, toRecord(r))
	case formatYAML:
		return writeYAML(w, toRecord(r))
	case formatMarkdown:
		md := markdown.NewMarkdown(w)
		md.H2(fmt.Sprintf("Result #%d", r.ID))
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Field", "Value"},
			Rows:   detailRows(r),
		})
		return md.Build()
	default:
		t := table.New().
			Border(lipgloss.HiddenBorder()).
			Rows(detailRows(r)...)
		_, err := fmt.Fprintln(w, t.String())
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func columnHeaders() []string {
	headers := make([]string, len(grid.Columns))
	for i, k := range grid.Columns {
		headers[i] = grid.Label(k)
	}
	return headers
}

func rowCells(rows []crawler.Result) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells := make([]string, len(grid.Columns))
		for i, k := range grid.Columns {
			switch k {
			case grid.KeyURL:
				cells[i] = grid.TruncateURL(r.Url, grid.URLCellWidth)
			case grid.KeyLoginForm:
				cells[i] = yesNo(r.LoginFormDetected)
			default:
				cells[i] = grid.Value(r, k)
			}
		}
		out = append(out, cells)
	}
	return out
}

func detailRows(r crawler.Result) [][]string {
	rows := [][]string{
		{"ID", strconv.FormatInt(r.ID, 10)},
		{"Title", r.Title},
		{"URL", r.Url},
		{"Status", string(r.Status)},
		{"HTML version", r.HTMLVersion},
		{"Internal links", strconv.Itoa(r.InternalLinks)},
		{"External links", strconv.Itoa(r.ExternalLinks)},
		{"Broken links", strconv.Itoa(r.BrokenLinks)},
		{"Login form", yesNo(r.LoginFormDetected)},
	}
	if r.HasHeadings() {
		h := r.Headings()
		parts := make([]string, len(h))
		for i, n := range h {
			parts[i] = fmt.Sprintf("H%d %d", i+1, n)
		}
		rows = append(rows, []string{"Headings", strings.Join(parts, "  ")})
	}
	if r.CreatedAt != "" {
		rows = append(rows, []string{"Created", r.CreatedAt})
	}
	if r.UpdatedAt != "" {
		rows = append(rows, []string{"Updated", r.UpdatedAt})
	}
	return rows
}

// pageSummary renders "Rows 11-20 of 42, page 2/5".
func pageSummary(view grid.Projection, pageSize int) string {
	if view.Total == 0 {
		return "Rows 0 of 0"
	}
	first := view.Offset(pageSize) + 1
	last := first + len(view.Rows) - 1
	return fmt.Sprintf("Rows %d-%d of %d, page %d/%d", first, last, view.Total, view.Page+1, view.PageCount)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
