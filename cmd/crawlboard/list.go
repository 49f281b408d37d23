package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/crawlboard/internal/grid"
)

type listOptions struct {
	filters []string
	search  string
	sort    []string
	page    int
	all     bool
	format  string
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of results",
		Long: `List fetches the full result set and prints one page of it after
filtering and sorting, the same way the dashboard table does.

Fields: id, title, url, html_version, status, internal_links,
external_links, broken_links, login_form.

Examples:
  # Finished pages with broken links, worst first
  crawlboard list --filter status=done --sort -broken_links

  # Anything mentioning "docs", as JSON
  crawlboard list --search docs --format json

  # Third page, ten rows at a time, as a Markdown table
  crawlboard list --page 3 --page-size 10 --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.filters, "filter", "f", nil, "field=value filter, repeatable")
	cmd.Flags().StringVarP(&opts.search, "search", "s", "", "match any of title, url, html_version and status")
	cmd.Flags().StringSliceVar(&opts.sort, "sort", nil, "sort keys: field, field:desc or -field")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "print every matching row on one page")
	cmd.Flags().StringVarP(&opts.format, "format", "o", formatTable, "output format: table, markdown, json or yaml")

	return cmd
}

func runList(cmd *cobra.Command, opts listOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	table, err := buildTable(s.Config.PageSize, opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), s.Config.RequestTimeout)
	defer cancel()
	results, err := s.Client.FetchResults(ctx)
	if err != nil {
		return fmt.Errorf("fetch results: %w", err)
	}

	if opts.all {
		table = rebuildWithPageSize(table, max(len(results), 1))
	}
	view := table.View(results)
	return writeListing(cmd.OutOrStdout(), opts.format, view, table.Page().Size)
}

// buildTable turns the list flags into table state.
func buildTable(pageSize int, opts listOptions) (*grid.Table, error) {
	if opts.page < 1 {
		return nil, fmt.Errorf("--page must be at least 1, got %d", opts.page)
	}

	table := grid.NewTable(pageSize)
	for _, raw := range opts.filters {
		name, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q: want field=value", raw)
		}
		key, err := grid.ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("filter %q: %w", raw, err)
		}
		if err := table.SetFilter(key, strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("filter %q: %w", raw, err)
		}
	}
	if opts.search != "" {
		table.SetGlobal(opts.search)
	}

	if len(opts.sort) > 0 {
		keys := make([]grid.SortKey, 0, len(opts.sort))
		for _, raw := range opts.sort {
			k, err := grid.ParseSortKey(raw)
			if err != nil {
				return nil, fmt.Errorf("sort %q: %w", raw, err)
			}
			keys = append(keys, k)
		}
		table.SetSort(keys...)
	}

	table.SetPage(opts.page - 1)
	return table, nil
}

// rebuildWithPageSize copies filters and sort into a table with a new page
// size, on its first page.
func rebuildWithPageSize(t *grid.Table, size int) *grid.Table {
	out := grid.NewTable(size)
	for key, f := range t.Filters() {
		_ = out.SetFilter(key, f.Value)
	}
	out.SetSort(t.Sort()...)
	return out
}
