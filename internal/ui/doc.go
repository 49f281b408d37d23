// Package ui implements the crawlboard terminal interface with Bubble Tea.
//
// # Layout
//
//	┌ header: connection state, per-status counts, error banner, last update ┐
//	│ command bar: context key hints and the active theme                     │
//	│ results table (paged)          │ detail pane (when a result is open)    │
//	└ status line: search input or the last action message                   ┘
//
// # Data Flow
//
// The poller in internal/app writes the state.Store. The model reads a
// snapshot on every tick and derives the visible page through its
// grid.Table, which owns filters, sort, page and selection. Only Update
// touches the table, so rendering never races with input.
//
// Submit, re-queue and delete run as tea.Cmds against crawler.Service and
// report back with actionResultMsg. They never write the store; the next
// poll shows their effect.
//
// # Overlays
//
// The filter and submit dialogs implement Modal. While one is open it
// receives every key. The help overlay is rendered from the key map with
// bubbles/help.
//
// # Themes
//
// Nightfox, Kanagawa and Slate. T cycles them and the choice is saved to
// the prefs file.
package ui
