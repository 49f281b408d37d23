package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the link count and
	// HTML version columns are hidden.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth gives the detail pane less room on wide terminals.
	LayoutExtraWideWidth = 160
)

// Chrome rows around the content area: header, command bar, status line.
const chromeHeight = 3

// Log display limits.
const (
	// LogTailLines is how many lines of the log file the log view keeps.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI reads the store.
	DefaultUIInterval = time.Second

	// ActionTimeout bounds submit, re-queue and delete requests.
	ActionTimeout = 15 * time.Second
)
