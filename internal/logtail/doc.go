// Package logtail reads crawlboard's own log file for the in-app log view.
//
// # Reading
//
// Read returns the last N lines of a file using a ring buffer of N strings,
// so memory stays O(N) regardless of file size. A missing file is treated as
// empty because the logger creates it lazily.
//
//	lines, err := logtail.Read(path, 400)
//
// # Decoding
//
// The application logs JSON records (see internal/log). Parse turns one line
// into an Entry, splitting out time, level, logger name and message and
// keeping the remaining keys as Fields. Lines that are not JSON are kept
// verbatim in Entry.Raw so nothing is silently dropped.
//
// Format renders an Entry as one plain line with fields sorted by key:
//
//	21:01:05 WARN  [poller] poll failed error="connection refused" generation=4
//
// Styling is left to the UI.
package logtail
