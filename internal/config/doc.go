// Package config loads crawlboard settings.
//
// # Resolution Order
//
// Later sources win:
//
//  1. Built-in defaults (Default)
//  2. TOML file: the --config path, or $XDG_CONFIG_HOME/crawlboard/config.toml
//  3. CRAWLBOARD_* environment variables
//  4. Command-line flags (applied by cmd/crawlboard)
//
// A missing file is not an error. An unreadable or malformed file is.
//
// # Keys
//
//	api_url          = "http://127.0.0.1:8080"
//	poll_interval    = "5s"
//	request_timeout  = "10s"
//	page_size        = 10
//	log_file         = "~/.local/state/crawlboard/crawlboard.log"
//	submit_rate      = 2.0   # requests/second for submit, requeue, delete; < 0 disables
//
// Durations use Go syntax ("750ms", "2s", "1m"). Paths may start with "~".
// Environment variables use the upper-cased key with the CRAWLBOARD_
// prefix, for example CRAWLBOARD_POLL_INTERVAL=2s.
package config
