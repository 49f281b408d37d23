// Package app is the composition root for crawlboard.
//
// Open resolves settings in order (built-in defaults, config file,
// CRAWLBOARD_* environment, remembered preferences, command-line flags)
// and builds the zap logger and the crawl service client from them. Every
// command starts from the resulting Session.
//
// Run adds the pieces only the TUI needs:
//
//	Open()              settings, logger, client
//	state.Store{}       shared snapshot of the result set
//	Poller.Start()      background refresh into the store
//	ui.Run()            Bubble Tea program (blocks)
//
// # Polling
//
// The poller fetches the full result set on a fixed interval. A fetch is
// never started while another is in flight. Each fetch takes a generation
// ticket from the store before it begins, and the store only accepts the
// outcome of the newest ticket, so a slow response can never overwrite a
// newer one. Failures keep the last good results on screen, count towards
// the offline indicator, and double the delay before the next attempt up
// to a 30 second cap. Cancelling the context, or calling Stop, ends the
// loop; fetches cancelled that way are not recorded as failures.
//
// The UI never waits on the network for the table: it reads snapshots from
// the store on its own one second tick.
package app
