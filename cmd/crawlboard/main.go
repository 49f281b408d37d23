// Command crawlboard browses the results of a crawl service.
//
// Usage:
//
//	crawlboard                      interactive dashboard
//	crawlboard list --status done   print a filtered, sorted page
//	crawlboard submit URL...        queue URLs for crawling
//	crawlboard requeue ID...        crawl results again
//	crawlboard delete ID...         remove results
//
// See --help for all available options.
package main

func main() {
	Execute()
}
