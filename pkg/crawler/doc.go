// Package crawler runs the card asset crawl from start to finish.
//
// A run makes sure the output directory exists, discovers card identifiers
// on the list page, then downloads the base and evolution image of every
// card one after another.
//
// Discovery has two modes. Browser mode opens headless Chrome, waits for
// the client-rendered list to settle and reads it with indexed XPath
// queries. Static mode fetches the list page over HTTP and evaluates the
// equivalent CSS selector, which needs no Chrome but only sees
// server-rendered markup.
//
// Usage:
//
//	c, err := crawler.New(cfg, logger.GetLogger())
//	if err != nil {
//	    return err
//	}
//	summary, err := c.Run(ctx)
//
// Failed image requests are logged and skipped; only setup failures
// (browser launch, navigation, list page fetch) make Run return an error.
package crawler
