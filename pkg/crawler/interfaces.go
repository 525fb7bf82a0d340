package crawler

import (
	"context"

	"cardcrawl/pkg/browser"
	"cardcrawl/pkg/config"
	"cardcrawl/pkg/discovery"
	"cardcrawl/pkg/logger"
)

// Session is a browser page positioned on the card list
type Session interface {
	Navigate(ctx context.Context, pageURL string) error
	Lookup(locate discovery.Locator) discovery.Lookup
	Close() error
}

// SessionOpener starts a browser session
type SessionOpener func(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (Session, error)

// PageFetcher retrieves a page or image body
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type rodSession struct {
	*browser.Session
}

func (s rodSession) Lookup(locate discovery.Locator) discovery.Lookup {
	return s.XPathLookup(locate)
}

// OpenRodSession opens a go-rod backed session
func OpenRodSession(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (Session, error) {
	s, err := browser.Open(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return rodSession{s}, nil
}
