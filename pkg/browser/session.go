// Package browser drives a headless Chrome through go-rod to read the
// client-rendered card list.
package browser

import (
	"context"
	"fmt"
	"time"

	"cardcrawl/pkg/config"
	"cardcrawl/pkg/discovery"
	apperrors "cardcrawl/pkg/errors"
	"cardcrawl/pkg/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Session owns one browser process and a single page.
// Close must be called on every path once Open has succeeded.
type Session struct {
	cfg      config.BrowserConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	logger   logger.Logger
}

// Open launches Chrome and connects to it. Any failure is a setup error and
// leaves no process behind.
func Open(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	log = log.WithField("component", "browser")

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)
	if cfg.ChromePath != "" {
		l = l.Bin(cfg.ChromePath)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, apperrors.Setup("launch browser", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		release(l)
		return nil, apperrors.Setup("connect browser", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		release(l)
		return nil, apperrors.Setup("open page", err)
	}

	logger.LogComponentStart(log, "browser", map[string]interface{}{
		"headless":    cfg.Headless,
		"chrome_path": cfg.ChromePath,
	})

	return &Session{
		cfg:      cfg,
		launcher: l,
		browser:  b,
		page:     page,
		logger:   log,
	}, nil
}

// Navigate loads pageURL, waits for the load event, then sleeps for the
// configured settle delay so client-side rendering can finish.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	page := s.page.Context(ctx)
	if s.cfg.PageTimeout > 0 {
		page = page.Timeout(s.cfg.PageTimeout)
		defer page.CancelTimeout()
	}

	if err := page.Navigate(pageURL); err != nil {
		return apperrors.Setup("navigate", fmt.Errorf("%s: %w", pageURL, err))
	}
	if err := page.WaitLoad(); err != nil {
		return apperrors.Setup("wait for page load", fmt.Errorf("%s: %w", pageURL, err))
	}

	s.logger.InfoWithFields("Page loaded, waiting for content", map[string]interface{}{
		"url":          pageURL,
		"settle_delay": s.cfg.SettleDelay,
	})

	return settle(ctx, s.cfg.SettleDelay)
}

func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// XPathLookup returns a lookup that evaluates the XPath built by locate on
// the current page
func (s *Session) XPathLookup(locate discovery.Locator) *XPathLookup {
	return &XPathLookup{page: s.page, locate: locate}
}

// Close releases the page, the browser connection and the Chrome process
func (s *Session) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		release(s.launcher)
	}
	logger.LogComponentStop(s.logger, "browser", "closed")
	return err
}

// release kills a started Chrome process and removes its user-data dir.
// Cleanup blocks until the process exits, so it is only safe once Launch
// has succeeded.
func release(l *launcher.Launcher) {
	l.Kill()
	l.Cleanup()
}

// XPathLookup resolves card image sources with indexed XPath queries
type XPathLookup struct {
	page   *rod.Page
	locate discovery.Locator
}

// Source reports the resolved src property of the element at index.
// HasX does not wait, so a missing element returns immediately.
func (x *XPathLookup) Source(ctx context.Context, index int) (string, bool, error) {
	found, el, err := x.page.Context(ctx).HasX(x.locate(index))
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}

	src, err := el.Property("src")
	if err != nil {
		return "", true, fmt.Errorf("read src of card %d: %w", index, err)
	}
	return src.Str(), true, nil
}
