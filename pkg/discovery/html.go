package discovery

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// HTMLLookup evaluates an indexed CSS selector against a static HTML document
type HTMLLookup struct {
	doc    *goquery.Document
	base   *url.URL
	locate Locator
}

// NewHTMLLookup parses body, which was served from pageURL. Relative image
// sources are resolved against pageURL, the way a browser reports them.
// The selector for the first index must compile.
func NewHTMLLookup(body []byte, pageURL string, locate Locator) (*HTMLLookup, error) {
	if _, err := cascadia.Compile(locate(1)); err != nil {
		return nil, fmt.Errorf("invalid item selector %q: %w", locate(1), err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &HTMLLookup{doc: doc, base: base, locate: locate}, nil
}

// Source returns the resolved src of the image at index
func (h *HTMLLookup) Source(_ context.Context, index int) (string, bool, error) {
	matcher, err := cascadia.Compile(h.locate(index))
	if err != nil {
		return "", false, fmt.Errorf("compile selector for card %d: %w", index, err)
	}

	sel := h.doc.FindMatcher(matcher).First()
	if sel.Length() == 0 {
		return "", false, nil
	}

	src, _ := sel.Attr("src")
	src = strings.TrimSpace(src)
	if src == "" {
		return "", true, nil
	}

	ref, err := url.Parse(src)
	if err != nil {
		return src, true, nil
	}
	return h.base.ResolveReference(ref).String(), true, nil
}
