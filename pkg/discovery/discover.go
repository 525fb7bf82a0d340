package discovery

import (
	"context"

	"cardcrawl/pkg/logger"
)

// Lookup resolves the image source of the card at a 1-based index.
// found is false once the index runs past the end of the list.
type Lookup interface {
	Source(ctx context.Context, index int) (src string, found bool, err error)
}

// Locator returns the element locator for a 1-based card index
type Locator func(index int) string

// LookupFunc adapts a function to the Lookup interface
type LookupFunc func(ctx context.Context, index int) (string, bool, error)

func (f LookupFunc) Source(ctx context.Context, index int) (string, bool, error) {
	return f(ctx, index)
}

// Discoverer walks a Lookup index by index and collects unique identifiers
type Discoverer struct {
	logger logger.Logger
}

// NewDiscoverer creates a Discoverer; a nil logger discards output
func NewDiscoverer(log logger.Logger) *Discoverer {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Discoverer{logger: log.WithField("component", "discovery")}
}

// Discover queries index 1, 2, 3 ... until the first index that is not found.
// A lookup error also ends the walk; it is logged and the identifiers
// collected so far are returned. Only context cancellation is reported as an
// error.
func (d *Discoverer) Discover(ctx context.Context, lookup Lookup) ([]string, error) {
	set := NewIdentifierSet()

	for index := 1; ; index++ {
		if err := ctx.Err(); err != nil {
			return set.Items(), err
		}

		src, found, err := lookup.Source(ctx, index)
		if err != nil {
			if ctx.Err() != nil {
				return set.Items(), ctx.Err()
			}
			d.logger.WithError(err).WarnWithFields("Card lookup failed, stopping discovery", map[string]interface{}{
				"index": index,
			})
			break
		}
		if !found {
			d.logger.DebugWithFields("Reached end of card list", map[string]interface{}{
				"index": index,
			})
			break
		}

		id := IdentifierFromSource(src)
		if id == "" {
			d.logger.WarnWithFields("Card image has no usable source", map[string]interface{}{
				"index": index,
				"src":   src,
			})
			continue
		}

		if set.Add(id) {
			d.logger.DebugWithFields("Found card", map[string]interface{}{
				"index":      index,
				"identifier": id,
			})
		}
	}

	return set.Items(), nil
}
