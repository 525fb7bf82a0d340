package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cardcrawl/pkg/config"
	"cardcrawl/pkg/discovery"
	apperrors "cardcrawl/pkg/errors"
	"cardcrawl/pkg/logger"
	"cardcrawl/pkg/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listSelector = "#cards > div:nth-of-type(%d) > a > img"

func init() {
	ui.Configure(true, true)
}

// newSiteServer serves a card list at /cards and images under /img.
// Only the names in evolved have an evolution image.
func newSiteServer(t *testing.T, cards []string, evolved map[string]bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/cards", func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`<html><body><div id="cards">`)
		for _, c := range cards {
			fmt.Fprintf(&b, `<div><a href="/card/%s"><img src="/static/%s.png"></a></div>`, c, c)
		}
		b.WriteString(`</div></body></html>`)
		_, _ = w.Write([]byte(b.String()))
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/img/"), ".png")
		if base, ok := strings.CutSuffix(name, "-ev1"); ok && !evolved[base] {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("png:" + name))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testConfig(t *testing.T, serverURL string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Site.ListURL = serverURL + "/cards"
	cfg.Site.ImageBaseURL = serverURL + "/img"
	cfg.Site.ItemSelector = listSelector
	cfg.Site.ItemXPath = `//*[@id="cards"]/div[%d]/a/img`
	cfg.Browser.Mode = config.ModeStatic
	cfg.Output.BaseDirectory = filepath.Join(t.TempDir(), "public", "assets", "cards")
	return cfg
}

func TestRunStaticMode(t *testing.T) {
	server := newSiteServer(t, []string{"knight", "archers", "knight", "giant"}, map[string]bool{"knight": true})
	cfg := testConfig(t, server.URL)

	c, err := New(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	summary, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.CreatedOutputDir)
	assert.Equal(t, []string{"knight", "archers", "giant"}, summary.Identifiers)
	assert.Equal(t, 4, summary.Downloaded)
	assert.Equal(t, 2, summary.Skipped)

	content, err := os.ReadFile(filepath.Join(cfg.Output.BaseDirectory, "knight-ev1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png:knight-ev1", string(content))

	_, err = os.Stat(filepath.Join(cfg.Output.BaseDirectory, "archers-ev1.png"))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(cfg.Output.BaseDirectory)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestRunSkipEvolution(t *testing.T) {
	server := newSiteServer(t, []string{"knight"}, map[string]bool{"knight": true})
	cfg := testConfig(t, server.URL)
	cfg.Site.SkipEvolution = true

	c, err := New(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	summary, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Downloaded)
	assert.Equal(t, 0, summary.Skipped)
}

func TestRunNoCards(t *testing.T) {
	server := newSiteServer(t, nil, nil)
	cfg := testConfig(t, server.URL)
	log := logger.NewTestLogger()

	c, err := New(cfg, log)
	require.NoError(t, err)

	summary, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Identifiers)
	assert.Zero(t, summary.Downloaded)
	assert.True(t, log.HasMessage("No cards found"))
}

func TestRunStaticListPageFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	cfg := testConfig(t, server.URL)

	c, err := New(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	_, err = c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsSetup(err))
}

func TestRunStaticMalformedSelector(t *testing.T) {
	server := newSiteServer(t, []string{"knight"}, nil)
	cfg := testConfig(t, server.URL)
	cfg.Site.ItemSelector = "#cards > div:nth-of-type(%d > a > img"

	c, err := New(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	summary, err := c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsSetup(err))
	assert.Empty(t, summary.Identifiers)
	assert.Zero(t, summary.Downloaded)
}

// fakeSession stands in for Chrome, serving sources from a slice
type fakeSession struct {
	sources     []string
	navigateErr error
	navigated   string
	firstItem   string
	closed      int
}

func (f *fakeSession) Navigate(ctx context.Context, pageURL string) error {
	f.navigated = pageURL
	return f.navigateErr
}

func (f *fakeSession) Lookup(locate discovery.Locator) discovery.Lookup {
	f.firstItem = locate(1)
	return discovery.LookupFunc(func(_ context.Context, index int) (string, bool, error) {
		if index > len(f.sources) {
			return "", false, nil
		}
		return f.sources[index-1], true, nil
	})
}

func (f *fakeSession) Close() error {
	f.closed++
	return nil
}

func openerFor(s *fakeSession) SessionOpener {
	return func(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (Session, error) {
		return s, nil
	}
}

func TestRunBrowserModeReleasesSession(t *testing.T) {
	server := newSiteServer(t, nil, nil)
	cfg := testConfig(t, server.URL)
	cfg.Browser.Mode = config.ModeBrowser

	session := &fakeSession{sources: []string{
		server.URL + "/static/knight.png",
		server.URL + "/static/knight.png",
	}}

	c, err := New(cfg, logger.NewNopLogger(), WithSessionOpener(openerFor(session)))
	require.NoError(t, err)

	summary, err := c.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.Site.ListURL, session.navigated)
	assert.Equal(t, `//*[@id="cards"]/div[1]/a/img`, session.firstItem)
	assert.Equal(t, 1, session.closed)
	assert.Equal(t, []string{"knight"}, summary.Identifiers)
	assert.Equal(t, 1, summary.Downloaded)
	assert.Equal(t, 1, summary.Skipped)
}

func TestRunBrowserNavigationFailure(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Browser.Mode = config.ModeBrowser

	session := &fakeSession{navigateErr: apperrors.Setup("navigate", errors.New("net::ERR_CONNECTION_REFUSED"))}

	c, err := New(cfg, logger.NewNopLogger(), WithSessionOpener(openerFor(session)))
	require.NoError(t, err)

	_, err = c.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsSetup(err))
	assert.Equal(t, 1, session.closed)
}

func TestRunBrowserLaunchFailure(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.Browser.Mode = config.ModeBrowser

	opener := func(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (Session, error) {
		return nil, apperrors.Setup("launch browser", errors.New("chrome not found"))
	}

	c, err := New(cfg, logger.NewNopLogger(), WithSessionOpener(opener))
	require.NoError(t, err)

	_, err = c.Run(context.Background())
	assert.True(t, apperrors.IsSetup(err))
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}
