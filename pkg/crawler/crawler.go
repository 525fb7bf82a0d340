package crawler

import (
	"context"
	"fmt"

	"cardcrawl/internal/downloader"
	"cardcrawl/pkg/config"
	"cardcrawl/pkg/discovery"
	apperrors "cardcrawl/pkg/errors"
	"cardcrawl/pkg/fetcher"
	"cardcrawl/pkg/logger"
	"cardcrawl/pkg/ratelimit"
	"cardcrawl/pkg/storage"
	"cardcrawl/pkg/ui"
)

// Summary describes a finished crawl
type Summary struct {
	Identifiers      []string
	Downloaded       int
	Skipped          int
	OutputDir        string
	CreatedOutputDir bool
}

// Crawler orchestrates discovery and download
type Crawler struct {
	config      *config.Config
	client      PageFetcher
	openSession SessionOpener
	logger      logger.Logger
}

// Option customises a Crawler
type Option func(*Crawler)

// WithSessionOpener replaces how browser sessions are started
func WithSessionOpener(open SessionOpener) Option {
	return func(c *Crawler) {
		c.openSession = open
	}
}

// WithFetcher replaces the HTTP client used for pages and images
func WithFetcher(f PageFetcher) Option {
	return func(c *Crawler) {
		c.client = f
	}
}

// New creates a Crawler from a validated configuration
func New(cfg *config.Config, log logger.Logger, opts ...Option) (*Crawler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if log == nil {
		log = logger.GetLogger()
	}

	client := fetcher.NewClient(cfg.Download.UserAgent, cfg.Download.DownloadTimeout, log)
	client.SetLimiter(ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize))

	c := &Crawler{
		config:      cfg,
		client:      client,
		openSession: OpenRodSession,
		logger:      log.WithField("component", "crawler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run performs one complete crawl
func (c *Crawler) Run(ctx context.Context) (*Summary, error) {
	outputDir := c.config.Output.BaseDirectory
	store, err := storage.NewManager(outputDir, c.config.Output.FileExtension)
	if err != nil {
		return nil, err
	}

	summary := &Summary{OutputDir: outputDir, CreatedOutputDir: store.Created()}
	if store.Created() {
		ui.PrintInfo("Created output directory", outputDir)
		c.logger.WithField("dir", outputDir).Info("Created output directory")
	}

	ids, err := c.Discover(ctx)
	if err != nil {
		return summary, err
	}
	summary.Identifiers = ids

	if len(ids) == 0 {
		ui.PrintWarning("No cards found on " + c.config.Site.ListURL)
		c.logger.Warn("No cards found")
		return summary, nil
	}

	ui.PrintInfo("Cards found", fmt.Sprintf("%d", len(ids)))

	jobs := downloader.BuildJobs(ids, c.config.Site.ImageBaseURL, c.config.Output.FileExtension, c.variants())
	progress := ui.NewProgressDisplay(len(jobs), c.config.Logging.Level == "debug")

	runner := downloader.NewRunner(c.client, store, c.logger)
	runner.OnResult(func(r downloader.DownloadResult) {
		fileName := r.Job.Name + c.config.Output.FileExtension
		if r.Success {
			progress.CompleteDownload(fileName, int64(r.Size))
		} else {
			progress.SkipDownload(fileName, r.Error)
		}
	})

	stats, err := runner.Run(ctx, jobs)
	summary.Downloaded = stats.Downloaded
	summary.Skipped = stats.Skipped
	if err != nil {
		return summary, err
	}

	progress.Complete(outputDir)
	c.logger.InfoWithFields("Crawl finished", map[string]interface{}{
		"identifiers": len(ids),
		"downloaded":  stats.Downloaded,
		"skipped":     stats.Skipped,
		"output_dir":  outputDir,
	})

	return summary, nil
}

func (c *Crawler) variants() []downloader.Variant {
	variants := []downloader.Variant{downloader.BaseVariant}
	if !c.config.Site.SkipEvolution {
		variants = append(variants, downloader.EvolutionVariant(c.config.Site.EvolutionSuffix))
	}
	return variants
}

// Discover collects card identifiers using the configured mode
func (c *Crawler) Discover(ctx context.Context) ([]string, error) {
	ui.PrintHighlight(fmt.Sprintf("\n[SCANNING %s]", c.config.Site.ListURL))

	if c.config.Browser.Mode == config.ModeStatic {
		return c.discoverStatic(ctx)
	}
	return c.discoverBrowser(ctx)
}

func (c *Crawler) discoverBrowser(ctx context.Context) (ids []string, err error) {
	session, err := c.openSession(ctx, c.config.Browser, c.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			c.logger.WithError(closeErr).Warn("Failed to close browser")
		}
	}()

	if err := session.Navigate(ctx, c.config.Site.ListURL); err != nil {
		return nil, err
	}

	lookup := session.Lookup(c.config.Site.ItemXPathAt)
	return discovery.NewDiscoverer(c.logger).Discover(ctx, lookup)
}

func (c *Crawler) discoverStatic(ctx context.Context) ([]string, error) {
	body, err := c.client.Fetch(ctx, c.config.Site.ListURL)
	if err != nil {
		return nil, apperrors.Setup("fetch list page", err)
	}

	lookup, err := discovery.NewHTMLLookup(body, c.config.Site.ListURL, c.config.Site.ItemSelectorAt)
	if err != nil {
		return nil, apperrors.Setup("parse list page", err)
	}

	return discovery.NewDiscoverer(c.logger).Discover(ctx, lookup)
}
