package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardcrawl/pkg/config"
	"cardcrawl/pkg/crawler"
	"cardcrawl/pkg/logger"
	"cardcrawl/pkg/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	// Crawl command flags
	outputDir    string
	listURL      string
	imageURL     string
	mode         string
	chromePath   string
	headful      bool
	settleDelay  time.Duration
	fetchTimeout time.Duration
	rateLimit    int
	noEvolution  bool
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Discover cards and download their images",
	Long: `Open the card list in a headless browser, collect every card identifier,
then download <id>.png and <id>-ev1.png for each card.

Images the server does not have (most cards have no evolution) are skipped.
Existing files are overwritten.`,
	Example: `  # Crawl with defaults into ./public/assets/cards
  cardcrawl crawl

  # Save somewhere else, one request per second
  cardcrawl crawl --output ./cards --rate-limit 60

  # Parse the server-rendered HTML instead of launching Chrome
  cardcrawl crawl --mode static

  # Watch the browser while it works
  cardcrawl crawl --headful --settle-delay 10s`,
	Args: cobra.NoArgs,
	RunE: runCrawl,
}

func init() {
	rootCmd.AddCommand(crawlCmd)
	addCrawlFlags(crawlCmd.Flags())

	// crawl is also the default command
	addCrawlFlags(rootCmd.Flags())
	rootCmd.Args = cobra.NoArgs
	rootCmd.RunE = runCrawl
}

func addCrawlFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&outputDir, "output", "o", "", "output directory for images (default ./public/assets/cards)")
	fs.StringVar(&listURL, "list-url", "", "card list page")
	fs.StringVar(&imageURL, "image-url", "", "base URL of the card images")
	fs.StringVar(&mode, "mode", "", "discovery mode: browser or static")
	fs.StringVar(&chromePath, "chrome-path", "", "Chrome/Chromium binary (default: auto-detect or download)")
	fs.BoolVar(&headful, "headful", false, "show the browser window")
	fs.DurationVar(&settleDelay, "settle-delay", 0, "wait after page load before reading the list (default 5s)")
	fs.DurationVar(&fetchTimeout, "timeout", 0, "per-request download timeout (default 30s)")
	fs.IntVar(&rateLimit, "rate-limit", 0, "HTTP requests per minute, 0 for no limit")
	fs.BoolVar(&noEvolution, "no-evolution", false, "skip the evolution image variant")
}

// collectFlags returns only the flags the user set, keyed by flag name
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	fs := cmd.Flags()
	flags := make(map[string]interface{})

	for _, name := range []string{"output", "list-url", "image-url", "mode", "chrome-path", "log-level"} {
		if fs.Changed(name) {
			v, _ := fs.GetString(name)
			flags[name] = v
		}
	}
	for _, name := range []string{"headful", "no-evolution"} {
		if fs.Changed(name) {
			v, _ := fs.GetBool(name)
			flags[name] = v
		}
	}
	for _, name := range []string{"settle-delay", "timeout"} {
		if fs.Changed(name) {
			v, _ := fs.GetDuration(name)
			flags[name] = v
		}
	}
	if fs.Changed("rate-limit") {
		v, _ := fs.GetInt("rate-limit")
		flags["rate-limit"] = v
	}

	if quiet && !fs.Changed("log-level") {
		flags["log-level"] = "error"
	}
	return flags
}

// loadConfig loads configuration and sets up the global logger
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCrawl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ui.PrintLogo()
	ui.PrintInfo("Card list", cfg.Site.ListURL)
	ui.PrintInfo("Output", cfg.Output.BaseDirectory)

	log := logger.GetLogger()
	log.WithFields(map[string]interface{}{
		"version": version,
		"mode":    cfg.Browser.Mode,
	}).Info("cardcrawl starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := crawler.New(cfg, log)
	if err != nil {
		return err
	}

	summary, err := c.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			ui.PrintWarning("Interrupted")
		}
		log.WithError(err).Error("Crawl failed")
		return err
	}

	if len(summary.Identifiers) > 0 {
		ui.PrintSuccess("[CRAWL COMPLETED]")
	}
	return nil
}
