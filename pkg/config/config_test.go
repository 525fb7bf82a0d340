package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://royaleapi.com/cards", cfg.Site.ListURL)
	assert.Equal(t, "https://cdns3.royaleapi.com/static/img/cards", cfg.Site.ImageBaseURL)
	assert.Equal(t, "-ev1", cfg.Site.EvolutionSuffix)
	assert.Equal(t, ModeBrowser, cfg.Browser.Mode)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 5*time.Second, cfg.Browser.SettleDelay)
	assert.Equal(t, "./public/assets/cards", cfg.Output.BaseDirectory)
	assert.Equal(t, ".png", cfg.Output.FileExtension)
	assert.Equal(t, 0, cfg.RateLimit.RequestsPerMinute)
	assert.Contains(t, cfg.Download.UserAgent, "Chrome/91.0.4472.124")

	require.NoError(t, cfg.Validate())
}

func TestSiteLocators(t *testing.T) {
	site := DefaultConfig().Site

	assert.Equal(t, `//*[@id="page_content"]/div[3]/div[3]/div[2]/div[7]/a/img`, site.ItemXPathAt(7))
	assert.Equal(t,
		"#page_content > div:nth-of-type(3) > div:nth-of-type(3) > div:nth-of-type(2) > div:nth-of-type(12) > a > img",
		site.ItemSelectorAt(12))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CARDCRAWL_LIST_URL", "https://example.com/list")
	t.Setenv("CARDCRAWL_OUTPUT_DIR", "/tmp/cards")
	t.Setenv("CARDCRAWL_MODE", "STATIC")
	t.Setenv("CARDCRAWL_SETTLE_DELAY", "250ms")
	t.Setenv("CARDCRAWL_REQUESTS_PER_MINUTE", "30")
	t.Setenv("CARDCRAWL_SKIP_EVOLUTION", "true")
	t.Setenv("CARDCRAWL_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "https://example.com/list", cfg.Site.ListURL)
	assert.Equal(t, "/tmp/cards", cfg.Output.BaseDirectory)
	assert.Equal(t, ModeStatic, cfg.Browser.Mode)
	assert.Equal(t, 250*time.Millisecond, cfg.Browser.SettleDelay)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.True(t, cfg.Site.SkipEvolution)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("CARDCRAWL_SETTLE_DELAY", "soon")
	t.Setenv("CARDCRAWL_REQUESTS_PER_MINUTE", "many")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SETTLE_DELAY")
	assert.Contains(t, err.Error(), "REQUESTS_PER_MINUTE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantError bool
	}{
		{
			name:      "defaults",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "missing list URL",
			mutate:    func(c *Config) { c.Site.ListURL = "" },
			wantError: true,
		},
		{
			name:      "image URL without scheme",
			mutate:    func(c *Config) { c.Site.ImageBaseURL = "cdn.example.com/cards" },
			wantError: true,
		},
		{
			name:      "xpath without index placeholder",
			mutate:    func(c *Config) { c.Site.ItemXPath = "//img" },
			wantError: true,
		},
		{
			name:      "selector without index placeholder",
			mutate:    func(c *Config) { c.Site.ItemSelector = "#page_content img" },
			wantError: true,
		},
		{
			name:      "malformed item selector",
			mutate:    func(c *Config) { c.Site.ItemSelector = "#page_content > div:nth-of-type(%d > a > img" },
			wantError: true,
		},
		{
			name: "evolution suffix may be empty when skipped",
			mutate: func(c *Config) {
				c.Site.EvolutionSuffix = ""
				c.Site.SkipEvolution = true
			},
			wantError: false,
		},
		{
			name:      "empty evolution suffix",
			mutate:    func(c *Config) { c.Site.EvolutionSuffix = "" },
			wantError: true,
		},
		{
			name:      "unknown mode",
			mutate:    func(c *Config) { c.Browser.Mode = "curl" },
			wantError: true,
		},
		{
			name:      "negative settle delay",
			mutate:    func(c *Config) { c.Browser.SettleDelay = -time.Second },
			wantError: true,
		},
		{
			name:      "extension without dot",
			mutate:    func(c *Config) { c.Output.FileExtension = "png" },
			wantError: true,
		},
		{
			name: "rate limit without burst",
			mutate: func(c *Config) {
				c.RateLimit.RequestsPerMinute = 10
				c.RateLimit.BurstSize = 0
			},
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"output":       "/flag/output",
		"mode":         "static",
		"headful":      true,
		"settle-delay": 2 * time.Second,
		"rate-limit":   12,
		"no-evolution": true,
		"log-level":    "error",
	})

	assert.Equal(t, "/flag/output", cfg.Output.BaseDirectory)
	assert.Equal(t, ModeStatic, cfg.Browser.Mode)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 2*time.Second, cfg.Browser.SettleDelay)
	assert.Equal(t, 12, cfg.RateLimit.RequestsPerMinute)
	assert.True(t, cfg.Site.SkipEvolution)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestSaveAndLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "cardcrawl.yaml")

	cfg := DefaultConfig()
	cfg.Output.BaseDirectory = "/srv/cards"
	cfg.Browser.SettleDelay = 1500 * time.Millisecond
	require.NoError(t, cfg.Save(configPath, "# saved by test\n"))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(configPath))

	assert.Equal(t, "/srv/cards", loaded.Output.BaseDirectory)
	assert.Equal(t, 1500*time.Millisecond, loaded.Browser.SettleDelay)
	assert.Equal(t, cfg.Site, loaded.Site)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# saved by test\n"))
}

func TestLoadFromTOMLFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cardcrawl.toml")
	content := `
[site]
list_url = "https://example.com/cards"

[browser]
mode = "static"
settle_delay = "0s"

[output]
base_directory = "out"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(configPath))

	assert.Equal(t, "https://example.com/cards", cfg.Site.ListURL)
	assert.Equal(t, ModeStatic, cfg.Browser.Mode)
	assert.Equal(t, time.Duration(0), cfg.Browser.SettleDelay)
	assert.Equal(t, "out", cfg.Output.BaseDirectory)
	// untouched keys keep their defaults
	assert.Equal(t, "-ev1", cfg.Site.EvolutionSuffix)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cardcrawl.yaml")
	content := `
output:
  base_directory: from-file
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))
	t.Setenv("CARDCRAWL_LOG_LEVEL", "debug")
	t.Setenv("CARDCRAWL_OUTPUT_DIR", "from-env")

	cfg, err := Load(configPath, map[string]interface{}{"output": "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Output.BaseDirectory)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
