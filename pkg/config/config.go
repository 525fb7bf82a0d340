package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/andybalholm/cascadia"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Discovery modes
const (
	ModeBrowser = "browser"
	ModeStatic  = "static"
)

// EnvPrefix is the prefix of every environment variable the crawler reads
const EnvPrefix = "CARDCRAWL_"

// Config holds all configuration options for the card crawler
type Config struct {
	// Card list page and image locations
	Site SiteConfig `yaml:"site" toml:"site" json:"site"`

	// Headless browser settings
	Browser BrowserConfig `yaml:"browser" toml:"browser" json:"browser"`

	// Image download settings
	Download DownloadConfig `yaml:"download" toml:"download" json:"download"`

	// Output settings
	Output OutputConfig `yaml:"output" toml:"output" json:"output"`

	// Politeness delay between image requests
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" toml:"logging" json:"logging"`
}

// SiteConfig describes where card identifiers and images come from
type SiteConfig struct {
	ListURL string `yaml:"list_url" toml:"list_url" json:"list_url"`
	// ItemXPath is formatted with a 1-based index (%d) for browser discovery
	ItemXPath string `yaml:"item_xpath" toml:"item_xpath" json:"item_xpath"`
	// ItemSelector is the CSS equivalent of ItemXPath used by static discovery
	ItemSelector    string `yaml:"item_selector" toml:"item_selector" json:"item_selector"`
	ImageBaseURL    string `yaml:"image_base_url" toml:"image_base_url" json:"image_base_url"`
	EvolutionSuffix string `yaml:"evolution_suffix" toml:"evolution_suffix" json:"evolution_suffix"`
	SkipEvolution   bool   `yaml:"skip_evolution" toml:"skip_evolution" json:"skip_evolution"`
}

// BrowserConfig holds settings for the browser session used during discovery
type BrowserConfig struct {
	Mode        string        `yaml:"mode" toml:"mode" json:"mode"`
	Headless    bool          `yaml:"headless" toml:"headless" json:"headless"`
	ChromePath  string        `yaml:"chrome_path" toml:"chrome_path" json:"chrome_path"`
	NoSandbox   bool          `yaml:"no_sandbox" toml:"no_sandbox" json:"no_sandbox"`
	SettleDelay time.Duration `yaml:"settle_delay" toml:"settle_delay" json:"settle_delay"`
	PageTimeout time.Duration `yaml:"page_timeout" toml:"page_timeout" json:"page_timeout"`
}

// DownloadConfig holds image download settings
type DownloadConfig struct {
	UserAgent       string        `yaml:"user_agent" toml:"user_agent" json:"user_agent"`
	DownloadTimeout time.Duration `yaml:"download_timeout" toml:"download_timeout" json:"download_timeout"`
}

// OutputConfig holds output directory configuration
type OutputConfig struct {
	BaseDirectory string `yaml:"base_directory" toml:"base_directory" json:"base_directory"`
	FileExtension string `yaml:"file_extension" toml:"file_extension" json:"file_extension"`
}

// RateLimitConfig holds the politeness delay configuration.
// RequestsPerMinute of 0 disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" toml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" toml:"burst_size" json:"burst_size"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level" json:"level"`
	File       string `yaml:"file" toml:"file" json:"file"`
	MaxSize    int    `yaml:"max_size" toml:"max_size" json:"max_size"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" toml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" toml:"compress" json:"compress"`
}

// DefaultConfig returns a Config instance matching the RoyaleAPI card list
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ListURL:         "https://royaleapi.com/cards",
			ItemXPath:       `//*[@id="page_content"]/div[3]/div[3]/div[2]/div[%d]/a/img`,
			ItemSelector:    "#page_content > div:nth-of-type(3) > div:nth-of-type(3) > div:nth-of-type(2) > div:nth-of-type(%d) > a > img",
			ImageBaseURL:    "https://cdns3.royaleapi.com/static/img/cards",
			EvolutionSuffix: "-ev1",
			SkipEvolution:   false,
		},
		Browser: BrowserConfig{
			Mode:        ModeBrowser,
			Headless:    true,
			ChromePath:  "",
			NoSandbox:   false,
			SettleDelay: 5 * time.Second,
			PageTimeout: 60 * time.Second,
		},
		Download: DownloadConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			DownloadTimeout: 30 * time.Second,
		},
		Output: OutputConfig{
			BaseDirectory: "./public/assets/cards",
			FileExtension: ".png",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 0,
			BurstSize:         1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   false,
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var errs []error

	if v := os.Getenv(EnvPrefix + "LIST_URL"); v != "" {
		c.Site.ListURL = v
	}
	if v := os.Getenv(EnvPrefix + "IMAGE_BASE_URL"); v != "" {
		c.Site.ImageBaseURL = v
	}
	if v := os.Getenv(EnvPrefix + "SKIP_EVOLUTION"); v != "" {
		c.Site.SkipEvolution = strings.ToLower(v) == "true"
	}
	if v := os.Getenv(EnvPrefix + "MODE"); v != "" {
		c.Browser.Mode = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPrefix + "CHROME_PATH"); v != "" {
		c.Browser.ChromePath = v
	}
	if v := os.Getenv(EnvPrefix + "HEADLESS"); v != "" {
		c.Browser.Headless = strings.ToLower(v) != "false"
	}
	if v := os.Getenv(EnvPrefix + "SETTLE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSETTLE_DELAY: %w", EnvPrefix, err))
		} else {
			c.Browser.SettleDelay = d
		}
	}
	if v := os.Getenv(EnvPrefix + "USER_AGENT"); v != "" {
		c.Download.UserAgent = v
	}
	if v := os.Getenv(EnvPrefix + "OUTPUT_DIR"); v != "" {
		c.Output.BaseDirectory = v
	}
	if v := os.Getenv(EnvPrefix + "REQUESTS_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sREQUESTS_PER_MINUTE: %w", EnvPrefix, err))
		} else {
			c.RateLimit.RequestsPerMinute = n
		}
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}

	return errors.Join(errs...)
}

// LoadFromFile loads configuration from a YAML or TOML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".cardcrawl.yaml",
		".cardcrawl.yml",
		".cardcrawl.toml",
		filepath.Join(home, ".config", "cardcrawl", "config.yaml"),
		filepath.Join(home, ".config", "cardcrawl", "config.toml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if err := validateURL(c.Site.ListURL); err != nil {
		errs = append(errs, fmt.Errorf("site list URL: %w", err))
	}
	if err := validateURL(c.Site.ImageBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("site image base URL: %w", err))
	}
	if !strings.Contains(c.Site.ItemXPath, "%d") {
		errs = append(errs, errors.New("item XPath must contain a %d index placeholder"))
	}
	if !strings.Contains(c.Site.ItemSelector, "%d") {
		errs = append(errs, errors.New("item selector must contain a %d index placeholder"))
	} else if _, err := cascadia.Compile(c.Site.ItemSelectorAt(1)); err != nil {
		errs = append(errs, fmt.Errorf("item selector: %w", err))
	}
	if !c.Site.SkipEvolution && c.Site.EvolutionSuffix == "" {
		errs = append(errs, errors.New("evolution suffix is required unless evolution images are skipped"))
	}

	switch c.Browser.Mode {
	case ModeBrowser, ModeStatic:
	default:
		errs = append(errs, fmt.Errorf("invalid discovery mode %q (want %s or %s)", c.Browser.Mode, ModeBrowser, ModeStatic))
	}
	if c.Browser.SettleDelay < 0 {
		errs = append(errs, errors.New("settle delay cannot be negative"))
	}
	if c.Browser.PageTimeout <= 0 {
		errs = append(errs, errors.New("page timeout must be positive"))
	}

	if c.Download.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}
	if c.Download.DownloadTimeout <= 0 {
		errs = append(errs, errors.New("download timeout must be positive"))
	}

	if c.Output.BaseDirectory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if !strings.HasPrefix(c.Output.FileExtension, ".") {
		errs = append(errs, errors.New("file extension must start with a dot"))
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.BurstSize <= 0 {
		errs = append(errs, errors.New("burst size must be positive when rate limiting is enabled"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// Save saves the configuration to a YAML file. header, if not empty, is
// written verbatim before the YAML document.
func (c *Config) Save(path, header string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append([]byte(header), data...)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
// Keys are the flag names; only flags the user actually set should be present.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if v, ok := flags["output"].(string); ok && v != "" {
		c.Output.BaseDirectory = v
	}
	if v, ok := flags["list-url"].(string); ok && v != "" {
		c.Site.ListURL = v
	}
	if v, ok := flags["image-url"].(string); ok && v != "" {
		c.Site.ImageBaseURL = v
	}
	if v, ok := flags["no-evolution"].(bool); ok {
		c.Site.SkipEvolution = v
	}
	if v, ok := flags["mode"].(string); ok && v != "" {
		c.Browser.Mode = strings.ToLower(v)
	}
	if v, ok := flags["chrome-path"].(string); ok && v != "" {
		c.Browser.ChromePath = v
	}
	if v, ok := flags["headful"].(bool); ok {
		c.Browser.Headless = !v
	}
	if v, ok := flags["settle-delay"].(time.Duration); ok {
		c.Browser.SettleDelay = v
	}
	if v, ok := flags["timeout"].(time.Duration); ok && v > 0 {
		c.Download.DownloadTimeout = v
	}
	if v, ok := flags["rate-limit"].(int); ok {
		c.RateLimit.RequestsPerMinute = v
	}
	if v, ok := flags["log-level"].(string); ok && v != "" {
		c.Logging.Level = v
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".cardcrawl.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ItemXPathAt returns the browser locator for the 1-based card index
func (s SiteConfig) ItemXPathAt(index int) string {
	return fmt.Sprintf(s.ItemXPath, index)
}

// ItemSelectorAt returns the CSS locator for the 1-based card index
func (s SiteConfig) ItemSelectorAt(index int) string {
	return fmt.Sprintf(s.ItemSelector, index)
}
