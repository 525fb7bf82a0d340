package main

import (
	"fmt"
	"os"

	"cardcrawl/pkg/config"
	"cardcrawl/pkg/ui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configHeader = `# cardcrawl configuration
#
# Every value can also be set through environment variables prefixed with
# CARDCRAWL_ (for example CARDCRAWL_OUTPUT_DIR) or through command line flags.
# Durations use Go syntax: 500ms, 5s, 1m.

`

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage cardcrawl configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (CARDCRAWL_*)
  - .env files
  - Configuration file (YAML or TOML)
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file containing every option at its default value.

The file is created as '.cardcrawl.yaml' in the current directory unless a
different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from all sources and check it for invalid values:
URLs, locator templates, durations, output settings and log settings.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".cardcrawl.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath, configHeader); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(ui.Output)
	fmt.Fprint(ui.Output, string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, collectFlags(cmd))
	if err != nil {
		return err
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Card list", cfg.Site.ListURL)
	ui.PrintInfo("Images", cfg.Site.ImageBaseURL)
	ui.PrintInfo("Mode", cfg.Browser.Mode)
	ui.PrintInfo("Output directory", cfg.Output.BaseDirectory)
	if cfg.RateLimit.RequestsPerMinute > 0 {
		ui.PrintInfo("Rate limit", fmt.Sprintf("%d requests/minute", cfg.RateLimit.RequestsPerMinute))
	} else {
		ui.PrintInfo("Rate limit", "off")
	}
	ui.PrintInfo("Log level", cfg.Logging.Level)
	return nil
}
