// Package commands implements the CLI commands for menucart.
package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/menucart/internal/config"
	"github.com/jmylchreest/menucart/internal/logger"
	"github.com/jmylchreest/menucart/internal/version"
	"github.com/jmylchreest/menucart/pkg/fetcher"
	"github.com/jmylchreest/menucart/pkg/menucart"
)

var rootCmd = &cobra.Command{
	Use:     "menucart",
	Short:   "Weekly menu scraper producing shopping lists and recipes",
	Version: version.String(),
	Long: `Menucart downloads the weekly menu pages of Paulina Cocina and turns
them into a categorized shopping list (general and vegetarian), the
recipe of each day and the days each list item is used on.

Examples:
  # Latest week, saved to menu_semana_s<week>.json
  menucart scrape

  # A specific week, a range, or every published week
  menucart scrape --week 4
  menucart scrape --range 3-5
  menucart scrape --all --store sqlite

  # Weeks the site currently publishes
  menucart list

  # Extract a page saved from the browser
  menucart extract --file semana4.html`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.menucart.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.Bool("log-json", false, "write logs as JSON")

	// Fetch settings shared by every command that downloads pages
	flags.String("fetch-mode", "static", "fetch mode: static, dynamic, auto")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("base-url", "", "site root weekly menu URLs are built from")
	flags.String("user-agent", "", "HTTP user agent")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("fetch_mode", flags.Lookup("fetch-mode"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("base_url", flags.Lookup("base-url"))
	_ = viper.BindPFlag("user_agent", flags.Lookup("user-agent"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".menucart")
		viper.SetConfigType("yaml")
	}

	// Environment variables: MENUCART_STORE_BACKEND, MENUCART_SESSION_COOKIE_VALUE, ...
	viper.SetEnvPrefix("MENUCART")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setup initializes logging and loads the validated configuration.
func setup() (*config.Config, error) {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return nil, err
	}
	if path := viper.ConfigFileUsed(); path != "" {
		logger.Debug("config file loaded", "path", path)
	}
	return cfg, nil
}

// newScraper builds the fetcher selected by the configuration and wraps it
// in a Scraper. The scraper owns the fetcher.
func newScraper(cfg *config.Config) (*menucart.Scraper, error) {
	maxBody, err := cfg.MaxBodyBytes()
	if err != nil {
		return nil, err
	}

	staticCfg := fetcher.StaticConfig{
		UserAgent:   cfg.UserAgent,
		Timeout:     cfg.Timeout,
		MaxBodySize: maxBody,
	}
	dynamicCfg := fetcher.DynamicConfig{
		UserAgent:  cfg.UserAgent,
		Timeout:    cfg.Timeout,
		ChromePath: cfg.ChromePath,
	}

	opts := []menucart.Option{
		menucart.WithBaseURL(cfg.BaseURL),
		menucart.WithLandingURL(cfg.LandingURL),
		menucart.WithMaxWeek(cfg.MaxWeek),
		menucart.WithTimeout(cfg.Timeout),
		menucart.WithMaxBodySize(maxBody),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, menucart.WithUserAgent(cfg.UserAgent))
	}
	if s := cfg.Session; s.CookieName != "" {
		opts = append(opts, menucart.WithSessionCookie(s.CookieName, s.CookieValue, s.Domain))
	}

	switch cfg.FetchMode {
	case "dynamic":
		dynamic, err := fetcher.NewDynamic(dynamicCfg)
		if err != nil {
			logger.Error("failed to create dynamic fetcher", "error", err)
			return nil, err
		}
		// Chrome cannot send HEAD requests; week probing stays on HTTP.
		opts = append(opts, menucart.WithFetcher(dynamic), menucart.WithProber(fetcher.NewStatic(staticCfg)))
	case "auto":
		opts = append(opts, menucart.WithFetcher(fetcher.NewAuto(staticCfg, dynamicCfg)))
	case "static", "":
		opts = append(opts, menucart.WithFetcher(fetcher.NewStatic(staticCfg)))
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s (use 'static', 'dynamic' or 'auto')", cfg.FetchMode)
	}
	logger.Debug("fetcher ready", "mode", cfg.FetchMode, "timeout", cfg.Timeout)

	return menucart.New(opts...)
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints a progress message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
