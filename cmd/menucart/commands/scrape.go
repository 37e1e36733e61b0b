package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/menucart/internal/config"
	"github.com/jmylchreest/menucart/internal/logger"
	"github.com/jmylchreest/menucart/internal/output"
	"github.com/jmylchreest/menucart/internal/store"
	"github.com/jmylchreest/menucart/pkg/menu"
	"github.com/jmylchreest/menucart/pkg/menucart"
)

// errNothingProcessed makes the process exit non-zero when no menu of the
// run could be scraped.
var errNothingProcessed = errors.New("no menu was processed")

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Download menus and extract shopping lists and recipes",
	Long: `Download one or more weekly menus and extract the general and vegetarian
shopping lists, the recipe of each day and the item to days mapping.

Each menu is written to its own file derived from --output
("menu_semana.json" becomes "menu_semana_s4.json"); use "-o -" to write
everything to stdout instead. With --store the results are also saved to
a directory, a SQLite database or Firestore under the key "semana_<n>".

Examples:
  # Latest week
  menucart scrape

  # Weeks 3, 4 and 5, three at a time
  menucart scrape --range 3-5 --concurrency 3

  # Every published week into SQLite, nothing uploaded
  menucart scrape --all --store sqlite --sqlite-path menus.db

  # A special menu by URL, as YAML on stdout
  menucart scrape -u https://almacen.paulinacocina.net/menu-especial-pascuas -o - --format yaml`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()

	// What to scrape
	flags.IntP("week", "s", 0, "week number (default: latest week)")
	flags.BoolP("all", "t", false, "scrape every available week")
	flags.StringP("range", "r", "", "range of weeks, e.g. 3-5")
	flags.StringSliceP("url", "u", nil, "menu URL(s) to scrape (can be repeated)")
	scrapeCmd.MarkFlagsMutuallyExclusive("week", "all", "range", "url")

	// Output settings
	flags.StringP("output", "o", "menu_semana.json", `output file, suffixed per week ("-" for stdout)`)
	flags.String("format", "json", "output format: json, jsonl, yaml")
	flags.Bool("pretty", true, "indent JSON output")

	// Persistence
	flags.String("store", "none", "save results to: none, file, sqlite, firestore")
	flags.String("store-dir", ".", "directory for --store file")
	flags.String("sqlite-path", "menucart.db", "database for --store sqlite")
	flags.String("project", "", "Google Cloud project for --store firestore")
	flags.StringP("credentials", "c", "", "service account file for --store firestore (default: application credentials)")
	flags.Bool("local", false, "only write local files, never save to the store")

	// Concurrency
	flags.Int("concurrency", 3, "menus scraped at the same time")

	_ = viper.BindPFlag("output.path", flags.Lookup("output"))
	_ = viper.BindPFlag("output.format", flags.Lookup("format"))
	_ = viper.BindPFlag("output.pretty", flags.Lookup("pretty"))
	_ = viper.BindPFlag("store.backend", flags.Lookup("store"))
	_ = viper.BindPFlag("store.dir", flags.Lookup("store-dir"))
	_ = viper.BindPFlag("store.sqlite_path", flags.Lookup("sqlite-path"))
	_ = viper.BindPFlag("store.firestore_project", flags.Lookup("project"))
	_ = viper.BindPFlag("store.firestore_credentials", flags.Lookup("credentials"))
	_ = viper.BindPFlag("concurrency", flags.Lookup("concurrency"))
}

func runScrape(cmd *cobra.Command, _ []string) error {
	local, _ := cmd.Flags().GetBool("local")
	if local {
		// Must happen before validation: a store backend may be configured
		// without its credentials.
		viper.Set("store.backend", "none")
	}

	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("scrape command starting")

	s, err := newScraper(cfg)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = s.Close() }()

	targets, err := scrapeTargets(ctx, cmd, s)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		logError("no weeks available")
		return errNothingProcessed
	}

	format, err := output.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	st, err := store.New(ctx, cfg.Store, format)
	if err != nil {
		logger.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		return err
	}
	if st != nil {
		defer func() { _ = st.Close() }()
		logger.Debug("store opened", "backend", st.Name())
	}

	sink, err := newResultSink(cfg.Output, format)
	if err != nil {
		return err
	}

	logger.Info("starting scrape", "menus", len(targets), "concurrency", cfg.Concurrency)

	processed := 0
	for out := range s.ScrapeMany(ctx, targets, cfg.Concurrency) {
		log := logger.With("target", out.Target.String())
		if out.Error != nil {
			log.Warn("menu not processed", "url", out.URL, "error", out.Error)
			continue
		}

		res := out.Result
		key := store.Key(res)

		if err := sink.write(key, res); err != nil {
			log.Error("failed to write output", "error", err)
			return err
		}
		if st != nil {
			if err := st.Save(ctx, key, res); err != nil {
				log.Error("failed to save result", "store", st.Name(), "key", key, "error", err)
			} else {
				log.Info("result saved", "store", st.Name(), "key", key)
			}
		}

		processed++
		log.Info("menu processed",
			"titulo", res.Title,
			"fechas", res.DateRange,
			"general_items", res.General.Len(),
			"veggie_items", res.Veggie.Len(),
			"recetas", len(res.Recipes),
			"fetch", out.FetchDuration)
	}

	if err := sink.close(); err != nil {
		logger.Error("failed to write output", "error", err)
		return err
	}

	logInfo("%d/%d menus processed", processed, len(targets))
	if processed == 0 {
		return errNothingProcessed
	}
	return nil
}

// scrapeTargets turns the selection flags into targets. Without any flag
// the latest week is scraped.
func scrapeTargets(ctx context.Context, cmd *cobra.Command, s *menucart.Scraper) ([]menucart.Target, error) {
	flags := cmd.Flags()

	if urls, _ := flags.GetStringSlice("url"); len(urls) > 0 {
		targets := make([]menucart.Target, len(urls))
		for i, u := range urls {
			targets[i] = menucart.Target{URL: u}
		}
		return targets, nil
	}

	if all, _ := flags.GetBool("all"); all {
		weeks, err := s.AvailableWeeks(ctx)
		if err != nil {
			logger.Error("failed to list weeks", "error", err)
			return nil, err
		}
		logger.Info("available weeks", "weeks", weeks)
		return menucart.Weeks(weeks...), nil
	}

	if r, _ := flags.GetString("range"); r != "" {
		weeks, err := parseRange(r)
		if err != nil {
			logError("%v", err)
			return nil, err
		}
		return menucart.Weeks(weeks...), nil
	}

	if week, _ := flags.GetInt("week"); week > 0 {
		return menucart.Weeks(week), nil
	}
	if flags.Changed("week") {
		return nil, errors.New("invalid week: must be at least 1")
	}

	return []menucart.Target{{}}, nil
}

// resultSink writes results either to stdout, all through one writer, or
// to one file per menu.
type resultSink struct {
	format output.Format
	opts   []output.WriterOption
	path   string
	stdout output.Writer
}

func newResultSink(cfg config.OutputConfig, format output.Format) (*resultSink, error) {
	sink := &resultSink{
		format: format,
		opts:   []output.WriterOption{output.WithPretty(cfg.Pretty)},
		path:   cfg.Path,
	}
	if cfg.Path == output.Stdout {
		w, err := output.NewWriter(os.Stdout, format, sink.opts...)
		if err != nil {
			return nil, err
		}
		sink.stdout = w
	}
	return sink, nil
}

func (s *resultSink) write(key string, res *menu.Result) error {
	if s.stdout != nil {
		return s.stdout.Write(res)
	}

	path := output.KeyPath(s.path, s.format, key)
	if res.Week != nil {
		path = output.WeekPath(s.path, s.format, *res.Week)
	}
	if err := output.WriteFile(path, s.format, []any{res}, s.opts...); err != nil {
		return err
	}
	logger.Info("result written", "path", path)
	return nil
}

func (s *resultSink) close() error {
	if s.stdout != nil {
		return s.stdout.Close()
	}
	return nil
}
