package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/menucart/internal/logger"
	"github.com/jmylchreest/menucart/internal/output"
	"github.com/jmylchreest/menucart/pkg/discovery"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the menus published on the site",
	Long: `List the weekly and special menus linked from the landing page, newest
week first. When the landing page cannot be read, or with --probe, the
weekly menu URLs are checked one by one instead.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	flags := listCmd.Flags()
	flags.Bool("probe", false, "check week URLs instead of reading the landing page")
	flags.String("format", "", "print menus as json, jsonl or yaml instead of text")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := newScraper(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()
	d := s.Discoverer()

	var menus []discovery.Menu
	if probe, _ := cmd.Flags().GetBool("probe"); !probe {
		menus, err = d.Discover(ctx)
		if err != nil {
			logger.Warn("landing page unavailable, probing week urls", "error", err)
		}
	}
	if discovery.LatestWeek(menus) == 0 {
		weeks, err := d.ProbeWeeks(ctx)
		if err != nil {
			logger.Error("failed to probe weeks", "error", err)
			return err
		}
		menus = append(probedMenus(cfg.BaseURL, weeks), menus...)
	}

	out := cmd.OutOrStdout()
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		format, err := output.ParseFormat(f)
		if err != nil {
			return err
		}
		return writeMenus(out, format, menus)
	}

	if len(menus) == 0 {
		logError("no menus found")
		return errNothingProcessed
	}
	printMenus(out, menus)
	return nil
}

// probedMenus describes weeks found by probing, which carry no title.
func probedMenus(baseURL string, weeks []int) []discovery.Menu {
	menus := make([]discovery.Menu, len(weeks))
	for i, w := range weeks {
		menus[i] = discovery.Menu{
			URL:  discovery.WeekURL(baseURL, w),
			Kind: discovery.Weekly,
			Week: &weeks[i],
		}
	}
	return menus
}

func writeMenus(w io.Writer, format output.Format, menus []discovery.Menu) error {
	ow, err := output.NewWriter(w, format)
	if err != nil {
		return err
	}
	items := make([]any, len(menus))
	for i, m := range menus {
		items[i] = m
	}
	if err := ow.WriteAll(items); err != nil {
		return err
	}
	return ow.Close()
}

func printMenus(w io.Writer, menus []discovery.Menu) {
	var weeks []string
	for _, m := range menus {
		week := "-"
		if m.Week != nil {
			week = strconv.Itoa(*m.Week)
			if m.Kind == discovery.Weekly {
				weeks = append(weeks, week)
			}
		}
		_, _ = fmt.Fprintf(w, "%-8s %4s  %-40s %s\n", m.Kind, week, m.Title, m.URL)
	}
	if len(weeks) > 0 {
		_, _ = fmt.Fprintf(w, "\nSemanas disponibles: %s (total: %d)\n", strings.Join(weeks, ", "), len(weeks))
	}
}
