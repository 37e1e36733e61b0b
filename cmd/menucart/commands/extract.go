package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/menucart/internal/logger"
	"github.com/jmylchreest/menucart/internal/output"
	"github.com/jmylchreest/menucart/pkg/menu"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a menu page saved to disk",
	Long: `Run the extraction on an HTML file instead of downloading it, e.g. a
members-only page saved from the browser.

Examples:
  menucart extract --file semana4.html
  curl -s https://almacen.paulinacocina.net/menu-semana-4 | menucart extract -f - --format yaml`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()
	flags.StringP("file", "f", "", `HTML file to read ("-" for stdin)`)
	flags.String("source-url", "", "URL the page was saved from (used for the week number)")
	flags.StringP("output", "o", output.Stdout, `output file ("-" for stdout)`)
	flags.String("format", "json", "output format: json, jsonl, yaml")
	_ = extractCmd.MarkFlagRequired("file")
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if _, err := setup(); err != nil {
		return err
	}

	flags := cmd.Flags()
	path, _ := flags.GetString("file")
	sourceURL, _ := flags.GetString("source-url")
	outPath, _ := flags.GetString("output")
	formatStr, _ := flags.GetString("format")

	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	res, err := extractFile(path, sourceURL, cmd.InOrStdin())
	if err != nil {
		logger.Error("extraction failed", "file", path, "error", err)
		return err
	}

	logger.Debug("menu extracted",
		"general_from", res.GeneralFrom,
		"general_items", res.General.Len(),
		"veggie_found", res.VeggieFound,
		"recipes", len(res.Recipes),
		"unmatched", res.GeneralStats.Unmatched)

	return output.WriteFile(outPath, format, []any{res})
}

// extractFile parses the HTML at path (stdin for "-") and extracts it.
func extractFile(path, sourceURL string, stdin io.Reader) (*menu.Result, error) {
	var r io.Reader = stdin
	if path != output.Stdout {
		f, err := os.Open(path) //#nosec G304 -- CLI tool reads a user-specified file
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	res := menu.Extract(doc, menu.Source{URL: sourceURL})
	if res.Empty() {
		return nil, fmt.Errorf("%s: %w", path, menu.ErrEmptyResult)
	}
	return res, nil
}
