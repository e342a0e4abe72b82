package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/user/scrapekit/internal/entity"
	"go.uber.org/zap"
)

var (
	flagURL     string
	flagOutput  string
	flagEngine  string
	flagNoParse bool
	flagFile    string
)

var savePageCmd = &cobra.Command{
	Use:   "save-page",
	Short: "Render a page, save its HTML and extract the product with AI",
	RunE: func(cmd *cobra.Command, args []string) error {
		pageURL, err := askIfEmpty(flagURL, "Enter the URL of the page to save:", true)
		if err != nil {
			return err
		}
		output, err := askIfEmpty(flagOutput, "Enter the output file name:", false)
		if err != nil {
			return err
		}

		a, err := newApp(flagConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		capture, err := a.pageSaver().Save(cmd.Context(), entity.PageRequest{URL: pageURL, OutputFile: output, Engine: flagEngine})
		if err != nil {
			a.logger.Error("Failed to save page", zap.String("url", pageURL), zap.Error(err))
			return err
		}
		renderCapture(cmd.OutOrStdout(), capture)

		if flagNoParse {
			return nil
		}
		parser, err := a.productParser(cmd.Context())
		if err != nil {
			return err
		}
		if parser == nil {
			a.logger.Warn("GEMINI_API_KEY is not set, skipping AI parse")
			return nil
		}
		record, err := parser.Parse(cmd.Context(), pageURL, capture.Path)
		if record != nil {
			renderProduct(cmd.OutOrStdout(), record)
		}
		return err
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract the product from an already saved HTML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		pageURL, err := askIfEmpty(flagURL, "Enter the URL the page was saved from:", true)
		if err != nil {
			return err
		}
		file, err := askIfEmpty(flagFile, "Enter the saved HTML file path:", true)
		if err != nil {
			return err
		}

		a, err := newApp(flagConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		parser, err := a.productParser(cmd.Context())
		if err != nil {
			return err
		}
		if parser == nil {
			return fmt.Errorf("GEMINI_API_KEY is not set")
		}
		record, err := parser.Parse(cmd.Context(), pageURL, file)
		if record != nil {
			renderProduct(cmd.OutOrStdout(), record)
		}
		return err
	},
}

func init() {
	savePageCmd.Flags().StringVar(&flagURL, "url", "", "page URL")
	savePageCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file name inside the HTML directory")
	savePageCmd.Flags().StringVar(&flagEngine, "engine", "", `fetch engine: "browser" or "http" (default from FETCH_ENGINE)`)
	savePageCmd.Flags().BoolVar(&flagNoParse, "no-parse", false, "only save the HTML")

	parseCmd.Flags().StringVar(&flagURL, "url", "", "page URL the file was saved from")
	parseCmd.Flags().StringVarP(&flagFile, "file", "f", "", "saved HTML file")
}

func renderCapture(w io.Writer, c *entity.PageCapture) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"URL", "Saved to", "Engine", "Attempts", "Took"})
	t.AppendRow(table.Row{c.URL, c.Path, c.Engine, c.Attempts, c.Duration.Round(time.Millisecond)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderProduct(w io.Writer, r *entity.ProductRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"URL", r.URL},
		{"Title", r.Title},
		{"Description", r.Description},
		{"Best image", r.BestImage},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 80}})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
