package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/user/scrapekit/internal/entity"
	"github.com/user/scrapekit/internal/repository"
)

var flagLimit int

var errNoCatalog = errors.New("DATABASE_URL is not set, no product records to read")

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the most recently parsed products",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(flagConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		catalog, err := a.productDB(cmd.Context())
		if err != nil {
			return err
		}
		return listProducts(cmd.Context(), catalog, flagLimit, cmd.OutOrStdout())
	},
}

var productsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored product record for a page URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		pageURL, err := askIfEmpty(flagURL, "Enter the URL of the product page:", true)
		if err != nil {
			return err
		}

		a, err := newApp(flagConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		catalog, err := a.productDB(cmd.Context())
		if err != nil {
			return err
		}
		return showProduct(cmd.Context(), catalog, pageURL, cmd.OutOrStdout())
	},
}

func init() {
	productsCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "number of records to list")
	productsShowCmd.Flags().StringVar(&flagURL, "url", "", "product page URL")
	productsCmd.AddCommand(productsShowCmd)
}

func listProducts(ctx context.Context, catalog repository.ProductCatalog, limit int, w io.Writer) error {
	if catalog == nil {
		return errNoCatalog
	}
	if limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", limit)
	}
	records, err := catalog.Recent(ctx, limit)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	renderProducts(w, records)
	return nil
}

func showProduct(ctx context.Context, catalog repository.ProductCatalog, pageURL string, w io.Writer) error {
	if catalog == nil {
		return errNoCatalog
	}
	record, err := catalog.FindByURL(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("find product %s: %w", pageURL, err)
	}
	if record == nil {
		return fmt.Errorf("no product record for %s", pageURL)
	}
	renderProduct(w, record)
	return nil
}

func renderProducts(w io.Writer, records []entity.ProductRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Title", "URL", "Parsed"})
	for i, r := range records {
		title := r.Title
		if r.Empty() {
			title = "(invalid page)"
		}
		t.AppendRow(table.Row{i + 1, title, r.URL, r.ParsedAt.Local().Format(time.DateTime)})
	}
	t.AppendFooter(table.Row{"", "", "Total", len(records)})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: 50}})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
