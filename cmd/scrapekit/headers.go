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

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Show the cached browser headers",
	RunE:  runHeadersShow,
}

var headersShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached browser headers, fetching them if stale",
	RunE:  runHeadersShow,
}

var headersRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch a new header list and replace the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(flagConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		headers, err := a.headers.Refresh(cmd.Context())
		if err != nil {
			a.logger.Error("Header refresh failed", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fetched %d header sets\n", len(headers))
		return nil
	},
}

func init() {
	headersCmd.AddCommand(headersShowCmd)
	headersCmd.AddCommand(headersRefreshCmd)
}

func runHeadersShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(flagConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.headers.Get(cmd.Context()); err != nil {
		a.logger.Error("No headers available", zap.Error(err))
		return err
	}
	snap, err := a.headers.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	renderHeaders(cmd.OutOrStdout(), snap)
	return nil
}

func renderHeaders(w io.Writer, snap *entity.HeaderSnapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "User-Agent", "Platform", "Sec-Ch-Ua"})
	for i, h := range snap.Headers {
		t.AppendRow(table.Row{i + 1, h.UserAgent(), h.Get("sec-ch-ua-platform"), h.Get("sec-ch-ua")})
	}
	fetched := "never"
	if !snap.FetchedAt.IsZero() {
		fetched = snap.FetchedAt.Format(time.RFC3339)
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d sets, fetched %s", len(snap.Headers), fetched), "", ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
