package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:           "scrapekit",
	Short:         "Page capture, AI product extraction and audio download tools",
	Long:          "scrapekit renders pages with rotating browser headers, extracts product data from the saved HTML with Gemini and downloads song audio through yt-dlp.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", ".env", "path to the .env config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(headersCmd)
	rootCmd.AddCommand(savePageCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(downloadSongCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scrapekit %s (commit: %s)\n", version, commit)
	},
}
