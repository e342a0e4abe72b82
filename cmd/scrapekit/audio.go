package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/scrapekit/internal/entity"
	"go.uber.org/zap"
)

var (
	flagTitle   string
	flagArtist  string
	flagSongOut string
	flagGeo     string
)

var downloadSongCmd = &cobra.Command{
	Use:   "download-song",
	Short: "Download a song's audio from the first search hit",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, err := askIfEmpty(flagTitle, "Enter song title:", true)
		if err != nil {
			return err
		}
		artist, err := askIfEmpty(flagArtist, "Enter artist name:", false)
		if err != nil {
			return err
		}
		output, err := askIfEmpty(flagSongOut, "Enter output file name (with path, without extension):", false)
		if err != nil {
			return err
		}

		a, err := newApp(flagConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		out, err := a.audioDownloader().Download(cmd.Context(), entity.AudioRequest{
			Title:       title,
			Artist:      artist,
			OutputFile:  output,
			GeoLocation: flagGeo,
		})
		if err != nil {
			a.logger.Error("Download failed", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", out)
		return nil
	},
}

func init() {
	downloadSongCmd.Flags().StringVar(&flagTitle, "title", "", "song title")
	downloadSongCmd.Flags().StringVar(&flagArtist, "artist", "", "artist name")
	downloadSongCmd.Flags().StringVarP(&flagSongOut, "output", "o", "", "output path inside the audio directory, without extension")
	downloadSongCmd.Flags().StringVar(&flagGeo, "geo", "", "geo location for X-Forwarded-For (ISO country code or CIDR block)")
}
