package ytdlp

import (
	"context"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/user/scrapekit/internal/entity"
	"go.uber.org/zap"
)

// FetcherImpl runs yt-dlp through go-ytdlp.
type FetcherImpl struct {
	executable string
	logger     *zap.Logger
}

// NewFetcher creates a new instance of FetcherImpl. An empty executable uses
// yt-dlp from PATH.
func NewFetcher(executable string, logger *zap.Logger) *FetcherImpl {
	return &FetcherImpl{executable: executable, logger: logger}
}

// Download resolves job.Target, keeps the best audio stream and converts it.
func (f *FetcherImpl) Download(ctx context.Context, job entity.AudioJob) error {
	cmd := f.command(job)
	res, err := cmd.Run(ctx, extraArgs(job)...)
	if err != nil {
		if res != nil && res.Stderr != "" {
			return fmt.Errorf("yt-dlp: %w: %s", err, lastLine(res.Stderr))
		}
		return fmt.Errorf("yt-dlp: %w", err)
	}
	f.logger.Debug("yt-dlp finished", zap.String("target", job.Target), zap.Int("exit_code", res.ExitCode))
	return nil
}

func (f *FetcherImpl) command(job entity.AudioJob) *ytdlp.Command {
	cmd := ytdlp.New().
		Format(job.Format).
		ExtractAudio().
		AudioFormat(job.AudioFormat).
		AudioQuality(job.AudioQuality).
		Output(job.OutputTemplate).
		NoPlaylist()
	for _, h := range job.Headers {
		cmd = cmd.AddHeaders(h)
	}
	if f.executable != "" {
		cmd = cmd.SetExecutable(f.executable)
	}
	return cmd
}

// extraArgs holds flags passed verbatim after the builder flags, ending with the target.
func extraArgs(job entity.AudioJob) []string {
	var args []string
	if job.GeoLocation != "" {
		args = append(args, "--xff", job.GeoLocation)
	}
	return append(args, job.Target)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
