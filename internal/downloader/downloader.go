// Package downloader drives external download tools and the output
// filesystem layout
package downloader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alvarorichard/goanitube/internal/models"
	"github.com/alvarorichard/goanitube/internal/util"
	"github.com/lrstanley/go-ytdlp"
)

// Stats summarizes one batch download.
type Stats struct {
	Total   int
	Success int
	Failed  int
	Skipped int
}

// Downloader downloads resolved episodes, preferring aria2c for direct
// files and yt-dlp for HLS streams.
type Downloader struct {
	useAria2c  bool
	numThreads int
}

// New creates a downloader. aria2c acceleration is used only when the
// binary is actually installed.
func New(useAria2c bool) *Downloader {
	hasAria2c := aria2cAvailable()
	if useAria2c && !hasAria2c {
		util.Warn("aria2c not found, falling back to default downloader. " +
			"Install aria2 for faster downloads")
	}
	return &Downloader{
		useAria2c:  useAria2c && hasAria2c,
		numThreads: 4,
	}
}

func aria2cAvailable() bool {
	_, err := exec.LookPath("aria2c")
	return err == nil
}

// isDirectFile reports whether the URL points at a plain video file
// rather than an HLS playlist.
func isDirectFile(url string) bool {
	return strings.Contains(url, ".mp4") && !strings.Contains(url, ".m3u8")
}

// DownloadEpisode downloads one episode into dir. The transfer goes to a
// temporary name carrying a .part marker and is renamed into place only on
// success, so a crash never leaves a file the next run would mistake for
// complete. Already-present files are skipped.
func (d *Downloader) DownloadEpisode(ctx context.Context, anime *models.Anime, episode *models.Episode, dir string) (skipped bool, err error) {
	if episode.StreamURL == "" {
		return false, fmt.Errorf("episode %d has no stream URL", episode.Number)
	}

	filename := EpisodeFilename(anime, episode)
	finalPath := filepath.Join(dir, filename)
	if fileExists(finalPath) {
		util.Infof("episode %d already exists, skipping: %s", episode.Number, filename)
		return true, nil
	}

	util.Infof("downloading episode %d/%d: %s", episode.Number, anime.TotalEpisodes(), filename)

	tempPath := tempDownloadPath(finalPath)
	defer func() {
		if err != nil {
			_ = os.Remove(tempPath)
		}
	}()

	switch {
	case isDirectFile(episode.StreamURL) && d.useAria2c:
		err = d.downloadWithAria2c(ctx, episode.StreamURL, tempPath)
	case isDirectFile(episode.StreamURL):
		// Plain file without aria2c: range-split HTTP transfer.
		err = d.downloadWithHTTP(ctx, episode.StreamURL, tempPath)
	default:
		err = d.downloadWithYtdlp(ctx, episode.StreamURL, tempPath)
	}
	if err != nil {
		return false, err
	}

	if err = verifyDownload(tempPath); err != nil {
		return false, err
	}
	if err = os.Rename(tempPath, finalPath); err != nil {
		return false, fmt.Errorf("failed to move download into place: %w", err)
	}

	util.Infof("downloaded episode %d: %s", episode.Number, filename)
	return false, nil
}

// DownloadAll downloads every resolved episode sequentially, checking for
// cancellation between episodes, never mid-transfer. Per-episode failures
// are counted, not fatal.
func (d *Downloader) DownloadAll(ctx context.Context, anime *models.Anime, dir string) (Stats, error) {
	stats := Stats{Total: anime.TotalEpisodes()}
	for i := range anime.Episodes {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		skipped, err := d.DownloadEpisode(ctx, anime, &anime.Episodes[i], dir)
		switch {
		case errors.Is(err, context.Canceled):
			return stats, err
		case err != nil:
			util.Errorf("episode %d failed: %v", anime.Episodes[i].Number, err)
			stats.Failed++
		case skipped:
			stats.Skipped++
		default:
			stats.Success++
		}
	}
	return stats, nil
}

func (d *Downloader) downloadWithAria2c(ctx context.Context, url, destPath string) error {
	args := []string{
		"--max-connection-per-server=16",
		"--split=16",
		"--min-split-size=1M",
		"--allow-overwrite=true",
		"--auto-file-renaming=false",
		"--check-certificate=false",
		"--out", filepath.Base(destPath),
		"--dir", filepath.Dir(destPath),
		url,
	}

	cmd := exec.CommandContext(ctx, "aria2c", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		util.Debugf("aria2c output: %s", output)
		return fmt.Errorf("aria2c failed: %w", err)
	}
	return nil
}

func (d *Downloader) downloadWithYtdlp(ctx context.Context, url, destPath string) error {
	ytdlp.MustInstall(ctx, nil)

	dl := ytdlp.New().
		Output(destPath)

	if strings.Contains(url, ".m3u8") || strings.Contains(url, "/hls/") {
		dl = dl.
			Format("bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best").
			MergeOutputFormat("mp4").
			ConcurrentFragments(16)
	}

	if _, err := dl.Run(ctx, url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("yt-dlp failed: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// verifyDownload rejects transfers that produced nothing or a stub.
func verifyDownload(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("download produced no file: %w", err)
	}
	if info.Size() < 1024 {
		return fmt.Errorf("download too small (%d bytes)", info.Size())
	}
	return nil
}
