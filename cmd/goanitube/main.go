package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alvarorichard/goanitube/internal/downloader"
	"github.com/alvarorichard/goanitube/internal/extractor"
	"github.com/alvarorichard/goanitube/internal/history"
	"github.com/alvarorichard/goanitube/internal/models"
	"github.com/alvarorichard/goanitube/internal/scraper"
	"github.com/alvarorichard/goanitube/internal/util"
	"github.com/alvarorichard/goanitube/internal/version"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitCancelled = 130
)

func main() {
	versionFlag := flag.Bool("version", false, "show version information")
	debugFlag := flag.Bool("debug", false, "enable debug mode")
	outputFlag := flag.String("output", ".", "output directory for downloaded episodes")
	voiceFlag := flag.Int("voice", 0, "1-based voice index to use instead of the interactive prompt")
	titleFlag := flag.String("title", "", "override the detected title")
	noAria2cFlag := flag.Bool("no-aria2c", false, "disable aria2c acceleration")

	flag.Parse()

	if *versionFlag || version.HasVersionArg() {
		version.ShowVersion()
		return
	}

	util.SetDebugMode(*debugFlag)
	util.InitLogger()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: goanitube [options] <anime page URL>")
		flag.PrintDefaults()
		os.Exit(exitFailure)
	}

	cfg := models.DownloadConfig{
		AnimeURL:   flag.Arg(0),
		OutputDir:  *outputFlag,
		VoiceIndex: *voiceFlag,
		Title:      *titleFlag,
		UseAria2c:  !*noAria2cFlag,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, cfg))
}

func run(ctx context.Context, cfg models.DownloadConfig) int {
	client := scraper.NewClient()

	var anime *models.Anime
	var err error
	_ = spinner.New().
		Title("Fetching anime metadata...").
		Type(spinner.Dots).
		Action(func() {
			anime, err = client.FetchMetadata(ctx, cfg.AnimeURL)
		}).
		Run()
	if err != nil {
		return fail(ctx, err)
	}

	if cfg.Title != "" {
		anime.Title = cfg.Title
	}
	if anime.Year > 0 {
		util.Infof("found: %s (%d)", anime.Title, anime.Year)
	} else {
		util.Infof("found: %s", anime.Title)
	}

	var snapshot *scraper.Snapshot
	_ = spinner.New().
		Title("Fetching playlist...").
		Type(spinner.Dots).
		Action(func() {
			snapshot, err = client.FetchPlaylist(ctx, anime)
		}).
		Run()
	if err != nil {
		return fail(ctx, err)
	}

	util.Infof("detected content type: %s", anime.Kind)
	if len(anime.Voices) == 0 {
		util.Error("no voice options found")
		return exitFailure
	}
	if anime.Kind == models.KindMovie {
		util.Infof("found %d player options", len(anime.Voices))
	} else {
		util.Infof("found %d voice options", len(anime.Voices))
	}

	voiceID, code := chooseVoice(anime, cfg.VoiceIndex)
	if code != exitOK {
		return code
	}

	playerID, code := choosePlayer(snapshot, voiceID)
	if code != exitOK {
		return code
	}

	// Episodes are replaced, not merged, whenever the selection changes.
	anime.Episodes = snapshot.Episodes(voiceID, playerID)
	if len(anime.Episodes) == 0 {
		util.Error("no episodes found for this selection")
		return exitFailure
	}
	if anime.Kind == models.KindMovie {
		util.Info("found movie file")
	} else {
		util.Infof("found %d episodes", anime.TotalEpisodes())
	}

	store := history.Open(history.DefaultPath())
	defer store.Close()
	for _, ep := range anime.Episodes {
		if store.Seen(anime.NewsID, anime.Season, ep.Number) {
			util.Infof("episode %d was downloaded by a previous run", ep.Number)
		}
	}

	util.Info("extracting stream URLs...")
	resolver := extractor.NewResolver(scraper.BaseURL + "/")
	if resolved := resolver.ResolveAll(ctx, anime.Episodes); resolved == 0 {
		if ctx.Err() != nil {
			return cancelled()
		}
		util.Error("could not extract any stream URLs")
		return exitFailure
	}

	outputDir, err := downloader.OutputDir(anime, cfg.OutputDir)
	if err != nil {
		return fail(ctx, err)
	}
	util.Infof("saving to: %s", outputDir)

	dl := downloader.New(cfg.UseAria2c)
	stats, err := dl.DownloadAll(ctx, anime, outputDir)
	if err != nil && errors.Is(err, context.Canceled) {
		return cancelled()
	}

	recordDownloads(store, anime, outputDir)
	printSummary(stats)

	if stats.Success+stats.Skipped == 0 {
		return exitFailure
	}
	return exitOK
}

// chooseVoice resolves the voice selection: explicit 1-based flag index,
// the only option when there is just one, or an interactive select.
func chooseVoice(anime *models.Anime, voiceIndex int) (string, int) {
	if voiceIndex != 0 {
		if voiceIndex < 1 || voiceIndex > len(anime.Voices) {
			util.Errorf("invalid voice index %d, must be 1-%d", voiceIndex, len(anime.Voices))
			return "", exitFailure
		}
		voice := anime.Voices[voiceIndex-1]
		util.Infof("using voice: %s", voice.Name)
		return voice.ID, exitOK
	}

	if len(anime.Voices) == 1 {
		util.Infof("using only available option: %s", anime.Voices[0].Name)
		return anime.Voices[0].ID, exitOK
	}

	title := "Select voice track"
	if anime.Kind == models.KindMovie {
		title = "Select player"
	}
	options := make([]huh.Option[string], 0, len(anime.Voices))
	for _, voice := range anime.Voices {
		options = append(options, huh.NewOption(voice.Name, voice.ID))
	}

	var choice string
	menu := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&choice)
	if err := menu.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", cancelled()
		}
		util.Errorf("selection failed: %v", err)
		return "", exitFailure
	}
	return choice, exitOK
}

// choosePlayer resolves the player under a voice. An empty player list is
// the flat shape: the voice doubles as the player.
func choosePlayer(snapshot *scraper.Snapshot, voiceID string) (string, int) {
	players := snapshot.PlayersFor(voiceID)
	if len(players) == 0 {
		util.Debug("no separate players, voice doubles as player")
		return "", exitOK
	}
	if len(players) == 1 {
		util.Infof("using only available player: %s", players[0].Name)
		return players[0].ID, exitOK
	}

	options := make([]huh.Option[string], 0, len(players))
	for _, player := range players {
		options = append(options, huh.NewOption(player.Name, player.ID))
	}

	var choice string
	menu := huh.NewSelect[string]().
		Title("Select player").
		Options(options...).
		Value(&choice)
	if err := menu.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", cancelled()
		}
		util.Errorf("selection failed: %v", err)
		return "", exitFailure
	}
	return choice, exitOK
}

// recordDownloads writes every episode that is now present on disk into
// the history store.
func recordDownloads(store *history.Store, anime *models.Anime, outputDir string) {
	for i := range anime.Episodes {
		ep := &anime.Episodes[i]
		path := filepath.Join(outputDir, downloader.EpisodeFilename(anime, ep))
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			continue
		}
		store.Record(history.Entry{
			NewsID:     anime.NewsID,
			Title:      anime.Title,
			Season:     anime.Season,
			Episode:    ep.Number,
			Path:       path,
			Downloaded: time.Now(),
		})
	}
}

func printSummary(stats downloader.Stats) {
	util.Infof("download summary: %d total, %d downloaded, %d skipped, %d failed",
		stats.Total, stats.Success, stats.Skipped, stats.Failed)
}

// fail reports err unless it was caused by cancellation, which is never
// logged as an error.
func fail(ctx context.Context, err error) int {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return cancelled()
	}
	util.Errorf("%v", err)
	return exitFailure
}

func cancelled() int {
	fmt.Fprintln(os.Stderr, "\ncancelled by user")
	return exitCancelled
}
