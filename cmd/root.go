package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/elx4vier/UTube/internal/engine"
)

var (
	maxResults      int
	thumbMode       string
	layout          string
	cacheDir        string
	lang            string
	translationsDir string
	defaultIcon     string
	showMetrics     bool
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:   "utube [query...]",
	Short: "Search YouTube and print renderable results",
	Long: `UTube fetches the YouTube results page for a query, extracts up to N video
records from the embedded data block, resolves locally cached thumbnails and
prints one renderable row per result. Degrades gracefully: network or parse
failures still produce an actionable result list.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().IntVarP(&maxResults, "max", "m", envInt("UTUBE_MAX_RESULTS", 7), "maximum number of results")
	rootCmd.Flags().StringVarP(&thumbMode, "thumbnails", "t", envStr("UTUBE_THUMB_MODE", "channel"), "thumbnail mode (channel, video, none)")
	rootCmd.Flags().StringVarP(&layout, "layout", "l", envStr("UTUBE_LAYOUT", "inverted"), "result layout (classic, inverted, minimal)")
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", envStr("UTUBE_CACHE_DIR", ""), "thumbnail cache directory (default ~/.cache/utube)")
	rootCmd.Flags().StringVar(&lang, "lang", envStr("UTUBE_LANG", ""), "translation language (default from LANG)")
	rootCmd.Flags().StringVar(&translationsDir, "translations", "translations", "directory holding <lang>.json translation files")
	rootCmd.Flags().StringVar(&defaultIcon, "default-icon", "images/icon.png", "icon path used when no thumbnail resolves")
	rootCmd.Flags().BoolVar(&showMetrics, "metrics", false, "dump engine counters to stderr after the query")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func runSearch(cmd *cobra.Command, args []string) error {
	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	dir := cacheDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".cache", "utube")
	}
	if err := engine.EnsureCacheDir(dir); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	engine.TrimCache(dir, 100)

	translations := engine.LoadTranslations(translationsDir, engine.DetectLang(lang))

	engine.Init(engine.Config{
		MaxResults:   maxResults,
		ThumbMode:    engine.ThumbMode(thumbMode),
		Layout:       engine.Layout(layout),
		CacheDir:     dir,
		DefaultIcon:  defaultIcon,
		FetchTimeout: 3 * time.Second,
		I18n:         translations.Lookup,
	})

	records := engine.Search(cmd.Context(), strings.Join(args, " "))
	for i, r := range records {
		fmt.Printf("%d. %s\n", i+1, r.PrimaryText)
		if r.SecondaryText != "" {
			fmt.Printf("   %s\n", strings.ReplaceAll(r.SecondaryText, "\n", " "))
		}
		if r.ActionURL != "" {
			fmt.Printf("   %s\n", r.ActionURL)
		}
		fmt.Printf("   icon: %s\n", r.IconPath)
	}

	if showMetrics {
		fmt.Fprint(os.Stderr, engine.FormatMetrics())
	}
	return nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
