// Package cmd implements the ytmeta command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ytmeta/internal/config"
	"ytmeta/internal/fetch"
	"ytmeta/internal/output"
	"ytmeta/internal/retry"
	"ytmeta/internal/youtube"
)

var (
	flagOutputDir string
	flagFormat    string
	flagExtractor string
	flagLanguage  string
	flagTimeout   time.Duration
	flagQuiet     bool
	flagDebug     bool
)

var rootCmd = &cobra.Command{
	Use:   "ytmeta <url>",
	Short: "Fetch YouTube video and playlist metadata with transcripts",
	Long: `ytmeta downloads the title, description, and transcript of a YouTube
video, or of every video in a playlist, and writes one JSON or text
file per video.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for output files (default \"output\")")
	rootCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "output format: json or text (default \"json\")")
	rootCmd.Flags().StringVar(&flagExtractor, "extractor", "", "extraction backend: library, ytdlp, or api (default \"library\")")
	rootCmd.Flags().StringVar(&flagLanguage, "lang", "", "caption language to prefer (default \"en\")")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-video fetch timeout (default 2m)")
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "log errors only")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, url string) error {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	format, err := output.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	writer := output.NewWriter(cfg.OutputDir, format)

	extractor, err := newExtractor(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fetcher := &fetch.Fetcher{
		Extractor:    extractor,
		Captions:     youtube.NewCaptionDownloader(nil),
		Writer:       writer,
		Language:     cfg.Language,
		VideoTimeout: cfg.FetchTimeout,
		Log:          log,
	}

	report, err := fetcher.Run(cmd.Context(), url)
	if report != nil {
		// Written paths go to stdout; everything else is logged to stderr.
		for _, res := range report.Results {
			if res.Err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), res.OutputPath)
			}
		}
		if len(report.Results) > 1 {
			log.Info().Int("succeeded", report.Succeeded()).Int("failed", report.Failed()).
				Msg("run complete")
		}
	}
	return err
}

// applyFlags overlays set command-line flags onto the loaded configuration.
// Flags take precedence over config files and environment variables.
func applyFlags(cfg *config.Config) {
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	if flagFormat != "" {
		cfg.Format = flagFormat
	}
	if flagExtractor != "" {
		cfg.Extractor = flagExtractor
	}
	if flagLanguage != "" {
		cfg.Language = flagLanguage
	}
	if flagTimeout > 0 {
		cfg.FetchTimeout = flagTimeout
	}
}

func newExtractor(ctx context.Context, cfg *config.Config) (youtube.Extractor, error) {
	rc := retry.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
		Multiplier:     cfg.BackoffMultiplier,
		JitterFraction: retry.DefaultConfig().JitterFraction,
	}

	switch cfg.Extractor {
	case config.ExtractorYtdlp:
		ex := youtube.NewYtdlpExtractor()
		ex.Path = cfg.YtdlpPath
		ex.RetryConfig = &rc
		return ex, nil
	case config.ExtractorAPI:
		return youtube.NewAPIClient(ctx, cfg.APIKey)
	default:
		ex := youtube.NewClient()
		ex.RetryConfig = &rc
		return ex, nil
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if flagQuiet {
		level = zerolog.ErrorLevel
	}
	if flagDebug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(level).With().
		Timestamp().
		Str("run_id", uuid.NewString()[:8]).
		Logger()
}
