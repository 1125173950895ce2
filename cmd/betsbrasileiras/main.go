package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/betsbrasileiras/internal/app"
)

// Process exit codes. Automation treats ExitNoChanges as "nothing to commit".
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitEmptySource = 3
	ExitNoChanges   = 188
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(ExitFailure)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	outcome, err := run(cfg)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
	}
	os.Exit(exitCode(outcome, err))
}

func exitCode(outcome app.Outcome, err error) int {
	if err != nil {
		return ExitFailure
	}
	switch outcome {
	case app.OutcomeEmptySource:
		return ExitEmptySource
	case app.OutcomeNoChanges:
		return ExitNoChanges
	}
	return ExitOK
}

// loadConfig resolves configuration with precedence flags > env > config
// file > defaults. Flags are parsed twice: once to find the env and config
// files, then again on top of the merged values so only flags given on the
// command line win.
func loadConfig(args []string) (app.Config, error) {
	var configPath, envFile string
	probe := app.DefaultConfig()
	pre := newFlagSet(&probe, &configPath, &envFile)
	if err := pre.Parse(args); err != nil {
		return app.Config{}, err
	}

	if err := app.LoadEnvFiles(envFile); err != nil {
		return app.Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := app.DefaultConfig()
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	fs := newFlagSet(&cfg, &configPath, &envFile)
	if err := fs.Parse(args); err != nil {
		return app.Config{}, err
	}
	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

func newFlagSet(cfg *app.Config, configPath, envFile *string) *flag.FlagSet {
	fs := flag.NewFlagSet("betsbrasileiras", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(configPath, "config", os.Getenv("BETS_CONFIG"), "Path to a YAML or JSON config file")
	fs.StringVar(envFile, "env", ".env", "Dotenv file loaded before reading the environment")

	fs.StringVar(&cfg.SnapshotURL, "snapshot", cfg.SnapshotURL, "URL or path of the previous bets.json snapshot")
	fs.StringVar(&cfg.ChangelogURL, "changelog", cfg.ChangelogURL, "URL or path of the historical CHANGELOG.md")
	fs.StringVar(&cfg.SPAURL, "spa.url", cfg.SPAURL, "Fixed URL of the SPA authorization PDF")
	fs.StringVar(&cfg.SPAPageURL, "spa.page", cfg.SPAPageURL, "HTML page to discover the current SPA PDF link from")
	fs.StringVar(&cfg.SPALinkContains, "spa.linkContains", cfg.SPALinkContains, "Substring the discovered PDF link must contain")

	fs.StringVar(&cfg.ResultDir, "out", cfg.ResultDir, "Directory the result files are written to")
	fs.StringVar(&cfg.Formats, "formats", cfg.Formats, "Comma-separated export formats (json,csv,md,sql,xml,xlsx,pdf)")
	fs.BoolVar(&cfg.Archive, "archive", cfg.Archive, "Also write <out>.tar.gz")
	fs.StringVar(&cfg.MetricsFile, "metrics.file", cfg.MetricsFile, "Write Prometheus textfile metrics to this path")

	fs.StringVar(&cfg.UserAgent, "http.ua", cfg.UserAgent, "User-Agent sent with every request")
	fs.DurationVar(&cfg.HTTPTimeout, "http.timeout", cfg.HTTPTimeout, "Per-request HTTP timeout")
	fs.StringVar(&cfg.CacheDir, "cache.dir", cfg.CacheDir, "Conditional-GET cache directory; empty disables")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", cfg.CacheMaxAge, "Max age for cache entries before purge; 0 disables")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", cfg.CacheClear, "Clear cache directory before run")

	fs.BoolVar(&cfg.Splice, "parse.splice", cfg.Splice, "Rejoin PDF rows wrapped across lines")
	fs.BoolVar(&cfg.FieldDiff, "changelog.fieldDiff", cfg.FieldDiff, "List changed fields of updated records")

	fs.StringVar(&cfg.PublishProvider, "publish.provider", cfg.PublishProvider, "Upload results to s3 or gcs")
	fs.StringVar(&cfg.PublishBucket, "publish.bucket", cfg.PublishBucket, "Destination bucket")
	fs.StringVar(&cfg.PublishPrefix, "publish.prefix", cfg.PublishPrefix, "Object key prefix")
	fs.StringVar(&cfg.S3Region, "s3.region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3Endpoint, "s3.endpoint", cfg.S3Endpoint, "S3-compatible endpoint URL")

	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	return fs
}

func run(cfg app.Config) (app.Outcome, error) {
	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
