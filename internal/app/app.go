package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
	"github.com/hyperifyio/betsbrasileiras/internal/cache"
	"github.com/hyperifyio/betsbrasileiras/internal/changelog"
	"github.com/hyperifyio/betsbrasileiras/internal/export"
	"github.com/hyperifyio/betsbrasileiras/internal/extract"
	"github.com/hyperifyio/betsbrasileiras/internal/fetch"
	"github.com/hyperifyio/betsbrasileiras/internal/metrics"
	"github.com/hyperifyio/betsbrasileiras/internal/normalize"
	"github.com/hyperifyio/betsbrasileiras/internal/publish"
	"github.com/hyperifyio/betsbrasileiras/internal/reconcile"
	"github.com/hyperifyio/betsbrasileiras/internal/source"
)

// Outcome is how a run ended when it did not fail.
type Outcome int

const (
	// OutcomeWritten means changes were found and all outputs were written.
	OutcomeWritten Outcome = iota
	// OutcomeEmptySource means at least one source produced zero records;
	// nothing was written so a partial upstream cannot replace the snapshot.
	OutcomeEmptySource
	// OutcomeNoChanges means the merged set equals the previous snapshot.
	OutcomeNoChanges
)

var outcomeNames = []string{"written", "empty_source", "no_changes"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Names of the files written next to the exports.
const (
	ReleaseNotesFile = "release-notes.md"
	ChangelogFile    = "CHANGELOG.md"
)

type App struct {
	cfg      Config
	formats  []export.Format
	loader   *source.Loader
	metrics  *metrics.Metrics
	uploader publish.Uploader
	closers  []func() error
	now      func() time.Time
}

func New(ctx context.Context, cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	formats, err := export.ParseFormats(cfg.Formats)
	if err != nil {
		return nil, err
	}

	client := &fetch.Client{
		HTTPClient: newHTTPClient(cfg.HTTPTimeout),
		UserAgent:  cfg.UserAgent,
	}
	if cfg.CacheDir != "" {
		// Apply cache invalidation controls
		if cfg.CacheClear {
			if err := cache.Clear(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeOlderThan(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("cache purge failed")
			} else if n > 0 {
				log.Debug().Int("removed", n).Msg("cache entries purged")
			}
		}
		client.Cache = &cache.Store{Dir: cfg.CacheDir}
	}

	a := &App{
		cfg:     cfg,
		formats: formats,
		loader: &source.Loader{
			Getter:    client,
			Extractor: extract.LayoutExtractor{},
			Parser:    normalize.Parser{Splice: cfg.Splice},
		},
		metrics: metrics.New(),
		now:     time.Now,
	}

	switch cfg.PublishProvider {
	case "s3":
		u, err := publish.NewS3Uploader(ctx, publish.S3Config{Bucket: cfg.PublishBucket, Region: cfg.S3Region, Endpoint: cfg.S3Endpoint})
		if err != nil {
			return nil, err
		}
		a.uploader = u
	case "gcs":
		u, err := publish.NewGCSUploader(ctx, publish.GCSConfig{Bucket: cfg.PublishBucket, CredentialsJSON: cfg.GCSCredentialsJSON})
		if err != nil {
			return nil, err
		}
		a.uploader = u
		a.closers = append(a.closers, u.Close)
	}
	return a, nil
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

// Run executes one acquisition, reconciliation and publication cycle.
// Errors are failures; the empty-source and no-change conditions are
// reported through the Outcome with a nil error.
func (a *App) Run(ctx context.Context) (Outcome, error) {
	start := time.Now()
	outcome, err := a.run(ctx)
	if err != nil {
		return outcome, err
	}
	a.metrics.ObserveRun(start, outcome.String(), outcomeNames)
	if a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
			log.Warn().Err(err).Str("path", a.cfg.MetricsFile).Msg("metrics textfile not written")
		}
	}
	return outcome, nil
}

func (a *App) run(ctx context.Context) (Outcome, error) {
	log.Info().Msg("reading data files")

	snapshot, err := a.loader.LoadSnapshot(ctx, a.cfg.SnapshotURL)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}
	original := bet.CloneAll(snapshot)

	spa, st := a.loader.LoadSPA(ctx, source.SPA{
		PDFURL:       a.cfg.SPAURL,
		PageURL:      a.cfg.SPAPageURL,
		LinkContains: a.cfg.SPALinkContains,
	})

	counts := []struct {
		name string
		n    int
	}{{"Source", len(snapshot)}, {"SPA", len(spa)}}
	var summary, empty []string
	for _, c := range counts {
		summary = append(summary, fmt.Sprintf("%s: %d", c.name, c.n))
		if c.n == 0 {
			empty = append(empty, c.name)
		}
	}
	log.Info().Msg(strings.Join(summary, " | "))
	a.metrics.SourceRecords.WithLabelValues("snapshot").Set(float64(len(snapshot)))
	a.metrics.SourceRecords.WithLabelValues("spa").Set(float64(len(spa)))
	a.metrics.LinesSkipped.Add(float64(st.Skipped))

	if len(empty) > 0 {
		log.Error().Strs("sources", empty).Msg("items are empty")
		return OutcomeEmptySource, nil
	}

	merged, mst := reconcile.Merge(snapshot, spa)
	log.Debug().Int("matched", mst.Matched).Int("changed", mst.Changed).Int("appended", mst.Appended).Msg("sources merged")

	now := a.now()
	res, err := reconcile.Reconciler{Now: func() time.Time { return now }}.Reconcile(original, merged)
	if errors.Is(err, reconcile.ErrNoChanges) {
		log.Info().Msg("no new data or updated information")
		return OutcomeNoChanges, nil
	}
	if err != nil {
		return 0, err
	}
	for _, b := range res.Added {
		log.Info().Str("bet", b.String()).Msg("added")
	}
	for _, b := range res.Updated {
		log.Info().Str("bet", b.String()).Msg("updated")
	}
	a.metrics.Changes.WithLabelValues("added").Set(float64(len(res.Added)))
	a.metrics.Changes.WithLabelValues("updated").Set(float64(len(res.Updated)))

	// The history is needed before anything is written: a failure here must
	// not leave a half-written result directory.
	history, err := a.loader.LoadChangelog(ctx, a.cfg.ChangelogURL)
	if err != nil {
		return 0, fmt.Errorf("load changelog: %w", err)
	}
	fragment := changelog.Build(res.Added, res.Updated, changelog.Options{FieldDiff: a.cfg.FieldDiff, Previous: original})

	log.Info().Msg("saving result files")
	reconcile.Sort(res.Snapshot)
	if err := a.write(res, fragment, history, now); err != nil {
		return 0, err
	}
	a.metrics.SnapshotRecords.Set(float64(len(res.Snapshot)))

	if a.uploader != nil {
		n, err := publish.Directory(ctx, a.uploader, a.cfg.ResultDir, a.cfg.PublishPrefix)
		if err != nil {
			return 0, fmt.Errorf("publish: %w", err)
		}
		log.Info().Int("objects", n).Str("provider", a.cfg.PublishProvider).Msg("published")
	}

	log.Info().Int("bets", len(res.Snapshot)).Msg("merge done")
	return OutcomeWritten, nil
}

func (a *App) write(res reconcile.Result, fragment, history string, now time.Time) error {
	dir := a.cfg.ResultDir
	paths, err := export.Writer{Dir: dir, Formats: a.formats}.WriteAll(res.Snapshot)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ReleaseNotesFile), []byte(fragment), 0o644); err != nil {
		return fmt.Errorf("write release notes: %w", err)
	}
	merged := changelog.Merge(history, fragment, now)
	if err := os.WriteFile(filepath.Join(dir, ChangelogFile), []byte(merged), 0o644); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}

	digest, err := snapshotDigest(res.Snapshot)
	if err != nil {
		return err
	}
	files := []string{ReleaseNotesFile, ChangelogFile}
	for _, p := range paths {
		files = append(files, filepath.Base(p))
	}
	m := manifest{
		RunID:          uuid.NewString(),
		Version:        BuildVersion,
		Commit:         BuildCommit,
		GeneratedAt:    now.UTC(),
		Sources:        a.loader.Fetched(),
		Added:          len(res.Added),
		Updated:        len(res.Updated),
		Records:        len(res.Snapshot),
		SnapshotSHA256: digest,
		Files:          files,
	}
	if err := writeManifest(filepath.Join(dir, ManifestFile), m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := export.WriteChecksums(dir); err != nil {
		return fmt.Errorf("write checksums: %w", err)
	}
	if a.cfg.Archive {
		tarPath := filepath.Clean(dir) + ".tar.gz"
		if err := export.Archive(dir, tarPath); err != nil {
			return fmt.Errorf("archive results: %w", err)
		}
		log.Info().Str("path", tarPath).Msg("archive written")
	}
	return nil
}
