package app

import (
	"os"
	"strings"
	"time"
)

// ApplyEnvOverrides forcefully overrides cfg fields with BETS_* environment
// variables when they are set. This lets env take precedence over values
// coming from a config file while flags remain highest precedence.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setStr := func(dst *string, envKey string) {
		if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
			*dst = v
		}
	}
	setStr(&cfg.SnapshotURL, "BETS_SNAPSHOT_URL")
	setStr(&cfg.ChangelogURL, "BETS_CHANGELOG_URL")
	setStr(&cfg.SPAURL, "BETS_SPA_URL")
	setStr(&cfg.SPAPageURL, "BETS_SPA_PAGE_URL")
	setStr(&cfg.SPALinkContains, "BETS_SPA_LINK_CONTAINS")
	setStr(&cfg.ResultDir, "BETS_RESULT_DIR")
	setStr(&cfg.Formats, "BETS_FORMATS")
	setStr(&cfg.MetricsFile, "BETS_METRICS_FILE")
	setStr(&cfg.UserAgent, "BETS_USER_AGENT")
	setStr(&cfg.CacheDir, "BETS_CACHE_DIR")
	setStr(&cfg.PublishProvider, "BETS_PUBLISH_PROVIDER")
	setStr(&cfg.PublishBucket, "BETS_PUBLISH_BUCKET")
	setStr(&cfg.PublishPrefix, "BETS_PUBLISH_PREFIX")
	setStr(&cfg.S3Region, "BETS_S3_REGION")
	setStr(&cfg.S3Endpoint, "BETS_S3_ENDPOINT")
	setStr(&cfg.GCSCredentialsJSON, "GCS_CREDENTIALS_JSON")

	setDur := func(dst *time.Duration, envKey string) {
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDur(&cfg.HTTPTimeout, "BETS_HTTP_TIMEOUT")
	setDur(&cfg.CacheMaxAge, "BETS_CACHE_MAX_AGE")

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.Archive, "BETS_ARCHIVE")
	setBool(&cfg.CacheClear, "BETS_CACHE_CLEAR")
	setBool(&cfg.Splice, "BETS_SPLICE")
	setBool(&cfg.FieldDiff, "BETS_FIELD_DIFF")
	setBool(&cfg.Verbose, "BETS_VERBOSE")
}
