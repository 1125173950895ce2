package app

import (
	"time"

	"github.com/hyperifyio/betsbrasileiras/internal/fetch"
	"github.com/hyperifyio/betsbrasileiras/internal/source"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Sources
	SnapshotURL     string `validate:"required"`
	ChangelogURL    string `validate:"required"`
	SPAURL          string `validate:"required_without=SPAPageURL"`
	SPAPageURL      string `validate:"omitempty,url"`
	SPALinkContains string

	// Output
	ResultDir   string `validate:"required"`
	Formats     string
	Archive     bool
	MetricsFile string

	// HTTP
	UserAgent   string
	HTTPTimeout time.Duration `validate:"gte=0"`
	CacheDir    string
	CacheMaxAge time.Duration `validate:"gte=0"`
	CacheClear  bool

	// Parsing and reporting
	Splice    bool
	FieldDiff bool

	// Publishing
	PublishProvider    string `validate:"omitempty,oneof=s3 gcs"`
	PublishBucket      string `validate:"required_with=PublishProvider"`
	PublishPrefix      string
	S3Region           string
	S3Endpoint         string `validate:"omitempty,url"`
	GCSCredentialsJSON string

	Verbose bool
}

// Flag defaults shared by main and ApplyFileConfig.
const (
	DefaultResultDir   = "result"
	DefaultHTTPTimeout = 60 * time.Second
	DefaultLinkFilter  = "lista"
)

// DefaultConfig returns the configuration of a plain run against the
// upstream sources.
func DefaultConfig() Config {
	return Config{
		SnapshotURL:     source.DefaultSnapshotURL,
		ChangelogURL:    source.DefaultChangelogURL,
		SPAURL:          source.DefaultSPAURL,
		SPALinkContains: DefaultLinkFilter,
		ResultDir:       DefaultResultDir,
		UserAgent:       fetch.DefaultUserAgent,
		HTTPTimeout:     DefaultHTTPTimeout,
	}
}
