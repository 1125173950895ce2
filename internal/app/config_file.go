package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/betsbrasileiras/internal/export"
	"github.com/hyperifyio/betsbrasileiras/internal/fetch"
	"github.com/hyperifyio/betsbrasileiras/internal/source"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags/env.
type FileConfig struct {
	Sources struct {
		Snapshot  string `yaml:"snapshot" json:"snapshot"`
		Changelog string `yaml:"changelog" json:"changelog"`
		SPA       struct {
			URL          string `yaml:"url" json:"url"`
			Page         string `yaml:"page" json:"page"`
			LinkContains string `yaml:"linkContains" json:"linkContains"`
		} `yaml:"spa" json:"spa"`
	} `yaml:"sources" json:"sources"`

	Output struct {
		Dir     string   `yaml:"dir" json:"dir"`
		Formats []string `yaml:"formats" json:"formats"`
		Archive bool     `yaml:"archive" json:"archive"`
		Metrics string   `yaml:"metrics" json:"metrics"`
	} `yaml:"output" json:"output"`

	HTTP struct {
		UserAgent string        `yaml:"userAgent" json:"userAgent"`
		Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	} `yaml:"http" json:"http"`

	Cache struct {
		Dir    string        `yaml:"dir" json:"dir"`
		MaxAge time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear  bool          `yaml:"clear" json:"clear"`
	} `yaml:"cache" json:"cache"`

	Parse struct {
		Splice bool `yaml:"splice" json:"splice"`
	} `yaml:"parse" json:"parse"`

	Changelog struct {
		FieldDiff bool `yaml:"fieldDiff" json:"fieldDiff"`
	} `yaml:"changelog" json:"changelog"`

	Publish struct {
		Provider string `yaml:"provider" json:"provider"`
		Bucket   string `yaml:"bucket" json:"bucket"`
		Prefix   string `yaml:"prefix" json:"prefix"`
		S3       struct {
			Region   string `yaml:"region" json:"region"`
			Endpoint string `yaml:"endpoint" json:"endpoint"`
		} `yaml:"s3" json:"s3"`
		GCS struct {
			CredentialsJSON string `yaml:"credentialsJSON" json:"credentialsJSON"`
		} `yaml:"gcs" json:"gcs"`
	} `yaml:"publish" json:"publish"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset or still at their flag default. Flags should already
// have been parsed; explicit flags are preserved.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, def, v string) {
		if (*dst == "" || *dst == def) && v != "" {
			*dst = v
		}
	}
	flag := func(dst *bool, v bool) {
		if !*dst && v {
			*dst = true
		}
	}

	str(&cfg.SnapshotURL, source.DefaultSnapshotURL, fc.Sources.Snapshot)
	str(&cfg.ChangelogURL, source.DefaultChangelogURL, fc.Sources.Changelog)
	str(&cfg.SPAURL, source.DefaultSPAURL, fc.Sources.SPA.URL)
	str(&cfg.SPAPageURL, "", fc.Sources.SPA.Page)
	str(&cfg.SPALinkContains, DefaultLinkFilter, fc.Sources.SPA.LinkContains)

	str(&cfg.ResultDir, DefaultResultDir, fc.Output.Dir)
	if cfg.Formats == "" && len(fc.Output.Formats) > 0 {
		cfg.Formats = strings.Join(fc.Output.Formats, ",")
	}
	flag(&cfg.Archive, fc.Output.Archive)
	str(&cfg.MetricsFile, "", fc.Output.Metrics)

	str(&cfg.UserAgent, fetch.DefaultUserAgent, fc.HTTP.UserAgent)
	if (cfg.HTTPTimeout == 0 || cfg.HTTPTimeout == DefaultHTTPTimeout) && fc.HTTP.Timeout > 0 {
		cfg.HTTPTimeout = fc.HTTP.Timeout
	}

	str(&cfg.CacheDir, "", fc.Cache.Dir)
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	flag(&cfg.CacheClear, fc.Cache.Clear)

	flag(&cfg.Splice, fc.Parse.Splice)
	flag(&cfg.FieldDiff, fc.Changelog.FieldDiff)

	str(&cfg.PublishProvider, "", fc.Publish.Provider)
	str(&cfg.PublishBucket, "", fc.Publish.Bucket)
	str(&cfg.PublishPrefix, "", fc.Publish.Prefix)
	str(&cfg.S3Region, "", fc.Publish.S3.Region)
	str(&cfg.S3Endpoint, "", fc.Publish.S3.Endpoint)
	str(&cfg.GCSCredentialsJSON, "", fc.Publish.GCS.CredentialsJSON)

	flag(&cfg.Verbose, fc.Verbose)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateConfig checks the struct tags on Config and that the export format
// list is understood.
func ValidateConfig(cfg Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed %q validation", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}
	if _, err := export.ParseFormats(cfg.Formats); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
