// Package source acquires the raw inputs of a run: the published snapshot,
// the regulator's PDF listing and the historical changelog.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
	"github.com/hyperifyio/betsbrasileiras/internal/extract"
	"github.com/hyperifyio/betsbrasileiras/internal/normalize"
)

// Default locations of the upstream inputs.
const (
	DefaultSnapshotURL  = "https://raw.githubusercontent.com/guibranco/BetsBrasileiras/main/data/bets.json"
	DefaultChangelogURL = "https://raw.githubusercontent.com/guibranco/BetsBrasileiras/main/CHANGELOG.md"
	DefaultSPAURL       = "https://www.gov.br/fazenda/pt-br/composicao/orgaos/secretaria-de-premios-e-apostas/lista-de-empresas/lista-bets-14-01.pdf"
)

// Getter is the subset of fetch.Client used by loaders.
type Getter interface {
	GetBytes(ctx context.Context, rawURL string) ([]byte, error)
	GetText(ctx context.Context, rawURL string) (string, error)
}

// Fetched describes one downloaded input for the run manifest.
type Fetched struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	SHA256  string `json:"sha256"`
	Bytes   int    `json:"bytes"`
	Records int    `json:"records"`
}

// Loader downloads and normalizes every source of a run and remembers what
// it fetched.
type Loader struct {
	Getter    Getter
	Extractor extract.PageExtractor
	Parser    normalize.Parser

	fetched []Fetched
}

// Fetched returns the inputs downloaded so far, in fetch order.
func (l *Loader) Fetched() []Fetched {
	return append([]Fetched(nil), l.fetched...)
}

func (l *Loader) record(name, location string, data []byte, records int) {
	sum := sha256.Sum256(data)
	l.fetched = append(l.fetched, Fetched{
		Name:    name,
		URL:     location,
		SHA256:  hex.EncodeToString(sum[:]),
		Bytes:   len(data),
		Records: records,
	})
}

// LoadSnapshot reads the previous snapshot from an http(s) URL or a local
// file. Any failure is returned: the snapshot is the diff baseline and the
// run cannot continue without it.
func (l *Loader) LoadSnapshot(ctx context.Context, location string) ([]bet.Bet, error) {
	log.Info().Str("source", "snapshot").Str("location", location).Msg("downloading base")
	var data []byte
	if isRemote(location) {
		text, err := l.Getter.GetText(ctx, location)
		if err != nil {
			return nil, err
		}
		data = []byte(text)
	} else {
		b, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		data = b
	}
	bets, err := normalize.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	l.record("snapshot", location, data, len(bets))
	return bets, nil
}

// FetchPages downloads a PDF and returns its pages in document order. A
// download or open failure is logged and yields no pages.
func (l *Loader) FetchPages(ctx context.Context, pdfURL string) []extract.Page {
	pages, _ := l.fetchPages(ctx, pdfURL)
	return pages
}

func (l *Loader) fetchPages(ctx context.Context, pdfURL string) ([]extract.Page, []byte) {
	log.Info().Str("url", pdfURL).Msg("downloading")
	data, err := l.Getter.GetBytes(ctx, pdfURL)
	if err != nil {
		log.Error().Err(err).Str("url", pdfURL).Msg("error downloading")
		return []extract.Page{}, nil
	}
	pages, err := l.extractor().Pages(data)
	if err != nil {
		log.Error().Err(err).Str("url", pdfURL).Msg("error opening pdf")
		return []extract.Page{}, data
	}
	return pages, data
}

func (l *Loader) extractor() extract.PageExtractor {
	if l.Extractor != nil {
		return l.Extractor
	}
	return extract.LayoutExtractor{}
}

// SPA locates the regulator's PDF listing.
type SPA struct {
	// PDFURL is the listing itself; used directly or as the fallback when
	// discovery finds nothing.
	PDFURL string
	// PageURL, when set, is an HTML page whose first PDF link matching
	// LinkContains is used instead of PDFURL.
	PageURL      string
	LinkContains string
}

// LoadSPA acquires and parses the regulator's PDF. Failures degrade to an
// empty result; the caller's empty-source check decides what that means.
func (l *Loader) LoadSPA(ctx context.Context, spa SPA) ([]bet.Bet, normalize.Stats) {
	pdfURL := l.resolveSPA(ctx, spa)
	if pdfURL == "" {
		log.Error().Msg("no SPA listing URL configured or discovered")
		return []bet.Bet{}, normalize.Stats{}
	}
	pages, data := l.fetchPages(ctx, pdfURL)
	bets, st := l.Parser.ParsePages(pages)
	if bets == nil {
		bets = []bet.Bet{}
	}
	if data != nil {
		l.record("spa", pdfURL, data, len(bets))
	}
	log.Info().Str("source", "spa").Int("pages", st.Pages).Int("records", len(bets)).Int("skipped", st.Skipped).Int("spliced", st.Spliced).Msg("pdf parsed")
	return bets, st
}

func (l *Loader) resolveSPA(ctx context.Context, spa SPA) string {
	if spa.PageURL == "" {
		return spa.PDFURL
	}
	html, err := l.Getter.GetText(ctx, spa.PageURL)
	if err != nil {
		log.Warn().Err(err).Str("page", spa.PageURL).Msg("listing page unavailable, using fixed PDF URL")
		return spa.PDFURL
	}
	base, err := url.Parse(spa.PageURL)
	if err != nil {
		return spa.PDFURL
	}
	for _, link := range extract.PDFLinks([]byte(html), base) {
		if spa.LinkContains == "" || strings.Contains(strings.ToLower(link), strings.ToLower(spa.LinkContains)) {
			log.Info().Str("page", spa.PageURL).Str("pdf", link).Msg("discovered listing")
			return link
		}
	}
	log.Warn().Str("page", spa.PageURL).Msg("no PDF link found, using fixed PDF URL")
	return spa.PDFURL
}

// LoadChangelog fetches the historical changelog text.
func (l *Loader) LoadChangelog(ctx context.Context, location string) (string, error) {
	var text string
	if isRemote(location) {
		t, err := l.Getter.GetText(ctx, location)
		if err != nil {
			return "", err
		}
		text = t
	} else {
		b, err := os.ReadFile(location)
		if err != nil {
			return "", fmt.Errorf("read changelog: %w", err)
		}
		text = string(b)
	}
	l.record("changelog", location, []byte(text), 0)
	return text, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
