// Package export renders the finalized record set into the published file
// formats.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
)

// Format names an output rendering; it doubles as the file extension.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatSQL      Format = "sql"
	FormatXML      Format = "xml"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"
)

// DefaultFormats are written on every run.
var DefaultFormats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatSQL, FormatXML}

var renderers = map[Format]func(io.Writer, []bet.Bet) error{
	FormatJSON:     WriteJSON,
	FormatCSV:      WriteCSV,
	FormatMarkdown: WriteMarkdown,
	FormatSQL:      WriteSQL,
	FormatXML:      WriteXML,
	FormatXLSX:     WriteXLSX,
	FormatPDF:      WritePDF,
}

// ParseFormats reads a comma-separated list such as "json,csv,xlsx".
// Blank input yields DefaultFormats.
func ParseFormats(s string) ([]Format, error) {
	if strings.TrimSpace(s) == "" {
		return append([]Format(nil), DefaultFormats...), nil
	}
	var out []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" || seen[f] {
			continue
		}
		if _, ok := renderers[f]; !ok {
			return nil, fmt.Errorf("unknown export format %q", part)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// FileName is the name a format is written under.
func FileName(f Format) string { return "bets." + string(f) }

// Writer writes one file per format into Dir.
type Writer struct {
	Dir     string
	Formats []Format
}

// WriteAll renders bets in every configured format and returns the written
// paths. bets must already be in publication order.
func (w Writer) WriteAll(bets []bet.Bet) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir result dir: %w", err)
	}
	formats := w.Formats
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		render, ok := renderers[f]
		if !ok {
			return paths, fmt.Errorf("unknown export format %q", f)
		}
		var buf bytes.Buffer
		if err := render(&buf, bets); err != nil {
			return paths, fmt.Errorf("render %s: %w", f, err)
		}
		path := filepath.Join(w.Dir, FileName(f))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		log.Debug().Str("format", string(f)).Str("path", path).Int("bytes", buf.Len()).Msg("export written")
		paths = append(paths, path)
	}
	return paths, nil
}
