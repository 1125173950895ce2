package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
	"github.com/hyperifyio/betsbrasileiras/internal/extract"
)

// FullLinePattern matches one complete authorization row of the regulator's
// listing: number/year, fiscal name, CNPJ, brand and domain.
var FullLinePattern = regexp.MustCompile(`(?i)(?P<application_number>\d{4})/(?P<application_year>\d{4})\s+(?P<name>.+)\s+(?P<document>\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2})\s+(?P<brand>.+?)\s(?P<domain>.+)$`)

var (
	groupNumber   = FullLinePattern.SubexpIndex("application_number")
	groupYear     = FullLinePattern.SubexpIndex("application_year")
	groupName     = FullLinePattern.SubexpIndex("name")
	groupDocument = FullLinePattern.SubexpIndex("document")
	groupBrand    = FullLinePattern.SubexpIndex("brand")
	groupDomain   = FullLinePattern.SubexpIndex("domain")
)

// ParseLine converts a single full row into a record. It reports false when
// the line does not match or a numeric group cannot be parsed.
func ParseLine(line string) (bet.Bet, bool) {
	m := FullLinePattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return bet.Bet{}, false
	}
	number, err := strconv.Atoi(field(m, groupNumber))
	if err != nil {
		return bet.Bet{}, false
	}
	year, err := strconv.Atoi(field(m, groupYear))
	if err != nil {
		return bet.Bet{}, false
	}
	b := bet.Bet{
		ApplicationNumber: number,
		ApplicationYear:   year,
		FiscalName:        field(m, groupName),
		Brand:             field(m, groupBrand),
		Domain:            field(m, groupDomain),
	}
	b.SetDocument(field(m, groupDocument))
	return b, true
}

func field(m []string, i int) string {
	return norm.NFC.String(strings.TrimSpace(m[i]))
}

// Stats counts what a parse pass did with the lines it saw.
type Stats struct {
	Pages   int
	Matched int
	// Skipped counts non-blank lines that produced no record.
	Skipped int
	// Spliced counts records recovered by joining continuation lines.
	Spliced int
}

func (s *Stats) add(o Stats) {
	s.Pages += o.Pages
	s.Matched += o.Matched
	s.Skipped += o.Skipped
	s.Spliced += o.Spliced
}

// Parser turns extracted page text into records.
//
// By default only lines matching FullLinePattern on their own produce
// records. With Splice set, non-matching lines are buffered and the joined
// buffer is tried against the same pattern when the next full row arrives and
// at the end of the page, which recovers rows the PDF wrapped over several
// lines. Splicing has not been validated against every published listing.
type Parser struct {
	Splice bool
}

// ParsePage parses one page of text in line order.
func (p Parser) ParsePage(text string) ([]bet.Bet, Stats) {
	var out []bet.Bet
	st := Stats{Pages: 1}
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		if b, ok := ParseLine(strings.Join(buf, " ")); ok {
			out = append(out, b)
			st.Spliced++
		} else {
			st.Skipped += len(buf)
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b, ok := ParseLine(line)
		if !ok {
			if p.Splice {
				buf = append(buf, line)
			} else {
				st.Skipped++
				log.Debug().Str("line", line).Msg("pdf line skipped")
			}
			continue
		}
		flush()
		out = append(out, b)
		st.Matched++
	}
	flush()
	return out, st
}

// ParsePages parses pages in order and concatenates their records.
func (p Parser) ParsePages(pages []extract.Page) ([]bet.Bet, Stats) {
	var out []bet.Bet
	var total Stats
	for _, pg := range pages {
		recs, st := p.ParsePage(pg.Text)
		log.Debug().Int("page", pg.Number).Int("records", len(recs)).Int("skipped", st.Skipped).Msg("pdf page parsed")
		out = append(out, recs...)
		total.add(st)
	}
	return out, total
}
