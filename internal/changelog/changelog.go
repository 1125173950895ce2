// Package changelog renders the markdown change entry of a run and merges
// it into the project's historical CHANGELOG.
package changelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
)

// Heading is the anchor new entries are inserted under.
const Heading = "## Changelog"

const projectLink = "[BetsBrasileiras](https://github.com/guibranco/BetsBrasileiras)"

// Options tunes Build.
type Options struct {
	// FieldDiff lists each updated record with its changed fields. It needs
	// Previous to find the prior version of a record.
	FieldDiff bool
	Previous  []bet.Bet
}

// FieldChange is one changed field of an updated record.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Build renders the change entry for added and updated records. Empty
// categories produce no lines; no changes at all produce "".
func Build(added, updated []bet.Bet, opts Options) string {
	var b strings.Builder
	if len(added) > 0 {
		fmt.Fprintf(&b, "- Added %d %s\n", len(added), plural(len(added)))
		for _, a := range added {
			fmt.Fprintf(&b, "  - %s - %s\n", a.FiscalName, a.Document)
		}
	}
	if len(updated) > 0 {
		fmt.Fprintf(&b, "- Updated %d %s\n", len(updated), plural(len(updated)))
		if opts.FieldDiff {
			writeFieldDiff(&b, updated, opts.Previous)
		}
	}
	return b.String()
}

func writeFieldDiff(b *strings.Builder, updated, previous []bet.Bet) {
	byDoc := make(map[string]bet.Bet, len(previous))
	for _, p := range previous {
		if _, ok := byDoc[p.Document]; !ok {
			byDoc[p.Document] = p
		}
	}
	for _, u := range updated {
		fmt.Fprintf(b, "  - %s - %s\n", u.FiscalName, u.Document)
		old, ok := byDoc[u.Document]
		if !ok {
			continue
		}
		for _, c := range Diff(old, u) {
			fmt.Fprintf(b, "    - **%s**: %s **->** %s\n", c.Field, c.Old, c.New)
		}
	}
}

func plural(n int) string {
	if n == 1 {
		return "bank"
	}
	return "banks"
}

// Diff lists the business fields that differ between old and new, in column
// order. Timestamps are not reported.
func Diff(old, new bet.Bet) []FieldChange {
	var out []FieldChange
	for _, c := range bet.Columns {
		if strings.HasPrefix(c.Field, "date_") {
			continue
		}
		ov, nv := c.Value(old), c.Value(new)
		if ov != nv {
			out = append(out, FieldChange{Field: c.DisplayName, Old: ov, New: nv})
		}
	}
	return out
}

// Entry wraps a change fragment in its dated heading.
func Entry(fragment string, date time.Time) string {
	return fmt.Sprintf("### %s - %s\n\n%s", date.Format("2006-01-02"), projectLink, fragment)
}

// Merge inserts the dated entry directly below the Changelog heading of
// history, so the newest entry comes first. Line endings are normalized to
// LF. When history has no heading one is appended first.
func Merge(history, fragment string, date time.Time) string {
	history = strings.ReplaceAll(history, "\r\n", "\n")
	entry := Entry(fragment, date)

	anchor := Heading + "\n\n"
	i := strings.Index(history, anchor)
	if i < 0 {
		if j := strings.Index(history, Heading+"\n"); j >= 0 {
			history = history[:j] + anchor + history[j+len(Heading)+1:]
			i = j
		} else if strings.HasSuffix(history, Heading) {
			history += "\n\n"
			i = len(history) - len(anchor)
		} else {
			if history != "" && !strings.HasSuffix(history, "\n") {
				history += "\n"
			}
			if history != "" {
				history += "\n"
			}
			i = len(history)
			history += anchor
		}
	}
	at := i + len(anchor)
	return history[:at] + entry + "\n" + history[at:]
}
