// Package bet defines the canonical betting-brand authorization record that
// every source normalizes into.
package bet

import (
	"fmt"
	"strings"
	"time"
)

// Bet is one regulated betting-brand authorization. ApplicationNumber and
// ApplicationYear form the business key; Document is the identity key used
// to tell updates from additions.
type Bet struct {
	ApplicationNumber int
	ApplicationYear   int
	Document          string
	FiscalName        string
	Brand             string
	Domain            string
	DateRegistered    *time.Time
	DateUpdated       *time.Time
}

// SetDocument stores the normalized form of raw. Blank input is ignored.
func (b *Bet) SetDocument(raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	b.Document = NormalizeDocument(raw)
}

// SetApplicationNumber parses a zero-padded number. Unparseable or negative
// input leaves the current value untouched.
func (b *Bet) SetApplicationNumber(s string) {
	if n, ok := parseNonNegative(s); ok {
		b.ApplicationNumber = n
	}
}

// SetApplicationYear parses a zero-padded year with the same rules as
// SetApplicationNumber.
func (b *Bet) SetApplicationYear(s string) {
	if n, ok := parseNonNegative(s); ok {
		b.ApplicationYear = n
	}
}

func (b Bet) ApplicationNumberString() string { return fmt.Sprintf("%04d", b.ApplicationNumber) }
func (b Bet) ApplicationYearString() string   { return fmt.Sprintf("%04d", b.ApplicationYear) }

// Key returns the business key in NNNN/YYYY form.
func (b Bet) Key() string {
	return b.ApplicationNumberString() + "/" + b.ApplicationYearString()
}

// SortKey is the unpadded "number/year" string used to order exports.
// Ordering is lexical on this string, not numeric.
func (b Bet) SortKey() string {
	return fmt.Sprintf("%d/%d", b.ApplicationNumber, b.ApplicationYear)
}

// SameContent compares every field except the two timestamps.
func (b Bet) SameContent(o Bet) bool {
	return b.ApplicationNumber == o.ApplicationNumber &&
		b.ApplicationYear == o.ApplicationYear &&
		b.Document == o.Document &&
		b.FiscalName == o.FiscalName &&
		b.Brand == o.Brand &&
		b.Domain == o.Domain
}

// Equal compares every field, timestamps included.
func (b Bet) Equal(o Bet) bool {
	return b.SameContent(o) && sameTime(b.DateRegistered, o.DateRegistered) && sameTime(b.DateUpdated, o.DateUpdated)
}

// Clone returns a copy that shares no pointers with b.
func (b Bet) Clone() Bet {
	c := b
	c.DateRegistered = cloneTime(b.DateRegistered)
	c.DateUpdated = cloneTime(b.DateUpdated)
	return c
}

// CloneAll copies a record set so later in-place mutation of the input
// cannot leak into the copy.
func CloneAll(in []Bet) []Bet {
	out := make([]Bet, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

func (b Bet) String() string {
	return fmt.Sprintf("%s %s | %s | %s | %s", b.Key(), b.Document, b.FiscalName, b.Brand, b.Domain)
}

// FormatTime renders an optional timestamp for tabular exports.
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
