package reconcile

import (
	"strings"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
)

// MergeStats counts how incoming records landed in the working set.
type MergeStats struct {
	Matched  int
	Changed  int
	Appended int
}

// Merge folds incoming records into working and returns the grown slice.
// Records are matched on document plus lower-cased domain (brand when the
// domain is blank). A match takes every non-blank incoming field; when that
// alters the business content its DateUpdated is cleared so back-fill stamps
// it. Unmatched records are appended without timestamps. Nothing is removed.
func Merge(working, incoming []bet.Bet) ([]bet.Bet, MergeStats) {
	var st MergeStats
	index := make(map[string]int, len(working)+len(incoming))
	for i, b := range working {
		if k := identity(b); k != "" {
			if _, ok := index[k]; !ok {
				index[k] = i
			}
		}
	}
	for _, in := range incoming {
		k := identity(in)
		if i, ok := index[k]; ok && k != "" {
			st.Matched++
			before := working[i]
			after := overlay(before.Clone(), in)
			if !before.SameContent(after) {
				after.DateUpdated = nil
				st.Changed++
			}
			working[i] = after
			continue
		}
		added := in.Clone()
		added.DateRegistered = nil
		added.DateUpdated = nil
		working = append(working, added)
		st.Appended++
		if k != "" {
			index[k] = len(working) - 1
		}
	}
	return working, st
}

func identity(b bet.Bet) string {
	doc := strings.TrimSpace(b.Document)
	if doc == "" {
		return ""
	}
	name := strings.TrimSpace(b.Domain)
	if name == "" {
		name = strings.TrimSpace(b.Brand)
	}
	return doc + "|" + strings.ToLower(name)
}

func overlay(dst, src bet.Bet) bet.Bet {
	if src.ApplicationNumber > 0 {
		dst.ApplicationNumber = src.ApplicationNumber
	}
	if src.ApplicationYear > 0 {
		dst.ApplicationYear = src.ApplicationYear
	}
	if s := strings.TrimSpace(src.FiscalName); s != "" {
		dst.FiscalName = s
	}
	if s := strings.TrimSpace(src.Brand); s != "" {
		dst.Brand = s
	}
	if s := strings.TrimSpace(src.Domain); s != "" {
		dst.Domain = s
	}
	return dst
}
