// Package reconcile merges freshly normalized sources into the working set,
// diffs it against the previous snapshot and classifies what changed.
package reconcile

import (
	"errors"
	"sort"
	"time"

	"github.com/hyperifyio/betsbrasileiras/internal/bet"
)

// ErrNoChanges reports that reconciliation found nothing new. It is an
// expected outcome, not a failure.
var ErrNoChanges = errors.New("no new data or updated information")

// Result is the classified outcome of one reconciliation.
type Result struct {
	Added   []bet.Bet
	Updated []bet.Bet
	// Snapshot is the full merged set after back-fill.
	Snapshot []bet.Bet
}

// Reconciler diffs a merged working set against the baseline captured at
// the start of the run.
type Reconciler struct {
	// Now stamps missing timestamps. Nil means time.Now.
	Now func() time.Time
}

// Reconcile back-fills missing timestamps on merged in place, computes the
// records of merged that have no equal counterpart in original and splits
// them by whether their document was already known. original must be a copy
// taken before merged was mutated.
//
// Back-fill happens before the diff, so a record that only gained
// timestamps still counts as changed.
func (r Reconciler) Reconcile(original, merged []bet.Bet) (Result, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	stamp := now().UTC()
	for i := range merged {
		if merged[i].DateRegistered == nil {
			t := stamp
			merged[i].DateRegistered = &t
		}
		if merged[i].DateUpdated == nil {
			t := stamp
			merged[i].DateUpdated = &t
		}
	}

	var changed []bet.Bet
	for _, m := range merged {
		if contains(original, m) || contains(changed, m) {
			continue
		}
		changed = append(changed, m)
	}
	res := Result{Snapshot: merged}
	if len(changed) == 0 {
		return res, ErrNoChanges
	}

	known := make(map[string]struct{}, len(original))
	for _, o := range original {
		known[o.Document] = struct{}{}
	}
	for _, c := range changed {
		if _, ok := known[c.Document]; ok {
			res.Updated = append(res.Updated, c)
		} else {
			res.Added = append(res.Added, c)
		}
	}
	return res, nil
}

func contains(set []bet.Bet, b bet.Bet) bool {
	for _, s := range set {
		if s.Equal(b) {
			return true
		}
	}
	return false
}

// Sort orders records by their "number/year" sort key, compared as strings.
func Sort(bets []bet.Bet) {
	sort.SliceStable(bets, func(i, j int) bool { return bets[i].SortKey() < bets[j].SortKey() })
}
