// Package reconcile merges overlapping record collections into one
// canonical, deduplicated set.
package reconcile

import (
	"sort"

	"virgin-history/core/types"
	"virgin-history/internal/errors"
)

// DataCategory is the provider's data-usage tag. Data quantities drift
// upward between snapshots of the same period, so it is the one
// category where differing duplicates are expected.
const DataCategory = "DATA"

// DriftPolicy reports whether a category tolerates quantity drift
// between snapshots. For a tolerant category the largest observed
// quantity wins (the provider under-reports and catches up, never the
// reverse); for any other category differing quantities are a
// consistency violation.
type DriftPolicy func(category string) bool

// DefaultDriftPolicy tolerates drift only for the data-usage category.
func DefaultDriftPolicy(category string) bool {
	return category == DataCategory
}

// DriftCategories builds a policy tolerating exactly the given
// categories.
func DriftCategories(categories ...string) DriftPolicy {
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return func(category string) bool {
		_, ok := set[category]
		return ok
	}
}

// Merge reconciles the given collections, which may overlap in time or
// repeat whole exports, into one collection with a single record per
// identity key, in ascending key order.
//
// Per key, the record with the largest quantity is kept. If quantities
// differ on a key whose category the policy does not mark as
// drift-tolerant, Merge fails with a conflict error: an unexplained
// mismatch on such a category means broken inputs, not snapshot drift.
//
// Merge is idempotent and, absent conflicts, commutative and
// associative over the set of input collections.
func Merge(policy DriftPolicy, collections ...[]types.Record) ([]types.Record, error) {
	if policy == nil {
		policy = DefaultDriftPolicy
	}

	byKey := make(map[types.Key][]types.Record)
	for _, collection := range collections {
		for _, r := range collection {
			k := r.Key()
			byKey[k] = append(byKey[k], r)
		}
	}

	keys := make([]types.Key, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	merged := make([]types.Record, 0, len(keys))
	for _, k := range keys {
		r, err := resolve(policy, k, byKey[k])
		if err != nil {
			return nil, err
		}
		merged = append(merged, r)
	}
	return merged, nil
}

// resolve picks the representative record for one identity key. The
// pick depends only on the set of observed records, never on their
// arrival order, so the merge stays commutative.
func resolve(policy DriftPolicy, k types.Key, observed []types.Record) (types.Record, error) {
	best := observed[0]
	drifted := false
	for _, r := range observed[1:] {
		if r.Quantity != best.Quantity {
			drifted = true
		}
		if r.Quantity > best.Quantity || (r.Quantity == best.Quantity && outranks(r, best)) {
			best = r
		}
	}

	if drifted && !policy(k.Category) {
		return types.Record{}, errors.Conflict(
			"conflicting quantities for duplicate record").
			WithContext("timestamp", best.Timestamp).
			WithContext("category", k.Category)
	}
	return best, nil
}

// outranks is the deterministic tie-break between records with equal
// quantities: highest cost wins, then direction, then number.
func outranks(a, b types.Record) bool {
	if c := a.Cost.Cmp(b.Cost); c != 0 {
		return c > 0
	}
	if a.Direction != b.Direction {
		return a.Direction > b.Direction
	}
	return a.Number > b.Number
}
