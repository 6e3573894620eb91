// Package types contains the core domain value types.
package types

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one billable event from the subscriber's usage history:
// a call, an SMS or a data session. Records are immutable; they are
// produced once by decoding a remote page or an archived export row
// and afterwards only copied or compared.
type Record struct {
	// Timestamp is when the event occurred, second precision, UTC.
	// It is the authoritative ordering key.
	Timestamp time.Time `json:"timestamp"`

	// Category is the provider's usage type tag (e.g. voice, SMS,
	// data). It is opaque: treated as an identity field, never
	// interpreted.
	Category string `json:"category"`

	// Direction is the provider-supplied call direction
	// (incoming, outgoing or neutral).
	Direction string `json:"direction"`

	// Quantity is the usage magnitude: seconds, message count or
	// kilobytes depending on Category. Always >= 0.
	Quantity int64 `json:"quantity"`

	// Cost is the charged amount in currency units. Always >= 0.
	Cost decimal.Decimal `json:"cost"`

	// Number is the other party's number.
	Number string `json:"number"`
}

// Key identifies "the same billable event observed twice": two records
// sharing a Key must be reconciled, not both retained. It is comparable
// and safe to use as a map key.
type Key struct {
	// Unix is the event timestamp as Unix seconds.
	Unix int64

	// Category is the provider's usage type tag.
	Category string
}

// Key returns the record's identity key.
func (r Record) Key() Key {
	return Key{Unix: r.Timestamp.Unix(), Category: r.Category}
}

// Less reports whether r is ordered before other. Ordering is defined
// by Timestamp alone; equal timestamps have no further tie-break.
func (r Record) Less(other Record) bool {
	return r.Timestamp.Before(other.Timestamp)
}

// Equal reports full-value equality. Exact duplicates must compare
// equal so that set-based deduplication collapses them.
func (r Record) Equal(other Record) bool {
	return r.Timestamp.Equal(other.Timestamp) &&
		r.Category == other.Category &&
		r.Direction == other.Direction &&
		r.Quantity == other.Quantity &&
		r.Cost.Equal(other.Cost) &&
		r.Number == other.Number
}

// Less reports whether k is ordered before other: by timestamp first,
// then category. This is the canonical output order of a merge.
func (k Key) Less(other Key) bool {
	if k.Unix != other.Unix {
		return k.Unix < other.Unix
	}
	return k.Category < other.Category
}

// SortRecords sorts records ascending by the defined ordering, in place.
// The sort is stable so that records with equal timestamps keep their
// arrival order.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Less(records[j])
	})
}
