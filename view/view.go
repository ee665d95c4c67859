// view holds the camelCase, default-populated shapes consumed by UI
// code, together with the mapping from persisted rows and the sparse
// patch types used for partial updates. Mapping guarantees:
//  1. every optional field of a view model has an explicit default,
//     never a zero-surprise value
//  2. a patch only ever emits columns for fields that were set, a nil
//     pointer field means "not present" and is never written as NULL
package view

import (
	"time"

	"github.com/araddon/dateparse"
)

// DefaultProjectColor is the presentation color tag assigned when a
// row carries none.
const DefaultProjectColor = "bg-neutral-900"

// ParseInstant parses a textual timestamp as produced by the store's
// search procedures. Unparsable or empty input defaults to now, a
// view model never carries a zero instant.
func ParseInstant(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Now()
	}
	return t
}

// orNow substitutes now for a zero instant coming off a row.
func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
