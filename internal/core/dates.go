package core

import (
	"slices"
	"strings"
	"time"
)

// DisplayDateLayout matches the en-US "medium" date style, e.g. "Jan 2, 2006".
const DisplayDateLayout = "Jan 2, 2006"

var postedDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 posted date, with or without time and zone.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO date for display. Values that do not parse are
// returned unchanged.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format(DisplayDateLayout)
}

// SortByPostedDesc returns a copy of txs ordered most recent first.
// The sort is stable: transactions sharing a posted date keep the order the
// backend returned them in. Dates that do not parse go last.
func SortByPostedDesc(txs []Transaction) []Transaction {
	type keyed struct {
		at time.Time
		ok bool
		tx Transaction
	}
	items := make([]keyed, len(txs))
	for i, tx := range txs {
		at, ok := ParseDate(tx.PostedDate)
		items[i] = keyed{at: at, ok: ok, tx: tx}
	}
	slices.SortStableFunc(items, func(a, b keyed) int {
		switch {
		case a.ok && !b.ok:
			return -1
		case !a.ok && b.ok:
			return 1
		case !a.ok && !b.ok:
			return 0
		}
		return b.at.Compare(a.at)
	})
	out := make([]Transaction, len(items))
	for i, it := range items {
		out[i] = it.tx
	}
	return out
}
