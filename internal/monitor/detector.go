// internal/monitor/detector.go
//
// Arrival detection over polled snapshots. There is no push channel:
// the backend is asked for the full order list on an interval and new
// arrivals are whatever identifiers the previous snapshot did not
// contain.

package monitor

import "tableside/internal/order"

// Detector tracks the set of order identifiers known from the last
// processed snapshot. Not safe for concurrent use; Session serializes
// access.
type Detector struct {
	known map[string]struct{}
}

// NewDetector starts with an empty known set, so the first snapshot
// after startup flags every order as new.
func NewDetector() *Detector {
	return &Detector{known: map[string]struct{}{}}
}

// Detect returns the orders in snapshot whose identifier is absent
// from the known set, preserving snapshot order, then replaces the
// known set wholesale with the snapshot's identifiers. Replacing
// rather than merging means an order that disappears (table cleared)
// and later reappears under the same identifier is flagged new again,
// and content changes to a known order are never arrivals.
func (d *Detector) Detect(snapshot []order.Order) []order.Order {
	var fresh []order.Order
	for _, o := range snapshot {
		if _, seen := d.known[o.ID]; !seen {
			fresh = append(fresh, o)
		}
	}
	d.known = order.IDs(snapshot)
	return fresh
}

// KnownCount reports the size of the current known set.
func (d *Detector) KnownCount() int {
	return len(d.known)
}
