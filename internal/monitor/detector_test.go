package monitor

import (
	"testing"

	"tableside/internal/order"
)

func snapshot(ids ...string) []order.Order {
	orders := make([]order.Order, 0, len(ids))
	for _, id := range ids {
		orders = append(orders, order.Order{ID: id, TableNumber: "1"})
	}
	return orders
}

func idsOf(orders []order.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDetectFlagsEverythingAtStartup(t *testing.T) {
	d := NewDetector()
	fresh := d.Detect(snapshot("a", "b", "c"))
	if got := idsOf(fresh); !equalIDs(got, []string{"a", "b", "c"}) {
		t.Fatalf("fresh = %v, want [a b c]", got)
	}
}

func TestDetectReturnsSetDifferenceInSnapshotOrder(t *testing.T) {
	d := NewDetector()
	d.Detect(snapshot("a", "b"))
	fresh := d.Detect(snapshot("c", "a", "d", "b"))
	if got := idsOf(fresh); !equalIDs(got, []string{"c", "d"}) {
		t.Fatalf("fresh = %v, want [c d]", got)
	}
}

func TestContentChangesAreNotArrivals(t *testing.T) {
	d := NewDetector()
	d.Detect([]order.Order{{ID: "a", Total: 100}})
	fresh := d.Detect([]order.Order{{ID: "a", Total: 999}})
	if len(fresh) != 0 {
		t.Fatalf("mutated known order flagged as arrival: %v", idsOf(fresh))
	}
}

// Clear-then-reorder on the same table: an identifier that leaves the
// snapshot and later returns must be flagged new again because the
// known set is replaced wholesale, not merged.
func TestReappearingIdentifierIsFlaggedAgain(t *testing.T) {
	d := NewDetector()
	d.Detect(snapshot("a", "b"))
	d.Detect(snapshot("b")) // table with "a" cleared
	fresh := d.Detect(snapshot("a", "b"))
	if got := idsOf(fresh); !equalIDs(got, []string{"a"}) {
		t.Fatalf("fresh = %v, want [a]", got)
	}
}

func TestClearShrinksKnownSet(t *testing.T) {
	d := NewDetector()
	d.Detect(snapshot("a", "b", "c"))
	d.Detect(snapshot("b"))
	if d.KnownCount() != 1 {
		t.Fatalf("known count = %d, want 1", d.KnownCount())
	}
}
