package billing

import (
	"reflect"
	"testing"

	"tableside/internal/order"
)

func ref(id, name string) *order.MenuItemRef {
	return &order.MenuItemRef{ID: id, Name: name}
}

func TestGroupByTableAccumulatesRunningTotal(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", TableNumber: "5", Items: []order.LineItem{{Item: ref("x", "Thali"), Quantity: 2, Price: 100}}},
		{ID: "o2", TableNumber: "5", Items: []order.LineItem{{Item: ref("y", "Lassi"), Quantity: 1, Price: 50}}},
	}
	groups := GroupByTable(orders)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	g := groups[0]
	if g.Table != "5" {
		t.Fatalf("table = %q, want 5", g.Table)
	}
	if len(g.Orders) != 2 {
		t.Fatalf("member orders = %d, want 2", len(g.Orders))
	}
	if got := g.Total.String(); got != "250" {
		t.Fatalf("running total = %s, want 250", got)
	}
}

func TestGroupByTableFirstSeenOrder(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", TableNumber: "12"},
		{ID: "o2", TableNumber: "3"},
		{ID: "o3", TableNumber: "12"},
		{ID: "o4", TableNumber: "1"},
	}
	groups := GroupByTable(orders)
	var tables []order.TableID
	for _, g := range groups {
		tables = append(tables, g.Table)
	}
	want := []order.TableID{"12", "3", "1"}
	if !reflect.DeepEqual(tables, want) {
		t.Fatalf("table order = %v, want %v (first appearance, not numeric)", tables, want)
	}
}

func TestGroupByTableIsIdempotent(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", TableNumber: "2", Items: []order.LineItem{{Item: ref("x", "Chai"), Quantity: 3, Price: 15}}},
		{ID: "o2", TableNumber: "1"},
	}
	first := GroupByTable(orders)
	second := GroupByTable(orders)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("GroupByTable is not a pure function of its input")
	}
}

func TestZeroItemOrderContributesNothing(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", TableNumber: "7"},
	}
	groups := GroupByTable(orders)
	if got := groups[0].Total.String(); got != "0" {
		t.Fatalf("total = %s, want 0", got)
	}
	if rollups := GroupItems(groups[0].Orders); len(rollups) != 0 {
		t.Fatalf("rollups = %d, want none for zero-item order", len(rollups))
	}
}

func TestClearedTableIsAbsentFromOutput(t *testing.T) {
	before := []order.Order{
		{ID: "o1", TableNumber: "5"},
		{ID: "o2", TableNumber: "6"},
	}
	if len(GroupByTable(before)) != 2 {
		t.Fatalf("expected both tables before clear")
	}
	after := []order.Order{{ID: "o2", TableNumber: "6"}}
	groups := GroupByTable(after)
	if len(groups) != 1 || groups[0].Table != "6" {
		t.Fatalf("cleared table still present: %v", groups)
	}
}

func TestGroupItemsRollsUpAcrossOrders(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", TableNumber: "5", Items: []order.LineItem{{Item: ref("X", "Paneer"), Quantity: 2, Price: 40}}},
		{ID: "o2", TableNumber: "5", Items: []order.LineItem{{Item: ref("X", "Paneer"), Quantity: 3, Price: 40}}},
	}
	rollups := GroupItems(orders)
	if len(rollups) != 1 {
		t.Fatalf("rollups = %d, want 1", len(rollups))
	}
	r := rollups[0]
	if r.Key != "X" || r.Quantity != 5 {
		t.Fatalf("rollup = %+v, want key X qty 5", r)
	}
	if got := r.Subtotal.String(); got != "200" {
		t.Fatalf("subtotal = %s, want 200", got)
	}
}

func TestGroupItemsDeletedReferenceUsesSentinel(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", TableNumber: "5", Items: []order.LineItem{
			{Item: nil, Quantity: 2, Price: 30},
			{Item: nil, Quantity: 1, Price: 30},
		}},
	}
	rollups := GroupItems(orders)
	if len(rollups) != 1 {
		t.Fatalf("rollups = %d, want 1 sentinel group", len(rollups))
	}
	r := rollups[0]
	if r.Key != order.DeletedItemKey || r.Name != order.DeletedItemName {
		t.Fatalf("sentinel rollup = %+v", r)
	}
	if r.Quantity != 3 || r.Subtotal.String() != "90" {
		t.Fatalf("sentinel accumulation = qty %d subtotal %s, want 3/90", r.Quantity, r.Subtotal)
	}
}

func TestGroupItemsKeyOrderFollowsFirstAppearance(t *testing.T) {
	orders := []order.Order{
		{ID: "o1", TableNumber: "5", Items: []order.LineItem{
			{Item: ref("b", "Second"), Quantity: 1, Price: 1},
			{Item: ref("a", "First"), Quantity: 1, Price: 1},
		}},
		{ID: "o2", TableNumber: "5", Items: []order.LineItem{
			{Item: ref("b", "Second"), Quantity: 1, Price: 1},
		}},
	}
	rollups := GroupItems(orders)
	if len(rollups) != 2 || rollups[0].Key != "b" || rollups[1].Key != "a" {
		t.Fatalf("rollup order = %v, want b then a", rollups)
	}
}

// Many small decimal line items must not accumulate float error: 100
// items at 0.10 each is exactly 10.00.
func TestDecimalAccumulationAvoidsDrift(t *testing.T) {
	items := make([]order.LineItem, 100)
	for i := range items {
		items[i] = order.LineItem{Item: ref("c", "Chutney"), Quantity: 1, Price: 0.1}
	}
	groups := GroupByTable([]order.Order{{ID: "o1", TableNumber: "9", Items: items}})
	if got := groups[0].Total.StringFixed(2); got != "10.00" {
		t.Fatalf("total = %s, want 10.00", got)
	}
}
