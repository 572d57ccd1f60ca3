// internal/order/order.go
//
// Wire model for orders as the POS backend returns them. Orders are
// observed, never mutated: once fetched, an Order value is treated as a
// read-only snapshot of what the kitchen printer would see.

package order

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DeletedItemName is rendered when a line item's menu reference no
	// longer resolves to a live menu entry.
	DeletedItemName = "Deleted Item"

	// DeletedItemKey groups rollup entries whose menu reference is gone
	// entirely (no id, no retained name).
	DeletedItemKey = "deleted"
)

// MenuItemRef is the (possibly stale) pointer from a line item back to
// the menu entry it was ordered from. The backend inlines it; when the
// menu entry has been deleted it arrives as null.
type MenuItemRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// LineItem is one menu item within an order. Price is captured at order
// time and never re-read from current menu state, so historical bills
// stay stable across menu price changes.
type LineItem struct {
	Item     *MenuItemRef `json:"itemId"`
	Quantity int          `json:"quantity" validate:"gte=1"`
	Price    float64      `json:"price" validate:"gte=0"`
}

// Subtotal returns quantity × unit price as a decimal. Accumulation
// stays in decimal space; rounding happens only when formatting.
func (li LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(li.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DisplayName resolves the menu reference, falling back to the deleted
// sentinel when the reference or its name is gone.
func (li LineItem) DisplayName() string {
	if li.Item == nil || li.Item.Name == "" {
		return DeletedItemName
	}
	return li.Item.Name
}

// RollupKey identifies the menu item for aggregation: id when present,
// then name, then the deleted sentinel.
func (li LineItem) RollupKey() string {
	if li.Item == nil {
		return DeletedItemKey
	}
	if li.Item.ID != "" {
		return li.Item.ID
	}
	if li.Item.Name != "" {
		return li.Item.Name
	}
	return DeletedItemKey
}

// TableID is a table identifier. The backend is loose about the JSON
// type (operators type it into a text field, some clients send a
// number), so it decodes from either and normalizes to a string.
type TableID string

func (t *TableID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TableID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = TableID(n.String())
		return nil
	}
	return fmt.Errorf("order: table number is neither string nor number: %s", data)
}

func (t TableID) String() string { return string(t) }

// Order is one placed order as reported by the backend. Total is the
// server-computed amount; ComputedTotal recomputes it from line items
// for the display cross-check.
type Order struct {
	ID           string     `json:"_id" validate:"required"`
	RestaurantID string     `json:"restaurantId"`
	TableNumber  TableID    `json:"tableNumber" validate:"required"`
	CreatedAt    time.Time  `json:"createdAt"`
	Items        []LineItem `json:"items" validate:"dive"`
	Total        float64    `json:"total"`
}

// ComputedTotal sums the line-item subtotals in decimal space.
func (o Order) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.Items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// TotalMatchesServer reports whether the recomputed total agrees with
// the server-reported total field.
func (o Order) TotalMatchesServer() bool {
	return o.ComputedTotal().Equal(decimal.NewFromFloat(o.Total))
}

// SortNewestFirst returns a copy ordered by creation time, newest
// first. Ties keep their relative snapshot order.
func SortNewestFirst(orders []Order) []Order {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// IDs returns the identifier set of a snapshot.
func IDs(orders []Order) map[string]struct{} {
	ids := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		ids[o.ID] = struct{}{}
	}
	return ids
}

// FormatAmount renders a decimal amount with two fraction digits and a
// currency prefix. This is the only place money gets rounded.
func FormatAmount(currency string, amount decimal.Decimal) string {
	return currency + amount.StringFixed(2)
}
