// internal/billing/aggregate.go
//
// Per-table aggregation of a flat order snapshot. Aggregates are
// derived values with no life of their own: the billing screen
// recomputes them from scratch on every refresh, because a table-clear
// can remove a whole group between fetches and incremental patching
// would go stale.

package billing

import (
	"github.com/shopspring/decimal"

	"tableside/internal/order"
)

// TableAggregate groups one table's outstanding orders with a running
// total recomputed from line items. The server-reported order totals
// are never summed here; they serve only as a display cross-check.
type TableAggregate struct {
	Table  order.TableID
	Orders []order.Order
	Total  decimal.Decimal
}

// ItemRollup accumulates one menu item's quantity and subtotal across
// all orders of a table.
type ItemRollup struct {
	Key      string
	Name     string
	Quantity int
	Subtotal decimal.Decimal
}

// GroupByTable partitions orders by table identifier in first-seen
// order across the input. Tables with no current orders are simply
// absent; an order with zero line items still appears in its table's
// member list but contributes nothing to the total.
func GroupByTable(orders []order.Order) []TableAggregate {
	index := map[order.TableID]int{}
	var groups []TableAggregate
	for _, o := range orders {
		i, ok := index[o.TableNumber]
		if !ok {
			i = len(groups)
			index[o.TableNumber] = i
			groups = append(groups, TableAggregate{Table: o.TableNumber, Total: decimal.Zero})
		}
		groups[i].Orders = append(groups[i].Orders, o)
		groups[i].Total = groups[i].Total.Add(o.ComputedTotal())
	}
	return groups
}

// GroupItems rolls the line items of one table's member orders up by
// menu-item identity, in first-seen key order. Deleted references fall
// back per order.LineItem.RollupKey and still accumulate correctly.
func GroupItems(orders []order.Order) []ItemRollup {
	index := map[string]int{}
	var rollups []ItemRollup
	for _, o := range orders {
		for _, li := range o.Items {
			key := li.RollupKey()
			i, ok := index[key]
			if !ok {
				i = len(rollups)
				index[key] = i
				rollups = append(rollups, ItemRollup{
					Key:      key,
					Name:     li.DisplayName(),
					Subtotal: decimal.Zero,
				})
			}
			rollups[i].Quantity += li.Quantity
			rollups[i].Subtotal = rollups[i].Subtotal.Add(li.Subtotal())
		}
	}
	return rollups
}
