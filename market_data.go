package match

import (
	"github.com/igrmk/treemap/v2"
	"github.com/shopspring/decimal"
)

// depthView aggregates remaining quantity per distinct price for one side of
// the book, best economic price first, up to the requested number of levels.
// It walks live orders only, so cancelled and exhausted entries never
// contribute to a level even while their ids still sit in the queue.
func depthView(q *restingQueue, levels int) []DepthItem {
	if levels <= 0 {
		return nil
	}

	less := func(a, b decimal.Decimal) bool {
		return a.LessThan(b)
	}
	if q.side == Buy {
		less = func(a, b decimal.Decimal) bool {
			return a.GreaterThan(b)
		}
	}

	agg := treemap.NewWithKeyCompare[decimal.Decimal, int64](less)
	q.walkActive(func(order *Order) bool {
		if size, ok := agg.Get(order.Price); ok {
			agg.Set(order.Price, size+order.Remaining)
			return true
		}
		// The walk is in priority order, so once enough distinct prices have
		// been seen every later order is at a worse price.
		if agg.Len() == levels {
			return false
		}
		agg.Set(order.Price, order.Remaining)
		return true
	})

	items := make([]DepthItem, 0, agg.Len())
	for it := agg.Iterator(); it.Valid(); it.Next() {
		items = append(items, DepthItem{
			Price: it.Key(),
			Size:  it.Value(),
		})
	}
	return items
}
