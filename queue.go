package match

import (
	"github.com/huandu/skiplist"
	"github.com/shopspring/decimal"
)

// priceLevel is a FIFO of order ids resting at one price. Append order is
// admission order, so the earliest arrival is always at the front; that
// realizes the arrival-ascending tie-break within a price.
type priceLevel struct {
	ids []uint64
}

// restingQueue holds one side of the book as a skip list of price levels,
// best economic price first. It stores ids only and resolves them through the
// ledger; entries whose order is missing or exhausted are discarded when they
// surface at the head. That lazy skip is the queue's only cleanup mechanism,
// so dead ids can accumulate between peeks.
type restingQueue struct {
	side   Side
	book   *ledger
	levels *skiplist.SkipList
}

// newBidQueue creates the buy-side queue, sorted by price in descending order
// (highest price first).
func newBidQueue(book *ledger) *restingQueue {
	return &restingQueue{
		side: Buy,
		book: book,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(decimal.Decimal)
			d2, _ := rhs.(decimal.Decimal)

			if d1.LessThan(d2) {
				return 1
			} else if d1.GreaterThan(d2) {
				return -1
			}

			return 0
		})),
	}
}

// newAskQueue creates the sell-side queue, sorted by price in ascending order
// (lowest price first).
func newAskQueue(book *ledger) *restingQueue {
	return &restingQueue{
		side: Sell,
		book: book,
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			d1, _ := lhs.(decimal.Decimal)
			d2, _ := rhs.(decimal.Decimal)

			if d1.GreaterThan(d2) {
				return 1
			} else if d1.LessThan(d2) {
				return -1
			}

			return 0
		})),
	}
}

// admit inserts an order id at its price level, creating the level if needed.
// Lookup goes through the skip list comparator, so prices that are equal at
// different scales land on the same level. Exhausted orders are never
// admitted.
func (q *restingQueue) admit(order *Order) {
	if order.Remaining <= 0 {
		return
	}

	if el := q.levels.Get(order.Price); el != nil {
		level, _ := el.Value.(*priceLevel)
		level.ids = append(level.ids, order.ID)
		return
	}

	q.levels.Set(order.Price, &priceLevel{ids: []uint64{order.ID}})
}

// peekBestActive returns the highest-priority order that still has remaining
// quantity, evicting dead head entries and empty levels along the way.
func (q *restingQueue) peekBestActive() *Order {
	for {
		el := q.levels.Front()
		if el == nil {
			return nil
		}

		level, _ := el.Value.(*priceLevel)
		for len(level.ids) > 0 {
			order, ok := q.book.find(level.ids[0])
			if ok && order.Remaining > 0 {
				return order
			}
			level.ids = level.ids[1:]
		}

		q.levels.RemoveElement(el)
	}
}

func (q *restingQueue) isEmptyOfActive() bool {
	return q.peekBestActive() == nil
}

// walkActive visits every live resting order in priority order without
// mutating the queue. Dead entries are skipped, not evicted.
func (q *restingQueue) walkActive(fn func(*Order) bool) {
	for el := q.levels.Front(); el != nil; el = el.Next() {
		level, _ := el.Value.(*priceLevel)
		for _, id := range level.ids {
			order, ok := q.book.find(id)
			if !ok || order.Remaining <= 0 {
				continue
			}
			if !fn(order) {
				return
			}
		}
	}
}

// levelCount returns the number of price levels currently held, dead entries
// included.
func (q *restingQueue) levelCount() int {
	return q.levels.Len()
}
