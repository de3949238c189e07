package match

import "github.com/tidwall/btree"

// ledger is the authoritative record of every order that has not yet reached a
// terminal state. It is the only component that owns order records; the
// resting queues resolve ids here on every access, so a single removal is
// enough to make an order economically dead everywhere.
type ledger struct {
	tree *btree.BTreeG[*Order]
}

func newLedger() *ledger {
	return &ledger{
		tree: btree.NewBTreeG(func(a, b *Order) bool {
			return a.ID < b.ID
		}),
	}
}

func (l *ledger) register(order *Order) {
	l.tree.Set(order)
}

func (l *ledger) find(id uint64) (*Order, bool) {
	return l.tree.Get(&Order{ID: id})
}

// invalidate force-terminates an order: remaining drops to zero and the entry
// leaves the ledger. The id may linger in a resting queue until it surfaces at
// the head and is lazily evicted. Returns true only if the order was present
// with remaining quantity; unknown and already-terminal ids report false.
func (l *ledger) invalidate(id uint64, reason DoneReason) bool {
	order, ok := l.tree.Get(&Order{ID: id})
	if !ok || order.Remaining <= 0 {
		return false
	}
	order.Remaining = 0
	order.Done = reason
	l.tree.Delete(order)
	return true
}

// complete removes an order whose remaining quantity already reached zero
// through matching, recording why it finished.
func (l *ledger) complete(order *Order, reason DoneReason) {
	order.Done = reason
	l.tree.Delete(order)
}

func (l *ledger) size() int {
	return l.tree.Len()
}

// ascend visits every live order in id order.
func (l *ledger) ascend(fn func(*Order) bool) {
	l.tree.Scan(fn)
}
