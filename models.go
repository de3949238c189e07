package match

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side int8

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type OrderKind string

const (
	Limit  OrderKind = "limit"
	Market OrderKind = "market"
)

// DoneReason records why an order reached its terminal state. The zero value
// means the order is still live.
type DoneReason string

const (
	DoneFilled    DoneReason = "filled"
	DoneCancelled DoneReason = "cancelled"
	DoneKilled    DoneReason = "killed" // unfilled market remainder dropped for lack of liquidity
)

// Order is the authoritative record of one order. The ledger owns it
// exclusively; the resting queues hold ids only and resolve them through the
// ledger on every access.
type Order struct {
	ID        uint64
	Side      Side
	Kind      OrderKind
	Price     decimal.Decimal // zero and meaningless for market orders
	Quantity  int64           // original quantity, never mutated after admission
	Remaining int64           // 0 <= Remaining <= Quantity; 0 marks the order terminal
	Arrival   uint64          // admission sequence, used only for tie-breaking
	CreatedAt time.Time
	Done      DoneReason
}

// Trade is immutable once created. Price is always the resting (maker)
// order's price at match time, never the incoming order's.
type Trade struct {
	ID         string
	BuyerID    uint64
	SellerID   uint64
	Price      decimal.Decimal
	Quantity   int64
	ExecutedAt time.Time
}

// DepthItem is one aggregated price level: total remaining quantity across
// every live order resting at that price.
type DepthItem struct {
	Price decimal.Decimal
	Size  int64
}

// BookSnapshot holds read-only copies of both sides in priority order,
// best economic price first.
type BookSnapshot struct {
	Bids []Order
	Asks []Order
}
