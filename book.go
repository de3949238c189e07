package match

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Option configures an OrderBook at construction time.
type Option func(*OrderBook)

// WithLogger scopes a structured logger to this book. The default is the
// package logger, which is a no-op unless SetLogger was called.
func WithLogger(l zerolog.Logger) Option {
	return func(book *OrderBook) {
		book.logger = l
	}
}

// WithTradePublisher forwards every executed trade to the given sink, in
// execution order, in addition to the book's own trade log.
func WithTradePublisher(p TradePublisher) Option {
	return func(book *OrderBook) {
		book.publisher = p
	}
}

// OrderBook is the matching engine for a single market. Incoming orders match
// against the opposite resting queue under strict price-time priority and
// execute at the resting order's price; any unfilled limit remainder rests.
//
// Every public operation runs to completion before returning. A single mutex
// serializes mutating operations and consistent reads, so a book is safe to
// share, but matching one order can touch an unbounded number of resting
// orders in one call.
type OrderBook struct {
	mu sync.Mutex

	orders    *ledger
	bids      *restingQueue
	asks      *restingQueue
	log       *tradeLog
	publisher TradePublisher

	nextID      uint64 // order ids, strictly increasing from 1, never reused
	nextArrival uint64 // admission sequence for price-time tie-breaking

	logger zerolog.Logger
}

// NewOrderBook creates an empty book. Counters are scoped to the instance;
// two books never share id or arrival sequences.
func NewOrderBook(opts ...Option) *OrderBook {
	orders := newLedger()
	book := &OrderBook{
		orders:      orders,
		bids:        newBidQueue(orders),
		asks:        newAskQueue(orders),
		log:         &tradeLog{},
		publisher:   NewDiscardTradePublisher(),
		nextID:      1,
		nextArrival: 1,
		logger:      logger,
	}

	for _, opt := range opts {
		opt(book)
	}

	return book
}

// AddLimitOrder admits a limit order: it matches against the opposite queue
// while prices cross, then rests any unfilled remainder on its own side.
// Returns the new order's id. Non-positive price or quantity is rejected with
// ErrInvalidOrder before anything is admitted.
func (book *OrderBook) AddLimitOrder(side Side, price decimal.Decimal, quantity int64) (uint64, error) {
	if quantity <= 0 || !price.IsPositive() {
		return 0, fmt.Errorf("%w: price=%s quantity=%d", ErrInvalidOrder, price, quantity)
	}

	book.mu.Lock()
	defer book.mu.Unlock()

	return book.addLimitOrder(side, price, quantity), nil
}

// addLimitOrder runs the admission path under the book lock.
func (book *OrderBook) addLimitOrder(side Side, price decimal.Decimal, quantity int64) uint64 {
	order := book.newOrder(side, Limit, price, quantity)
	book.orders.register(order)

	book.logger.Debug().
		Uint64("order_id", order.ID).
		Stringer("side", side).
		Str("price", price.String()).
		Int64("quantity", quantity).
		Msg("limit order admitted")

	book.match(order)

	if order.Remaining > 0 {
		book.queueFor(side).admit(order)
	} else {
		book.orders.complete(order, DoneFilled)
	}

	return order.ID
}

// AddMarketOrder admits a market order: it sweeps the opposite queue at any
// price until filled or liquidity runs out. Market orders never rest; an
// unfilled remainder is dropped. Returns the trades this order generated, in
// execution order.
func (book *OrderBook) AddMarketOrder(side Side, quantity int64) ([]Trade, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity=%d", ErrInvalidOrder, quantity)
	}

	book.mu.Lock()
	defer book.mu.Unlock()

	order := book.newOrder(side, Market, decimal.Decimal{}, quantity)
	book.orders.register(order)

	book.logger.Debug().
		Uint64("order_id", order.ID).
		Stringer("side", side).
		Int64("quantity", quantity).
		Msg("market order admitted")

	trades := book.match(order)

	if order.Remaining > 0 {
		remainder := order.Remaining
		order.Remaining = 0
		book.orders.complete(order, DoneKilled)

		book.logger.Debug().
			Uint64("order_id", order.ID).
			Int64("remainder", remainder).
			Msg("market order remainder dropped")
	} else {
		book.orders.complete(order, DoneFilled)
	}

	return trades, nil
}

// CancelOrder invalidates the order in the ledger. No queue surgery happens:
// the order is economically dead immediately, and its id is skipped the next
// time it surfaces at the head of its queue. Returns false for unknown or
// already-terminal ids, with no side effect.
func (book *OrderBook) CancelOrder(id uint64) bool {
	book.mu.Lock()
	defer book.mu.Unlock()

	ok := book.orders.invalidate(id, DoneCancelled)
	if ok {
		book.logger.Debug().Uint64("order_id", id).Msg("order cancelled")
	}
	return ok
}

// ReduceOrder shrinks a resting order's remaining quantity in place,
// preserving its queue priority. Valid only for 0 < newQuantity < remaining;
// anything else reports false and leaves the order untouched.
func (book *OrderBook) ReduceOrder(id uint64, newQuantity int64) bool {
	book.mu.Lock()
	defer book.mu.Unlock()

	order, ok := book.orders.find(id)
	if !ok || newQuantity <= 0 || newQuantity >= order.Remaining {
		return false
	}

	order.Remaining = newQuantity

	book.logger.Debug().
		Uint64("order_id", id).
		Int64("remaining", newQuantity).
		Msg("order reduced")
	return true
}

// ReplaceOrder cancels a live limit order and admits a replacement on the
// same side at the new price and quantity. The replacement is a fresh
// admission: it gets a new id, loses the old time priority, and may match
// immediately. Returns the replacement's id.
func (book *OrderBook) ReplaceOrder(id uint64, newPrice decimal.Decimal, newQuantity int64) (uint64, error) {
	if newQuantity <= 0 || !newPrice.IsPositive() {
		return 0, fmt.Errorf("%w: price=%s quantity=%d", ErrInvalidOrder, newPrice, newQuantity)
	}

	book.mu.Lock()
	defer book.mu.Unlock()

	order, ok := book.orders.find(id)
	if !ok || order.Kind != Limit {
		return 0, fmt.Errorf("%w: order %d", ErrNotFound, id)
	}

	side := order.Side
	book.orders.invalidate(id, DoneCancelled)

	return book.addLimitOrder(side, newPrice, newQuantity), nil
}

// BestBid returns the highest live bid price. The second return value is
// false when no active bids exist; zero is never used as an empty sentinel.
func (book *OrderBook) BestBid() (decimal.Decimal, bool) {
	book.mu.Lock()
	defer book.mu.Unlock()

	order := book.bids.peekBestActive()
	if order == nil {
		return decimal.Decimal{}, false
	}
	return order.Price, true
}

// BestAsk returns the lowest live ask price, with the same empty sentinel as
// BestBid.
func (book *OrderBook) BestAsk() (decimal.Decimal, bool) {
	book.mu.Lock()
	defer book.mu.Unlock()

	order := book.asks.peekBestActive()
	if order == nil {
		return decimal.Decimal{}, false
	}
	return order.Price, true
}

// Depth returns up to levels aggregated price levels for one side, best
// economic price first.
func (book *OrderBook) Depth(side Side, levels int) []DepthItem {
	book.mu.Lock()
	defer book.mu.Unlock()

	return depthView(book.queueFor(side), levels)
}

// TradeCount returns the number of trades executed over the book's lifetime.
func (book *OrderBook) TradeCount() int {
	book.mu.Lock()
	defer book.mu.Unlock()

	return book.log.count()
}

// RecentTrades returns a copy of the last n trades, oldest first.
func (book *OrderBook) RecentTrades(n int) []Trade {
	book.mu.Lock()
	defer book.mu.Unlock()

	return book.log.recent(n)
}

// Trades returns a copy of the full trade log in execution order.
func (book *OrderBook) Trades() []Trade {
	book.mu.Lock()
	defer book.mu.Unlock()

	return book.log.all()
}

// OpenOrders returns copies of every live order, in id order.
func (book *OrderBook) OpenOrders() []Order {
	book.mu.Lock()
	defer book.mu.Unlock()

	orders := make([]Order, 0, book.orders.size())
	book.orders.ascend(func(order *Order) bool {
		orders = append(orders, *order)
		return true
	})
	return orders
}

// Snapshot captures both sides as read-only copies in priority order, for
// presentation collaborators.
func (book *OrderBook) Snapshot() BookSnapshot {
	book.mu.Lock()
	defer book.mu.Unlock()

	var snap BookSnapshot
	book.bids.walkActive(func(order *Order) bool {
		snap.Bids = append(snap.Bids, *order)
		return true
	})
	book.asks.walkActive(func(order *Order) bool {
		snap.Asks = append(snap.Asks, *order)
		return true
	})
	return snap
}

// match runs the crossing loop for an incoming order against the opposite
// queue: peek the best active resting order, trade the overlap at the resting
// order's price, and repeat until the incoming order is exhausted, the queue
// is empty, or (limit only) prices stop crossing.
func (book *OrderBook) match(taker *Order) []Trade {
	opposite := book.queueFor(taker.Side.Opposite())

	var trades []Trade
	for taker.Remaining > 0 {
		maker := opposite.peekBestActive()
		if maker == nil {
			break
		}
		if taker.Kind == Limit && !crosses(taker, maker) {
			break
		}

		quantity := min(taker.Remaining, maker.Remaining)
		trade := Trade{
			ID:         xid.New().String(),
			Price:      maker.Price,
			Quantity:   quantity,
			ExecutedAt: time.Now(),
		}
		if taker.Side == Buy {
			trade.BuyerID, trade.SellerID = taker.ID, maker.ID
		} else {
			trade.BuyerID, trade.SellerID = maker.ID, taker.ID
		}

		taker.Remaining -= quantity
		maker.Remaining -= quantity
		if maker.Remaining == 0 {
			// The maker is done; its id stays in the queue until a later peek
			// lazily evicts it.
			book.orders.complete(maker, DoneFilled)
		}

		book.log.record(trade)
		trades = append(trades, trade)
		book.publisher.PublishTrades(trade)

		book.logger.Debug().
			Str("trade_id", trade.ID).
			Uint64("buyer_id", trade.BuyerID).
			Uint64("seller_id", trade.SellerID).
			Str("price", trade.Price.String()).
			Int64("quantity", quantity).
			Msg("trade executed")
	}

	return trades
}

// crosses reports whether a limit taker's price satisfies the resting maker's:
// a buy crosses when its price is at or above the ask, a sell when its price
// is at or below the bid.
func crosses(taker, maker *Order) bool {
	if taker.Side == Buy {
		return taker.Price.GreaterThanOrEqual(maker.Price)
	}
	return taker.Price.LessThanOrEqual(maker.Price)
}

func (book *OrderBook) queueFor(side Side) *restingQueue {
	if side == Buy {
		return book.bids
	}
	return book.asks
}

func (book *OrderBook) newOrder(side Side, kind OrderKind, price decimal.Decimal, quantity int64) *Order {
	order := &Order{
		ID:        book.nextID,
		Side:      side,
		Kind:      kind,
		Price:     price,
		Quantity:  quantity,
		Remaining: quantity,
		Arrival:   book.nextArrival,
		CreatedAt: time.Now(),
	}
	book.nextID++
	book.nextArrival++
	return order
}
