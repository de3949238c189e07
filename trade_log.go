package match

import "sync"

// TradePublisher receives every trade the book produces, in execution order.
// Publish is called synchronously from the matching path, so implementations
// that do slow work should hand the trade off and return.
type TradePublisher interface {
	PublishTrades(...Trade)
}

// MemoryTradePublisher stores trades in memory, useful for testing.
type MemoryTradePublisher struct {
	mu     sync.RWMutex
	trades []Trade
}

// NewMemoryTradePublisher creates a new MemoryTradePublisher.
func NewMemoryTradePublisher() *MemoryTradePublisher {
	return &MemoryTradePublisher{
		trades: make([]Trade, 0),
	}
}

// PublishTrades appends trades to the in-memory slice.
func (m *MemoryTradePublisher) PublishTrades(trades ...Trade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, trades...)
}

// Count returns the number of trades stored.
func (m *MemoryTradePublisher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trades)
}

// Get returns the trade at the specified index.
func (m *MemoryTradePublisher) Get(index int) Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.trades[index]
}

// Trades returns a copy of all trades stored.
func (m *MemoryTradePublisher) Trades() []Trade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	trades := make([]Trade, len(m.trades))
	copy(trades, m.trades)
	return trades
}

// DiscardTradePublisher drops all trades, useful for benchmarking.
type DiscardTradePublisher struct {
}

// NewDiscardTradePublisher creates a new DiscardTradePublisher.
func NewDiscardTradePublisher() *DiscardTradePublisher {
	return &DiscardTradePublisher{}
}

// PublishTrades does nothing.
func (p *DiscardTradePublisher) PublishTrades(trades ...Trade) {

}

// tradeLog is the append-only execution record. Insertion order is execution
// order and entries are never mutated or reordered after append. Access is
// serialized by the owning book.
type tradeLog struct {
	trades []Trade
}

func (tl *tradeLog) record(trade Trade) {
	tl.trades = append(tl.trades, trade)
}

func (tl *tradeLog) count() int {
	return len(tl.trades)
}

// recent returns a copy of the last n trades, oldest first, or fewer if the
// log is shorter.
func (tl *tradeLog) recent(n int) []Trade {
	if n <= 0 {
		return nil
	}
	start := len(tl.trades) - n
	if start < 0 {
		start = 0
	}
	out := make([]Trade, len(tl.trades)-start)
	copy(out, tl.trades[start:])
	return out
}

func (tl *tradeLog) all() []Trade {
	out := make([]Trade, len(tl.trades))
	copy(out, tl.trades)
	return out
}
