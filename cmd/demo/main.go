// Command demo drives a single order book through a short session and renders
// the book and trade tape after each step. It only consumes the read-only
// snapshot accessors; matching semantics live entirely in the match package.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	match "github.com/lunarfish/matchcore"
)

func main() {
	var (
		depthLevels = flag.Int("depth", 5, "price levels to display per side")
		verbose     = flag.Bool("verbose", false, "enable engine debug logging")
	)
	flag.Parse()

	var opts []match.Option
	if *verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		opts = append(opts, match.WithLogger(logger))
	}

	book := match.NewOrderBook(opts...)

	fmt.Println("=== Market Order Book Demo ===")

	fmt.Println("\nAdding limit orders...")
	mustLimit(book, match.Buy, "100.50", 100)
	mustLimit(book, match.Buy, "100.25", 200)
	mustLimit(book, match.Buy, "100.75", 50)
	mustLimit(book, match.Sell, "101.00", 150)
	mustLimit(book, match.Sell, "101.25", 100)
	mustLimit(book, match.Sell, "100.90", 75)
	printBook(book, *depthLevels)

	fmt.Println("\nAdding aggressive buy order (101.10 for 200 shares)...")
	mustLimit(book, match.Buy, "101.10", 200)
	printBook(book, *depthLevels)
	printTrades(book, 10)

	fmt.Println("\nExecuting market sell for 120 shares...")
	trades, err := book.AddMarketOrder(match.Sell, 120)
	if err != nil {
		fmt.Fprintln(os.Stderr, "add market order:", err)
		os.Exit(1)
	}
	fmt.Printf("Market order generated %d trades\n", len(trades))
	printBook(book, *depthLevels)
	printTrades(book, 10)

	fmt.Println("\nAdding order to cancel...")
	cancelID := mustLimit(book, match.Buy, "99.50", 300)
	printBook(book, *depthLevels)

	fmt.Printf("\nCancelling order %d...\n", cancelID)
	book.CancelOrder(cancelID)
	printBook(book, *depthLevels)

	if bid, ok := book.BestBid(); ok {
		fmt.Printf("\nBest Bid: $%s\n", bid.StringFixed(2))
	} else {
		fmt.Println("\nBest Bid: none")
	}
	if ask, ok := book.BestAsk(); ok {
		fmt.Printf("Best Ask: $%s\n", ask.StringFixed(2))
	} else {
		fmt.Println("Best Ask: none")
	}
	fmt.Printf("Total Trades: %d\n", book.TradeCount())
}

func mustLimit(book *match.OrderBook, side match.Side, price string, quantity int64) uint64 {
	id, err := book.AddLimitOrder(side, decimal.RequireFromString(price), quantity)
	if err != nil {
		fmt.Fprintln(os.Stderr, "add limit order:", err)
		os.Exit(1)
	}
	return id
}

func printBook(book *match.OrderBook, levels int) {
	fmt.Println("\n=== ORDER BOOK ===")

	// Asks arrive best (lowest) first; display highest first.
	asks := book.Depth(match.Sell, levels)
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Printf("ASK: %8s | %6d\n", asks[i].Price.StringFixed(2), asks[i].Size)
	}

	fmt.Println("     --------+--------")

	for _, bid := range book.Depth(match.Buy, levels) {
		fmt.Printf("BID: %8s | %6d\n", bid.Price.StringFixed(2), bid.Size)
	}

	fmt.Println("==================")
}

func printTrades(book *match.OrderBook, n int) {
	fmt.Println("\n=== RECENT TRADES ===")
	for _, trade := range book.RecentTrades(n) {
		fmt.Printf("Trade: Buyer=%d Seller=%d Price=%s Qty=%d\n",
			trade.BuyerID, trade.SellerID, trade.Price.StringFixed(2), trade.Quantity)
	}
	fmt.Println("====================")
}
