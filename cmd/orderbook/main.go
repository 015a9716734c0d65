package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/tradekit/binance-orderbook/internal/domain/orderbook/v1"
	"github.com/tradekit/binance-orderbook/internal/infrastructure/binance"
	"github.com/tradekit/binance-orderbook/internal/usecase/book"
	"github.com/tradekit/binance-orderbook/internal/usecase/publisher"
	"github.com/tradekit/binance-orderbook/pkg/config"
	"github.com/tradekit/binance-orderbook/pkg/logger"
)

func main() {
	var (
		quantityArg = flag.String("quantity", "1.0", "Quantity used for the weighted pricing, e.g. 100.0")
		symbol      = flag.String("symbol", "", "Symbol used to create a local copy of the market (default from env, BTCUSDT)")
		side        = flag.String("side", "buy", "Side of the order priced on the console: buy or sell")
		depth       = flag.Int("depth", 0, "Levels to request on the depth endpoint: 5, 10, 20, 50, 100, 500, 1000 or 5000")
		fast        = flag.Bool("fast", false, "Use the 100ms depth stream instead of 1000ms")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// flags win over env
	if *symbol != "" {
		cfg.Book.Symbol = *symbol
	}
	if *depth > 0 {
		cfg.Book.DepthLimit = *depth
	}
	if *fast {
		cfg.Book.UpdateSpeedMs = 100
	}

	quantity, err := decimal.NewFromString(*quantityArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid quantity %q: %v\n", *quantityArg, err)
		os.Exit(1)
	}

	tradeSide := orderbookv1.Side(strings.ToLower(*side))
	if tradeSide != orderbookv1.SideBuy && tradeSide != orderbookv1.SideSell {
		fmt.Fprintf(os.Stderr, "invalid side %q: want buy or sell\n", *side)
		os.Exit(1)
	}

	// logs go to stderr, the price line owns stdout
	log, err := logger.NewLogger(
		logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)),
		logger.WithOutputPaths([]string{"stderr"}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	source, err := binance.NewClient(cfg.Binance, cfg.Book.UpdateSpeedMs, log)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	opts := book.DefaultOptions()
	opts.Quantity = quantity
	opts.DepthLimit = cfg.Book.DepthLimit
	opts.UpdateInterval = time.Duration(cfg.Book.UpdateSpeedMs) * time.Millisecond
	opts.QueueCapacity = cfg.Book.QueueCapacity

	coordinator := book.NewCoordinator(cfg.Book.Symbol, source, log, opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, cancelEvents := coordinator.Events()
	defer cancelEvents()
	go printPrices(events, tradeSide, quantity, cfg.Book.Symbol)

	if cfg.Publisher.Enabled {
		pub := publisher.NewPublisher(cfg.Publisher, log)
		defer pub.Close()

		pubEvents, cancelPubEvents := coordinator.Events()
		defer cancelPubEvents()
		go pub.Run(ctx, pubEvents)
	}

	fmt.Printf("Downloading orderbook for %s from Binance\n", cfg.Book.Symbol)
	if err := coordinator.Subscribe(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	fmt.Println("Initial market depth snapshot downloaded")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	coordinator.Unsubscribe()
	if err := source.Close(); err != nil {
		log.Warn("failed to close stream", logger.Field{Key: "error", Value: err.Error()})
	}
	fmt.Println()
}

// printPrices rewrites a single console line with the latest average execution
// price for the chosen side. Buy prices come from the ask side, sell prices
// from the bid side.
func printPrices(events <-chan orderbookv1.Event, side orderbookv1.Side, quantity decimal.Decimal, symbol string) {
	want := orderbookv1.EventBuyPriceUpdated
	if side == orderbookv1.SideSell {
		want = orderbookv1.EventSellPriceUpdated
	}

	previousLength := 0
	for event := range events {
		switch event.Type {
		case orderbookv1.EventStreamConnected:
			fmt.Println("Connected to market depth stream, waiting for updates")
		case want:
			output := fmt.Sprintf("\rAverage Execution Price to %s %s %s: %s", side, quantity, symbol, event.AveragePrice)
			if event.FilledQuantity.LessThan(quantity) {
				output += fmt.Sprintf(" (only %s available)", event.FilledQuantity)
			}
			// pad to the previous length so stale digits are not left behind
			if pad := previousLength - len(output); pad > 0 {
				output += strings.Repeat(" ", pad)
			}
			previousLength = len(output)
			fmt.Print(output)
		}
	}
}
