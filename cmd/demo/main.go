// Command demo walks the full purchase flow against a running API server:
// fetch the catalog, fill a cart, review it, and create a hosted checkout
// session. It prints the hosted URL instead of redirecting a browser.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/checkout-demo/internal/cart"
	"github.com/noah-isme/checkout-demo/internal/client"
	"github.com/noah-isme/checkout-demo/internal/flow"
)

func main() {
	apiURL := flag.String("api", "http://localhost:4242", "base URL of the checkout API")
	buy := flag.String("buy", "product_1=2,product_2=1", "comma-separated product_id=quantity pairs")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for the demo run")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	api := client.New(*apiURL)

	products, err := api.Products(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("fetch products")
	}
	logger.Info().Int("count", len(products)).Msg("catalog loaded")
	for _, p := range products {
		fmt.Printf("  %-12s %-24s %s\n", p.ID, p.Name, formatMinor(p.Price))
	}

	wanted, err := parseBuy(*buy)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse -buy")
	}

	basket := cart.New()
	for _, w := range wanted {
		found := false
		for _, p := range products {
			if p.ID == w.id {
				basket.Add(p)
				basket.SetQuantity(p.ID, w.quantity)
				found = true
				break
			}
		}
		if !found {
			logger.Fatal().Str("product_id", w.id).Msg("unknown product")
		}
	}
	logger.Info().Int("lines", basket.Len()).Str("total", formatMinor(basket.Total())).Msg("cart filled")

	checkoutFlow := flow.New(basket, api)
	if err := checkoutFlow.ProceedToCheckout(); err != nil {
		logger.Fatal().Err(err).Str("reason", checkoutFlow.LastError()).Msg("proceed to checkout")
	}
	logger.Info().Stringer("state", checkoutFlow.State()).Msg("reviewing order")

	session, err := checkoutFlow.Pay(ctx)
	if err != nil {
		logger.Fatal().Err(err).Str("reason", checkoutFlow.LastError()).Msg("create checkout session")
	}

	fmt.Printf("\ncheckout session: %s\n", session.ID)
	if session.URL != "" {
		fmt.Printf("open to pay:      %s\n", session.URL)
	}
}

type buyLine struct {
	id       string
	quantity int64
}

func parseBuy(raw string) ([]buyLine, error) {
	var lines []buyLine
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, qty, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("expected product_id=quantity, got %q", pair)
		}
		n, err := strconv.ParseInt(strings.TrimSpace(qty), 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid quantity in %q", pair)
		}
		lines = append(lines, buyLine{id: strings.TrimSpace(id), quantity: n})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no products requested")
	}
	return lines, nil
}

func formatMinor(amount int64) string {
	return fmt.Sprintf("$%d.%02d", amount/100, amount%100)
}
