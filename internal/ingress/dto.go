// Package ingress holds the external-facing adapters that convert an
// outside representation of an order into the core's tick-based Order and
// hand it to a Router. This is the API boundary the source's design notes
// call out: shopspring/decimal is used here, and nowhere inside
// internal/matching.
package ingress

import (
	"fmt"

	"github.com/lanternfin/matchcore/internal/matching"
	"github.com/shopspring/decimal"
)

// OrderMessage is the wire shape accepted from Kafka (the demo generator
// builds core Orders directly and does not use it): symbol/side as strings,
// price/quantity as decimal strings so
// they survive JSON exactly (no float64 rounding before the tick
// conversion below).
type OrderMessage struct {
	Symbol   string `json:"symbol"`
	Side     string `json:"side"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

// ToOrder converts m into a core Order, quantizing Price to ticks of size
// tickSize by rounding to the nearest whole tick (halves away from zero, not
// banker's rounding): the caller is
// responsible for ensuring upstream prices are already tick-aligned, as the
// book does not re-validate (per the price representation design note).
func ToOrder(gen *matching.IDGenerator, m OrderMessage, tickSize decimal.Decimal) (*matching.Order, error) {
	var side matching.Side
	switch m.Side {
	case "BUY":
		side = matching.Buy
	case "SELL":
		side = matching.Sell
	default:
		return nil, fmt.Errorf("ingress: unknown side %q", m.Side)
	}

	price, err := decimal.NewFromString(m.Price)
	if err != nil {
		return nil, fmt.Errorf("ingress: invalid price %q: %w", m.Price, err)
	}
	qty, err := decimal.NewFromString(m.Quantity)
	if err != nil {
		return nil, fmt.Errorf("ingress: invalid quantity %q: %w", m.Quantity, err)
	}

	priceTick := PriceToTicks(price, tickSize)
	quantity := qty.IntPart()

	return matching.NewOrder(gen, m.Symbol, side, priceTick, quantity), nil
}

// PriceToTicks converts an external decimal price to an integer tick count.
// This is the only place a decimal-to-tick conversion happens; the core
// never sees a decimal.Decimal.
func PriceToTicks(price, tickSize decimal.Decimal) int64 {
	return price.Div(tickSize).Round(0).IntPart()
}

// TicksToPrice converts a tick count back to a decimal price, for
// diagnostics/snapshot display at the driver layer.
func TicksToPrice(ticks int64, tickSize decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(ticks).Mul(tickSize)
}
