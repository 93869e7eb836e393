package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/cartworks/storefront-backend/pkg/config"
)

// PricedLine is one purchasable cart line with its unit price frozen.
type PricedLine struct {
	Quantity  int
	UnitPrice int64
}

// Totals holds the order amounts in currency minor units.
type Totals struct {
	Subtotal    int64
	ShippingFee int64
	Total       int64
}

// ComputeTotals sums line amounts and applies the flat shipping fee unless the
// subtotal clears the free shipping threshold. Line math runs on decimals so a
// later move to fractional pricing does not change the call sites.
func ComputeTotals(lines []PricedLine, cfg config.CheckoutConfig) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := decimal.NewFromInt(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}

	fee := decimal.NewFromInt(cfg.ShippingFee)
	if subtotal.GreaterThanOrEqual(decimal.NewFromInt(cfg.FreeShippingThreshold)) {
		fee = decimal.Zero
	}

	return Totals{
		Subtotal:    subtotal.IntPart(),
		ShippingFee: fee.IntPart(),
		Total:       subtotal.Add(fee).IntPart(),
	}
}

// LineTotal returns quantity times unit price for one line.
func LineTotal(quantity int, unitPrice int64) int64 {
	return decimal.NewFromInt(unitPrice).Mul(decimal.NewFromInt(int64(quantity))).IntPart()
}
