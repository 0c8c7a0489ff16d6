// Package pricing derives cart totals: subtotal, threshold-based shipping, flat-rate tax and total.
// All functions are pure; nothing here is cached.
package pricing

import (
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Policy struct {
	Currency              currency.Unit
	FreeShippingThreshold decimal.Decimal
	FlatShipping          decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{
		Currency:              currency.USD,
		FreeShippingThreshold: decimal.NewFromInt(99),
		FlatShipping:          decimal.RequireFromString("9.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

func (p Policy) Validate() error {
	if p.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("free shipping threshold is negative")
	}
	if p.FlatShipping.IsNegative() {
		return fmt.Errorf("flat shipping is negative")
	}
	if p.TaxRate.IsNegative() {
		return fmt.Errorf("tax rate is negative")
	}
	return nil
}

type Breakdown struct {
	Subtotal domain.Money `json:"subtotal"`
	Shipping domain.Money `json:"shipping"`
	Tax      domain.Money `json:"tax"`
	Total    domain.Money `json:"total"`

	// FreeShippingRemaining is how much more must be spent to ship for free; zero once reached.
	FreeShippingRemaining domain.Money `json:"freeShippingRemaining"`
	ItemCount             int          `json:"itemCount"`
}

// Rounded returns the breakdown with every amount rounded to the currency's minor unit.
func (b Breakdown) Rounded() Breakdown {
	b.Subtotal = b.Subtotal.Round()
	b.Shipping = b.Shipping.Round()
	b.Tax = b.Tax.Round()
	b.Total = b.Total.Round()
	b.FreeShippingRemaining = b.FreeShippingRemaining.Round()
	return b
}

func (p Policy) Subtotal(items []domain.CartItem) (domain.Money, error) {
	subtotal := domain.ZeroMoney(p.Currency)

	for _, item := range items {
		line := item.Product.Price.MulInt(item.Quantity)

		var err error
		subtotal, err = subtotal.Add(line)
		if err != nil {
			return domain.Money{}, fmt.Errorf("product[%s]: %w", item.Product.ID, err)
		}
	}

	return subtotal, nil
}

func (p Policy) Shipping(subtotal domain.Money) domain.Money {
	if subtotal.Amount.GreaterThanOrEqual(p.FreeShippingThreshold) {
		return domain.ZeroMoney(subtotal.Currency)
	}
	return domain.NewMoney(p.FlatShipping, subtotal.Currency)
}

func (p Policy) Tax(subtotal domain.Money) domain.Money {
	return subtotal.Mul(p.TaxRate)
}

func (p Policy) FreeShippingRemaining(subtotal domain.Money) domain.Money {
	remaining := p.FreeShippingThreshold.Sub(subtotal.Amount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return domain.NewMoney(remaining, subtotal.Currency)
}

func (p Policy) Compute(items []domain.CartItem) (Breakdown, error) {
	subtotal, err := p.Subtotal(items)
	if err != nil {
		return Breakdown{}, fmt.Errorf("p.Subtotal: %w", err)
	}

	shipping := p.Shipping(subtotal)
	tax := p.Tax(subtotal)

	// same currency by construction
	total := domain.NewMoney(subtotal.Amount.Add(shipping.Amount).Add(tax.Amount), p.Currency)

	var count int
	for _, item := range items {
		count += item.Quantity
	}

	return Breakdown{
		Subtotal:              subtotal,
		Shipping:              shipping,
		Tax:                   tax,
		Total:                 total,
		FreeShippingRemaining: p.FreeShippingRemaining(subtotal),
		ItemCount:             count,
	}, nil
}
