package pricing_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCompute(t *testing.T) {
	policy := pricing.DefaultPolicy()

	tests := []struct {
		name         string
		items        []domain.CartItem
		wantSubtotal string
		wantShipping string
		wantTax      string
		wantTotal    string
		wantToFree   string
	}{
		{
			name:         "below threshold: flat shipping",
			items:        []domain.CartItem{cartItem("60", 1)},
			wantSubtotal: "60",
			wantShipping: "9.99",
			wantTax:      "4.8",
			wantTotal:    "74.79",
			wantToFree:   "39",
		},
		{
			name:         "exactly at threshold: free shipping",
			items:        []domain.CartItem{cartItem("99", 1)},
			wantSubtotal: "99",
			wantShipping: "0",
			wantTax:      "7.92",
			wantTotal:    "106.92",
			wantToFree:   "0",
		},
		{
			name:         "above threshold: free shipping",
			items:        []domain.CartItem{cartItem("100", 1)},
			wantSubtotal: "100",
			wantShipping: "0",
			wantTax:      "8",
			wantTotal:    "108",
			wantToFree:   "0",
		},
		{
			name:         "quantities multiply",
			items:        []domain.CartItem{cartItem("19.99", 3), cartItem("5.5", 2)},
			wantSubtotal: "70.97",
			wantShipping: "9.99",
			wantTax:      "5.6776",
			wantTotal:    "86.6376",
			wantToFree:   "28.03",
		},
		{
			name:         "empty cart",
			items:        nil,
			wantSubtotal: "0",
			wantShipping: "9.99",
			wantTax:      "0",
			wantTotal:    "9.99",
			wantToFree:   "99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := policy.Compute(tt.items)
			require.NoError(t, err)

			assertAmount(t, tt.wantSubtotal, b.Subtotal)
			assertAmount(t, tt.wantShipping, b.Shipping)
			assertAmount(t, tt.wantTax, b.Tax)
			assertAmount(t, tt.wantTotal, b.Total)
			assertAmount(t, tt.wantToFree, b.FreeShippingRemaining)

			sum := b.Subtotal.Amount.Add(b.Shipping.Amount).Add(b.Tax.Amount)
			assert.True(t, sum.Equal(b.Total.Amount), "total must equal subtotal + shipping + tax")
		})
	}
}

func TestComputeRounded(t *testing.T) {
	b, err := pricing.DefaultPolicy().Compute([]domain.CartItem{cartItem("19.99", 3), cartItem("5.5", 2)})
	require.NoError(t, err)

	r := b.Rounded()
	assert.Equal(t, "USD 5.68", r.Tax.String())
	assert.Equal(t, "USD 86.64", r.Total.String())
	assert.Equal(t, "USD 70.97", r.Subtotal.String())
}

func TestSubtotalIndependentOfOrder(t *testing.T) {
	policy := pricing.DefaultPolicy()

	items := make([]domain.CartItem, 10)
	for i := range items {
		items[i] = randomCartItem()
	}

	want, err := policy.Subtotal(items)
	require.NoError(t, err)

	for range 5 {
		shuffled := append([]domain.CartItem(nil), items...)
		gofakeit.ShuffleAnySlice(shuffled)

		got, err := policy.Subtotal(shuffled)
		require.NoError(t, err)
		assert.True(t, want.Amount.Equal(got.Amount), "want %s, got %s", want, got)
	}
}

func TestShippingThreshold(t *testing.T) {
	policy := pricing.DefaultPolicy()

	for range 50 {
		amount := decimal.NewFromFloat(gofakeit.Price(0, 200)).Round(2)
		shipping := policy.Shipping(domain.NewMoney(amount, currency.USD))

		if amount.GreaterThanOrEqual(decimal.NewFromInt(99)) {
			assert.True(t, shipping.IsZero(), "subtotal %s", amount)
		} else {
			assert.Equal(t, "9.99", shipping.Amount.String(), "subtotal %s", amount)
		}
	}
}

func TestComputeCurrencyMismatch(t *testing.T) {
	item := cartItem("10", 1)
	item.Product.Price.Currency = currency.EUR

	_, err := pricing.DefaultPolicy().Compute([]domain.CartItem{item})
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestPolicyValidate(t *testing.T) {
	p := pricing.DefaultPolicy()
	require.NoError(t, p.Validate())

	p.TaxRate = decimal.NewFromInt(-1)
	require.EqualError(t, p.Validate(), "tax rate is negative")
}

func cartItem(price string, quantity int) domain.CartItem {
	return domain.CartItem{
		Product: domain.Product{
			ID:            uuid.New(),
			Name:          gofakeit.ProductName(),
			Price:         domain.MustMoney(price, currency.USD),
			StockQuantity: 100,
		},
		Quantity: quantity,
	}
}

func randomCartItem() domain.CartItem {
	price := decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2)
	item := cartItem(price.String(), gofakeit.IntRange(1, 5))
	return item
}

func assertAmount(t *testing.T, want string, got domain.Money) {
	t.Helper()

	assert.True(t, decimal.RequireFromString(want).Equal(got.Amount), "want %s, got %s", want, got.Amount)
	assert.Equal(t, currency.USD, got.Currency)
}
