package repository_test

import (
	"context"
	"errors"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var errStoreDown = errors.New("store is down")

// flakyStore fails every Set while failSet is true.
type flakyStore struct {
	port.KeyValueStore

	mu      sync.Mutex
	failSet bool
	sets    int
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSet {
		return errStoreDown
	}
	s.sets++
	return s.KeyValueStore.Set(ctx, key, value)
}

var moneyComparer = cmp.Comparer(func(x, y domain.Money) bool {
	return x.Currency == y.Currency && x.Amount.Equal(y.Amount)
})

func randomProduct() domain.Product {
	return domain.Product{
		ID:            uuid.MustParse(gofakeit.UUID()),
		Name:          gofakeit.ProductName(),
		Description:   gofakeit.ProductDescription(),
		Price:         randomMoney(),
		Category:      gofakeit.ProductCategory(),
		Brand:         gofakeit.Company(),
		SKU:           gofakeit.LetterN(8),
		Tags:          []string{gofakeit.Word(), gofakeit.Word()},
		Rating:        gofakeit.Float64Range(1, 5),
		ReviewCount:   gofakeit.IntRange(0, 500),
		StockQuantity: gofakeit.IntRange(1, 100),
	}
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: currency.USD,
	}
}
