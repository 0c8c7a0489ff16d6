package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/kv"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type catalogServiceSuite struct {
	suite.Suite

	svc *service.CatalogService

	headphones domain.Product
	keyboard   domain.Product
	jacket     domain.Product
	mug        domain.Product
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(catalogServiceSuite))
}

func (suite *catalogServiceSuite) SetupTest() {
	t := suite.T()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.headphones = domain.Product{
		ID: uuid.New(), Name: "Wireless Headphones", Description: "Noise cancelling over-ear",
		Price: usd("199.99"), Category: "Electronics", Brand: "AudioTech", Tags: []string{"audio", "bluetooth"},
		Rating: 4.5, ReviewCount: 120, StockQuantity: 15, Featured: true, CreatedAt: base,
	}
	suite.keyboard = domain.Product{
		ID: uuid.New(), Name: "mechanical keyboard", Description: "RGB backlit",
		Price: usd("89.00"), Category: "Electronics", Brand: "KeyCo", Tags: []string{"gaming"},
		Rating: 4.8, ReviewCount: 40, StockQuantity: 0, OnSale: true, CreatedAt: base.Add(48 * time.Hour),
	}
	suite.jacket = domain.Product{
		ID: uuid.New(), Name: "Rain Jacket", Description: "Waterproof shell",
		Price: usd("120.00"), Category: "Clothing", Brand: "Outdoorsy",
		Rating: 4.1, ReviewCount: 300, StockQuantity: 4, Featured: true, OnSale: true, CreatedAt: base.Add(24 * time.Hour),
	}
	suite.mug = domain.Product{
		ID: uuid.New(), Name: "Coffee Mug", Description: "Ceramic, 350ml",
		Price: usd("12.50"), Category: "Home", Brand: "AudioTech",
		Rating: 3.9, ReviewCount: 8, StockQuantity: 200, CreatedAt: base.Add(72 * time.Hour),
	}

	products := repository.NewProduct(kv.NewMemory())
	require.NoError(t, products.Seed(t.Context(), []domain.Product{suite.headphones, suite.keyboard, suite.jacket, suite.mug}))

	categories := []domain.Category{{ID: "1", Name: "Electronics", Slug: "electronics"}}
	suite.svc = service.NewCatalogService(products, categories, pricing.DefaultPolicy(), nopLogger())
}

func ids(products []domain.Product) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func (suite *catalogServiceSuite) TestSearch() {
	tests := []struct {
		name  string
		query string
		want  []uuid.UUID
	}{
		{name: "name case-insensitive", query: "KEYBOARD", want: []uuid.UUID{suite.keyboard.ID}},
		{name: "description", query: "waterproof", want: []uuid.UUID{suite.jacket.ID}},
		{name: "brand", query: "audiotech", want: []uuid.UUID{suite.headphones.ID, suite.mug.ID}},
		{name: "tag", query: "bluetooth", want: []uuid.UUID{suite.headphones.ID}},
		{name: "category", query: "cloth", want: []uuid.UUID{suite.jacket.ID}},
		{name: "no match", query: "submarine", want: []uuid.UUID{}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			// default sort puts featured products first
			got, err := suite.svc.Search(t.Context(), tt.query)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, ids(got))
		})
	}
}

func (suite *catalogServiceSuite) TestBrowseSorts() {
	tests := []struct {
		sort service.ProductSort
		want []uuid.UUID
	}{
		{service.SortFeatured, []uuid.UUID{suite.headphones.ID, suite.jacket.ID, suite.keyboard.ID, suite.mug.ID}},
		{service.SortPriceAsc, []uuid.UUID{suite.mug.ID, suite.keyboard.ID, suite.jacket.ID, suite.headphones.ID}},
		{service.SortPriceDesc, []uuid.UUID{suite.headphones.ID, suite.jacket.ID, suite.keyboard.ID, suite.mug.ID}},
		{service.SortRating, []uuid.UUID{suite.keyboard.ID, suite.headphones.ID, suite.jacket.ID, suite.mug.ID}},
		{service.SortNewest, []uuid.UUID{suite.mug.ID, suite.keyboard.ID, suite.jacket.ID, suite.headphones.ID}},
		{service.SortName, []uuid.UUID{suite.mug.ID, suite.keyboard.ID, suite.jacket.ID, suite.headphones.ID}},
	}

	for _, tt := range tests {
		suite.Run(string(tt.sort), func() {
			t := suite.T()

			got, err := suite.svc.Browse(t.Context(), service.Filter{Sort: tt.sort})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func (suite *catalogServiceSuite) TestBrowseFilters() {
	minPrice := decimal.NewFromInt(50)
	maxPrice := decimal.NewFromInt(150)

	tests := []struct {
		name   string
		filter service.Filter
		want   []uuid.UUID
	}{
		{
			name:   "category",
			filter: service.Filter{Category: "electronics", Sort: service.SortPriceAsc},
			want:   []uuid.UUID{suite.keyboard.ID, suite.headphones.ID},
		},
		{
			name:   "price range",
			filter: service.Filter{MinPrice: &minPrice, MaxPrice: &maxPrice, Sort: service.SortPriceAsc},
			want:   []uuid.UUID{suite.keyboard.ID, suite.jacket.ID},
		},
		{
			name:   "in stock and on sale",
			filter: service.Filter{InStock: true, OnSale: true},
			want:   []uuid.UUID{suite.jacket.ID},
		},
		{
			name:   "brands and rating",
			filter: service.Filter{Brands: []string{"audiotech"}, MinRating: 4},
			want:   []uuid.UUID{suite.headphones.ID},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			got, err := suite.svc.Browse(t.Context(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func (suite *catalogServiceSuite) TestBrowseUnknownSort() {
	_, err := suite.svc.Browse(suite.T().Context(), service.Filter{Sort: "cheapest"})
	require.ErrorIs(suite.T(), err, domain.ErrInvalidInput)
}

func (suite *catalogServiceSuite) TestFeaturedBrandsCategories() {
	t := suite.T()
	ctx := t.Context()

	featured, err := suite.svc.Featured(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{suite.headphones.ID, suite.jacket.ID}, ids(featured))

	brands, err := suite.svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AudioTech", "KeyCo", "Outdoorsy"}, brands)

	byCategory, err := suite.svc.ByCategory(ctx, "HOME")
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{suite.mug.ID}, ids(byCategory))

	assert.Len(t, suite.svc.Categories(), 1)
}

func (suite *catalogServiceSuite) TestAdminCRUD() {
	t := suite.T()
	ctx := t.Context()

	added, err := suite.svc.Add(ctx, domain.Product{Name: "Desk Lamp", Price: usd("35"), StockQuantity: 3})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, added.ID)
	assert.False(t, added.CreatedAt.IsZero())

	name := "LED Desk Lamp"
	stock := 0
	updated, err := suite.svc.Update(ctx, added.ID, service.ProductPatch{Name: &name, StockQuantity: &stock})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.False(t, updated.InStock())

	negative := -1
	_, err = suite.svc.Update(ctx, added.ID, service.ProductPatch{StockQuantity: &negative})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := suite.svc.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)

	require.NoError(t, suite.svc.Delete(ctx, added.ID))
	require.ErrorIs(t, suite.svc.Delete(ctx, added.ID), domain.ErrNotFound)

	_, err = suite.svc.Get(ctx, added.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *catalogServiceSuite) TestRejectsForeignCurrency() {
	t := suite.T()
	ctx := t.Context()
	euros := domain.MustMoney("30", currency.EUR)

	tests := []struct {
		name    string
		product domain.Product
	}{
		{
			name:    "price in another currency",
			product: domain.Product{Name: "Espresso Cup", Price: euros, StockQuantity: 5},
		},
		{
			name:    "original price in another currency",
			product: domain.Product{Name: "Espresso Cup", Price: usd("30"), OriginalPrice: &euros, StockQuantity: 5},
		},
		{
			name: "variation price in another currency",
			product: domain.Product{
				Name: "Espresso Cup", Price: usd("30"), StockQuantity: 5,
				Variations: []domain.Variation{{ID: "v1", Type: domain.VariationColor, Value: "white", InStock: true, Price: &euros}},
			},
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.svc.Add(ctx, tt.product)
			require.ErrorIs(suite.T(), err, domain.ErrCurrencyMismatch)
		})
	}

	_, err := suite.svc.Update(ctx, suite.mug.ID, service.ProductPatch{Price: &euros})
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)

	got, err := suite.svc.Get(ctx, suite.mug.ID)
	require.NoError(t, err)
	assert.Equal(t, "USD 12.50", got.Price.String())

	all, err := suite.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
