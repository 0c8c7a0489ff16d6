package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const featuredLimit = 8

type ProductSort string

const (
	SortFeatured  ProductSort = "featured"
	SortPriceAsc  ProductSort = "price-asc"
	SortPriceDesc ProductSort = "price-desc"
	SortRating    ProductSort = "rating"
	SortNewest    ProductSort = "newest"
	SortName      ProductSort = "name"
)

func (s ProductSort) Valid() bool {
	switch s {
	case "", SortFeatured, SortPriceAsc, SortPriceDesc, SortRating, SortNewest, SortName:
		return true
	}
	return false
}

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Category  string
	Query     string
	Brands    []string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating float64
	InStock   bool
	OnSale    bool
	Sort      ProductSort
}

// ProductPatch carries the fields an admin may change; nil fields are left alone.
type ProductPatch struct {
	Name          *string       `json:"name,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Price         *domain.Money `json:"price,omitempty"`
	OriginalPrice *domain.Money `json:"originalPrice,omitempty"`
	Category      *string       `json:"category,omitempty"`
	Subcategory   *string       `json:"subcategory,omitempty"`
	Brand         *string       `json:"brand,omitempty"`
	StockQuantity *int          `json:"stockQuantity,omitempty"`
	Featured      *bool         `json:"featured,omitempty"`
	OnSale        *bool         `json:"onSale,omitempty"`
	Images        []string      `json:"images,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
}

func (p ProductPatch) apply(product *domain.Product) error {
	if p.Name != nil {
		if *p.Name == "" {
			return invalid("name is empty")
		}
		product.Name = *p.Name
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.Price != nil {
		if p.Price.Amount.IsNegative() {
			return invalid("price is negative")
		}
		product.Price = *p.Price
	}
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		product.OriginalPrice = &op
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Subcategory != nil {
		product.Subcategory = *p.Subcategory
	}
	if p.Brand != nil {
		product.Brand = *p.Brand
	}
	if p.StockQuantity != nil {
		if *p.StockQuantity < 0 {
			return invalid("stock quantity is negative")
		}
		product.StockQuantity = *p.StockQuantity
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
	if p.OnSale != nil {
		product.OnSale = *p.OnSale
	}
	if p.Images != nil {
		product.Images = slices.Clone(p.Images)
	}
	if p.Tags != nil {
		product.Tags = slices.Clone(p.Tags)
	}
	return nil
}

type CatalogService struct {
	products   port.ProductRepository
	categories []domain.Category
	currency   currency.Unit
	logger     zerolog.Logger
	now        Clock
}

// NewCatalogService serves products priced in the policy currency; Add and Update reject any other.
func NewCatalogService(products port.ProductRepository, categories []domain.Category, policy pricing.Policy, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		currency:   policy.Currency,
		logger:     logger.With().Str("component", "catalog").Logger(),
		now:        time.Now,
	}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("products.List: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.Get: %w", err)
	}
	return product, nil
}

func (s *CatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var featured []domain.Product
	for _, p := range products {
		if !p.Featured {
			continue
		}
		featured = append(featured, p)
		if len(featured) == featuredLimit {
			break
		}
	}
	return featured, nil
}

func (s *CatalogService) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.Browse(ctx, Filter{Category: category})
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	return s.Browse(ctx, Filter{Query: query})
}

// Browse filters the catalog and sorts the result. Ties keep catalog order.
func (s *CatalogService) Browse(ctx context.Context, f Filter) ([]domain.Product, error) {
	if !f.Sort.Valid() {
		return nil, invalid("sort[%s] is not valid", f.Sort)
	}

	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			result = append(result, p)
		}
	}

	sortProducts(result, f.Sort)
	return result, nil
}

func (f Filter) matches(p domain.Product) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Query != "" && !matchesQuery(p, f.Query) {
		return false
	}
	if len(f.Brands) > 0 && !slices.ContainsFunc(f.Brands, func(b string) bool {
		return strings.EqualFold(b, p.Brand)
	}) {
		return false
	}
	if f.MinPrice != nil && p.Price.Amount.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.Amount.GreaterThan(*f.MaxPrice) {
		return false
	}
	if p.Rating < f.MinRating {
		return false
	}
	if f.InStock && !p.InStock() {
		return false
	}
	if f.OnSale && !p.OnSale {
		return false
	}
	return true
}

func matchesQuery(p domain.Product, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	fields := append([]string{p.Name, p.Description, p.Category, p.Brand}, p.Tags...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func sortProducts(products []domain.Product, by ProductSort) {
	switch by {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return a.Price.Amount.Cmp(b.Price.Amount)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.Price.Amount.Cmp(a.Price.Amount)
		})
	case SortRating:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		})
	case SortNewest:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortName:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	default:
		// featured first, then catalog order
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			switch {
			case a.Featured == b.Featured:
				return 0
			case a.Featured:
				return -1
			default:
				return 1
			}
		})
	}
}

// Brands returns the distinct brands in the catalog, sorted.
func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	products, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	brands := make([]string, 0, len(products))
	for _, p := range products {
		if p.Brand != "" {
			brands = append(brands, p.Brand)
		}
	}
	slices.Sort(brands)
	return slices.Compact(brands), nil
}

func (s *CatalogService) Categories() []domain.Category {
	return slices.Clone(s.categories)
}

func (s *CatalogService) Add(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.Name == "" {
		return domain.Product{}, invalid("name is empty")
	}
	if product.Price.Amount.IsNegative() {
		return domain.Product{}, invalid("price is negative")
	}
	if product.StockQuantity < 0 {
		return domain.Product{}, invalid("stock quantity is negative")
	}
	if err := s.checkCurrency(product); err != nil {
		return domain.Product{}, err
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = s.now().UTC()
	}

	if err := s.products.Add(ctx, product); err != nil {
		return domain.Product{}, fmt.Errorf("products.Add: %w", err)
	}

	s.logger.Info().Stringer("product_id", product.ID).Str("name", product.Name).Msg("product added")
	return product, nil
}

func (s *CatalogService) Update(ctx context.Context, productID uuid.UUID, patch ProductPatch) (domain.Product, error) {
	product, err := s.products.Update(ctx, productID, func(p *domain.Product) error {
		if err := patch.apply(p); err != nil {
			return err
		}
		return s.checkCurrency(*p)
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.Update: %w", err)
	}

	s.logger.Debug().Stringer("product_id", productID).Msg("product updated")
	return product, nil
}

// checkCurrency requires every price of the product to be in the catalog currency.
func (s *CatalogService) checkCurrency(p domain.Product) error {
	prices := []domain.Money{p.Price}
	if p.OriginalPrice != nil {
		prices = append(prices, *p.OriginalPrice)
	}
	for _, v := range p.Variations {
		if v.Price != nil {
			prices = append(prices, *v.Price)
		}
	}

	for _, price := range prices {
		if price.Currency != s.currency {
			return fmt.Errorf("product[%s] priced in %s, catalog in %s: %w",
				p.ID, price.Currency, s.currency, domain.ErrCurrencyMismatch)
		}
	}
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, productID uuid.UUID) error {
	deleted, err := s.products.Delete(ctx, productID)
	if err != nil {
		return fmt.Errorf("products.Delete: %w", err)
	}
	if !deleted {
		return fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
	}

	s.logger.Info().Stringer("product_id", productID).Msg("product deleted")
	return nil
}
