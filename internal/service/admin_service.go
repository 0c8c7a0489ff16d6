package service

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/pricing"
)

const (
	lowStockThreshold = 10
	recentOrdersLimit = 5
	topProductsLimit  = 5

	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

type OrderSort string

const (
	SortOrdersNewest    OrderSort = "newest"
	SortOrdersOldest    OrderSort = "oldest"
	SortOrdersTotalHigh OrderSort = "total-high"
	SortOrdersTotalLow  OrderSort = "total-low"
)

func (s OrderSort) Valid() bool {
	switch s {
	case "", SortOrdersNewest, SortOrdersOldest, SortOrdersTotalHigh, SortOrdersTotalLow:
		return true
	}
	return false
}

type OrderQuery struct {
	Search string
	Status domain.OrderStatus
	Sort   OrderSort
}

type Dashboard struct {
	TotalRevenue     domain.Money     `json:"totalRevenue"`
	TotalOrders      int              `json:"totalOrders"`
	TotalProducts    int              `json:"totalProducts"`
	InStockProducts  int              `json:"inStockProducts"`
	OutOfStock       int              `json:"outOfStockProducts"`
	LowStockProducts int              `json:"lowStockProducts"`
	RecentOrders     []domain.Order   `json:"recentOrders"`
	TopProducts      []domain.Product `json:"topProducts"`
}

// DocumentRevision is an earlier stored version of a whole collection.
type DocumentRevision struct {
	Number    int64           `json:"number"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"createdAt"`
}

type AdminService struct {
	orders   port.OrderRepository
	products port.ProductRepository
	policy   pricing.Policy
	history  port.KeyHistory
}

type AdminOption func(*AdminService)

// WithHistory enables History on stores that keep revisions.
func WithHistory(history port.KeyHistory) AdminOption {
	return func(s *AdminService) {
		s.history = history
	}
}

func NewAdminService(orders port.OrderRepository, products port.ProductRepository, policy pricing.Policy, opts ...AdminOption) *AdminService {
	s := &AdminService{
		orders:   orders,
		products: products,
		policy:   policy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History returns up to limit stored versions of the orders or products collection, newest first.
// limit 0 means the default. Users are not exposed because their documents hold password hashes.
func (s *AdminService) History(ctx context.Context, collection string, limit int) ([]DocumentRevision, error) {
	if collection != port.KeyOrders && collection != port.KeyProducts {
		return nil, invalid("collection[%s] has no history", collection)
	}
	if limit < 0 || limit > maxHistoryLimit {
		return nil, invalid("limit must be between 0 and %d", maxHistoryLimit)
	}
	if limit == 0 {
		limit = defaultHistoryLimit
	}
	if s.history == nil {
		return nil, fmt.Errorf("revision history: %w", domain.ErrNotFound)
	}

	revisions, err := s.history.Revisions(ctx, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("history.Revisions: %w", err)
	}

	out := make([]DocumentRevision, 0, len(revisions))
	for _, rev := range revisions {
		out = append(out, DocumentRevision{
			Number:    rev.Number,
			Value:     json.RawMessage(rev.Value),
			CreatedAt: rev.CreatedAt,
		})
	}
	return out, nil
}

func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("orders.List: %w", err)
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("products.List: %w", err)
	}

	d := Dashboard{
		TotalRevenue:  domain.ZeroMoney(s.policy.Currency),
		TotalOrders:   len(orders),
		TotalProducts: len(products),
	}

	for _, o := range orders {
		if d.TotalRevenue, err = d.TotalRevenue.Add(o.Total); err != nil {
			return Dashboard{}, fmt.Errorf("order[%s]: %w", o.ID, err)
		}
	}

	for _, p := range products {
		if p.InStock() {
			d.InStockProducts++
		} else {
			d.OutOfStock++
		}
		if p.StockQuantity < lowStockThreshold {
			d.LowStockProducts++
		}
	}

	sortOrders(orders, SortOrdersNewest)
	d.RecentOrders = orders[:min(recentOrdersLimit, len(orders))]

	slices.SortStableFunc(products, func(a, b domain.Product) int {
		return cmp.Compare(b.ReviewCount, a.ReviewCount)
	})
	d.TopProducts = products[:min(topProductsLimit, len(products))]

	return d, nil
}

// Orders lists all orders matching q. Search matches the order ID or the shipping first or last name.
func (s *AdminService) Orders(ctx context.Context, q OrderQuery) ([]domain.Order, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, invalid("status[%s] is not valid", q.Status)
	}
	if !q.Sort.Valid() {
		return nil, invalid("sort[%s] is not valid", q.Sort)
	}

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders.List: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))

	result := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if search != "" && !orderMatches(o, search) {
			continue
		}
		result = append(result, o)
	}

	sortOrders(result, q.Sort)
	return result, nil
}

func orderMatches(o domain.Order, search string) bool {
	return strings.Contains(strings.ToLower(o.ID.String()), search) ||
		strings.Contains(strings.ToLower(o.ShippingAddress.FirstName), search) ||
		strings.Contains(strings.ToLower(o.ShippingAddress.LastName), search)
}

func sortOrders(orders []domain.Order, by OrderSort) {
	switch by {
	case SortOrdersOldest:
		slices.SortStableFunc(orders, func(a, b domain.Order) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortOrdersTotalHigh:
		slices.SortStableFunc(orders, func(a, b domain.Order) int {
			return b.Total.Amount.Cmp(a.Total.Amount)
		})
	case SortOrdersTotalLow:
		slices.SortStableFunc(orders, func(a, b domain.Order) int {
			return a.Total.Amount.Cmp(b.Total.Amount)
		})
	default:
		slices.SortStableFunc(orders, func(a, b domain.Order) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}
