package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/kv"
	"github.com/nikolayk812/storefront/internal/messaging"
	"github.com/nikolayk812/storefront/internal/payment"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type apiSuite struct {
	suite.Suite

	server  *httptest.Server
	tshirt  domain.Product
	soldOut domain.Product
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(apiSuite))
}

func (suite *apiSuite) SetupTest() {
	t := suite.T()
	ctx := t.Context()
	store := kv.NewMemory()
	logger := zerolog.Nop()
	policy := pricing.DefaultPolicy()

	products := repository.NewProduct(store)
	carts := repository.NewCart(store)
	orders := repository.NewOrder(store)
	users := repository.NewUser(store)
	publisher := messaging.NewNop()

	suite.tshirt = domain.Product{
		ID: uuid.New(), Name: "Cotton T-Shirt", Price: domain.MustMoney("20", currency.USD),
		Category: "Clothing", Brand: "Basics", StockQuantity: 30, Featured: true, CreatedAt: time.Now().UTC(),
		Variations: []domain.Variation{{ID: "v1", Type: domain.VariationSize, Name: "Large", Value: "L", InStock: true}},
	}
	suite.soldOut = domain.Product{
		ID: uuid.New(), Name: "Linen Shirt", Price: domain.MustMoney("45", currency.USD),
		Category: "Clothing", Brand: "Basics", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, products.Seed(ctx, []domain.Product{suite.tshirt, suite.soldOut}))

	h := api.NewHandler(api.Services{
		Catalog:  service.NewCatalogService(products, nil, policy, logger),
		Carts:    service.NewCartService(carts, products, users, policy, logger),
		Checkout: service.NewCheckoutService(carts, orders, payment.NewSimulated(0), publisher, policy, logger),
		Orders:   service.NewOrderService(orders, publisher, logger),
		Accounts: service.NewAccountService(users, products, logger),
		Admin:    service.NewAdminService(orders, products, policy),
	}, logger)

	suite.server = httptest.NewServer(api.NewRouter(h))
}

func (suite *apiSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *apiSuite) do(method, path string, body any, out any) int {
	t := suite.T()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(t.Context(), method, suite.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (suite *apiSuite) TestProducts() {
	t := suite.T()

	var products []domain.Product
	status := suite.do(http.MethodGet, "/api/v1/products?q=shirt&sort=price-desc", nil, &products)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, products, 2)
	assert.Equal(t, suite.soldOut.ID, products[0].ID)

	status = suite.do(http.MethodGet, "/api/v1/products?inStock=true", nil, &products)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, products, 1)
	assert.Equal(t, suite.tshirt.ID, products[0].ID)

	var product domain.Product
	status = suite.do(http.MethodGet, "/api/v1/products/"+suite.tshirt.ID.String(), nil, &product)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, suite.tshirt.Name, product.Name)

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/products/nope", nil, &errBody))
	assert.Equal(t, http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/products?minPrice=abc", nil, &errBody))
	assert.NotEmpty(t, errBody["error"])
}

func (suite *apiSuite) TestCartCheckoutAndAdmin() {
	t := suite.T()
	ownerID := "session-1"
	cartPath := "/api/v1/carts/" + ownerID

	var view service.CartView
	status := suite.do(http.MethodPost, cartPath+"/items", map[string]any{
		"productId":          suite.tshirt.ID,
		"quantity":           3,
		"selectedVariations": map[string]string{"size": "L"},
	}, &view)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "USD 60.00", view.Pricing.Subtotal.String())
	assert.Equal(t, "USD 74.79", view.Pricing.Total.String())

	var errBody map[string]string
	status = suite.do(http.MethodPost, cartPath+"/items", map[string]any{
		"productId": suite.soldOut.ID,
		"quantity":  1,
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)

	var order domain.Order
	status = suite.do(http.MethodPost, "/api/v1/checkout", map[string]any{
		"userId":  "u1",
		"ownerId": ownerID,
		"shippingAddress": domain.Address{
			FirstName: "Ada", LastName: "Lovelace", Street: "1 Main St",
			City: "London", State: "LDN", ZipCode: "N1",
		},
		"sameAsShipping": true,
	}, &order)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)

	status = suite.do(http.MethodGet, cartPath, nil, &view)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, view.Cart.IsEmpty())

	status = suite.do(http.MethodPost, "/api/v1/checkout", map[string]any{
		"userId":          "u1",
		"ownerId":         ownerID,
		"shippingAddress": order.ShippingAddress,
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cart is empty", errBody["error"])

	var orders []domain.Order
	status = suite.do(http.MethodGet, "/api/v1/users/u1/orders", nil, &orders)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, orders, 1)

	statusPath := "/api/v1/admin/orders/" + order.ID.String() + "/status"
	status = suite.do(http.MethodPatch, statusPath, map[string]string{"status": "processing"}, &order)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.OrderStatusProcessing, order.Status)

	status = suite.do(http.MethodPatch, statusPath, map[string]string{"status": "delivered"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)

	status = suite.do(http.MethodPatch, statusPath, map[string]string{"status": "lost"}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)

	var dashboard service.Dashboard
	status = suite.do(http.MethodGet, "/api/v1/admin/dashboard", nil, &dashboard)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, dashboard.TotalOrders)
	assert.Equal(t, "USD 74.79", dashboard.TotalRevenue.String())

	// the memory store keeps no revisions
	status = suite.do(http.MethodGet, "/api/v1/admin/history/orders", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	status = suite.do(http.MethodGet, "/api/v1/admin/history/users", nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
}

func (suite *apiSuite) TestAccounts() {
	t := suite.T()

	var user map[string]any
	status := suite.do(http.MethodPost, "/api/v1/accounts/register", map[string]string{
		"email": "ada@example.com", "password": "analytical", "firstName": "Ada", "lastName": "Lovelace",
	}, &user)
	require.Equal(t, http.StatusCreated, status)
	assert.NotContains(t, user, "passwordHash")
	userID, _ := user["id"].(string)
	require.NotEmpty(t, userID)

	var errBody map[string]string
	status = suite.do(http.MethodPost, "/api/v1/accounts/register", map[string]string{
		"email": "ADA@example.com", "password": "analytical", "firstName": "A", "lastName": "L",
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)

	status = suite.do(http.MethodPost, "/api/v1/accounts/login", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)

	status = suite.do(http.MethodPost, "/api/v1/accounts/login", map[string]string{
		"email": "ada@example.com", "password": "analytical",
	}, &user)
	require.Equal(t, http.StatusOK, status)

	var toggled map[string]bool
	status = suite.do(http.MethodPost, "/api/v1/users/"+userID+"/wishlist/"+suite.tshirt.ID.String(), nil, &toggled)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, toggled["inWishlist"])

	var added struct {
		Added int `json:"added"`
	}
	status = suite.do(http.MethodPost, "/api/v1/carts/session-2/wishlist", map[string]string{"userId": userID}, &added)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, added.Added)
}
