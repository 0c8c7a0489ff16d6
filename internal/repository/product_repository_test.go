package repository_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/kv"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type productRepositorySuite struct {
	suite.Suite

	store *flakyStore
	repo  port.ProductRepository
}

func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

func (suite *productRepositorySuite) SetupTest() {
	suite.store = &flakyStore{KeyValueStore: kv.NewMemory()}
	suite.repo = repository.NewProduct(suite.store)
}

func (suite *productRepositorySuite) TestSeedOnlyOnce() {
	t := suite.T()
	ctx := t.Context()

	first := []domain.Product{randomProduct(), randomProduct()}
	first[1].ID = uuid.Nil

	require.NoError(t, suite.repo.Seed(ctx, first))

	products, err := suite.repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.NotEqual(t, uuid.Nil, products[1].ID)
	assert.False(t, products[1].CreatedAt.IsZero())

	// second seed, even from a fresh repository, is ignored
	require.NoError(t, repository.NewProduct(suite.store).Seed(ctx, []domain.Product{randomProduct()}))
	require.NoError(t, suite.repo.Seed(ctx, []domain.Product{randomProduct()}))

	products, err = repository.NewProduct(suite.store).List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func (suite *productRepositorySuite) TestSeedEmptyCatalogStaysEmpty() {
	t := suite.T()
	ctx := t.Context()

	require.NoError(t, suite.repo.Seed(ctx, nil))
	require.NoError(t, suite.repo.Seed(ctx, []domain.Product{randomProduct()}))

	products, err := suite.repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func (suite *productRepositorySuite) TestAddUpdateDelete() {
	t := suite.T()
	ctx := t.Context()

	p := randomProduct()
	require.NoError(t, suite.repo.Add(ctx, p))
	require.EqualError(t, suite.repo.Add(ctx, p), "doc.update: product["+p.ID.String()+"] already exists")
	require.EqualError(t, suite.repo.Add(ctx, domain.Product{}), "productID is empty")

	updated, err := suite.repo.Update(ctx, p.ID, func(prod *domain.Product) error {
		prod.StockQuantity = 0
		prod.ID = uuid.New()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.False(t, updated.InStock())

	errReject := errors.New("rejected")
	_, err = suite.repo.Update(ctx, p.ID, func(*domain.Product) error { return errReject })
	require.ErrorIs(t, err, errReject)

	_, err = suite.repo.Update(ctx, uuid.New(), func(*domain.Product) error { return nil })
	require.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := suite.repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = suite.repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = suite.repo.Get(ctx, p.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
