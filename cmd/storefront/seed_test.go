package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestLoadSeed(t *testing.T) {
	seed, err := loadSeed("")
	require.NoError(t, err)
	assert.Empty(t, seed.Products)

	path := filepath.Join(t.TempDir(), "catalog.json")
	content := `{
  "categories": [{"id": "1", "name": "Electronics", "slug": "electronics"}],
  "products": [{
    "name": "Wireless Headphones",
    "price": {"amount": "199.99", "currency": "USD"},
    "category": "Electronics",
    "stockQuantity": 15,
    "featured": true
  }]
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	seed, err = loadSeed(path)
	require.NoError(t, err)
	require.Len(t, seed.Categories, 1)
	require.Len(t, seed.Products, 1)
	assert.Equal(t, currency.USD, seed.Products[0].Price.Currency)
	assert.Equal(t, "199.99", seed.Products[0].Price.Amount.String())

	_, err = loadSeed(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
