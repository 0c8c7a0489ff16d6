package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestUserSaveAddressDefaultIsExclusivePerType(t *testing.T) {
	var u domain.User
	u.SaveAddress(domain.Address{ID: "a1", Type: domain.AddressShipping, IsDefault: true})
	u.SaveAddress(domain.Address{ID: "b1", Type: domain.AddressBilling, IsDefault: true})
	u.SaveAddress(domain.Address{ID: "a2", Type: domain.AddressShipping, IsDefault: true})

	defaults := map[string]bool{}
	for _, a := range u.Addresses {
		defaults[a.ID] = a.IsDefault
	}
	assert.Equal(t, map[string]bool{"a1": false, "b1": true, "a2": true}, defaults)

	// edit replaces in place
	u.SaveAddress(domain.Address{ID: "a1", Type: domain.AddressShipping, City: "Oslo"})
	require.Len(t, u.Addresses, 3)
	assert.Equal(t, "Oslo", u.Addresses[0].City)

	assert.True(t, u.RemoveAddress("b1"))
	assert.False(t, u.RemoveAddress("b1"))
	assert.Len(t, u.Addresses, 2)
}

func TestUserToggleWishlist(t *testing.T) {
	var u domain.User
	id := uuid.New()

	assert.True(t, u.ToggleWishlist(id))
	assert.Equal(t, []uuid.UUID{id}, u.Wishlist)
	assert.False(t, u.ToggleWishlist(id))
	assert.Empty(t, u.Wishlist)
}

func TestAddressMissingFields(t *testing.T) {
	addr := domain.Address{FirstName: "Ada", City: "London"}
	assert.Equal(t, []string{"lastName", "street", "state", "zipCode"}, addr.MissingFields())
}

func TestMoneyJSON(t *testing.T) {
	m := domain.MustMoney("74.79", currency.USD)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"74.79","currency":"USD"}`, string(data))

	var got domain.Money
	require.NoError(t, json.Unmarshal(data, &got))
	assert.True(t, m.Amount.Equal(got.Amount))
	assert.Equal(t, currency.USD, got.Currency)

	err = json.Unmarshal([]byte(`{"amount":"1","currency":"XXXX"}`), &got)
	require.Error(t, err)
}

func TestMoneyRound(t *testing.T) {
	assert.Equal(t, "USD 1.60", domain.MustMoney("1.5992", currency.USD).String())
	assert.Equal(t, "JPY 1235", domain.MustMoney("1234.5", currency.JPY).String())

	_, err := domain.MustMoney("1", currency.USD).Add(domain.MustMoney("1", currency.EUR))
	require.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}
