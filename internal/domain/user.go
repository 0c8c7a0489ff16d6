package domain

import (
	"time"

	"github.com/google/uuid"
)

type AddressType string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
)

type Address struct {
	ID        string      `json:"id"`
	Type      AddressType `json:"type"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Street    string      `json:"street"`
	City      string      `json:"city"`
	State     string      `json:"state"`
	ZipCode   string      `json:"zipCode"`
	Country   string      `json:"country"`
	IsDefault bool        `json:"isDefault"`
}

// MissingFields returns the names of required fields that are blank.
// Country is optional.
func (a Address) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name, value string
	}{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"street", a.Street},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Phone        string      `json:"phone,omitempty"`
	PasswordHash []byte      `json:"passwordHash,omitempty"`
	Addresses    []Address   `json:"addresses"`
	Wishlist     []uuid.UUID `json:"wishlist"`
	IsAdmin      bool        `json:"isAdmin"`

	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Clone() User {
	c := u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	c.Addresses = append([]Address(nil), u.Addresses...)
	c.Wishlist = append([]uuid.UUID(nil), u.Wishlist...)
	return c
}

// SaveAddress inserts the address or replaces the one with the same ID.
// A default address clears the default flag of other addresses of the same type.
func (u *User) SaveAddress(addr Address) {
	replaced := false
	for i := range u.Addresses {
		if u.Addresses[i].ID == addr.ID {
			u.Addresses[i] = addr
			replaced = true
			break
		}
	}
	if !replaced {
		u.Addresses = append(u.Addresses, addr)
	}

	if !addr.IsDefault {
		return
	}
	for i := range u.Addresses {
		if u.Addresses[i].Type == addr.Type && u.Addresses[i].ID != addr.ID {
			u.Addresses[i].IsDefault = false
		}
	}
}

func (u *User) RemoveAddress(id string) bool {
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			u.Addresses = append(u.Addresses[:i], u.Addresses[i+1:]...)
			return true
		}
	}
	return false
}

// ToggleWishlist adds the product when absent and removes it otherwise.
// It reports whether the product is in the wishlist afterwards.
func (u *User) ToggleWishlist(productID uuid.UUID) bool {
	for i, id := range u.Wishlist {
		if id == productID {
			u.Wishlist = append(u.Wishlist[:i], u.Wishlist[i+1:]...)
			return false
		}
	}
	u.Wishlist = append(u.Wishlist, productID)
	return true
}
