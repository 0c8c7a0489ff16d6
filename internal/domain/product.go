package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type VariationType string

const (
	VariationColor VariationType = "color"
	VariationSize  VariationType = "size"
	VariationStyle VariationType = "style"
)

type Product struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          Money             `json:"price"`
	OriginalPrice  *Money            `json:"originalPrice,omitempty"`
	Category       string            `json:"category"`
	Subcategory    string            `json:"subcategory,omitempty"`
	Brand          string            `json:"brand"`
	SKU            string            `json:"sku"`
	Images         []string          `json:"images,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	StockQuantity  int               `json:"stockQuantity"`
	Variations     []Variation       `json:"variations,omitempty"`
	Featured       bool              `json:"featured"`
	OnSale         bool              `json:"onSale"`

	CreatedAt time.Time `json:"createdAt"`
}

type Variation struct {
	ID            string        `json:"id"`
	Type          VariationType `json:"type"`
	Name          string        `json:"name"`
	Value         string        `json:"value"`
	Price         *Money        `json:"price,omitempty"`
	InStock       bool          `json:"inStock"`
	StockQuantity int           `json:"stockQuantity"`
}

type Category struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Image         string     `json:"image,omitempty"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

// Available returns how many units can be sold with the given selections: the product stock,
// capped by the stock of each selected variation that tracks a quantity.
// An unoffered or out-of-stock selection yields 0.
func (p Product) Available(selections Selections) int {
	available := max(p.StockQuantity, 0)
	for typ, value := range selections {
		idx := slices.IndexFunc(p.Variations, func(v Variation) bool {
			return string(v.Type) == typ && v.Value == value
		})
		if idx < 0 || !p.Variations[idx].InStock {
			return 0
		}
		if q := p.Variations[idx].StockQuantity; q > 0 {
			available = min(available, q)
		}
	}
	return available
}

// Clone returns a copy sharing no slices or maps with p.
func (p Product) Clone() Product {
	c := p

	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		c.OriginalPrice = &op
	}
	c.Images = append([]string(nil), p.Images...)
	c.Tags = append([]string(nil), p.Tags...)

	if p.Specifications != nil {
		c.Specifications = make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			c.Specifications[k] = v
		}
	}

	if p.Variations != nil {
		c.Variations = make([]Variation, len(p.Variations))
		for i, v := range p.Variations {
			if v.Price != nil {
				vp := *v.Price
				v.Price = &vp
			}
			c.Variations[i] = v
		}
	}

	return c
}
