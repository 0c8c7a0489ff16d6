package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/shopspring/decimal"
)

func parseFilter(q url.Values) (service.Filter, error) {
	f := service.Filter{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Sort:     service.ProductSort(q.Get("sort")),
		InStock:  q.Get("inStock") == "true",
		OnSale:   q.Get("onSale") == "true",
	}

	for _, b := range q["brand"] {
		for _, part := range strings.Split(b, ",") {
			if part = strings.TrimSpace(part); part != "" {
				f.Brands = append(f.Brands, part)
			}
		}
	}

	for _, bound := range []struct {
		name string
		dst  **decimal.Decimal
	}{
		{"minPrice", &f.MinPrice},
		{"maxPrice", &f.MaxPrice},
	} {
		raw := q.Get(bound.name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return service.Filter{}, fmt.Errorf("%w: %s[%s] is not a number", domain.ErrInvalidInput, bound.name, raw)
		}
		*bound.dst = &d
	}

	if raw := q.Get("minRating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return service.Filter{}, fmt.Errorf("%w: minRating[%s] is not a number", domain.ErrInvalidInput, raw)
		}
		f.MinRating = rating
	}

	return f, nil
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	products, err := h.svc.Catalog.Browse(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) featuredProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Catalog.Featured(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.svc.Catalog.Brands(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, brands)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "productID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	product, err := h.svc.Catalog.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Catalog.Categories())
}
