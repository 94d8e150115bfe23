package model

import "github.com/pkg/errors"

var (
	ErrProductNotFound = errors.New("product not found")
)

type Category string

const (
	Spirits Category = "Spirits"
	Wine    Category = "Wine"
	Beer    Category = "Beer"
	Snacks  Category = "Snacks"
	Mixers  Category = "Mixers"
)

// Categories lists the catalog categories offered by the storefront filters.
// Products may carry any other category string.
var Categories = []Category{Spirits, Wine, Beer, Snacks, Mixers}

// ProductDetails holds every catalog field except the id assigned by the store.
type ProductDetails struct {
	Name              string   `json:"name"`
	Category          Category `json:"category"`
	Subcategory       string   `json:"subcategory,omitempty"`
	PriceCents        int64    `json:"priceCents"`
	ComparePriceCents int64    `json:"comparePriceCents,omitempty"` // 0 means no compare-at price
	Stock             int      `json:"stock"`
	SKU               string   `json:"sku"`
	Image             string   `json:"image"`
	Description       string   `json:"description"`
	ABV               float64  `json:"abv"`
	Volume            string   `json:"volume"`
	Featured          bool     `json:"featured"`
}

type Product struct {
	ID int `json:"id"`
	ProductDetails
}

// CartPriceCents is the unit price captured when the product enters a cart.
func (p Product) CartPriceCents() int64 {
	if p.ComparePriceCents > 0 {
		return p.ComparePriceCents
	}
	return p.PriceCents
}

// ProductPatch is a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	Name              *string   `json:"name,omitempty"`
	Category          *Category `json:"category,omitempty"`
	Subcategory       *string   `json:"subcategory,omitempty"`
	PriceCents        *int64    `json:"priceCents,omitempty"`
	ComparePriceCents *int64    `json:"comparePriceCents,omitempty"`
	Stock             *int      `json:"stock,omitempty"`
	SKU               *string   `json:"sku,omitempty"`
	Image             *string   `json:"image,omitempty"`
	Description       *string   `json:"description,omitempty"`
	ABV               *float64  `json:"abv,omitempty"`
	Volume            *string   `json:"volume,omitempty"`
	Featured          *bool     `json:"featured,omitempty"`
}

func (p ProductPatch) Apply(product *Product) {
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Category != nil {
		product.Category = *p.Category
	}
	if p.Subcategory != nil {
		product.Subcategory = *p.Subcategory
	}
	if p.PriceCents != nil {
		product.PriceCents = *p.PriceCents
	}
	if p.ComparePriceCents != nil {
		product.ComparePriceCents = *p.ComparePriceCents
	}
	if p.Stock != nil {
		product.Stock = *p.Stock
	}
	if p.SKU != nil {
		product.SKU = *p.SKU
	}
	if p.Image != nil {
		product.Image = *p.Image
	}
	if p.Description != nil {
		product.Description = *p.Description
	}
	if p.ABV != nil {
		product.ABV = *p.ABV
	}
	if p.Volume != nil {
		product.Volume = *p.Volume
	}
	if p.Featured != nil {
		product.Featured = *p.Featured
	}
}
