package catalog

import "github.com/shopspring/decimal"

// Rating is the aggregate review score a product carries, when the
// catalog supplies one.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the read-only catalog record supplied by the remote API.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Rating      *Rating         `json:"rating,omitempty"`
}
