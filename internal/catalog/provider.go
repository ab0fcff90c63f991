package catalog

import "context"

// Provider is the data source the storefront reads its catalog from.
// Implementations are replaceable; the views treat both operations as
// black-box one-shot fetches.
type Provider interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int) (Product, error)
}
