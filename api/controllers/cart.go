package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsmart/shopsmart-backend/api/middleware"
	"github.com/shopsmart/shopsmart-backend/api/responses"
	"github.com/shopsmart/shopsmart-backend/api/validators"
	"github.com/shopsmart/shopsmart-backend/internal/cart"
	"github.com/shopsmart/shopsmart-backend/internal/catalog"
	pkgerrors "github.com/shopsmart/shopsmart-backend/pkg/errors"
	"github.com/shopsmart/shopsmart-backend/pkg/logger"
	"github.com/shopsmart/shopsmart-backend/pkg/metrics"
)

type cartLineDTO struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type cartResponse struct {
	Lines     []cartLineDTO   `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// newCartResponse renders the cart. Money leaves the store exact and is
// rounded to cents here, at the presentation boundary.
func newCartResponse(store *cart.Store, taxRate decimal.Decimal) cartResponse {
	lines := store.Lines()
	dtos := make([]cartLineDTO, 0, len(lines))
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		dtos = append(dtos, cartLineDTO{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price.Round(2),
			Image:     line.Image,
			Quantity:  line.Quantity,
			LineTotal: line.Price.Mul(qty).Round(2),
		})
	}

	summary := store.Summarize(taxRate)
	return cartResponse{
		Lines:     dtos,
		ItemCount: summary.ItemCount,
		Subtotal:  summary.Subtotal.Round(2),
		Shipping:  summary.Shipping.Round(2),
		Tax:       summary.Tax.Round(2),
		Total:     summary.Total.Round(2),
	}
}

func sessionStore(r *http.Request, manager *cart.Manager) (*cart.Store, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return manager.Get(sessionID), nil
}

// CartFetch exposes the session's cart lines and order summary.
func CartFetch(manager *cart.Manager, taxRate decimal.Decimal, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store, taxRate))
	}
}

type addItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"min=0"`
}

// CartAddItem merges a product into the session cart. The product
// snapshot comes from the catalog provider; a quantity of zero means
// "add one".
func CartAddItem(manager *cart.Manager, provider catalog.Provider, taxRate decimal.Decimal, m *metrics.CartIntentMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil || provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := provider.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.AddItem(product, payload.Quantity)
		m.Inc("add_item")
		responses.WriteSuccess(w, newCartResponse(store, taxRate))
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartSetQuantity replaces the quantity on an existing line. Values
// below 1 clamp to 1; an absent line leaves the cart untouched.
func CartSetQuantity(manager *cart.Manager, taxRate decimal.Decimal, m *metrics.CartIntentMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.IntURLParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.SetQuantity(productID, payload.Quantity)
		m.Inc("set_quantity")
		responses.WriteSuccess(w, newCartResponse(store, taxRate))
	}
}

// CartRemoveItem drops a line from the session cart. Removing an
// absent line succeeds with the cart unchanged.
func CartRemoveItem(manager *cart.Manager, taxRate decimal.Decimal, m *metrics.CartIntentMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.IntURLParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.RemoveItem(productID)
		m.Inc("remove_item")
		responses.WriteSuccess(w, newCartResponse(store, taxRate))
	}
}

// CartClear empties the session cart.
func CartClear(manager *cart.Manager, taxRate decimal.Decimal, m *metrics.CartIntentMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if manager == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart manager unavailable"))
			return
		}
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear()
		m.Inc("clear")
		responses.WriteSuccess(w, newCartResponse(store, taxRate))
	}
}
