package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shopsmart/shopsmart-backend/api/responses"
	"github.com/shopsmart/shopsmart-backend/api/validators"
	"github.com/shopsmart/shopsmart-backend/internal/catalog"
	pkgerrors "github.com/shopsmart/shopsmart-backend/pkg/errors"
	"github.com/shopsmart/shopsmart-backend/pkg/logger"
)

type productListResponse struct {
	Products   []catalog.Product `json:"products"`
	Count      int               `json:"count"`
	Categories []string          `json:"categories"`
	Bounds     catalog.Bounds    `json:"price_bounds"`
	Criteria   catalog.Criteria  `json:"criteria"`
}

// ListProducts serves the catalog browse view. Each request is a fresh
// view instance: fetch, apply the requested criteria, render the
// derived display list.
func ListProducts(provider catalog.Provider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog provider unavailable"))
			return
		}

		view, err := catalog.NewListView(provider)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog view"))
			return
		}
		if err := view.Load(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := applyCriteriaQuery(r, view); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products := view.Products()
		responses.WriteSuccess(w, productListResponse{
			Products:   products,
			Count:      len(products),
			Categories: view.Categories(),
			Bounds:     view.Bounds(),
			Criteria:   view.Criteria(),
		})
	}
}

func applyCriteriaQuery(r *http.Request, view *catalog.ListView) error {
	query := r.URL.Query()

	if category := strings.TrimSpace(query.Get("category")); category != "" {
		view.SetCategory(category)
	}

	minParam, err := validators.DecimalQueryParam(r, "price_min")
	if err != nil {
		return err
	}
	maxParam, err := validators.DecimalQueryParam(r, "price_max")
	if err != nil {
		return err
	}
	if minParam != nil || maxParam != nil {
		bounds := view.Bounds()
		min := bounds.Min
		if minParam != nil {
			min = *minParam
		}
		max := bounds.Max
		if maxParam != nil {
			max = *maxParam
		}
		view.SetPriceBounds(min, max)
	}

	if q := query.Get("q"); q != "" {
		view.SetQuery(q)
	}
	if sortValue := query.Get("sort"); sortValue != "" {
		view.SetSort(catalog.ParseSortKey(sortValue))
	}
	return nil
}

// GetProduct serves the product detail view.
func GetProduct(provider catalog.Provider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog provider unavailable"))
			return
		}

		id, err := validators.IntURLParam(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := catalog.NewDetailView(provider)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build detail view"))
			return
		}
		if err := view.Load(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, _, _ := view.Snapshot()
		responses.WriteSuccess(w, product)
	}
}
