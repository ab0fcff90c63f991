package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/shopsmart/shopsmart-backend/pkg/errors"
)

// State is the lifecycle of a catalog view: Loading until the fetch
// resolves, then Ready or Error. Error is terminal for the view
// instance; a reload means a fresh view.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// ListView owns one catalog browse instance: the raw list fetched from
// the provider, the active criteria, and the derived display list.
// Criteria setters recompute the display list explicitly; there is no
// hidden dependency tracking.
type ListView struct {
	mu       sync.Mutex
	provider Provider

	state      State
	err        error
	raw        []Product
	bounds     Bounds
	categories []string
	criteria   Criteria
	displayed  []Product
}

// NewListView builds a view in the Loading state.
func NewListView(provider Provider) (*ListView, error) {
	if provider == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	return &ListView{
		provider: provider,
		state:    StateLoading,
	}, nil
}

// Load fetches the raw product list once and seeds bounds, category
// enumeration, and default criteria from it. A failed fetch leaves the
// view in the Error state.
func (v *ListView) Load(ctx context.Context) error {
	products, err := v.provider.ListProducts(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch products")
		}
		v.state = StateError
		v.err = err
		return err
	}

	v.raw = products
	v.bounds = PriceBounds(products)
	v.categories = Categories(products)
	v.criteria = DefaultCriteria(v.bounds)
	v.state = StateReady
	v.err = nil
	v.recompute()
	return nil
}

// SetCategory applies a category selector. Values outside the current
// catalog's enumeration are ignored; the selector is a closed set.
func (v *ListView) SetCategory(category string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady {
		return
	}
	for _, known := range v.categories {
		if category == known {
			v.criteria.Category = category
			v.recompute()
			return
		}
	}
}

// SetPriceBounds applies price bounds, clamped into the observed
// catalog range. A crossed pair is normalized by swapping so that
// min <= max always holds.
func (v *ListView) SetPriceBounds(min, max decimal.Decimal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady {
		return
	}
	min = clamp(min, v.bounds.Min, v.bounds.Max)
	max = clamp(max, v.bounds.Min, v.bounds.Max)
	if min.GreaterThan(max) {
		min, max = max, min
	}
	v.criteria.PriceMin = min
	v.criteria.PriceMax = max
	v.recompute()
}

// SetQuery applies the free-text filter. An empty query passes every
// product through.
func (v *ListView) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady {
		return
	}
	v.criteria.Query = query
	v.recompute()
}

// SetSort applies the display ordering.
func (v *ListView) SetSort(key SortKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady {
		return
	}
	v.criteria.Sort = key
	v.recompute()
}

// ResetFilters restores the defaults derived from the fetched catalog.
func (v *ListView) ResetFilters() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.state != StateReady {
		return
	}
	v.criteria = DefaultCriteria(v.bounds)
	v.recompute()
}

// recompute rebuilds the display list from the raw list and the active
// criteria. Callers hold the mutex.
func (v *ListView) recompute() {
	v.displayed = Apply(v.raw, v.criteria)
}

// State reports the view lifecycle state.
func (v *ListView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the fetch failure when the view is in the Error state.
func (v *ListView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Products returns the current display list.
func (v *ListView) Products() []Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Product, len(v.displayed))
	copy(out, v.displayed)
	return out
}

// Criteria returns the active filter criteria.
func (v *ListView) Criteria() Criteria {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.criteria
}

// Categories returns the catalog's category enumeration, wildcard
// first.
func (v *ListView) Categories() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.categories))
	copy(out, v.categories)
	return out
}

// Bounds returns the observed price range of the fetched catalog.
func (v *ListView) Bounds() Bounds {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bounds
}

// DetailView owns one product-detail instance. Loads are keyed by a
// generation counter: when the product id driving the view changes
// before an earlier fetch resolves, the late response is discarded
// instead of overwriting newer state.
type DetailView struct {
	mu       sync.Mutex
	provider Provider

	generation uint64
	state      State
	err        error
	productID  int
	product    Product
}

// NewDetailView builds a detail view in the Loading state.
func NewDetailView(provider Provider) (*DetailView, error) {
	if provider == nil {
		return nil, fmt.Errorf("catalog provider required")
	}
	return &DetailView{
		provider: provider,
		state:    StateLoading,
	}, nil
}

// Load fetches the product with the given id. A Load issued while an
// earlier one is still in flight supersedes it; the stale result is
// dropped on arrival.
func (v *DetailView) Load(ctx context.Context, id int) error {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.state = StateLoading
	v.err = nil
	v.productID = id
	v.mu.Unlock()

	product, err := v.provider.GetProduct(ctx, id)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.generation {
		// Superseded by a newer Load; discard.
		return nil
	}
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch product")
		}
		v.state = StateError
		v.err = err
		return err
	}
	v.state = StateReady
	v.product = product
	return nil
}

// Snapshot returns the displayed product together with the view state.
// The product is only meaningful in the Ready state.
func (v *DetailView) Snapshot() (Product, State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.product, v.state, v.err
}

// ProductID reports the id the view is currently keyed by.
func (v *DetailView) ProductID() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.productID
}

func clamp(value, lo, hi decimal.Decimal) decimal.Decimal {
	if value.LessThan(lo) {
		return lo
	}
	if value.GreaterThan(hi) {
		return hi
	}
	return value
}
