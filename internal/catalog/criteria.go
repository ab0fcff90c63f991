package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryAll selects every category.
const CategoryAll = "all"

// SortKey names one of the supported display orderings. The values
// match the sort options the storefront UI submits.
type SortKey string

const (
	SortDefault      SortKey = "default"
	SortPriceLowHigh SortKey = "price-low-high"
	SortPriceHighLow SortKey = "price-high-low"
	SortTitleAZ      SortKey = "name-a-z"
	SortTitleZA      SortKey = "name-z-a"
)

// ParseSortKey maps a raw sort value onto a supported key. Unknown
// values fall back to the default ordering.
func ParseSortKey(value string) SortKey {
	switch SortKey(strings.TrimSpace(value)) {
	case SortPriceLowHigh:
		return SortPriceLowHigh
	case SortPriceHighLow:
		return SortPriceHighLow
	case SortTitleAZ:
		return SortTitleAZ
	case SortTitleZA:
		return SortTitleZA
	default:
		return SortDefault
	}
}

// Bounds is the observed price range of a fetched catalog, floored and
// ceiled to whole units.
type Bounds struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Criteria holds the independent filter and sort knobs applied to a raw
// product list. Invariant: Min <= Max, both within the catalog bounds.
type Criteria struct {
	Category string          `json:"category"`
	PriceMin decimal.Decimal `json:"price_min"`
	PriceMax decimal.Decimal `json:"price_max"`
	Query    string          `json:"q"`
	Sort     SortKey         `json:"sort"`
}

// DefaultCriteria seeds criteria from the catalog's observed price
// range: wildcard category, full price span, no query, default order.
func DefaultCriteria(bounds Bounds) Criteria {
	return Criteria{
		Category: CategoryAll,
		PriceMin: bounds.Min,
		PriceMax: bounds.Max,
		Sort:     SortDefault,
	}
}
