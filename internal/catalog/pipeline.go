package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Apply derives the display list from a raw product list and the active
// criteria. It is a pure function: the input slice is never mutated and
// the same inputs always produce the same output, in the same order.
//
// Stages run in a fixed order: category, price range, free-text search,
// then a stable sort.
func Apply(products []Product, criteria Criteria) []Product {
	filtered := make([]Product, 0, len(products))

	query := strings.ToLower(strings.TrimSpace(criteria.Query))
	for _, p := range products {
		if criteria.Category != CategoryAll && p.Category != criteria.Category {
			continue
		}
		if p.Price.LessThan(criteria.PriceMin) || p.Price.GreaterThan(criteria.PriceMax) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, criteria.Sort)
	return filtered
}

// sortProducts orders the list in place. Equal keys keep their prior
// relative order.
func sortProducts(products []Product, key SortKey) {
	switch key {
	case SortPriceLowHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceHighLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.GreaterThan(products[j].Price)
		})
	case SortTitleAZ:
		coll := titleCollator()
		sort.SliceStable(products, func(i, j int) bool {
			return coll.CompareString(products[i].Title, products[j].Title) < 0
		})
	case SortTitleZA:
		coll := titleCollator()
		sort.SliceStable(products, func(i, j int) bool {
			return coll.CompareString(products[i].Title, products[j].Title) > 0
		})
	default:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ID < products[j].ID
		})
	}
}

// titleCollator builds a fresh collator per sort; collate.Collator
// carries internal buffers and is not safe for concurrent use.
func titleCollator() *collate.Collator {
	return collate.New(language.English)
}

// PriceBounds derives the observed price range of a raw list, floored
// at the minimum and ceiled at the maximum. An empty list yields zero
// bounds.
func PriceBounds(products []Product) Bounds {
	if len(products) == 0 {
		return Bounds{}
	}
	min := products[0].Price
	max := products[0].Price
	for _, p := range products[1:] {
		if p.Price.LessThan(min) {
			min = p.Price
		}
		if p.Price.GreaterThan(max) {
			max = p.Price
		}
	}
	return Bounds{Min: min.Floor(), Max: max.Ceil()}
}

// Categories enumerates the wildcard plus each distinct category in
// first-observed order.
func Categories(products []Product) []string {
	categories := []string{CategoryAll}
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}
