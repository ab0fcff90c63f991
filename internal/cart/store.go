package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shopsmart/shopsmart-backend/internal/catalog"
)

// Line is one cart entry: the product identity, the quantity the
// shopper wants, and a snapshot of the display fields taken when the
// product was added, so the cart renders without re-fetching.
type Line struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// Store is the single source of truth for what the shopper intends to
// buy. At most one line exists per product id; quantities never drop
// below 1. Mutations for absent lines are no-ops, never errors.
type Store struct {
	mu    sync.Mutex
	lines []Line
	index map[int]int
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{index: make(map[int]int)}
}

// AddItem merges the product into the cart. An existing line for the
// same product id has its quantity incremented; otherwise a new line is
// appended with a snapshot of the product's display fields. A quantity
// below 1 is treated as omitted and defaults to 1.
func (s *Store) AddItem(product catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.index[product.ID]; ok {
		s.lines[pos].Quantity += quantity
		return
	}
	s.lines = append(s.lines, Line{
		ProductID: product.ID,
		Title:     product.Title,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  quantity,
	})
	s.index[product.ID] = len(s.lines) - 1
}

// RemoveItem drops the line with the given product id. Removing an
// absent line is a no-op.
func (s *Store) RemoveItem(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return
	}
	s.lines = append(s.lines[:pos], s.lines[pos+1:]...)
	delete(s.index, productID)
	for i := pos; i < len(s.lines); i++ {
		s.index[s.lines[i].ProductID] = i
	}
}

// SetQuantity replaces the quantity on an existing line, clamped to a
// minimum of 1. Absent lines are left untouched; this never creates a
// line as a side effect.
func (s *Store) SetQuantity(productID, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return
	}
	s.lines[pos].Quantity = quantity
}

// ItemCount sums quantities across all lines. An empty cart counts 0.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// Subtotal sums price times quantity across all lines with exact
// decimal arithmetic. Rounding happens at presentation time only.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

func (s *Store) subtotalLocked() decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range s.lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// Clear empties the cart, e.g. after checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.index = make(map[int]int)
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Summary carries the derived order totals: subtotal, flat shipping,
// tax at the configured rate, and their sum. Values stay exact; render
// them rounded.
type Summary struct {
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// Summarize derives the order summary at the given tax rate.
func (s *Store) Summarize(taxRate decimal.Decimal) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	subtotal := s.subtotalLocked()
	tax := subtotal.Mul(taxRate)
	return Summary{
		ItemCount: count,
		Subtotal:  subtotal,
		Shipping:  decimal.Zero,
		Tax:       tax,
		Total:     subtotal.Add(tax),
	}
}
