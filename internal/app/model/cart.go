package model

import (
	"encoding/json"
	"strconv"
)

// CartLine is one product's entry in the cart. Name, Price and Image are a
// snapshot taken when the product was first added; later catalog changes do
// not reach existing lines.
type CartLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CartSummary holds the aggregates derived from a line sequence
type CartSummary struct {
	ItemCount int     `json:"item_count"`
	LineCount int     `json:"line_count"`
	Total     float64 `json:"total"`
}

// Aggregate computes the summary of lines. Total keeps full precision.
func Aggregate(lines []CartLine) CartSummary {
	summary := CartSummary{LineCount: len(lines)}
	for _, line := range lines {
		summary.ItemCount += line.Quantity
		summary.Total += line.Subtotal()
	}
	return summary
}

// FormatAmount renders an amount with two decimals for display
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Cart is an insertion ordered sequence of lines with at most one line per
// product id. The zero value is an empty cart.
type Cart struct {
	lines []CartLine
	index map[string]int
}

// NewCart builds a cart from stored lines. Lines without an id are dropped,
// quantities below 1 are raised to 1 and repeated ids are merged into the
// first occurrence.
func NewCart(lines []CartLine) *Cart {
	c := &Cart{}
	for _, line := range lines {
		if line.ID == "" {
			continue
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if i, ok := c.lookup(line.ID); ok {
			c.lines[i].Quantity += line.Quantity
			continue
		}
		c.append(line)
	}
	return c
}

func (c *Cart) lookup(id string) (int, bool) {
	if c.index == nil {
		return 0, false
	}
	i, ok := c.index[id]
	return i, ok
}

func (c *Cart) append(line CartLine) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	c.index[line.ID] = len(c.lines)
	c.lines = append(c.lines, line)
}

func (c *Cart) reindex() {
	c.index = make(map[string]int, len(c.lines))
	for i, line := range c.lines {
		c.index[line.ID] = i
	}
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Line(id string) (CartLine, bool) {
	i, ok := c.lookup(id)
	if !ok {
		return CartLine{}, false
	}
	return c.lines[i], true
}

// QuantityOf returns the quantity in cart for a product id, 0 when absent
func (c *Cart) QuantityOf(id string) int {
	if line, ok := c.Line(id); ok {
		return line.Quantity
	}
	return 0
}

// Add increments the line for p by one, or appends a new line with quantity 1
func (c *Cart) Add(p Product) CartLine {
	if i, ok := c.lookup(p.ID); ok {
		c.lines[i].Quantity++
		return c.lines[i]
	}
	line := CartLine{
		ID:       p.ID,
		Name:     p.Name,
		Image:    p.Image,
		Price:    p.Price,
		Quantity: 1,
	}
	c.append(line)
	return line
}

// AdjustQuantity sets the quantity of line id to max(1, quantity+delta).
// It reports false when no line has that id.
func (c *Cart) AdjustQuantity(id string, delta int) (CartLine, bool) {
	i, ok := c.lookup(id)
	if !ok {
		return CartLine{}, false
	}
	q := c.lines[i].Quantity + delta
	if q < 1 {
		q = 1
	}
	c.lines[i].Quantity = q
	return c.lines[i], true
}

// Remove deletes line id and reports whether it existed
func (c *Cart) Remove(id string) bool {
	i, ok := c.lookup(id)
	if !ok {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.reindex()
	return true
}

// Clear empties the cart and reports whether it held anything
func (c *Cart) Clear() bool {
	had := len(c.lines) > 0
	c.lines = nil
	c.index = nil
	return had
}

func (c *Cart) Summary() CartSummary {
	return Aggregate(c.lines)
}

func (c *Cart) Clone() *Cart {
	return NewCart(c.lines)
}

// MarshalJSON encodes the cart as its line array, the stored snapshot format
func (c *Cart) MarshalJSON() ([]byte, error) {
	lines := c.lines
	if lines == nil {
		lines = []CartLine{}
	}
	return json.Marshal(lines)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var lines []CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*c = *NewCart(lines)
	return nil
}
