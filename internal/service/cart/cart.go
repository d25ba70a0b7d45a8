package cart

import (
	"slices"
	"sync"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/money"
)

type LineItem struct {
	Combo    domain.Combo `json:"combo"`
	Quantity int          `json:"quantity"`
}

func (l LineItem) Subtotal() float64 {
	return money.Times(l.Combo.Price, l.Quantity)
}

// Cart is an ordered list of line items, at most one per combo.
type Cart struct {
	mu         sync.Mutex
	id         string
	items      []LineItem
	submitting bool
}

func NewCart() *Cart {
	return &Cart{items: []LineItem{}}
}

// Add puts one more of combo in the cart, merging with an existing line.
func (c *Cart) Add(combo domain.Combo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.index(combo.ID); i >= 0 {
		c.items[i].Quantity++
		return
	}
	c.items = append(c.items, LineItem{Combo: combo, Quantity: 1})
}

// Remove takes one of comboID out, dropping the line when it reaches zero.
func (c *Cart) Remove(comboID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(comboID)
	if i < 0 {
		return
	}
	if c.items[i].Quantity > 1 {
		c.items[i].Quantity--
		return
	}
	c.items = slices.Delete(c.items, i, i+1)
}

func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

func (c *Cart) total() float64 {
	subtotals := make([]float64, 0, len(c.items))
	for _, item := range c.items {
		subtotals = append(subtotals, item.Subtotal())
	}
	return money.Sum(subtotals...)
}

func (c *Cart) index(comboID string) int {
	return slices.IndexFunc(c.items, func(l LineItem) bool { return l.Combo.ID == comboID })
}

func (c *Cart) beginCheckout() ([]LineItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitting {
		return nil, ErrCheckoutInProgress
	}
	if len(c.items) == 0 {
		return nil, ErrEmptyCart
	}
	c.submitting = true
	return slices.Clone(c.items), nil
}

func (c *Cart) endCheckout(clear bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if clear {
		c.items = []LineItem{}
	}
}

type ItemView struct {
	Combo    domain.Combo `json:"combo"`
	Quantity int          `json:"quantity"`
	Subtotal float64      `json:"subtotal"`
}

type View struct {
	ID         string     `json:"id"`
	Items      []ItemView `json:"items"`
	Total      float64    `json:"total"`
	TotalLabel string     `json:"total_label"`
}

func (c *Cart) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]ItemView, 0, len(c.items))
	for _, item := range c.items {
		items = append(items, ItemView{Combo: item.Combo, Quantity: item.Quantity, Subtotal: item.Subtotal()})
	}
	total := c.total()
	return View{ID: c.id, Items: items, Total: total, TotalLabel: money.Format(total)}
}
