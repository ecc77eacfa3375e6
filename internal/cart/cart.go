// Package cart implements the client-side shopping cart as a plain value
// with explicit transition methods. All operations are total: there are no
// error conditions, and the cart never holds two items for the same product.
package cart

import "github.com/noah-isme/checkout-demo/internal/catalog"

// Item pairs a product with a positive quantity.
type Item struct {
	Product  catalog.Product
	Quantity int64
}

// Cart is an ordered collection of items keyed by product id. Order of first
// insertion is preserved for display. Owned by a single UI goroutine; no
// locking.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add increments the quantity when the product is already present, otherwise
// appends a new item with quantity 1.
func (c *Cart) Add(p catalog.Product) {
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
}

// Remove deletes the item with the given product id. No-op if absent.
func (c *Cart) Remove(productID string) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the item's quantity. A quantity of zero or less is
// equivalent to Remove. No-op when the product is absent.
func (c *Cart) SetQuantity(productID string, n int64) {
	if n <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = n
			return
		}
	}
}

// Total is the sum of price times quantity over all items, in minor units.
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Product.Price * item.Quantity
	}
	return total
}

// Items returns a copy of the cart lines in display order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart holds no items.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}
