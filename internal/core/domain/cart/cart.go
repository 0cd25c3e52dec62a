package cart

import (
	"time"

	"github.com/google/uuid"
)

// Item is one cart line: a product reference and its quantity.
// A cart holds at most one line per product reference.
type Item struct {
	ProductRef string    `json:"product_ref" db:"product_ref"`
	Quantity   int       `json:"quantity" db:"quantity"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Cart is the full cart for one account.
type Cart struct {
	AccountID uuid.UUID `json:"account_id"`
	Items     []Item    `json:"items"`
}

// Add merges quantity into the existing line for productRef, or appends a new
// line. It returns a new Cart value; the receiver is not mutated. Quantity must
// already be validated as >= 1 by the caller.
func (c Cart) Add(productRef string, quantity int) Cart {
	now := time.Now()
	items := make([]Item, len(c.Items))
	copy(items, c.Items)

	for i := range items {
		if items[i].ProductRef == productRef {
			items[i].Quantity += quantity
			items[i].UpdatedAt = now
			return Cart{AccountID: c.AccountID, Items: items}
		}
	}

	items = append(items, Item{
		ProductRef: productRef,
		Quantity:   quantity,
		AddedAt:    now,
		UpdatedAt:  now,
	})
	return Cart{AccountID: c.AccountID, Items: items}
}

// Remove drops the line for productRef, if present. It uses the same
// lookup-by-product-reference rule as Add and returns a new Cart value.
func (c Cart) Remove(productRef string) Cart {
	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductRef == productRef {
			continue
		}
		items = append(items, it)
	}
	return Cart{AccountID: c.AccountID, Items: items}
}

// Quantity returns the quantity for productRef, or 0 when absent.
func (c Cart) Quantity(productRef string) int {
	for _, it := range c.Items {
		if it.ProductRef == productRef {
			return it.Quantity
		}
	}
	return 0
}

// TotalItems sums quantities across all lines.
func (c Cart) TotalItems() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// AddItemRequest represents the request to add an item to the cart
type AddItemRequest struct {
	ProductRef string `json:"product_ref" validate:"required"`
	Quantity   int    `json:"quantity"`
}
