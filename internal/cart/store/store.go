package store

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inErrors "github.com/prawira/storefront/internal/errors"
	"github.com/prawira/storefront/internal/product"
)

// CartItem is a line in the working cart. Name and UnitPrice are snapshots
// taken when the item was added, StockAtAdd is informational only.
type CartItem struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int32           `json:"quantity"`
	StockAtAdd int32           `json:"stock_at_add"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt32(i.Quantity))
}

// Cart holds the session's working items. Total and Count are derived from
// Items and recomputed by every mutation, never assigned independently.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int32           `json:"count"`
}

func New() Cart {
	return Cart{Items: []CartItem{}, Total: decimal.Zero, Count: 0}
}

// FromItems rebuilds a cart from persisted lines, recomputing the derived
// fields instead of trusting stored ones.
func FromItems(items []CartItem) Cart {
	cart := New()
	cart.Items = items
	cart.recompute()
	return cart
}

func (c *Cart) recompute() {
	total := decimal.Zero
	count := int32(0)
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
		count += item.Quantity
	}
	c.Total = total
	c.Count = count
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) find(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Item(productID uuid.UUID) (CartItem, bool) {
	i := c.find(productID)
	if i < 0 {
		return CartItem{}, false
	}
	return c.Items[i], true
}

// Add merges quantity into an existing line for the product or appends a new
// one, capped by the stock reported in the snapshot.
func (c *Cart) Add(snapshot product.Snapshot, quantity int32) error {
	if quantity <= 0 {
		return inErrors.ErrInvalidQuantity
	}

	newQuantity := quantity
	i := c.find(snapshot.ID)
	if i >= 0 {
		newQuantity += c.Items[i].Quantity
	}
	if newQuantity > snapshot.Stock {
		return inErrors.InsufficientStock{
			ProductID: snapshot.ID.String(),
			Available: snapshot.Stock,
			Requested: newQuantity,
		}
	}

	if i >= 0 {
		c.Items[i].Quantity = newQuantity
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID:  snapshot.ID,
			Name:       snapshot.Name,
			UnitPrice:  snapshot.Price,
			Quantity:   quantity,
			StockAtAdd: snapshot.Stock,
		})
	}
	c.recompute()
	return nil
}

// SetQuantity overwrites the quantity of an existing line. Zero or negative
// quantity removes the line. liveStock is the freshly fetched stock.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int32, liveStock int32) error {
	if quantity <= 0 {
		c.Remove(productID)
		return nil
	}

	i := c.find(productID)
	if i < 0 {
		return inErrors.ErrCartItemNotFound
	}
	if quantity > liveStock {
		return inErrors.InsufficientStock{
			ProductID: productID.String(),
			Available: liveStock,
			Requested: quantity,
		}
	}

	c.Items[i].Quantity = quantity
	c.recompute()
	return nil
}

// Remove deletes the line for the product. Removing an absent product is not
// an error.
func (c *Cart) Remove(productID uuid.UUID) {
	i := c.find(productID)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.recompute()
}

func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.recompute()
}

// Snapshot returns a deep copy so callers can never mutate the working cart
// through the returned value.
func (c Cart) Snapshot() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items, Total: c.Total, Count: c.Count}
}
