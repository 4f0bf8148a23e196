package response

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int32           `json:"count"`
}

type CartItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int32           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Mutation is the payload returned by add, remove and clear actions.
type Mutation struct {
	CartCount int32           `json:"cart_count"`
	CartTotal decimal.Decimal `json:"cart_total"`
}

// ItemMutation extends Mutation with the updated line total for update
// actions.
type ItemMutation struct {
	CartCount int32           `json:"cart_count"`
	CartTotal decimal.Decimal `json:"cart_total"`
	ItemTotal decimal.Decimal `json:"item_total"`
}
