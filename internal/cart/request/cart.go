package request

const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionRemove = "remove"
	ActionClear  = "clear"
	ActionGet    = "get"
)

// CartAction is the single mutation payload for the cart endpoint. The action
// field selects the operation, product_id and quantity are required per
// action, not globally.
type CartAction struct {
	Action    string `validate:"required,oneof=add update remove clear get"             json:"action"`
	ProductID string `validate:"required_unless=Action clear Action get,omitempty,uuid" json:"product_id"`
	Quantity  int32  `validate:"required_if=Action add,gte=0"                           json:"quantity"`
}
