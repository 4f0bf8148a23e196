package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID                 uuid.UUID       `json:"id"`
	OrderNumber        string          `json:"order_number"`
	UserID             uuid.UUID       `json:"user_id"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"payment_status"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	ShippingCost       decimal.Decimal `json:"shipping_cost"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	ShippingName       string          `json:"shipping_name"`
	ShippingEmail      string          `json:"shipping_email"`
	ShippingAddress    string          `json:"shipping_address"`
	ShippingCity       string          `json:"shipping_city"`
	ShippingPostalCode string          `json:"shipping_postal_code"`
	ShippingCountry    string          `json:"shipping_country"`
	BillingAddress     string          `json:"billing_address"`
	BillingCity        string          `json:"billing_city"`
	BillingPostalCode  string          `json:"billing_postal_code"`
	BillingCountry     string          `json:"billing_country"`
	PaymentMethod      string          `json:"payment_method"`
	ShippingMethod     string          `json:"shipping_method"`
	Notes              string          `json:"notes"`
	CreatedAt          time.Time       `json:"created_at"`
	OrderItems         []OrderItem     `json:"order_items"`
}

type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int32           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CheckoutResult is the success payload of a checkout submission.
type CheckoutResult struct {
	OrderNumber string `json:"order_number"`
	RedirectURL string `json:"redirect_url"`
}
