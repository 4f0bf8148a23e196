package request

const (
	PaymentCard           = "card"
	PaymentBankTransfer   = "bank_transfer"
	PaymentCashOnDelivery = "cod"
)

// Checkout is the order submission form. Card fields are required only when
// the payment method is card, they are verified for shape and never stored.
type Checkout struct {
	ShippingName       string `validate:"required"                                        json:"shipping_name"`
	ShippingEmail      string `validate:"required,email"                                  json:"shipping_email"`
	ShippingAddress    string `validate:"required"                                        json:"shipping_address"`
	ShippingCity       string `validate:"required"                                        json:"shipping_city"`
	ShippingPostalCode string `validate:"required"                                        json:"shipping_postal_code"`
	ShippingCountry    string `validate:"required"                                        json:"shipping_country"`
	BillingAddress     string `validate:"required"                                        json:"billing_address"`
	BillingCity        string `validate:"required"                                        json:"billing_city"`
	BillingPostalCode  string `validate:"required"                                        json:"billing_postal_code"`
	BillingCountry     string `validate:"required"                                        json:"billing_country"`
	PaymentMethod      string `validate:"required,oneof=card bank_transfer cod"           json:"payment_method"`
	CardNumber         string `validate:"required_if=PaymentMethod card,omitempty,credit_card" json:"card_number"`
	CardExpiry         string `validate:"required_if=PaymentMethod card"                  json:"card_expiry"`
	CardCvc            string `validate:"required_if=PaymentMethod card,omitempty,len=3"  json:"card_cvc"`
	ShippingMethod     string `validate:"omitempty"                                       json:"shipping_method"`
	Notes              string `validate:"omitempty,max=500"                               json:"notes"`
}
