package constants

const (
	AppStorefront = "storefront"

	ChannelOrderConfirmation = "orders:confirmation"
)
