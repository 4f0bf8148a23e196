package repository

import (
	"github.com/shopspring/decimal"

	"github.com/prawira/storefront/internal/order/response"
)

func (o Order) Response(items []OrderItem) response.Order {
	orderItems := make([]response.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = item.Response()
	}
	return response.Order{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		UserID:             o.UserID,
		Status:             string(o.Status),
		PaymentStatus:      string(o.PaymentStatus),
		Subtotal:           decimal.NewFromBigInt(o.Subtotal.Int, o.Subtotal.Exp),
		TaxAmount:          decimal.NewFromBigInt(o.TaxAmount.Int, o.TaxAmount.Exp),
		ShippingCost:       decimal.NewFromBigInt(o.ShippingCost.Int, o.ShippingCost.Exp),
		TotalAmount:        decimal.NewFromBigInt(o.TotalAmount.Int, o.TotalAmount.Exp),
		ShippingName:       o.ShippingName,
		ShippingEmail:      o.ShippingEmail,
		ShippingAddress:    o.ShippingAddress,
		ShippingCity:       o.ShippingCity,
		ShippingPostalCode: o.ShippingPostalCode,
		ShippingCountry:    o.ShippingCountry,
		BillingAddress:     o.BillingAddress,
		BillingCity:        o.BillingCity,
		BillingPostalCode:  o.BillingPostalCode,
		BillingCountry:     o.BillingCountry,
		PaymentMethod:      o.PaymentMethod,
		ShippingMethod:     o.ShippingMethod,
		Notes:              o.Notes,
		CreatedAt:          o.CreatedAt.Time,
		OrderItems:         orderItems,
	}
}

func (i OrderItem) Response() response.OrderItem {
	return response.OrderItem{
		ID:          i.ID,
		OrderID:     i.OrderID,
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		UnitPrice:   decimal.NewFromBigInt(i.UnitPrice.Int, i.UnitPrice.Exp),
		Quantity:    i.Quantity,
		LineTotal:   decimal.NewFromBigInt(i.LineTotal.Int, i.LineTotal.Exp),
	}
}
