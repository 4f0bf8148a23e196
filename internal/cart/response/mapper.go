package response

import (
	"github.com/prawira/storefront/internal/cart/store"
)

func FromCart(cart store.Cart) Cart {
	items := make([]CartItem, len(cart.Items))
	for i, item := range cart.Items {
		items[i] = CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		}
	}
	return Cart{Items: items, Total: cart.Total, Count: cart.Count}
}
