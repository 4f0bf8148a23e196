package log

const (
	KeyAppName        = "app"
	KeyRequestID      = "requestId"
	KeyProcess        = "process"
	KeyTag            = "tag"
	KeyConfig         = "config"
	KeyRequestBody    = "requestBody"
	KeyRequestHeader  = "requestHeader"
	KeyRequestHost    = "host"
	KeyRequestIp      = "requesterIP"
	KeyRequestMethod  = "requestMethod"
	KeyRequestURI     = "requestURI"
	KeyRequestURL     = "requestURL"
	KeySessionID      = "sessionId"
	KeyUserID         = "userId"
	KeyProductID      = "productId"
	KeyQuantity       = "quantity"
	KeyCart           = "cart"
	KeyCartAction     = "cartAction"
	KeyCartCount      = "cartCount"
	KeyCartTotal      = "cartTotal"
	KeyOrder          = "order"
	KeyOrderID        = "orderId"
	KeyOrderNumber    = "orderNumber"
	KeyOrderItems     = "orderItems"
	KeyShippingMethod = "shippingMethod"
	KeyCacheKey       = "cacheKey"
	KeyDbURL          = "dbURL"
	KeyTraceID        = "traceId"
	KeySpanID         = "spanId"
)
