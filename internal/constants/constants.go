package constants

// Order status constants.
const (
	OrderStatusProcessing  = "processing"
	OrderStatusReadyToShip = "ready to ship"
	OrderStatusShipped     = "shipped"
	OrderStatusDelivered   = "delivered"
	OrderStatusCancelled   = "cancelled"
	OrderStatusBackOrdered = "back ordered"
)

// Order item fulfillment status constants.
const (
	FulfillmentUnfulfilled        = "unfulfilled"
	FulfillmentPartiallyFulfilled = "partially fulfilled"
	FulfillmentFulfilled          = "fulfilled"
	FulfillmentBackOrdered        = "back ordered"
	FulfillmentOnHold             = "on hold"
	FulfillmentCancelled          = "cancelled"
	FulfillmentException          = "exception"
)

// Promotion discount type constants.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Promotion scope constants.
const (
	ScopeTypeProduct  = "product"
	ScopeTypeCategory = "category"
)

// Queue task and queue name constants.
const (
	QueueDefault       = "default"
	QueueCritical      = "critical"
	TaskCartHoldExpire = "cart:hold_expire"
)

// Cache key prefix defaults.
const (
	RedisPrefixDefault = "pb"
)

// Checkout defaults.
const (
	DefaultHoldExpireMinutes = 15
	DefaultOrderNumberPrefix = "PB"
)
