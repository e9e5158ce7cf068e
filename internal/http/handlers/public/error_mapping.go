package public

import (
	"errors"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/response"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError maps a business error to an API error response.
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	// Stock shortfalls carry payload the UI needs ("only N left"),
	// so they bypass the plain rule table. Every short line is
	// listed, not just the first.
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		shortfalls := make([]gin.H, 0, len(stockErr.Shortfalls))
		for _, sf := range stockErr.Shortfalls {
			shortfalls = append(shortfalls, gin.H{
				"product_no": sf.ProductNo,
				"requested":  sf.Requested,
				"available":  sf.Available,
				"shortfall":  sf.Shortfall(),
			})
		}
		respondErrorWithData(c, response.CodeConflict, "insufficient stock", gin.H{
			"shortfalls": shortfalls,
		}, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "product not found"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrItemNotInCart, code: response.CodeNotFound, msg: "item not in cart"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "quantity must be a positive integer"},
	{target: service.ErrPromotionInvalid, code: response.CodeBadRequest, msg: "promotion configuration invalid"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartNotFound, code: response.CodeNotFound, msg: "cart not found"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrGuestEmailRequired, code: response.CodeBadRequest, msg: "email is required"},
	{target: service.ErrGuestPasswordRequired, code: response.CodeBadRequest, msg: "access password is required for guest checkout"},
	{target: service.ErrShippingIncomplete, code: response.CodeBadRequest, msg: "shipping information incomplete"},
	{target: service.ErrDuplicateSubmission, code: response.CodeConflict, msg: "this order was already submitted"},
	{target: service.ErrOrderNumberCollision, code: response.CodeInternal, msg: "could not allocate an order number, please retry"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "order not found"},
	{target: service.ErrGuestPasswordInvalid, code: response.CodeUnauthorized, msg: "order access denied"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeBadRequest, msg: "status change not allowed"},
	{target: service.ErrItemNotInCart, code: response.CodeNotFound, msg: "order item not found"},
}
