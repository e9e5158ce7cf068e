package public

import (
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/response"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	CartToken       string `json:"cart_token" binding:"required"`
	Email           string `json:"email" binding:"required"`
	PhoneNumber     string `json:"phone_number"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
	City            string `json:"city" binding:"required"`
	StateProv       string `json:"state_prov" binding:"required"`
	Zip             string `json:"zip" binding:"required"`
	// Password protects guest order lookups; ignored for
	// authenticated customers.
	Password string `json:"password"`
}

// HoldStock reserves stock for every line in the cart. The hold lasts
// a fixed window and is released automatically if checkout stalls.
func (h *Handler) HoldStock(c *gin.Context) {
	cart, err := h.CartService.FindCart(c.Param("token"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not hold stock")
		return
	}

	if err := h.InventoryService.HoldCart(c.Request.Context(), cart); err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "could not hold stock")
		return
	}
	expiresAt := nowPlus(h.InventoryService.HoldWindow())
	response.Success(c, gin.H{"expires_at": expiresAt})
}

// ReleaseStock drops every hold the cart has. Releasing a cart with
// no holds succeeds.
func (h *Handler) ReleaseStock(c *gin.Context) {
	cart, err := h.CartService.FindCart(c.Param("token"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not release stock")
		return
	}

	if err := h.InventoryService.ReleaseCart(c.Request.Context(), cart); err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "could not release stock")
		return
	}
	response.Success(c, gin.H{"released": true})
}

// PlaceOrder turns the cart into an order. An optional Idempotency-Key
// header guards against duplicate submissions on retry.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "malformed request body", err)
		return
	}

	order, err := h.OrderService.PlaceOrder(c.Request.Context(), service.PlaceOrderInput{
		CartToken:       req.CartToken,
		CustomerID:      optionalCustomerID(c),
		IdempotencyKey:  c.GetHeader("Idempotency-Key"),
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		StateProv:       req.StateProv,
		Zip:             req.Zip,
		GuestPassword:   req.Password,
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "could not place order")
		return
	}
	response.Success(c, gin.H{
		"order_no":     order.OrderNo,
		"status":       order.Status,
		"sub_total":    order.SubTotal,
		"shipping":     order.Shipping,
		"tax":          order.Tax,
		"total_amount": order.TotalAmount,
	})
}
