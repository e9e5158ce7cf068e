package public

import (
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/response"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/service"

	"github.com/gin-gonic/gin"
)

// AddToCartRequest is the add-to-cart payload.
type AddToCartRequest struct {
	CartToken    string `json:"cart_token"`
	ProductNo    string `json:"product_no" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// UpdateQuantityRequest is the quantity-change payload.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// MergeCartRequest carries the anonymous cart to fold in at login.
type MergeCartRequest struct {
	CartToken string `json:"cart_token"`
}

// AddToCart puts an item in the cart, creating the cart on first add.
func (h *Handler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "malformed request body", err)
		return
	}

	detail, err := h.CartService.AddItem(c.Request.Context(), service.AddItemInput{
		CartToken:    req.CartToken,
		ProductNo:    req.ProductNo,
		Quantity:     req.Quantity,
		ThumbnailURL: req.ThumbnailURL,
		CustomerID:   optionalCustomerID(c),
	})
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not add item to cart")
		return
	}
	response.Success(c, detail)
}

// GetCart returns the hydrated cart for a token.
func (h *Handler) GetCart(c *gin.Context) {
	detail, err := h.CartService.GetCart(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not fetch cart")
		return
	}
	response.Success(c, detail)
}

// UpdateItemQuantity sets a line's quantity.
func (h *Handler) UpdateItemQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "malformed request body", err)
		return
	}

	detail, err := h.CartService.UpdateQuantity(c.Request.Context(), c.Param("token"), c.Param("productNo"), req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not update cart")
		return
	}
	response.Success(c, detail)
}

// DeleteFromCart removes a line from the cart.
func (h *Handler) DeleteFromCart(c *gin.Context) {
	detail, err := h.CartService.RemoveItem(c.Request.Context(), c.Param("token"), c.Param("productNo"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not update cart")
		return
	}
	response.Success(c, detail)
}

// ClearCart empties the cart, giving back any stock it still held.
func (h *Handler) ClearCart(c *gin.Context) {
	detail, err := h.CartService.ClearCart(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not clear cart")
		return
	}
	response.Success(c, detail)
}

// GetCustomerCart returns the authenticated customer's cart.
func (h *Handler) GetCustomerCart(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	detail, err := h.CartService.GetCartByCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not fetch cart")
		return
	}
	response.Success(c, detail)
}

// MergeCarts folds an anonymous cart into the customer's cart after
// login. Lines that fail to merge are reported, not fatal.
func (h *Handler) MergeCarts(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "malformed request body", err)
		return
	}

	detail, failures, err := h.CartMergeService.MergeOnLogin(c.Request.Context(), req.CartToken, customerID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "could not merge carts")
		return
	}
	response.Success(c, gin.H{
		"cart":     detail,
		"failures": failures,
	})
}
