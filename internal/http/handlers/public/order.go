package public

import (
	"strconv"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"
	handlershared "github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/handlers/shared"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/http/response"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"

	"github.com/gin-gonic/gin"
)

// GuestOrderLookupRequest authenticates a guest order lookup.
type GuestOrderLookupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateOrderStatusRequest moves an order along its status machine.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateFulfillmentRequest sets one line's fulfillment state.
type UpdateFulfillmentRequest struct {
	ProductNo string `json:"product_no" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// GetGuestOrder returns a guest order after checking the access
// password chosen at checkout.
func (h *Handler) GetGuestOrder(c *gin.Context) {
	var req GuestOrderLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "malformed request body", err)
		return
	}

	order, err := h.OrderService.GetGuestOrder(c.Param("orderNo"), req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "could not fetch order")
		return
	}
	response.Success(c, order)
}

// GetCustomerOrder returns one of the authenticated customer's orders.
func (h *Handler) GetCustomerOrder(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetOrderForCustomer(c.Param("orderNo"), customerID)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "could not fetch order")
		return
	}
	response.Success(c, order)
}

// ListCustomerOrders pages through the customer's order history.
func (h *Handler) ListCustomerOrders(c *gin.Context) {
	customerID, ok := getCustomerID(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	orders, total, err := h.OrderService.ListOrdersForCustomer(repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		CustomerID: customerID,
		Status:     c.Query("status"),
		OrderNo:    c.Query("order_no"),
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "could not fetch orders")
		return
	}

	totalPage := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPage++
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// UpdateOrderStatus transitions an order, cancelling with restock when
// the target status is cancelled.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "malformed request body", err)
		return
	}

	orderNo := c.Param("orderNo")
	var err error
	var order interface{}
	if req.Status == constants.OrderStatusCancelled {
		order, err = h.OrderService.CancelOrder(orderNo)
	} else {
		order, err = h.OrderService.UpdateStatus(orderNo, req.Status)
	}
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "could not update order")
		return
	}
	response.Success(c, order)
}

// UpdateOrderFulfillment sets one line's fulfillment state.
func (h *Handler) UpdateOrderFulfillment(c *gin.Context) {
	var req UpdateFulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "malformed request body", err)
		return
	}

	order, err := h.OrderService.UpdateItemFulfillment(c.Param("orderNo"), req.ProductNo, req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "could not update fulfillment")
		return
	}
	response.Success(c, order)
}
