package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/repository"
	"github.com/kendall-kelly/shop-api/services"
)

// CreateOrderRequest represents the request body for placing an order
type CreateOrderRequest struct {
	MemberID uint `json:"memberId" binding:"required"`
	ItemID   uint `json:"itemId" binding:"required"`
	Count    int  `json:"count" binding:"required,gt=0"`
}

// OrderSearchQuery holds the optional filters of GET /api/v1/orders
type OrderSearchQuery struct {
	MemberName  string `form:"memberName"`
	OrderStatus string `form:"orderStatus"`
}

// OrderItemResponse is one order line
type OrderItemResponse struct {
	ItemID     uint `json:"itemId"`
	OrderPrice int  `json:"orderPrice"`
	Count      int  `json:"count"`
	TotalPrice int  `json:"totalPrice"`
}

// OrderResponse is the public view of an order aggregate
type OrderResponse struct {
	OrderID        uint                  `json:"orderId"`
	MemberID       uint                  `json:"memberId"`
	OrderDate      time.Time             `json:"orderDate"`
	OrderStatus    models.OrderStatus    `json:"orderStatus"`
	DeliveryStatus models.DeliveryStatus `json:"deliveryStatus,omitempty"`
	Address        *models.Address       `json:"address,omitempty"`
	TotalPrice     int                   `json:"totalPrice"`
	OrderItems     []OrderItemResponse   `json:"orderItems"`
}

func toOrderResponse(order *models.Order) OrderResponse {
	resp := OrderResponse{
		OrderID:     order.ID,
		MemberID:    order.MemberID,
		OrderDate:   order.OrderDate,
		OrderStatus: order.Status,
		TotalPrice:  order.TotalPrice(),
		OrderItems:  make([]OrderItemResponse, 0, len(order.OrderItems)),
	}
	if order.Delivery != nil {
		address := order.Delivery.Address
		resp.Address = &address
		resp.DeliveryStatus = order.Delivery.Status
	}
	for i := range order.OrderItems {
		line := &order.OrderItems[i]
		resp.OrderItems = append(resp.OrderItems, OrderItemResponse{
			ItemID:     line.ItemID,
			OrderPrice: line.OrderPrice,
			Count:      line.Count,
			TotalPrice: line.TotalPrice(),
		})
	}
	return resp
}

func toOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

// CreateOrder handles POST /api/v1/orders
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	id, err := services.GetOrderService().Order(c.Request.Context(), req.MemberID, req.ItemID, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListOrders handles GET /api/v1/orders?memberName=&orderStatus=
func ListOrders(c *gin.Context) {
	var query OrderSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidationError(c, err)
		return
	}

	search := repository.OrderSearch{MemberName: query.MemberName}
	if query.OrderStatus != "" {
		status, ok := models.ParseOrderStatus(query.OrderStatus)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "orderStatus must be ORDER or CANCEL",
				},
			})
			return
		}
		search.OrderStatus = status
	}

	orders, err := services.GetOrderService().FindOrders(c.Request.Context(), search)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Result[[]OrderResponse]{Data: toOrderResponses(orders)})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := services.GetOrderService().FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	orderService := services.GetOrderService()
	if err := orderService.CancelOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	order, err := orderService.FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toOrderResponse(order))
}
