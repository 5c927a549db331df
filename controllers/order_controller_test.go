package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/kendall-kelly/shop-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *controllerEnv) placeOrder(t *testing.T, memberID, itemID uint, count int) uint {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/orders", map[string]interface{}{"memberId": memberID, "itemId": itemID, "count": count})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decode(t, w)["id"].(float64))
}

func (e *controllerEnv) stockOf(t *testing.T, itemID uint) int {
	t.Helper()
	var item models.Item
	require.NoError(t, e.db.First(&item, itemID).Error)
	return item.StockQuantity
}

func TestCreateOrder(t *testing.T) {
	env := setupControllerTest(t)
	memberID := env.createMember(t, "kim")
	itemID := env.createBook(t, "JPA", 1000, 10)

	tests := []struct {
		name           string
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
		wantStock      int
	}{
		{"places the order", map[string]interface{}{"memberId": memberID, "itemId": itemID, "count": 3}, http.StatusCreated, "", 7},
		{"exceeds the stock", map[string]interface{}{"memberId": memberID, "itemId": itemID, "count": 8}, http.StatusConflict, "INSUFFICIENT_STOCK", 7},
		{"zero count", map[string]interface{}{"memberId": memberID, "itemId": itemID, "count": 0}, http.StatusBadRequest, "VALIDATION_ERROR", 7},
		{"negative count", map[string]interface{}{"memberId": memberID, "itemId": itemID, "count": -1}, http.StatusBadRequest, "VALIDATION_ERROR", 7},
		{"missing member", map[string]interface{}{"itemId": itemID, "count": 1}, http.StatusBadRequest, "VALIDATION_ERROR", 7},
		{"unknown member", map[string]interface{}{"memberId": 999, "itemId": itemID, "count": 1}, http.StatusNotFound, "NOT_FOUND", 7},
		{"unknown item", map[string]interface{}{"memberId": memberID, "itemId": 999, "count": 1}, http.StatusNotFound, "NOT_FOUND", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/v1/orders", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, errorCode(t, w))
			} else {
				assert.Greater(t, decode(t, w)["id"], float64(0))
			}
			assert.Equal(t, tt.wantStock, env.stockOf(t, itemID))
		})
	}
}

func TestGetOrder(t *testing.T) {
	env := setupControllerTest(t)
	memberID := env.createMember(t, "kim")
	itemID := env.createBook(t, "JPA", 1000, 10)
	orderID := env.placeOrder(t, memberID, itemID, 3)

	// later price changes do not touch the placed order
	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/items/%d", itemID), map[string]interface{}{"name": "JPA", "price": 5000, "stockQuantity": 7})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, orderID, order.OrderID)
	assert.Equal(t, memberID, order.MemberID)
	assert.Equal(t, models.OrderStatusOrder, order.OrderStatus)
	assert.Equal(t, models.DeliveryStatusReady, order.DeliveryStatus)
	assert.Equal(t, 3000, order.TotalPrice)
	assert.False(t, order.OrderDate.IsZero())
	require.NotNil(t, order.Address)
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, OrderItemResponse{ItemID: itemID, OrderPrice: 1000, Count: 3, TotalPrice: 3000}, order.OrderItems[0])

	w = env.do(t, http.MethodGet, "/api/v1/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrder(t *testing.T) {
	env := setupControllerTest(t)
	memberID := env.createMember(t, "kim")
	itemID := env.createBook(t, "JPA", 1000, 10)
	orderID := env.placeOrder(t, memberID, itemID, 4)
	require.Equal(t, 6, env.stockOf(t, itemID))

	path := fmt.Sprintf("/api/v1/orders/%d/cancel", orderID)
	w := env.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var order OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusCancel, order.OrderStatus)
	assert.Equal(t, 10, env.stockOf(t, itemID), "cancel restores the stock")

	w = env.do(t, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ORDER_NOT_CANCELABLE", errorCode(t, w))
	assert.Equal(t, 10, env.stockOf(t, itemID), "a second cancel changes nothing")

	w = env.do(t, http.MethodPost, "/api/v1/orders/999/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrder_Delivered(t *testing.T) {
	env := setupControllerTest(t)
	memberID := env.createMember(t, "kim")
	itemID := env.createBook(t, "JPA", 1000, 10)
	orderID := env.placeOrder(t, memberID, itemID, 2)

	var order models.Order
	require.NoError(t, env.db.First(&order, orderID).Error)
	require.NotZero(t, order.DeliveryID)
	require.NoError(t, env.db.Model(&models.Delivery{}).
		Where("delivery_id = ?", order.DeliveryID).
		Update("status", models.DeliveryStatusComp).Error)

	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ORDER_NOT_CANCELABLE", errorCode(t, w))
	assert.Equal(t, 8, env.stockOf(t, itemID))
}

func TestListOrders(t *testing.T) {
	env := setupControllerTest(t)
	kim := env.createMember(t, "kim")
	lee := env.createMember(t, "lee")
	itemID := env.createBook(t, "JPA", 1000, 100)

	canceled := env.placeOrder(t, kim, itemID, 1)
	env.placeOrder(t, kim, itemID, 2)
	env.placeOrder(t, lee, itemID, 3)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", canceled), nil).Code)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		wantCount      int
	}{
		{"no filter", "", http.StatusOK, 3},
		{"by member", "?memberName=kim", http.StatusOK, 2},
		{"by status", "?orderStatus=ORDER", http.StatusOK, 2},
		{"by member and status", "?memberName=kim&orderStatus=cancel", http.StatusOK, 1},
		{"unknown member", "?memberName=park", http.StatusOK, 0},
		{"invalid status", "?orderStatus=SHIPPED", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/v1/orders"+tt.query, nil)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
				return
			}

			var result struct {
				Data []OrderResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Len(t, result.Data, tt.wantCount)
		})
	}
}
