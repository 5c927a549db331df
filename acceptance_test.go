package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// ShopAcceptanceTestSuite drives the API over a real HTTP server
type ShopAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	db     *gorm.DB
	client *http.Client
}

func (s *ShopAcceptanceTestSuite) SetupTest() {
	router, db := setupTestApp(s.T(), newTestConfig(s.T()))
	s.db = db
	s.server = httptest.NewServer(router)
	s.client = s.server.Client()
}

func (s *ShopAcceptanceTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ShopAcceptanceTestSuite) request(method, path string, body interface{}) (int, map[string]interface{}) {
	var payload bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &payload)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func (s *ShopAcceptanceTestSuite) join(name string) float64 {
	status, body := s.request(http.MethodPost, "/api/v2/members", map[string]interface{}{"name": name})
	s.Require().Equal(http.StatusOK, status)
	return body["id"].(float64)
}

func (s *ShopAcceptanceTestSuite) addBook(name string, price, stock int) float64 {
	status, body := s.request(http.MethodPost, "/api/v1/items", map[string]interface{}{
		"kind": "book", "name": name, "price": price, "stockQuantity": stock, "author": "kim", "isbn": "1",
	})
	s.Require().Equal(http.StatusCreated, status)
	return body["id"].(float64)
}

func (s *ShopAcceptanceTestSuite) stock(itemID float64) float64 {
	status, body := s.request(http.MethodGet, fmt.Sprintf("/api/v1/items/%d", int(itemID)), nil)
	s.Require().Equal(http.StatusOK, status)
	return body["stockQuantity"].(float64)
}

func (s *ShopAcceptanceTestSuite) TestDuplicateJoinIsRejected() {
	s.join("kim")

	status, body := s.request(http.MethodPost, "/api/v2/members", map[string]interface{}{"name": "kim"})
	s.Equal(http.StatusConflict, status)
	s.Equal(false, body["success"])
	s.Equal("DUPLICATE_MEMBER", body["error"].(map[string]interface{})["code"])
}

func (s *ShopAcceptanceTestSuite) TestOrderDecrementsStock() {
	memberID := s.join("kim")
	itemID := s.addBook("JPA", 1000, 10)

	status, body := s.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{"memberId": memberID, "itemId": itemID, "count": 3})
	s.Require().Equal(http.StatusCreated, status)
	orderID := int(body["id"].(float64))

	s.Equal(float64(7), s.stock(itemID))

	status, body = s.request(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", orderID), nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal(float64(3000), body["totalPrice"])
	s.Equal("ORDER", body["orderStatus"])
}

func (s *ShopAcceptanceTestSuite) TestOrderBeyondStockFails() {
	memberID := s.join("kim")
	itemID := s.addBook("JPA", 1000, 2)

	status, body := s.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{"memberId": memberID, "itemId": itemID, "count": 5})
	s.Equal(http.StatusConflict, status)
	s.Equal("INSUFFICIENT_STOCK", body["error"].(map[string]interface{})["code"])
	s.Equal(float64(2), s.stock(itemID))

	status, body = s.request(http.MethodGet, "/api/v1/orders", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Empty(body["data"], "a failed order leaves nothing behind")
}

func (s *ShopAcceptanceTestSuite) TestCancelRestoresStock() {
	memberID := s.join("kim")
	itemID := s.addBook("JPA", 1000, 10)

	_, body := s.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{"memberId": memberID, "itemId": itemID, "count": 4})
	orderID := int(body["id"].(float64))
	s.Equal(float64(6), s.stock(itemID))

	status, body := s.request(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", orderID), nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("CANCEL", body["orderStatus"])
	s.Equal(float64(10), s.stock(itemID))

	status, _ = s.request(http.MethodGet, "/api/v1/orders?orderStatus=CANCEL&memberName=kim", nil)
	s.Equal(http.StatusOK, status)
}

func (s *ShopAcceptanceTestSuite) TestMemberOrderHistory() {
	kim := s.join("kim")
	lee := s.join("lee")
	itemID := s.addBook("JPA", 1000, 10)

	for _, member := range []float64{kim, lee, kim} {
		status, _ := s.request(http.MethodPost, "/api/v1/orders", map[string]interface{}{"memberId": member, "itemId": itemID, "count": 1})
		s.Require().Equal(http.StatusCreated, status)
	}

	status, body := s.request(http.MethodGet, fmt.Sprintf("/api/v2/members/%d/orders", int(kim)), nil)
	s.Require().Equal(http.StatusOK, status)
	s.Len(body["data"], 2)
}

func TestShopAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(ShopAcceptanceTestSuite))
}

// TestCatalogWritesRequireToken runs the router with Auth0 configured
func TestCatalogWritesRequireToken(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Auth0Domain = "test.auth0.com"
	cfg.Auth0Audience = "https://api.test.com"
	router, _ := setupTestApp(t, cfg)
	server := httptest.NewServer(router)
	defer server.Close()

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"malformed token", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, server.URL+"/api/v1/items",
				bytes.NewBufferString(`{"kind":"book","name":"JPA","price":1000,"stockQuantity":1}`))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			resp, err := server.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}

	resp, err := server.Client().Get(server.URL + "/api/v1/items")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "catalog reads stay public")
}
