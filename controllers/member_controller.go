package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/services"
)

// CreateMemberRequest represents the request body for registering a member
type CreateMemberRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateMemberResponse carries the id of a newly registered member
type CreateMemberResponse struct {
	ID uint `json:"id"`
}

// UpdateMemberRequest represents the request body for renaming a member
type UpdateMemberRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateMemberResponse is returned after a rename
type UpdateMemberResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MemberDto exposes only the member name in listings
type MemberDto struct {
	Name string `json:"name"`
}

// MemberDetailResponse is a single member lookup
type MemberDetailResponse struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	Address models.Address `json:"address"`
}

// Result wraps collections so the response can grow fields later
type Result[T any] struct {
	Data T `json:"data"`
}

// SaveMemberV1 handles POST /api/v1/members - binds the member entity directly.
//
// Deprecated: the request shape is the storage entity; use SaveMemberV2.
func SaveMemberV1(c *gin.Context) {
	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		respondValidationError(c, err)
		return
	}
	member.ID = 0

	id, err := services.GetMemberService().Join(c.Request.Context(), &member)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateMemberResponse{ID: id})
}

// SaveMemberV2 handles POST /api/v2/members
func SaveMemberV2(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	member := models.Member{Name: req.Name}
	id, err := services.GetMemberService().Join(c.Request.Context(), &member)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateMemberResponse{ID: id})
}

// UpdateMemberV2 handles PUT /api/v2/members/:id
func UpdateMemberV2(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	memberService := services.GetMemberService()
	if err := memberService.Update(c.Request.Context(), id, req.Name); err != nil {
		respondError(c, err)
		return
	}

	member, err := memberService.FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UpdateMemberResponse{ID: member.ID, Name: member.Name})
}

// MembersV1 handles GET /api/v1/members - returns the entities as a bare array.
//
// Deprecated: exposes every entity field; use MembersV2.
func MembersV1(c *gin.Context) {
	members, err := services.GetMemberService().FindMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// MembersV2 handles GET /api/v2/members
func MembersV2(c *gin.Context) {
	members, err := services.GetMemberService().FindMembers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]MemberDto, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, MemberDto{Name: m.Name})
	}
	c.JSON(http.StatusOK, Result[[]MemberDto]{Data: dtos})
}

// GetMember handles GET /api/v2/members/:id
func GetMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	member, err := services.GetMemberService().FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MemberDetailResponse{ID: member.ID, Name: member.Name, Address: member.Address})
}

// GetMemberOrders handles GET /api/v2/members/:id/orders
func GetMemberOrders(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	orders, err := services.GetOrderService().FindMemberOrders(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Result[[]OrderResponse]{Data: toOrderResponses(orders)})
}
