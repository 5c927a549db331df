package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shop-api/logger"
	"github.com/kendall-kelly/shop-api/middleware"
	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/services"
	"github.com/kendall-kelly/shop-api/utils"
	log "github.com/sirupsen/logrus"
)

// CreateItemRequest represents the request body for adding a catalog item.
// Only the fields of the chosen kind are stored.
type CreateItemRequest struct {
	Kind          string `json:"kind" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Price         int    `json:"price" binding:"gte=0"`
	StockQuantity int    `json:"stockQuantity" binding:"gte=0"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	Artist        string `json:"artist"`
	Etc           string `json:"etc"`
	Director      string `json:"director"`
	Actor         string `json:"actor"`
}

// UpdateItemRequest represents the request body for a catalog update
type UpdateItemRequest struct {
	Name          string `json:"name" binding:"required"`
	Price         *int   `json:"price" binding:"required,gte=0"`
	StockQuantity *int   `json:"stockQuantity" binding:"required,gte=0"`
}

// ItemResponse is the public view of a catalog item
type ItemResponse struct {
	ID            uint   `json:"id"`
	Kind          string `json:"kind"`
	Name          string `json:"name"`
	Price         int    `json:"price"`
	StockQuantity int    `json:"stockQuantity"`
	Author        string `json:"author,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	Artist        string `json:"artist,omitempty"`
	Etc           string `json:"etc,omitempty"`
	Director      string `json:"director,omitempty"`
	Actor         string `json:"actor,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

func toItemResponse(item *models.Item) ItemResponse {
	resp := ItemResponse{
		ID:            item.ID,
		Kind:          item.DType.String(),
		Name:          item.Name,
		Price:         item.Price,
		StockQuantity: item.StockQuantity,
		Author:        item.Author,
		ISBN:          item.ISBN,
		Artist:        item.Artist,
		Etc:           item.Etc,
		Director:      item.Director,
		Actor:         item.Actor,
	}
	if item.ImageURL != nil {
		resp.ImageURL = *item.ImageURL
	}
	return resp
}

func (r CreateItemRequest) toItem(kind models.ItemKind) *models.Item {
	item := &models.Item{
		DType:         kind,
		Name:          r.Name,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
	}
	switch kind {
	case models.ItemKindBook:
		item.Author, item.ISBN = r.Author, r.ISBN
	case models.ItemKindAlbum:
		item.Artist, item.Etc = r.Artist, r.Etc
	case models.ItemKindMovie:
		item.Director, item.Actor = r.Director, r.Actor
	}
	return item
}

// CreateItem handles POST /api/v1/items
func CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	kind, ok := models.ParseItemKind(req.Kind)
	if !ok {
		respondError(c, models.ErrInvalidKind)
		return
	}

	id, err := services.GetItemService().SaveItem(c.Request.Context(), req.toItem(kind))
	if err != nil {
		respondError(c, err)
		return
	}

	auditCatalogWrite(c, "create", id)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateItem handles PUT /api/v1/items/:id
func UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	item, err := services.GetItemService().UpdateItem(c.Request.Context(), id, req.Name, *req.Price, *req.StockQuantity)
	if err != nil {
		respondError(c, err)
		return
	}
	auditCatalogWrite(c, "update", id)

	c.JSON(http.StatusOK, toItemResponse(item))
}

// ListItems handles GET /api/v1/items
func ListItems(c *gin.Context) {
	items, err := services.GetItemService().FindItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	dtos := make([]ItemResponse, 0, len(items))
	for i := range items {
		dtos = append(dtos, toItemResponse(&items[i]))
	}
	c.JSON(http.StatusOK, Result[[]ItemResponse]{Data: dtos})
}

// GetItem handles GET /api/v1/items/:id
func GetItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	item, err := services.GetItemService().FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toItemResponse(item))
}

// UploadItemImage handles POST /api/v1/items/:id/image - multipart field "image", PNG only
func UploadItemImage(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, utils.ValidateImageFile(nil))
		return
	}

	item, err := services.GetItemService().AttachImage(c.Request.Context(), id, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}
	auditCatalogWrite(c, "upload_image", id)

	c.JSON(http.StatusOK, toItemResponse(item))
}

// auditCatalogWrite records who changed the catalog. Without Auth0 the actor is "anonymous".
func auditCatalogWrite(c *gin.Context, action string, itemID uint) {
	actor, err := middleware.GetUserID(c)
	if err != nil {
		actor = "anonymous"
	}
	logger.Component("catalog").WithFields(log.Fields{
		"action":     action,
		"item_id":    itemID,
		"actor":      actor,
		"request_id": c.GetString(middleware.ContextKeyRequestID),
	}).Info("Catalog updated")
}
