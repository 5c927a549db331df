package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shop-api/middleware"
	"github.com/kendall-kelly/shop-api/models"
	"github.com/kendall-kelly/shop-api/services"
	"github.com/kendall-kelly/shop-api/utils"
	log "github.com/sirupsen/logrus"
)

// respondError writes the error envelope for a service error
func respondError(c *gin.Context, err error) {
	status, code, message := classifyError(err)

	if status >= http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"component":  "controllers",
			"path":       c.FullPath(),
			"request_id": c.GetString(middleware.ContextKeyRequestID),
		}).WithError(err).Error("Request failed")
		_ = c.Error(err)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func classifyError(err error) (int, string, string) {
	var uploadErr *utils.FileUploadError
	switch {
	case errors.As(err, &uploadErr):
		return http.StatusBadRequest, uploadErr.Code, uploadErr.Message
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, models.ErrDuplicateMember):
		return http.StatusConflict, "DUPLICATE_MEMBER", err.Error()
	case errors.Is(err, models.ErrInsufficientStock):
		return http.StatusConflict, "INSUFFICIENT_STOCK", err.Error()
	case errors.Is(err, models.ErrAlreadyDelivered), errors.Is(err, models.ErrAlreadyCanceled):
		return http.StatusConflict, "ORDER_NOT_CANCELABLE", err.Error()
	case errors.Is(err, models.ErrEmptyName),
		errors.Is(err, models.ErrInvalidCount),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidKind),
		errors.Is(err, models.ErrNoOrderItems):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, services.ErrImageStorageDisabled):
		return http.StatusServiceUnavailable, "IMAGE_STORAGE_DISABLED", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"
	}
}

// respondValidationError reports a request body that failed to bind
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// parseID reads a positive numeric path parameter, writing a 400 when it is not one
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid " + name + " parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}
