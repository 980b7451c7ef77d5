package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"sistema-gth/internal/hr/store"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

type PaginationMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

type ListQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

// respondStoreError maps data-layer errors onto HTTP statuses. The
// read-only rejection surfaces as 403 so the role gate is visible to a
// crafted request, not just a hidden form.
func respondStoreError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, store.ErrReadOnly):
		c.JSON(http.StatusForbidden, errorResponse("Role is not allowed to modify records"))
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(notFoundMsg))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("Database error"))
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid record id"))
		return 0, false
	}
	return id, true
}

// parseDateField validates a form date. Malformed dates are rejected,
// never replaced with a default.
func parseDateField(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &t, nil
}

func parseAmountField(value string) (string, error) {
	if value == "" {
		return "0", nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}
