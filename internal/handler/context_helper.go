package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ortiz25/sms-api/internal/listing"
	"github.com/Ortiz25/sms-api/internal/middleware"
	"github.com/Ortiz25/sms-api/internal/models"
)

// currentClaims extracts the JWT claims the auth middleware stored.
func currentClaims(c *gin.Context) (*models.JWTClaims, bool) {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

// listQuery parses the shared list parameters: search, status, page, page_size.
func listQuery(c *gin.Context) listing.Query {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	return listing.Query{
		Search:   c.Query("search"),
		Status:   c.DefaultQuery("status", listing.StatusAll),
		Page:     page,
		PageSize: pageSize,
	}
}

// paginationOf converts a listing result into response metadata.
func paginationOf[T any](result *listing.Result[T]) *models.Pagination {
	return &models.Pagination{
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
	}
}
