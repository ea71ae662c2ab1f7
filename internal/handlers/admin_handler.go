package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swaadstation/coupon-service/internal/helpers"
	"github.com/swaadstation/coupon-service/internal/middleware"
)

type ResetLimitRequest struct {
	Limit *int `json:"limit"`
}

// ResetLimit handles POST /admin/reset_limit: sets a new quota limit and
// zeroes the issued counter. Falls back to the configured default limit
// when the payload omits one.
func ResetLimit(c *gin.Context) {
	var req ResetLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	cfg := middleware.GetConfig(c)
	svc := couponService(c)
	if svc == nil {
		helpers.RespondServerError(c, "Database connection not found.")
		return
	}

	newLimit := cfg.DefaultLimit
	if req.Limit != nil {
		newLimit = *req.Limit
	}

	if err := svc.ResetLimit(newLimit); err != nil {
		helpers.RespondServerError(c, "Failed to reset coupon limit.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Coupon limit reset to %d", newLimit),
		"new_limit": newLimit,
	})
}

// AdminStats handles GET /admin/stats.
func AdminStats(c *gin.Context) {
	svc := couponService(c)
	if svc == nil {
		helpers.RespondServerError(c, "Database connection not found.")
		return
	}

	stats, err := svc.Stats()
	if err != nil {
		helpers.RespondServerError(c, "Failed to collect statistics.")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListCoupons handles GET /admin/coupons with page/limit pagination.
func ListCoupons(c *gin.Context) {
	svc := couponService(c)
	if svc == nil {
		helpers.RespondServerError(c, "Database connection not found.")
		return
	}

	pageNum, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || pageNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limitNum < 1 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	coupons, totalCount, err := svc.ListCoupons(pageNum, limitNum)
	if err != nil {
		helpers.RespondServerError(c, "Error retrieving coupons.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons":     coupons,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}
