package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swaadstation/coupon-service/internal/helpers"
	"github.com/swaadstation/coupon-service/internal/middleware"
	"github.com/swaadstation/coupon-service/internal/service"
)

const (
	generatedCookieName   = "coupon_generated"
	generatedCookieMaxAge = 24 * 60 * 60
)

func couponService(c *gin.Context) *service.CouponService {
	gormDB := middleware.GetDB(c)
	cfg := middleware.GetConfig(c)
	if gormDB == nil || cfg == nil {
		return nil
	}
	return service.NewCouponService(gormDB, cfg.MasterIP)
}

// TestDB handles GET /test_db and reports the current quota state.
func TestDB(c *gin.Context) {
	svc := couponService(c)
	if svc == nil {
		helpers.RespondServerError(c, "Database connection not found.")
		return
	}

	quota, err := svc.Quota()
	if err != nil {
		helpers.RespondServerError(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"limit":         quota.Limit,
			"current_count": quota.CurrentCount,
		},
	})
}

// GenerateCoupon handles GET /generate_coupon: gates on the marker cookie,
// the caller's IP and the global quota, persists a new coupon, and streams
// it back as a PDF attachment with the QR code embedded.
func GenerateCoupon(c *gin.Context) {
	if cookie, err := c.Cookie(generatedCookieName); err == nil && cookie != "" {
		helpers.RespondDenied(c, "You have already generated a coupon. Only one coupon per device is allowed.")
		return
	}

	svc := couponService(c)
	if svc == nil {
		helpers.RespondServerError(c, "Database connection not found.")
		return
	}

	coupon, err := svc.Issue(c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyIssued):
			helpers.RespondDenied(c, "You have already generated a coupon. Only one coupon per device is allowed.")
		case errors.Is(err, service.ErrQuotaExceeded):
			helpers.RespondDenied(c, "Coupon limit reached. Please try again later.")
		default:
			helpers.RespondServerError(c, "Failed to generate coupon.")
		}
		return
	}

	qrImage, err := helpers.GenerateQRCode(coupon.ID)
	if err != nil {
		helpers.RespondServerError(c, "Failed to generate QR code.")
		return
	}

	pdfBytes, err := helpers.RenderCouponPDF(coupon.ID, qrImage, coupon.ExpiryDate)
	if err != nil {
		helpers.RespondServerError(c, "Failed to render coupon document.")
		return
	}

	c.SetCookie(generatedCookieName, "true", generatedCookieMaxAge, "/", "", false, true)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=swaad_station_coupon_%s.pdf", coupon.ID))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// ValidateCoupon handles GET /validate_coupon/:id. A successful validation
// redeems the coupon; every outcome is a 200 with a valid flag and message.
func ValidateCoupon(c *gin.Context) {
	couponID := c.Param("id")

	svc := couponService(c)
	if svc == nil {
		helpers.RespondServerError(c, "Database connection not found.")
		return
	}

	coupon, err := svc.Redeem(couponID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"valid":    true,
			"message":  "Valid coupon - 10% discount applied at Swaad Station",
			"discount": coupon.Discount,
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusOK, gin.H{"valid": false, "message": "Coupon not found"})
	case errors.Is(err, service.ErrAlreadyUsed):
		c.JSON(http.StatusOK, gin.H{"valid": false, "message": "Coupon already used"})
	case errors.Is(err, service.ErrExpired):
		c.JSON(http.StatusOK, gin.H{"valid": false, "message": "Coupon expired"})
	default:
		helpers.RespondServerError(c, "Failed to validate coupon.")
	}
}
