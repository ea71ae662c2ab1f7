package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/swaadstation/coupon-service/internal/helpers"
	"github.com/swaadstation/coupon-service/internal/middleware"
)

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /admin/login. A correct admin password yields a
// 24h bearer token accepted by the admin endpoints from any address.
func AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Password is required.")
		return
	}

	cfg := middleware.GetConfig(c)
	if cfg == nil || cfg.AdminPasswordHash == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Admin login not configured.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if cfg.JWTSecret == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "JWT_SECRET not configured.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}
