package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// MasterOnly admits requests coming from the configured master IP, or
// carrying a valid admin bearer token issued by the login endpoint.
// Everything else gets 403.
func MasterOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := GetConfig(c)
		if cfg == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Server configuration not found.",
			})
			return
		}

		if c.ClientIP() == cfg.MasterIP || hasAdminToken(c, cfg.JWTSecret) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	}
}

func hasAdminToken(c *gin.Context, secret string) bool {
	if secret == "" {
		return false
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	return claims["role"] == "admin"
}
