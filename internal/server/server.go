package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/swaadstation/coupon-service/config"
	"github.com/swaadstation/coupon-service/internal/handlers"
	"github.com/swaadstation/coupon-service/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := NewRouter(db, cfg)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ConfigMiddleware(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/test_db", handlers.TestDB)
	r.GET("/generate_coupon", handlers.GenerateCoupon)
	r.GET("/validate_coupon/:id", handlers.ValidateCoupon)

	admin := r.Group("/admin")
	{
		admin.POST("/login", handlers.AdminLogin)

		protected := admin.Group("")
		protected.Use(middleware.MasterOnly())
		{
			protected.POST("/reset_limit", handlers.ResetLimit)
			protected.GET("/stats", handlers.AdminStats)
			protected.GET("/coupons", handlers.ListCoupons)
		}
	}

	return r
}
