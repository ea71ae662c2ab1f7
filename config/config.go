package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/swaadstation/coupon-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	MasterIP          string
	DefaultLimit      int
	JWTSecret         string
	AdminPasswordHash string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:            os.Getenv("DB_HOST"),
		DBPort:            os.Getenv("DB_PORT"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		MasterIP:          getEnv("MASTER_IP", "192.168.137.1"),
		DefaultLimit:      getEnvInt("COUPON_LIMIT", 150),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db, cfg.DefaultLimit); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs the schema migration and seeds the singleton quota record.
func Migrate(db *gorm.DB, defaultLimit int) error {
	if err := db.AutoMigrate(&models.Coupon{}, &models.QuotaConfig{}); err != nil {
		return err
	}
	return seedQuotaConfig(db, defaultLimit)
}

func seedQuotaConfig(db *gorm.DB, defaultLimit int) error {
	var existing models.QuotaConfig
	result := db.Where("id = ?", models.QuotaConfigID).First(&existing)
	if result.Error != nil {
		return db.Create(&models.QuotaConfig{
			ID:           models.QuotaConfigID,
			Limit:        defaultLimit,
			CurrentCount: 0,
		}).Error
	}
	return nil
}
