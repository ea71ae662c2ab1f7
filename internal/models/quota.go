package models

// QuotaConfigID is the fixed key of the singleton quota record.
const QuotaConfigID = "coupon_limit"

type QuotaConfig struct {
	ID           string `gorm:"primary_key" json:"-"`
	Limit        int    `gorm:"not null" json:"limit"`
	CurrentCount int    `gorm:"not null;default:0" json:"current_count"`
}
