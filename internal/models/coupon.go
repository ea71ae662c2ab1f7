package models

import (
	"time"
)

type Coupon struct {
	ID                string    `gorm:"primary_key;size:8" json:"coupon_id"`
	Valid             bool      `gorm:"not null;default:true" json:"valid"`
	ExpiryDate        time.Time `gorm:"not null" json:"expiry_date"`
	Discount          string    `gorm:"not null" json:"discount"`
	Used              bool      `gorm:"not null;default:false" json:"used"`
	GeneratingIP      string    `gorm:"not null;index" json:"generating_ip"`
	GeneratedByMaster bool      `gorm:"not null;default:false" json:"generated_by_master"`
	CreatedAt         time.Time `json:"created_at"`
}
