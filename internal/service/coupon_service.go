package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/swaadstation/coupon-service/internal/models"
)

const (
	couponIDLength = 8
	couponDiscount = "10%"
	couponLifetime = 24 * time.Hour
)

type CouponService struct {
	db       *gorm.DB
	masterIP string
}

func NewCouponService(db *gorm.DB, masterIP string) *CouponService {
	return &CouponService{db: db, masterIP: masterIP}
}

// IsIPAllowed reports whether ip may still request a coupon: the master IP
// always may, any other IP only if no coupon was ever issued to it.
func (s *CouponService) IsIPAllowed(ip string) (bool, error) {
	if ip == s.masterIP {
		return true, nil
	}
	var count int64
	if err := s.db.Model(&models.Coupon{}).Where("generating_ip = ?", ip).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// CanGenerate reports whether the global quota still has room.
func (s *CouponService) CanGenerate() (bool, error) {
	quota, err := s.Quota()
	if err != nil {
		return false, err
	}
	return quota.CurrentCount < quota.Limit, nil
}

// IncrementCount bumps the issued counter by one. The increment runs as a
// single UPDATE expression so concurrent issuances never lose a count.
func (s *CouponService) IncrementCount() error {
	return s.db.Model(&models.QuotaConfig{}).
		Where("id = ?", models.QuotaConfigID).
		UpdateColumn("current_count", gorm.Expr("current_count + ?", 1)).Error
}

func (s *CouponService) Quota() (*models.QuotaConfig, error) {
	var quota models.QuotaConfig
	if err := s.db.Where("id = ?", models.QuotaConfigID).First(&quota).Error; err != nil {
		return nil, err
	}
	return &quota, nil
}

// Issue creates and persists a fresh coupon for ip. Non-master callers are
// refused with ErrAlreadyIssued if any coupon was already issued to their IP,
// and with ErrQuotaExceeded once the global limit is reached. Master
// issuances bypass both gates and never touch the counter.
func (s *CouponService) Issue(ip string) (*models.Coupon, error) {
	isMaster := ip == s.masterIP

	if !isMaster {
		allowed, err := s.IsIPAllowed(ip)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrAlreadyIssued
		}

		ok, err := s.CanGenerate()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrQuotaExceeded
		}
	}

	coupon := &models.Coupon{
		ID:                uuid.New().String()[:couponIDLength],
		Valid:             true,
		ExpiryDate:        time.Now().Add(couponLifetime),
		Discount:          couponDiscount,
		Used:              false,
		GeneratingIP:      ip,
		GeneratedByMaster: isMaster,
	}

	if err := s.db.Create(coupon).Error; err != nil {
		return nil, err
	}

	if !isMaster {
		if err := s.IncrementCount(); err != nil {
			return nil, err
		}
	}

	return coupon, nil
}

// Redeem flips a coupon's used flag exactly once. The flip is a conditional
// update keyed on used = false, so two concurrent redemptions of the same
// identifier produce one winner and one ErrAlreadyUsed.
func (s *CouponService) Redeem(id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.Where("id = ?", id).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if coupon.Used {
		return nil, ErrAlreadyUsed
	}
	if time.Now().After(coupon.ExpiryDate) {
		return nil, ErrExpired
	}

	result := s.db.Model(&models.Coupon{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyUsed
	}

	coupon.Used = true
	return &coupon, nil
}

// ResetLimit sets a new quota limit and zeroes the issued counter.
func (s *CouponService) ResetLimit(newLimit int) error {
	return s.db.Model(&models.QuotaConfig{}).
		Where("id = ?", models.QuotaConfigID).
		Updates(map[string]interface{}{
			"limit":         newLimit,
			"current_count": 0,
		}).Error
}

type Stats struct {
	TotalCoupons     int64 `json:"total_coupons_generated"`
	MasterGenerated  int64 `json:"master_generated_coupons"`
	UserGenerated    int64 `json:"user_generated_coupons"`
	UsedCoupons      int64 `json:"used_coupons"`
	UniqueUsers      int64 `json:"unique_users"`
	CurrentLimit     int   `json:"current_limit"`
	RemainingCoupons int   `json:"remaining_coupons"`
}

func (s *CouponService) Stats() (*Stats, error) {
	quota, err := s.Quota()
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		CurrentLimit:     quota.Limit,
		RemainingCoupons: quota.Limit - quota.CurrentCount,
	}

	if err := s.db.Model(&models.Coupon{}).Count(&stats.TotalCoupons).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Coupon{}).Where("generated_by_master = ?", true).Count(&stats.MasterGenerated).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Coupon{}).Where("used = ?", true).Count(&stats.UsedCoupons).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Coupon{}).Distinct("generating_ip").Count(&stats.UniqueUsers).Error; err != nil {
		return nil, err
	}
	stats.UserGenerated = stats.TotalCoupons - stats.MasterGenerated

	return stats, nil
}

// ListCoupons returns a page of coupons, newest first.
func (s *CouponService) ListCoupons(page, limit int) ([]models.Coupon, int64, error) {
	var totalCount int64
	if err := s.db.Model(&models.Coupon{}).Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var coupons []models.Coupon
	offset := (page - 1) * limit
	err := s.db.Model(&models.Coupon{}).
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&coupons).Error
	if err != nil {
		return nil, 0, err
	}

	return coupons, totalCount, nil
}
