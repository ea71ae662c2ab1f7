package service

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/swaadstation/coupon-service/config"
	"github.com/swaadstation/coupon-service/internal/models"
)

const testMasterIP = "192.168.137.1"

func setupTestService(t *testing.T, limit int) (*CouponService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := config.Migrate(db, limit); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return NewCouponService(db, testMasterIP), db
}

func TestCanGenerateBoundary(t *testing.T) {
	svc, db := setupTestService(t, 2)

	tests := []struct {
		name     string
		count    int
		expected bool
	}{
		{"empty quota", 0, true},
		{"one below limit", 1, true},
		{"at limit", 2, false},
		{"over limit", 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db.Model(&models.QuotaConfig{}).
				Where("id = ?", models.QuotaConfigID).
				Update("current_count", tt.count)

			ok, err := svc.CanGenerate()
			if err != nil {
				t.Fatalf("CanGenerate: %v", err)
			}
			if ok != tt.expected {
				t.Errorf("count %d: expected %v, got %v", tt.count, tt.expected, ok)
			}
		})
	}
}

func TestIncrementCount(t *testing.T) {
	svc, db := setupTestService(t, 10)

	for i := 0; i < 3; i++ {
		if err := svc.IncrementCount(); err != nil {
			t.Fatalf("IncrementCount: %v", err)
		}
	}

	var quota models.QuotaConfig
	db.Where("id = ?", models.QuotaConfigID).First(&quota)
	if quota.CurrentCount != 3 {
		t.Errorf("Expected count 3, got %d", quota.CurrentCount)
	}
}

func TestIsIPAllowed(t *testing.T) {
	svc, db := setupTestService(t, 10)

	ok, err := svc.IsIPAllowed("10.0.0.1")
	if err != nil || !ok {
		t.Errorf("Fresh IP should be allowed, got %v/%v", ok, err)
	}

	coupon := models.Coupon{
		ID:           "abc12345",
		Valid:        true,
		ExpiryDate:   time.Now().Add(24 * time.Hour),
		Discount:     "10%",
		GeneratingIP: "10.0.0.1",
	}
	if err := db.Create(&coupon).Error; err != nil {
		t.Fatalf("Failed to seed coupon: %v", err)
	}

	ok, err = svc.IsIPAllowed("10.0.0.1")
	if err != nil {
		t.Fatalf("IsIPAllowed: %v", err)
	}
	if ok {
		t.Error("IP with an issued coupon must be refused")
	}

	// Master is always allowed, issued coupons or not.
	db.Create(&models.Coupon{
		ID:                "def12345",
		Valid:             true,
		ExpiryDate:        time.Now().Add(24 * time.Hour),
		Discount:          "10%",
		GeneratingIP:      testMasterIP,
		GeneratedByMaster: true,
	})
	ok, err = svc.IsIPAllowed(testMasterIP)
	if err != nil || !ok {
		t.Errorf("Master IP must always be allowed, got %v/%v", ok, err)
	}
}

func TestIssue(t *testing.T) {
	svc, db := setupTestService(t, 2)

	coupon, err := svc.Issue("10.0.0.1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(coupon.ID) != 8 {
		t.Errorf("Expected 8-char ID, got %q", coupon.ID)
	}
	if coupon.Used || !coupon.Valid {
		t.Errorf("Fresh coupon flags wrong: used=%v valid=%v", coupon.Used, coupon.Valid)
	}
	if until := time.Until(coupon.ExpiryDate); until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("Expiry not ~1 day out: %v", coupon.ExpiryDate)
	}

	// Same IP refused.
	if _, err := svc.Issue("10.0.0.1"); !errors.Is(err, ErrAlreadyIssued) {
		t.Errorf("Expected ErrAlreadyIssued, got %v", err)
	}

	// Second distinct IP fills the quota, third is refused.
	if _, err := svc.Issue("10.0.0.2"); err != nil {
		t.Fatalf("Second issuance: %v", err)
	}
	if _, err := svc.Issue("10.0.0.3"); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("Expected ErrQuotaExceeded, got %v", err)
	}

	var quota models.QuotaConfig
	db.Where("id = ?", models.QuotaConfigID).First(&quota)
	if quota.CurrentCount != 2 {
		t.Errorf("Expected count 2, got %d", quota.CurrentCount)
	}
}

func TestIssueMaster(t *testing.T) {
	svc, db := setupTestService(t, 0)

	coupon, err := svc.Issue(testMasterIP)
	if err != nil {
		t.Fatalf("Master issuance must succeed with zero quota: %v", err)
	}
	if !coupon.GeneratedByMaster {
		t.Error("Master coupon not flagged")
	}

	var quota models.QuotaConfig
	db.Where("id = ?", models.QuotaConfigID).First(&quota)
	if quota.CurrentCount != 0 {
		t.Errorf("Master issuance incremented count to %d", quota.CurrentCount)
	}
}

func TestRedeemOnce(t *testing.T) {
	svc, _ := setupTestService(t, 10)

	issued, err := svc.Issue("10.0.0.1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	redeemed, err := svc.Redeem(issued.ID)
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if !redeemed.Used {
		t.Error("Redeemed coupon not marked used")
	}
	if redeemed.Discount != "10%" {
		t.Errorf("Expected discount 10%%, got %q", redeemed.Discount)
	}

	if _, err := svc.Redeem(issued.ID); !errors.Is(err, ErrAlreadyUsed) {
		t.Errorf("Expected ErrAlreadyUsed, got %v", err)
	}
}

func TestRedeemErrors(t *testing.T) {
	svc, db := setupTestService(t, 10)

	if _, err := svc.Redeem("zzz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	db.Create(&models.Coupon{
		ID:           "old12345",
		Valid:        true,
		ExpiryDate:   time.Now().Add(-time.Minute),
		Discount:     "10%",
		GeneratingIP: "10.0.0.1",
	})
	if _, err := svc.Redeem("old12345"); !errors.Is(err, ErrExpired) {
		t.Errorf("Expected ErrExpired, got %v", err)
	}
}

func TestStats(t *testing.T) {
	svc, db := setupTestService(t, 5)

	if _, err := svc.Issue("10.0.0.1"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	issued, err := svc.Issue("10.0.0.2")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Issue(testMasterIP); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Redeem(issued.ID); err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}

	if stats.TotalCoupons != 3 {
		t.Errorf("TotalCoupons: expected 3, got %d", stats.TotalCoupons)
	}
	if stats.MasterGenerated != 1 {
		t.Errorf("MasterGenerated: expected 1, got %d", stats.MasterGenerated)
	}
	if stats.UserGenerated != 2 {
		t.Errorf("UserGenerated: expected 2, got %d", stats.UserGenerated)
	}
	if stats.UsedCoupons != 1 {
		t.Errorf("UsedCoupons: expected 1, got %d", stats.UsedCoupons)
	}
	if stats.UniqueUsers != 3 {
		t.Errorf("UniqueUsers: expected 3, got %d", stats.UniqueUsers)
	}
	if stats.CurrentLimit != 5 || stats.RemainingCoupons != 3 {
		t.Errorf("Quota: expected 5/3, got %d/%d", stats.CurrentLimit, stats.RemainingCoupons)
	}

	var seen []models.QuotaConfig
	db.Find(&seen)
	if len(seen) != 1 {
		t.Errorf("Quota config must stay a singleton, found %d rows", len(seen))
	}
}

func TestResetLimit(t *testing.T) {
	svc, db := setupTestService(t, 5)

	if _, err := svc.Issue("10.0.0.1"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := svc.ResetLimit(500); err != nil {
		t.Fatalf("ResetLimit: %v", err)
	}

	var quota models.QuotaConfig
	db.Where("id = ?", models.QuotaConfigID).First(&quota)
	if quota.Limit != 500 || quota.CurrentCount != 0 {
		t.Errorf("Expected 500/0, got %d/%d", quota.Limit, quota.CurrentCount)
	}
}
