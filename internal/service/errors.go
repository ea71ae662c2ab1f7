package service

import "errors"

// Error kinds surfaced by CouponService. Handlers translate these to HTTP
// responses; anything else is treated as an internal fault.
var (
	ErrAlreadyIssued = errors.New("coupon already issued to this caller")
	ErrQuotaExceeded = errors.New("coupon limit reached")
	ErrNotFound      = errors.New("coupon not found")
	ErrAlreadyUsed   = errors.New("coupon already used")
	ErrExpired       = errors.New("coupon expired")
)
