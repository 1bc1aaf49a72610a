package service

import (
	"strings"
	"time"

	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/repository"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
	now        func() time.Time
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// NormalizeCouponCode 去除首尾空白并统一为大写
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Resolve 按优惠码查找并校验优惠券
func (s *CouponService) Resolve(code string, subtotal decimal.Decimal) (*models.Coupon, error) {
	normalized := NormalizeCouponCode(code)
	if normalized == "" {
		return nil, ErrInvalidCoupon
	}
	coupon, err := s.couponRepo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if err := ValidateCoupon(coupon, subtotal, s.now()); err != nil {
		return nil, err
	}
	return coupon, nil
}

// ValidateCoupon 依次校验优惠券状态、生效时间、过期、次数与最低金额，首个失败即返回
func ValidateCoupon(coupon *models.Coupon, subtotal decimal.Decimal, now time.Time) error {
	if coupon == nil || !coupon.IsActive {
		return ErrInvalidCoupon
	}
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return ErrInvalidCoupon
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now) {
		return ErrCouponExpired
	}
	// 使用上限不大于 0 视为不限次数
	if coupon.UsageLimit != nil && *coupon.UsageLimit > 0 && coupon.UsageCount >= *coupon.UsageLimit {
		return ErrCouponLimitReached
	}
	if coupon.MinOrderAmount != nil && subtotal.LessThan(coupon.MinOrderAmount.Decimal) {
		return ErrMinimumOrderNotMet
	}
	return nil
}

// CouponDiscount 计算优惠金额，结果不与小计比较截断
func CouponDiscount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	switch coupon.Type {
	case constants.CouponTypePercentage:
		discount := subtotal.Mul(coupon.Value.Decimal).Div(hundred)
		if coupon.MaxDiscount != nil && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
		return discount.Round(2)
	case constants.CouponTypeFixed:
		return coupon.Value.Decimal.Round(2)
	default:
		return decimal.Zero
	}
}

// IsFreeShippingCoupon 判断是否为包邮券
func IsFreeShippingCoupon(coupon *models.Coupon) bool {
	return coupon != nil && coupon.Type == constants.CouponTypeFreeShipping
}
