package service

import (
	"time"

	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponAdminService 优惠券管理服务
type CouponAdminService struct {
	repo repository.CouponRepository
}

// NewCouponAdminService 创建优惠券管理服务
func NewCouponAdminService(repo repository.CouponRepository) *CouponAdminService {
	return &CouponAdminService{repo: repo}
}

// CouponInput 创建/更新优惠券输入
type CouponInput struct {
	Code           string
	Description    string
	Type           string
	Value          models.Money
	MinOrderAmount *models.Money
	MaxDiscount    *models.Money
	UsageLimit     *int
	UserLimit      *int
	StartsAt       *time.Time
	ExpiresAt      *time.Time
	IsActive       *bool
}

// List 优惠券列表
func (s *CouponAdminService) List(filter repository.CouponListFilter) ([]models.Coupon, int64, error) {
	return s.repo.List(filter)
}

// Create 创建优惠券
func (s *CouponAdminService) Create(input CouponInput) (*models.Coupon, error) {
	code, err := s.validateInput(input, nil)
	if err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	coupon := &models.Coupon{
		Code:     code,
		IsActive: isActive,
	}
	applyCouponInput(coupon, input)

	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	// is_active 带数据库默认值，零值 false 不会随 INSERT 写入
	if !isActive {
		coupon.IsActive = false
		if err := s.repo.Update(coupon); err != nil {
			return nil, err
		}
	}
	return coupon, nil
}

// Update 更新优惠券（使用次数不受影响）
func (s *CouponAdminService) Update(id uint, input CouponInput) (*models.Coupon, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCouponNotFound
	}
	code, err := s.validateInput(input, &existing.ID)
	if err != nil {
		return nil, err
	}

	existing.Code = code
	if input.IsActive != nil {
		existing.IsActive = *input.IsActive
	}
	applyCouponInput(existing, input)

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *CouponAdminService) validateInput(input CouponInput, excludeID *uint) (string, error) {
	code := NormalizeCouponCode(input.Code)
	if code == "" {
		return "", ErrInvalidCoupon
	}
	switch input.Type {
	case constants.CouponTypePercentage:
		if input.Value.LessThanOrEqual(decimal.Zero) || input.Value.GreaterThan(hundred) {
			return "", ErrCouponValueInvalid
		}
	case constants.CouponTypeFixed:
		if input.Value.LessThanOrEqual(decimal.Zero) {
			return "", ErrCouponValueInvalid
		}
	case constants.CouponTypeFreeShipping:
	default:
		return "", ErrCouponTypeInvalid
	}
	if input.StartsAt != nil && input.ExpiresAt != nil && input.ExpiresAt.Before(*input.StartsAt) {
		return "", ErrCouponValueInvalid
	}
	if !positiveLimit(input.UsageLimit) || !positiveLimit(input.UserLimit) {
		return "", ErrCouponValueInvalid
	}
	if negativeAmount(input.MinOrderAmount) || negativeAmount(input.MaxDiscount) {
		return "", ErrCouponValueInvalid
	}

	count, err := s.repo.CountByCode(code, excludeID)
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", ErrCouponCodeExists
	}
	return code, nil
}

// positiveLimit 未设置表示不限，设置时必须大于 0
func positiveLimit(limit *int) bool {
	return limit == nil || *limit > 0
}

func negativeAmount(amount *models.Money) bool {
	return amount != nil && amount.IsNegative()
}

func applyCouponInput(coupon *models.Coupon, input CouponInput) {
	coupon.Description = input.Description
	coupon.Type = input.Type
	coupon.Value = input.Value
	if input.Type == constants.CouponTypeFreeShipping {
		coupon.Value = models.NewMoneyFromDecimal(decimal.Zero)
	}
	coupon.MinOrderAmount = input.MinOrderAmount
	coupon.MaxDiscount = input.MaxDiscount
	coupon.UsageLimit = input.UsageLimit
	coupon.UserLimit = input.UserLimit
	coupon.StartsAt = input.StartsAt
	coupon.ExpiresAt = input.ExpiresAt
}
