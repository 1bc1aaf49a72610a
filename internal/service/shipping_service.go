package service

import (
	"context"
	"time"

	"github.com/techstore-next/internal/cache"
	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ShippingService 配送方式服务
type ShippingService struct {
	repo     repository.ShippingMethodRepository
	cacheTTL time.Duration
}

// NewShippingService 创建配送方式服务
func NewShippingService(repo repository.ShippingMethodRepository, cacheTTL time.Duration) *ShippingService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &ShippingService{repo: repo, cacheTTL: cacheTTL}
}

// ListActive 启用的配送方式（按排序权重）
func (s *ShippingService) ListActive(ctx context.Context) ([]models.ShippingMethod, error) {
	var cached []models.ShippingMethod
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyShippingList, &cached); err == nil && hit {
		return cached, nil
	}
	methods, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyShippingList, methods, s.cacheTTL); err != nil {
		logger.Warnw("shipping_cache_write_failed", "error", err)
	}
	return methods, nil
}

// GetByID 获取启用的配送方式
func (s *ShippingService) GetByID(id uint) (*models.ShippingMethod, error) {
	method, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, ErrShippingMethodNotFound
	}
	return method, nil
}

// Quote 计算指定配送方式的运费：达到包邮门槛或使用免运费券时为 0
func Quote(method *models.ShippingMethod, subtotal decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	if method == nil {
		return decimal.Zero
	}
	if IsFreeShippingCoupon(coupon) {
		return decimal.Zero
	}
	if method.FreeAbove != nil && subtotal.GreaterThanOrEqual(method.FreeAbove.Decimal) {
		return decimal.Zero
	}
	return method.Price.Decimal
}
