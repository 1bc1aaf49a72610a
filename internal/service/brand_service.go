package service

import (
	"context"
	"strings"
	"time"

	"github.com/techstore-next/internal/cache"
	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/repository"
)

// BrandWithCount 品牌及其上架商品数
type BrandWithCount struct {
	models.Brand
	ProductCount int64 `json:"product_count"`
}

// BrandService 品牌服务
type BrandService struct {
	repo        repository.BrandRepository
	productRepo repository.ProductRepository
	cacheTTL    time.Duration
}

// NewBrandService 创建品牌服务
func NewBrandService(repo repository.BrandRepository, productRepo repository.ProductRepository, cfg config.CatalogConfig) *BrandService {
	return &BrandService{
		repo:        repo,
		productRepo: productRepo,
		cacheTTL:    navCacheTTL(cfg),
	}
}

// ListActive 启用品牌列表（带缓存）
func (s *BrandService) ListActive(ctx context.Context) ([]models.Brand, error) {
	var cached []models.Brand
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyBrandList, &cached); err == nil && hit {
		return cached, nil
	}
	brands, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyBrandList, brands, s.cacheTTL); err != nil {
		logger.Warnw("brand_cache_write_failed", "error", err)
	}
	return brands, nil
}

// GetBySlug 根据 slug 获取品牌
func (s *BrandService) GetBySlug(slug string) (*models.Brand, error) {
	brand, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}
	return brand, nil
}

// ListWithProductCount 启用品牌及各自上架商品数
func (s *BrandService) ListWithProductCount(ctx context.Context) ([]BrandWithCount, error) {
	brands, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.productRepo.CountActiveByBrand()
	if err != nil {
		return nil, err
	}
	result := make([]BrandWithCount, 0, len(brands))
	for _, brand := range brands {
		result = append(result, BrandWithCount{Brand: brand, ProductCount: counts[brand.ID]})
	}
	return result, nil
}
