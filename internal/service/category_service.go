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

// CategoryWithCount 分类及其上架商品数
type CategoryWithCount struct {
	models.Category
	ProductCount int64 `json:"product_count"`
}

// CategoryService 分类业务服务
type CategoryService struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
	cacheTTL    time.Duration
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository, productRepo repository.ProductRepository, cfg config.CatalogConfig) *CategoryService {
	return &CategoryService{
		repo:        repo,
		productRepo: productRepo,
		cacheTTL:    navCacheTTL(cfg),
	}
}

func navCacheTTL(cfg config.CatalogConfig) time.Duration {
	if cfg.NavCacheTTLSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(cfg.NavCacheTTLSeconds) * time.Second
}

// ListActive 启用分类列表（带缓存）
func (s *CategoryService) ListActive(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyCategoryList, &cached); err == nil && hit {
		return cached, nil
	}
	categories, err := s.repo.ListActive()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyCategoryList, categories, s.cacheTTL); err != nil {
		logger.Warnw("category_cache_write_failed", "key", constants.CacheKeyCategoryList, "error", err)
	}
	return categories, nil
}

// Tree 顶级分类及子分类（带缓存）
func (s *CategoryService) Tree(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if hit, err := cache.GetJSON(ctx, constants.CacheKeyCategoryTree, &cached); err == nil && hit {
		return cached, nil
	}
	parents, err := s.repo.ListParents()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, constants.CacheKeyCategoryTree, parents, s.cacheTTL); err != nil {
		logger.Warnw("category_cache_write_failed", "key", constants.CacheKeyCategoryTree, "error", err)
	}
	return parents, nil
}

// GetBySlug 根据 slug 获取分类
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// ListWithProductCount 启用分类及各自上架商品数
func (s *CategoryService) ListWithProductCount(ctx context.Context) ([]CategoryWithCount, error) {
	categories, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.productRepo.CountActiveByCategory()
	if err != nil {
		return nil, err
	}
	result := make([]CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		result = append(result, CategoryWithCount{Category: category, ProductCount: counts[category.ID]})
	}
	return result, nil
}

// InvalidateCache 清除分类导航缓存
func (s *CategoryService) InvalidateCache(ctx context.Context) error {
	return cache.Del(ctx, constants.CacheKeyCategoryList, constants.CacheKeyCategoryTree)
}
