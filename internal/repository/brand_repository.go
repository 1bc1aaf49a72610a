package repository

import (
	"errors"

	"github.com/techstore-next/internal/models"

	"gorm.io/gorm"
)

// BrandRepository 品牌数据访问接口
type BrandRepository interface {
	ListActive() ([]models.Brand, error)
	GetBySlug(slug string) (*models.Brand, error)
	Create(brand *models.Brand) error
}

// GormBrandRepository GORM 实现
type GormBrandRepository struct {
	db *gorm.DB
}

// NewBrandRepository 创建品牌仓库
func NewBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// ListActive 启用品牌列表
func (r *GormBrandRepository) ListActive() ([]models.Brand, error) {
	var brands []models.Brand
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

// GetBySlug 根据 slug 获取启用品牌
func (r *GormBrandRepository) GetBySlug(slug string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.Where("slug = ? AND is_active = ?", slug, true).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &brand, nil
}

// Create 创建品牌
func (r *GormBrandRepository) Create(brand *models.Brand) error {
	return r.db.Create(brand).Error
}
