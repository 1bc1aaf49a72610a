package repository

import (
	"errors"

	"github.com/techstore-next/internal/models"

	"gorm.io/gorm"
)

// ShippingMethodRepository 配送方式数据访问接口
type ShippingMethodRepository interface {
	ListActive() ([]models.ShippingMethod, error)
	GetByID(id uint) (*models.ShippingMethod, error)
	Create(method *models.ShippingMethod) error
}

// GormShippingMethodRepository GORM 实现
type GormShippingMethodRepository struct {
	db *gorm.DB
}

// NewShippingMethodRepository 创建配送方式仓库
func NewShippingMethodRepository(db *gorm.DB) *GormShippingMethodRepository {
	return &GormShippingMethodRepository{db: db}
}

// ListActive 启用的配送方式
func (r *GormShippingMethodRepository) ListActive() ([]models.ShippingMethod, error) {
	var methods []models.ShippingMethod
	if err := r.db.Where("is_active = ?", true).Order("sort_order ASC, id ASC").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

// GetByID 获取启用的配送方式
func (r *GormShippingMethodRepository) GetByID(id uint) (*models.ShippingMethod, error) {
	var method models.ShippingMethod
	if err := r.db.Where("id = ? AND is_active = ?", id, true).First(&method).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// Create 创建配送方式
func (r *GormShippingMethodRepository) Create(method *models.ShippingMethod) error {
	return r.db.Create(method).Error
}
