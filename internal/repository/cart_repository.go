package repository

import (
	"errors"
	"time"

	"github.com/techstore-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetBySession(sessionID string) (*models.Cart, error)
	CreateOrGet(cart *models.Cart) (*models.Cart, error)
	LoadDetail(cartID uint) (*models.Cart, error)
	Touch(cartID uint) error
	SetCoupon(cartID uint, couponID *uint) error
	GetItem(cartID, itemID uint) (*models.CartItem, error)
	UpsertItem(item *models.CartItem) error
	UpdateItemQuantity(cartID, itemID uint, quantity int) (int64, error)
	DeleteItem(cartID, itemID uint) error
	ClearItems(cartID uint) error
	SumQuantity(cartID uint) (int64, error)
	Delete(cartID uint) error
	DeleteStaleAnonymous(filter StaleCartFilter) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormCartRepository) first(query string, args ...interface{}) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where(query, args...).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByUser 获取用户购物车
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	return r.first("user_id = ?", userID)
}

// GetBySession 获取匿名会话购物车
func (r *GormCartRepository) GetBySession(sessionID string) (*models.Cart, error) {
	return r.first("session_id = ?", sessionID)
}

// CreateOrGet 创建购物车，归属键冲突时返回已存在的记录
func (r *GormCartRepository) CreateOrGet(cart *models.Cart) (*models.Cart, error) {
	if cart == nil {
		return nil, nil
	}
	ownerColumn := "session_id"
	if cart.UserID != nil {
		ownerColumn = "user_id"
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: ownerColumn}},
		DoNothing: true,
	}).Create(cart).Error
	if err != nil {
		return nil, err
	}
	if cart.UserID != nil {
		return r.GetByUser(*cart.UserID)
	}
	if cart.SessionID != nil {
		return r.GetBySession(*cart.SessionID)
	}
	return cart, nil
}

// LoadDetail 加载购物车明细（商品、主图、规格与优惠券）
func (r *GormCartRepository) LoadDetail(cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.
		Preload("Coupon").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_primary = ?", true).Order("sort_order ASC, id ASC")
		}).
		Preload("Items.Variant").
		First(&cart, cartID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Touch 刷新购物车更新时间
func (r *GormCartRepository) Touch(cartID uint) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).UpdateColumn("updated_at", time.Now()).Error
}

// SetCoupon 设置或清除已应用优惠券
func (r *GormCartRepository) SetCoupon(cartID uint, couponID *uint) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"coupon_id":  couponID,
		"updated_at": time.Now(),
	}).Error
}

// GetItem 获取购物车内的指定项
func (r *GormCartRepository) GetItem(cartID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// UpsertItem 按 (cart_id, product_id, variant_id) 原子合并数量，已存在项保留原价格快照
func (r *GormCartRepository) UpsertItem(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(item).Error
}

// UpdateItemQuantity 替换购物车项数量，返回影响行数
func (r *GormCartRepository) UpdateItemQuantity(cartID, itemID uint, quantity int) (int64, error) {
	result := r.db.Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(cartID, itemID uint) error {
	return r.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{}).Error
}

// ClearItems 清空购物车项
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// SumQuantity 购物车商品总件数
func (r *GormCartRepository) SumQuantity(cartID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Delete 删除购物车及其明细
func (r *GormCartRepository) Delete(cartID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, cartID).Error
	})
}

// DeleteStaleAnonymous 清理长期未更新的匿名购物车，返回删除的购物车数量
func (r *GormCartRepository) DeleteStaleAnonymous(filter StaleCartFilter) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		query := tx.Model(&models.Cart{}).
			Where("user_id IS NULL AND updated_at < ?", filter.UpdatedBefore).
			Order("id ASC")
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		if err := query.Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.Cart{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}
