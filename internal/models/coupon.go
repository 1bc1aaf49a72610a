package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
type Coupon struct {
	ID             uint           `gorm:"primarykey" json:"id"`                               // 主键
	Code           string         `gorm:"uniqueIndex;not null" json:"code"`                   // 优惠码（统一大写）
	Description    string         `gorm:"type:varchar(500)" json:"description"`               // 描述
	Type           string         `gorm:"type:varchar(20);not null" json:"type"`              // 类型（percentage/fixed/free_shipping）
	Value          Money          `gorm:"type:decimal(20,2);not null;default:0" json:"value"` // 数值（百分比或固定金额）
	MinOrderAmount *Money         `gorm:"type:decimal(20,2)" json:"min_order_amount"`         // 最低订单金额
	MaxDiscount    *Money         `gorm:"type:decimal(20,2)" json:"max_discount"`             // 最大优惠金额（仅百分比类型）
	UsageLimit     *int           `json:"usage_limit"`                                        // 总使用上限（为空表示不限制）
	UsageCount     int            `gorm:"not null;default:0" json:"usage_count"`              // 已使用次数
	UserLimit      *int           `json:"user_limit"`                                         // 每人使用上限
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`             // 是否启用
	StartsAt       *time.Time     `gorm:"index" json:"starts_at"`                             // 生效时间
	ExpiresAt      *time.Time     `gorm:"index" json:"expires_at"`                            // 失效时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
