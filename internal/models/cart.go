package models

import "time"

// NoVariant 购物车项未选择规格时的占位值，参与唯一索引
const NoVariant uint = 0

// Cart 购物车（归属用户或匿名会话，二者其一）
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                  // 主键
	UserID    *uint     `gorm:"uniqueIndex" json:"user_id"`            // 用户ID
	SessionID *string   `gorm:"type:varchar(64);uniqueIndex" json:"-"` // 匿名会话标识
	CouponID  *uint     `gorm:"index" json:"coupon_id"`                // 已应用优惠券
	Notes     string    `gorm:"type:text" json:"notes"`                // 备注
	CreatedAt time.Time `json:"created_at"`                            // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`               // 更新时间

	Coupon *Coupon    `gorm:"foreignKey:CouponID" json:"coupon,omitempty"` // 优惠券
	Items  []CartItem `gorm:"foreignKey:CartID" json:"items"`              // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                      // 主键
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"cart_id"`              // 购物车ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_product_variant" json:"product_id"`           // 商品ID
	VariantID uint      `gorm:"not null;default:0;uniqueIndex:idx_cart_product_variant" json:"variant_id"` // 规格ID（0 表示无规格）
	Quantity  int       `gorm:"not null" json:"quantity"`                                                  // 数量
	Price     Money     `gorm:"type:decimal(20,2);not null" json:"price"`                                  // 加入时单价快照
	Options   JSON      `gorm:"type:json" json:"options,omitempty"`                                        // 自定义选项
	CreatedAt time.Time `json:"created_at"`                                                                // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                // 更新时间

	Product *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
