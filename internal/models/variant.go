package models

import (
	"time"

	"gorm.io/gorm"
)

// Attribute 规格属性（尺码/颜色/容量）
type Attribute struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                   // 主键
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`                 // 名称
	Slug         string    `gorm:"uniqueIndex;not null" json:"slug"`                       // 唯一标识
	Type         string    `gorm:"type:varchar(20);not null;default:'select'" json:"type"` // 类型（select/color/size）
	IsFilterable bool      `gorm:"not null;default:false" json:"is_filterable"`            // 是否可筛选
	CreatedAt    time.Time `json:"created_at"`                                             // 创建时间

	Values []AttributeValue `gorm:"foreignKey:AttributeID" json:"values,omitempty"` // 属性值
}

// TableName 指定表名
func (Attribute) TableName() string {
	return "attributes"
}

// AttributeValue 规格属性值
type AttributeValue struct {
	ID          uint   `gorm:"primarykey" json:"id"`                       // 主键
	AttributeID uint   `gorm:"not null;index" json:"attribute_id"`         // 属性ID
	Value       string `gorm:"type:varchar(100);not null" json:"value"`    // 显示值
	Slug        string `gorm:"type:varchar(100);not null" json:"slug"`     // 标识
	ColorHex    string `gorm:"type:varchar(7)" json:"color_hex,omitempty"` // 颜色值
	SortOrder   int    `gorm:"default:0" json:"sort_order"`                // 排序权重

	Attribute *Attribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"` // 所属属性
}

// TableName 指定表名
func (AttributeValue) TableName() string {
	return "attribute_values"
}

// ProductVariant 商品规格（SKU 维度价格与库存）
type ProductVariant struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                        // 主键
	ProductID uint           `gorm:"not null;index" json:"product_id"`                            // 商品ID
	SKU       string         `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"` // 规格编码
	Name      string         `gorm:"type:varchar(255)" json:"name"`                               // 规格名称
	Price     *Money         `gorm:"type:decimal(20,2)" json:"price"`                             // 规格价（为空时沿用商品价）
	Stock     int            `gorm:"not null;default:0" json:"stock"`                             // 规格库存
	IsActive  bool           `gorm:"not null;default:true;index" json:"is_active"`                // 是否启用
	CreatedAt time.Time      `json:"created_at"`                                                  // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	Values []AttributeValue `gorm:"many2many:variant_attributes" json:"values,omitempty"` // 规格属性值
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// EffectivePrice 规格价为空时回退到商品价
func (v *ProductVariant) EffectivePrice(productPrice Money) Money {
	if v == nil || v.Price == nil {
		return productPrice
	}
	return *v.Price
}
