package models

import "time"

// ShippingMethod 配送方式
type ShippingMethod struct {
	ID            uint      `gorm:"primarykey" json:"id"`                     // 主键
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`   // 名称
	Description   string    `gorm:"type:varchar(500)" json:"description"`     // 描述
	Price         Money     `gorm:"type:decimal(20,2);not null" json:"price"` // 运费
	FreeAbove     *Money    `gorm:"type:decimal(20,2)" json:"free_above"`     // 满额包邮门槛
	EstimatedDays string    `gorm:"type:varchar(20)" json:"estimated_days"`   // 预计送达天数
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`   // 是否启用
	SortOrder     int       `gorm:"default:0" json:"sort_order"`              // 排序权重（升序）
	CreatedAt     time.Time `json:"created_at"`                               // 创建时间
}

// TableName 指定表名
func (ShippingMethod) TableName() string {
	return "shipping_methods"
}
