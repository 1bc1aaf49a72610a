package models

import (
	"time"

	"gorm.io/gorm"
)

// Category 分类表
type Category struct {
	ID          uint           `gorm:"primarykey" json:"id"`                         // 主键
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`       // 名称
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`             // 唯一标识
	Description string         `gorm:"type:text" json:"description"`                 // 描述
	Image       string         `gorm:"type:varchar(500)" json:"image"`               // 分类图片
	ParentID    *uint          `gorm:"index" json:"parent_id"`                       // 父分类ID（顶级分类为空）
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`            // 排序权重（升序）
	IsActive    bool           `gorm:"not null;default:true;index" json:"is_active"` // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间

	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"` // 子分类
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}

// Brand 品牌表
type Brand struct {
	ID          uint           `gorm:"primarykey" json:"id"`                         // 主键
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`       // 名称
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`             // 唯一标识
	Description string         `gorm:"type:text" json:"description"`                 // 描述
	Logo        string         `gorm:"type:varchar(500)" json:"logo"`                // 品牌 Logo
	Website     string         `gorm:"type:varchar(500)" json:"website"`             // 官网地址
	IsActive    bool           `gorm:"not null;default:true;index" json:"is_active"` // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                      // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间
}

// TableName 指定表名
func (Brand) TableName() string {
	return "brands"
}
