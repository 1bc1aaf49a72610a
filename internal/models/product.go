package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                        // 主键
	SKU               string         `gorm:"column:sku;type:varchar(64);uniqueIndex;not null" json:"sku"` // 商品编码
	Name              string         `gorm:"type:varchar(255);not null" json:"name"`                      // 名称
	Slug              string         `gorm:"uniqueIndex;not null" json:"slug"`                            // 唯一标识
	Description       string         `gorm:"type:text" json:"description"`                                // 描述
	ShortDescription  string         `gorm:"type:varchar(500)" json:"short_description"`                  // 简述
	Price             Money          `gorm:"type:decimal(20,2);not null;index" json:"price"`              // 售价
	CompareAtPrice    *Money         `gorm:"type:decimal(20,2)" json:"compare_at_price"`                  // 划线价
	CostPrice         *Money         `gorm:"type:decimal(20,2)" json:"-"`                                 // 成本价（不对外）
	Stock             int            `gorm:"not null;default:0" json:"stock"`                             // 库存
	LowStockThreshold int            `gorm:"not null;default:5" json:"low_stock_threshold"`               // 低库存阈值
	Weight            *float64       `json:"weight,omitempty"`                                            // 重量
	CategoryID        *uint          `gorm:"index" json:"category_id"`                                    // 分类ID
	BrandID           *uint          `gorm:"index" json:"brand_id"`                                       // 品牌ID
	IsFeatured        bool           `gorm:"not null;default:false;index" json:"is_featured"`             // 是否推荐
	IsNew             bool           `gorm:"not null;default:false" json:"is_new"`                        // 是否新品
	IsOnSale          bool           `gorm:"not null;default:false" json:"is_on_sale"`                    // 是否促销
	IsActive          bool           `gorm:"not null;default:true;index" json:"is_active"`                // 是否上架
	AvgRating         float64        `gorm:"not null;default:0" json:"avg_rating"`                        // 平均评分
	ReviewCount       int            `gorm:"not null;default:0" json:"review_count"`                      // 评论数
	ViewCount         int            `gorm:"not null;default:0" json:"view_count"`                        // 浏览量
	SoldCount         int            `gorm:"not null;default:0" json:"sold_count"`                        // 销量
	MetaTitle         string         `gorm:"type:varchar(255)" json:"meta_title"`                         // SEO 标题
	MetaDescription   string         `gorm:"type:varchar(500)" json:"meta_description"`                   // SEO 描述
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt         time.Time      `json:"updated_at"`                                                  // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                              // 软删除时间

	// 关联
	Category *Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类
	Brand    *Brand           `gorm:"foreignKey:BrandID" json:"brand,omitempty"`       // 品牌
	Images   []ProductImage   `gorm:"foreignKey:ProductID" json:"images,omitempty"`    // 图片
	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`  // 规格
	Tags     []Tag            `gorm:"many2many:product_tags" json:"tags,omitempty"`    // 标签
	Reviews  []Review         `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`   // 评论
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PrimaryImage 返回主图，没有主图时返回 nil
func (p *Product) PrimaryImage() *ProductImage {
	if p == nil {
		return nil
	}
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	return nil
}

// ProductImage 商品图片表
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`                             // 主键
	ProductID uint      `gorm:"not null;index" json:"product_id"`                 // 商品ID
	URL       string    `gorm:"column:url;type:varchar(500);not null" json:"url"` // 图片地址
	Alt       string    `gorm:"type:varchar(255)" json:"alt"`                     // 替代文本
	IsPrimary bool      `gorm:"not null;default:false;index" json:"is_primary"`   // 是否主图
	SortOrder int       `gorm:"default:0" json:"sort_order"`                      // 排序权重（升序）
	CreatedAt time.Time `json:"created_at"`                                       // 创建时间
}

// TableName 指定表名
func (ProductImage) TableName() string {
	return "product_images"
}
