package models

import "time"

// Tag 商品标签
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`                   // 主键
	Name      string    `gorm:"type:varchar(100);not null" json:"name"` // 名称
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`       // 唯一标识
	CreatedAt time.Time `json:"created_at"`                             // 创建时间
}

// TableName 指定表名
func (Tag) TableName() string {
	return "tags"
}

// Review 商品评论
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`                            // 主键
	ProductID  uint      `gorm:"not null;index" json:"product_id"`                // 商品ID
	UserID     *uint     `gorm:"index" json:"user_id"`                            // 用户ID
	Rating     int       `gorm:"not null" json:"rating"`                          // 评分（1-5）
	Title      string    `gorm:"type:varchar(255)" json:"title"`                  // 标题
	Content    string    `gorm:"type:text" json:"content"`                        // 内容
	IsApproved bool      `gorm:"not null;default:false;index" json:"is_approved"` // 是否审核通过
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                         // 创建时间
	UpdatedAt  time.Time `json:"updated_at"`                                      // 更新时间
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
