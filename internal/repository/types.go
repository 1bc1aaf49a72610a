package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductQuery 商品列表查询条件（所有条件可选，按 AND 组合）
type ProductQuery struct {
	Page      int
	PerPage   int
	Sort      string
	Category  *uint            // 已解析的分类ID
	Brand     *uint            // 已解析的品牌ID
	TagSlug   string           // 标签标识
	MinPrice  *decimal.Decimal // 最低价（含）
	MaxPrice  *decimal.Decimal // 最高价（含）
	InStock   bool
	Featured  bool
	OnSale    bool
	IsNew     bool
	MinRating *float64 // 最低评分（含）
	Search    string
}

// CouponListFilter 优惠券列表筛选
type CouponListFilter struct {
	Code     string
	Type     string
	IsActive *bool
	Page     int
	PageSize int
}

// StaleCartFilter 过期匿名购物车清理条件
type StaleCartFilter struct {
	UpdatedBefore time.Time
	Limit         int
}
