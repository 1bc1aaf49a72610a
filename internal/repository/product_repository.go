package repository

import (
	"errors"
	"strings"

	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	Query(query ProductQuery) ([]models.Product, int64, error)
	ListFeatured(limit int) ([]models.Product, error)
	ListNew(limit int) ([]models.Product, error)
	ListOnSale(limit int) ([]models.Product, error)
	ListRelated(productID uint, categoryID *uint, limit int) ([]models.Product, error)
	Search(term string, limit int) ([]models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetVariant(productID, variantID uint) (*models.ProductVariant, error)
	IncrementViewCount(id uint) error
	CountActiveByCategory() (map[uint]int64, error)
	CountActiveByBrand() (map[uint]int64, error)
	Create(product *models.Product) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// productPredicate 单个筛选条件到存储约束的映射，条件缺省时原样返回
type productPredicate func(db *gorm.DB, tx *gorm.DB, query ProductQuery) *gorm.DB

var productPredicates = []productPredicate{
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if q.Category == nil {
			return tx
		}
		return tx.Where("products.category_id = ?", *q.Category)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if q.Brand == nil {
			return tx
		}
		return tx.Where("products.brand_id = ?", *q.Brand)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		slug := strings.TrimSpace(q.TagSlug)
		if slug == "" {
			return tx
		}
		return tx.Where("EXISTS (SELECT 1 FROM product_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.product_id = products.id AND t.slug = ?)", slug)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if q.MinPrice == nil {
			return tx
		}
		return tx.Where("products.price >= ?", *q.MinPrice)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if q.MaxPrice == nil {
			return tx
		}
		return tx.Where("products.price <= ?", *q.MaxPrice)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if !q.InStock {
			return tx
		}
		return tx.Where("products.stock > ?", 0)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if !q.Featured {
			return tx
		}
		return tx.Where("products.is_featured = ?", true)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if !q.OnSale {
			return tx
		}
		return tx.Where("products.is_on_sale = ?", true)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if !q.IsNew {
			return tx
		}
		return tx.Where("products.is_new = ?", true)
	},
	func(_ *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		if q.MinRating == nil {
			return tx
		}
		return tx.Where("products.avg_rating >= ?", *q.MinRating)
	},
	func(db *gorm.DB, tx *gorm.DB, q ProductQuery) *gorm.DB {
		search := strings.TrimSpace(q.Search)
		if search == "" {
			return tx
		}
		condition, argCount := buildLikeCondition(db, []string{"products.name", "products.description", "products.sku"})
		return tx.Where(condition, repeatLikeArgs(containsPattern(search), argCount)...)
	},
}

// productSortOrders 排序键到 ORDER BY 子句的映射
var productSortOrders = map[string]string{
	constants.ProductSortRelevance:   "products.is_featured DESC",
	constants.ProductSortPriceAsc:    "products.price ASC",
	constants.ProductSortPriceDesc:   "products.price DESC",
	constants.ProductSortNewest:      "products.created_at DESC",
	constants.ProductSortRating:      "products.avg_rating DESC",
	constants.ProductSortBestselling: "products.sold_count DESC",
	constants.ProductSortNameAsc:     "products.name ASC",
	constants.ProductSortNameDesc:    "products.name DESC",
}

// productOrderClause 未知排序键回退为相关度，并追加 id 保证分页稳定
func productOrderClause(sort string) string {
	clause, ok := productSortOrders[strings.ToLower(strings.TrimSpace(sort))]
	if !ok {
		clause = productSortOrders[constants.ProductSortRelevance]
	}
	return clause + ", products.id ASC"
}

func (r *GormProductRepository) activeProducts() *gorm.DB {
	return r.db.Model(&models.Product{}).Where("products.is_active = ?", true)
}

// withListRelations 列表行附带分类、品牌与主图
func withListRelations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Category").
		Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_primary = ?", true).Order("sort_order ASC, id ASC")
		})
}

// Query 按条件分页查询上架商品
func (r *GormProductRepository) Query(query ProductQuery) ([]models.Product, int64, error) {
	tx := r.activeProducts()
	for _, predicate := range productPredicates {
		tx = predicate(r.db, tx, query)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	tx = applyPagination(tx, query.Page, query.PerPage)
	if err := withListRelations(tx).Order(productOrderClause(query.Sort)).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

const newestFirst = "products.created_at DESC, products.id DESC"

func (r *GormProductRepository) listByFlag(column string, limit int, order string) ([]models.Product, error) {
	var products []models.Product
	tx := r.activeProducts().Where("products."+column+" = ?", true)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := withListRelations(tx).Order(order).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListFeatured 推荐商品
func (r *GormProductRepository) ListFeatured(limit int) ([]models.Product, error) {
	return r.listByFlag("is_featured", limit, newestFirst)
}

// ListNew 新品
func (r *GormProductRepository) ListNew(limit int) ([]models.Product, error) {
	return r.listByFlag("is_new", limit, newestFirst)
}

// ListOnSale 促销商品
func (r *GormProductRepository) ListOnSale(limit int) ([]models.Product, error) {
	return r.listByFlag("is_on_sale", limit, newestFirst)
}

// ListRelated 同分类商品（排除自身），按评分倒序；商品无分类时不限分类
func (r *GormProductRepository) ListRelated(productID uint, categoryID *uint, limit int) ([]models.Product, error) {
	var products []models.Product
	tx := r.activeProducts().Where("products.id <> ?", productID)
	if categoryID != nil {
		tx = tx.Where("products.category_id = ?", *categoryID)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := withListRelations(tx).Order("products.avg_rating DESC, products.id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Search 按名称或描述模糊搜索
func (r *GormProductRepository) Search(term string, limit int) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Product{}, nil
	}
	condition, argCount := buildLikeCondition(r.db, []string{"products.name", "products.description"})
	tx := r.activeProducts().Where(condition, repeatLikeArgs(containsPattern(term), argCount)...)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var products []models.Product
	if err := withListRelations(tx).Order(productOrderClause(constants.ProductSortRelevance)).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetBySlug 获取上架商品详情
func (r *GormProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.
		Preload("Category").
		Preload("Brand").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("id ASC")
		}).
		Preload("Variants.Values").
		Preload("Variants.Values.Attribute").
		Preload("Tags").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_approved = ?", true).Order("created_at DESC, id DESC").Limit(constants.ProductReviewsLimit)
		}).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByID 根据ID获取商品（不区分上下架）
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetVariant 获取归属指定商品的启用规格
func (r *GormProductRepository) GetVariant(productID, variantID uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.Where("id = ? AND product_id = ? AND is_active = ?", variantID, productID, true).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// IncrementViewCount 浏览量 +1
func (r *GormProductRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

type groupCountRow struct {
	GroupID uint
	Total   int64
}

func (r *GormProductRepository) countActiveBy(column string) (map[uint]int64, error) {
	var rows []groupCountRow
	err := r.activeProducts().
		Select(column + " AS group_id, COUNT(*) AS total").
		Where(column + " IS NOT NULL").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.GroupID] = row.Total
	}
	return counts, nil
}

// CountActiveByCategory 各分类上架商品数
func (r *GormProductRepository) CountActiveByCategory() (map[uint]int64, error) {
	return r.countActiveBy("category_id")
}

// CountActiveByBrand 各品牌上架商品数
func (r *GormProductRepository) CountActiveByBrand() (map[uint]int64, error) {
	return r.countActiveBy("brand_id")
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}
