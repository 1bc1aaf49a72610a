package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/techstore-next/internal/cache"
	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/queue"
	"github.com/techstore-next/internal/repository"

	"github.com/shopspring/decimal"
)

const productViewDedupTTL = time.Hour

// CatalogService 商品目录查询服务
type CatalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	brandRepo    repository.BrandRepository
	queueClient  *queue.Client
	cfg          config.CatalogConfig
}

// NewCatalogService 创建商品目录服务
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	queueClient *queue.Client,
	cfg config.CatalogConfig,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		brandRepo:    brandRepo,
		queueClient:  queueClient,
		cfg:          cfg,
	}
}

// ProductListInput 商品列表查询输入（分类/品牌为 slug）
type ProductListInput struct {
	Page      int
	PerPage   int
	Sort      string
	Category  string
	Brand     string
	Tag       string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	InStock   bool
	Featured  bool
	OnSale    bool
	IsNew     bool
	MinRating *float64
	Search    string
}

// ProductPage 商品分页结果
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Page       int              `json:"page"`
	PerPage    int              `json:"per_page"`
	Total      int64            `json:"total"`
	TotalPages int              `json:"total_pages"`
}

// NormalizePage 页码小于 1 视为 1，每页数量缺省为默认值并限制在 [1, max]
func NormalizePage(page, perPage, defaultPerPage, maxPerPage int) (int, int) {
	if defaultPerPage <= 0 {
		defaultPerPage = constants.ProductPerPageDefault
	}
	if maxPerPage <= 0 {
		maxPerPage = constants.ProductPerPageMax
	}
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// TotalPages 计算总页数
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// PageWindow 生成分页页码：首页、末页与当前页前后两页，0 表示省略号
func PageWindow(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	pages := make([]int, 0, total)
	for i := 1; i <= total; i++ {
		if i == 1 || i == total || (i >= current-2 && i <= current+2) {
			pages = append(pages, i)
			continue
		}
		if len(pages) > 0 && pages[len(pages)-1] != 0 {
			pages = append(pages, 0)
		}
	}
	return pages
}

// ListProducts 按筛选条件分页查询商品；分类或品牌 slug 无法解析时返回空页
func (s *CatalogService) ListProducts(input ProductListInput) (*ProductPage, error) {
	page, perPage := NormalizePage(input.Page, input.PerPage, s.cfg.PerPage, s.cfg.MaxPerPage)
	empty := &ProductPage{Products: []models.Product{}, Page: page, PerPage: perPage}

	query := repository.ProductQuery{
		Page:      page,
		PerPage:   perPage,
		Sort:      input.Sort,
		TagSlug:   input.Tag,
		MinPrice:  input.MinPrice,
		MaxPrice:  input.MaxPrice,
		InStock:   input.InStock,
		Featured:  input.Featured,
		OnSale:    input.OnSale,
		IsNew:     input.IsNew,
		MinRating: input.MinRating,
		Search:    input.Search,
	}
	if slug := strings.TrimSpace(input.Category); slug != "" {
		category, err := s.categoryRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return empty, nil
		}
		query.Category = &category.ID
	}
	if slug := strings.TrimSpace(input.Brand); slug != "" {
		brand, err := s.brandRepo.GetBySlug(slug)
		if err != nil {
			return nil, err
		}
		if brand == nil {
			return empty, nil
		}
		query.Brand = &brand.ID
	}

	products, total, err := s.productRepo.Query(query)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Products:   products,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: TotalPages(total, perPage),
	}, nil
}

// Featured 推荐商品
func (s *CatalogService) Featured() ([]models.Product, error) {
	return s.productRepo.ListFeatured(constants.FeaturedProductsLimit)
}

// NewArrivals 新品
func (s *CatalogService) NewArrivals() ([]models.Product, error) {
	return s.productRepo.ListNew(constants.NewProductsLimit)
}

// OnSale 促销商品
func (s *CatalogService) OnSale() ([]models.Product, error) {
	return s.productRepo.ListOnSale(constants.SaleProductsLimit)
}

// Search 关键词搜索，关键词不足 2 个字符时返回空
func (s *CatalogService) Search(term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < constants.SearchQueryMinLength {
		return []models.Product{}, nil
	}
	return s.productRepo.Search(term, constants.SearchProductsLimit)
}

// GetBySlug 商品详情，并记录一次浏览
func (s *CatalogService) GetBySlug(ctx context.Context, slug, viewerKey string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	s.recordView(ctx, product.ID, viewerKey)
	return product, nil
}

// Related 相关商品
func (s *CatalogService) Related(slug string) ([]models.Product, error) {
	product, err := s.productRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return s.productRepo.ListRelated(product.ID, product.CategoryID, constants.RelatedProductsLimit)
}

// GetByID 根据ID获取商品
func (s *CatalogService) GetByID(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// IncrementView 浏览量 +1（队列消费者调用）
func (s *CatalogService) IncrementView(productID uint) error {
	if productID == 0 {
		return ErrProductNotFound
	}
	return s.productRepo.IncrementViewCount(productID)
}

// recordView 同一访客一小时内只计一次；队列可用时异步累加
func (s *CatalogService) recordView(ctx context.Context, productID uint, viewerKey string) {
	if viewerKey = strings.TrimSpace(viewerKey); viewerKey != "" {
		fresh, err := cache.SetNX(ctx, fmt.Sprintf("view:%d:%s", productID, viewerKey), "1", productViewDedupTTL)
		if err != nil {
			logger.Warnw("product_view_dedup_failed", "product_id", productID, "error", err)
		} else if !fresh {
			return
		}
	}
	if s.queueClient != nil && s.queueClient.Enabled() {
		err := s.queueClient.EnqueueProductView(queue.ProductViewPayload{ProductID: productID})
		if err == nil {
			return
		}
		logger.Warnw("product_view_enqueue_failed", "product_id", productID, "error", err)
	}
	if err := s.productRepo.IncrementViewCount(productID); err != nil {
		logger.Warnw("product_view_increment_failed", "product_id", productID, "error", err)
	}
}
