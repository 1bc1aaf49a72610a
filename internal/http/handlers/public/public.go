package public

import (
	"strconv"
	"strings"

	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/http/response"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GetProducts 获取商品列表（筛选、排序、分页）
func (h *Handler) GetProducts(c *gin.Context) {
	input, ok := parseProductListQuery(c)
	if !ok {
		return
	}
	result, err := h.CatalogService.ListProducts(input)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	respondProductPage(c, result)
}

// GetFeaturedProducts 推荐商品
func (h *Handler) GetFeaturedProducts(c *gin.Context) {
	products, err := h.CatalogService.Featured()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, products)
}

// GetNewProducts 新品
func (h *Handler) GetNewProducts(c *gin.Context) {
	products, err := h.CatalogService.NewArrivals()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, products)
}

// GetSaleProducts 促销商品
func (h *Handler) GetSaleProducts(c *gin.Context) {
	products, err := h.CatalogService.OnSale()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, products)
}

// SearchProducts 搜索建议，关键词过短时返回空列表
func (h *Handler) SearchProducts(c *gin.Context) {
	products, err := h.CatalogService.Search(c.Query("q"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	if products == nil {
		products = make([]models.Product, 0)
	}
	response.Success(c, products)
}

// GetProductBySlug 根据 slug 获取商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	product, err := h.CatalogService.GetBySlug(c.Request.Context(), c.Param("slug"), viewerKey(c))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, product)
}

// GetRelatedProducts 同分类相关商品
func (h *Handler) GetRelatedProducts(c *gin.Context) {
	products, err := h.CatalogService.Related(c.Param("slug"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, products)
}

// GetCategories 获取分类列表（含商品数）
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListWithProductCount(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, categories)
}

// GetCategoryTree 获取分类树
func (h *Handler) GetCategoryTree(c *gin.Context) {
	tree, err := h.CategoryService.Tree(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, tree)
}

// GetCategoryBySlug 分类详情及其商品分页
func (h *Handler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.CategoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	input, ok := parseProductListQuery(c)
	if !ok {
		return
	}
	input.Category = category.Slug
	result, err := h.CatalogService.ListProducts(input)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, gin.H{
		"category": category,
		"products": result.Products,
		"pagination": response.Pagination{
			Page:      result.Page,
			PageSize:  result.PerPage,
			Total:     result.Total,
			TotalPage: int64(result.TotalPages),
			Pages:     service.PageWindow(result.Page, result.TotalPages),
		},
	})
}

// GetBrands 获取品牌列表（含商品数）
func (h *Handler) GetBrands(c *gin.Context) {
	brands, err := h.BrandService.ListWithProductCount(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, brands)
}

// GetBrandBySlug 品牌详情
func (h *Handler) GetBrandBySlug(c *gin.Context) {
	brand, err := h.BrandService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, brand)
}

// GetShippingMethods 可用配送方式，附带按当前购物车小计的报价
func (h *Handler) GetShippingMethods(c *gin.Context) {
	methods, err := h.ShippingService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	subtotal := decimal.Zero
	var coupon *models.Coupon
	if owner := cartOwner(c); owner.Valid() {
		cart, err := h.CartService.Find(owner)
		if err != nil {
			respondCartError(c, err)
			return
		}
		if cart != nil {
			summary, err := h.CartService.Summary(cart)
			if err != nil {
				respondCartError(c, err)
				return
			}
			subtotal = summary.Subtotal.Decimal
			coupon = summary.Coupon
		}
	}

	items := make([]gin.H, 0, len(methods))
	for i := range methods {
		method := &methods[i]
		items = append(items, gin.H{
			"method": method,
			"quote":  models.NewMoneyFromDecimal(service.Quote(method, subtotal, coupon)),
		})
	}
	response.Success(c, items)
}

func respondProductPage(c *gin.Context, result *service.ProductPage) {
	response.SuccessWithPage(c, result.Products, response.Pagination{
		Page:      result.Page,
		PageSize:  result.PerPage,
		Total:     result.Total,
		TotalPage: int64(result.TotalPages),
		Pages:     service.PageWindow(result.Page, result.TotalPages),
	})
}

// parseProductListQuery 解析列表查询参数，非法数值直接响应 400
func parseProductListQuery(c *gin.Context) (service.ProductListInput, bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(constants.ProductPerPageDefault)))

	input := service.ProductListInput{
		Page:     page,
		PerPage:  perPage,
		Sort:     strings.TrimSpace(c.Query("sort")),
		Category: strings.TrimSpace(c.Query("category")),
		Brand:    strings.TrimSpace(c.Query("brand")),
		Tag:      strings.TrimSpace(c.Query("tag")),
		InStock:  queryFlag(c, "in_stock"),
		Featured: queryFlag(c, "featured"),
		OnSale:   queryFlag(c, "sale"),
		IsNew:    queryFlag(c, "new"),
		Search:   strings.TrimSpace(c.Query("q")),
	}

	var err error
	if input.MinPrice, err = queryDecimal(c, "price_min"); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return input, false
	}
	if input.MaxPrice, err = queryDecimal(c, "price_max"); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return input, false
	}
	if raw := strings.TrimSpace(c.Query("rating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return input, false
		}
		input.MinRating = &rating
	}
	return input, true
}

func queryFlag(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func queryDecimal(c *gin.Context, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
