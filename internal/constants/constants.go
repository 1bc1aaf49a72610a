package constants

// 优惠券类型常量
const (
	CouponTypePercentage   = "percentage"
	CouponTypeFixed        = "fixed"
	CouponTypeFreeShipping = "free_shipping"
)

// 商品排序常量
const (
	ProductSortRelevance   = "relevance"
	ProductSortPriceAsc    = "price-asc"
	ProductSortPriceDesc   = "price-desc"
	ProductSortNewest      = "newest"
	ProductSortRating      = "rating"
	ProductSortBestselling = "bestselling"
	ProductSortNameAsc     = "name-asc"
	ProductSortNameDesc    = "name-desc"
)

// 商品列表默认值
const (
	ProductPerPageDefault  = 12
	ProductPerPageMax      = 100
	FeaturedProductsLimit  = 8
	NewProductsLimit       = 8
	SaleProductsLimit      = 4
	RelatedProductsLimit   = 4
	SearchProductsLimit    = 10
	SearchQueryMinLength   = 2
	ProductReviewsLimit    = 10
	DefaultAddCartQuantity = 1
)

// 用户角色与状态常量
const (
	UserRoleCustomer = "customer"
	UserRoleAdmin    = "admin"
)

// 验证码常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
	CaptchaSceneLogin    = "login"
)

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskProductViewIncrement = "product:view"
	TaskCartPurgeStale       = "cart:purge_stale"
)

// 上下文键常量
const (
	ContextKeyRequestID   = "request_id"
	ContextKeyUserID      = "user_id"
	ContextKeyUserEmail   = "user_email"
	ContextKeyUserRole    = "user_role"
	ContextKeyCartSession = "cart_session_id"
)

// 缓存键常量
const (
	CacheKeyCategoryList  = "catalog:categories"
	CacheKeyCategoryTree  = "catalog:categories:tree"
	CacheKeyBrandList     = "catalog:brands"
	CacheKeyShippingList  = "catalog:shipping_methods"
	CacheKeyProductPrefix = "catalog:products"
)
