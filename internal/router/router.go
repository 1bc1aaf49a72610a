package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/techstore-next/internal/authz"
	"github.com/techstore-next/internal/cache"
	"github.com/techstore-next/internal/config"
	adminhandlers "github.com/techstore-next/internal/http/handlers/admin"
	publichandlers "github.com/techstore-next/internal/http/handlers/public"
	"github.com/techstore-next/internal/http/response"
	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ts"
	}
	redisClient := cache.Client()
	loginRule := NewRateLimitRule(fmt.Sprintf("%s:rate:login", redisPrefix), cfg.Security.LoginRateLimit)
	cartRule := NewRateLimitRule(fmt.Sprintf("%s:rate:cart", redisPrefix), cfg.Security.CartRateLimit)
	cartLimit := RateLimitMiddleware(redisClient, cartRule, KeyByCartOwner)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	apiV1.Use(OptionalUserAuthMiddleware(c.UserAuthService))
	{
		// 公开接口
		public := apiV1.Group("/public")
		public.Use(CartSessionMiddleware(cfg.Session))
		{
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/featured", publicHandler.GetFeaturedProducts)
			public.GET("/products/new", publicHandler.GetNewProducts)
			public.GET("/products/sale", publicHandler.GetSaleProducts)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/products/:slug/related", publicHandler.GetRelatedProducts)
			public.GET("/search", publicHandler.SearchProducts)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/categories/tree", publicHandler.GetCategoryTree)
			public.GET("/categories/:slug", publicHandler.GetCategoryBySlug)
			public.GET("/brands", publicHandler.GetBrands)
			public.GET("/brands/:slug", publicHandler.GetBrandBySlug)
			public.GET("/shipping-methods", publicHandler.GetShippingMethods)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
		}

		// 用户认证
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
			auth.GET("/me", RequireUserMiddleware(), publicHandler.GetCurrentUser)
		}

		// 购物车（登录用户或匿名会话）
		cart := apiV1.Group("/cart")
		cart.Use(CartSessionMiddleware(cfg.Session))
		{
			cart.GET("", publicHandler.GetCart)
			cart.GET("/count", publicHandler.GetCartCount)
			cart.POST("/items", cartLimit, publicHandler.AddCartItem)
			cart.PATCH("/items/:id", cartLimit, publicHandler.UpdateCartItem)
			cart.DELETE("/items/:id", cartLimit, publicHandler.DeleteCartItem)
			cart.DELETE("", cartLimit, publicHandler.ClearCart)
			cart.POST("/coupon", cartLimit, publicHandler.ApplyCartCoupon)
			cart.DELETE("/coupon", cartLimit, publicHandler.RemoveCartCoupon)
		}

		// 管理端（登录 + RBAC）
		admin := apiV1.Group("/admin")
		admin.Use(RequireUserMiddleware(), RequireAdminMiddleware(c.AuthzService))
		{
			admin.GET("/coupons", adminHandler.GetAdminCoupons)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.GET("/authz/roles", adminHandler.ListAuthzRoles)
			admin.POST("/authz/roles", adminHandler.CreateAuthzRole)
			admin.POST("/authz/roles/:role/policies", adminHandler.GrantAuthzPolicy)
			admin.GET("/authz/users/:id/roles", adminHandler.GetAuthzUserRoles)
			admin.PUT("/authz/users/:id/roles", adminHandler.SetAuthzUserRoles)
			admin.GET("/permissions", func(ctx *gin.Context) {
				response.Success(ctx, buildAdminPermissionCatalog(r))
			})
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 {
		return segments[0]
	}
	if segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
