package provider

import (
	"time"

	"github.com/techstore-next/internal/authz"
	"github.com/techstore-next/internal/cache"
	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/queue"
	"github.com/techstore-next/internal/repository"
	"github.com/techstore-next/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo           repository.UserRepository
	ProductRepo        repository.ProductRepository
	CategoryRepo       repository.CategoryRepository
	BrandRepo          repository.BrandRepository
	CartRepo           repository.CartRepository
	CouponRepo         repository.CouponRepository
	ShippingMethodRepo repository.ShippingMethodRepository

	// Services
	AuthzService       *authz.Service
	UserAuthService    *service.UserAuthService
	CaptchaService     *service.CaptchaService
	CatalogService     *service.CatalogService
	CategoryService    *service.CategoryService
	BrandService       *service.BrandService
	CouponService      *service.CouponService
	CouponAdminService *service.CouponAdminService
	CartService        *service.CartService
	ShippingService    *service.ShippingService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories(models.DB)

	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService

	c.initServices()
	return c
}

// NewContainerWithDB 基于指定连接组装仓库与服务，不初始化 redis、队列与授权
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	c := &Container{Config: cfg}
	c.initRepositories(db)
	c.initServices()
	return c
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.BrandRepo = repository.NewBrandRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.ShippingMethodRepo = repository.NewShippingMethodRepository(db)
}

func (c *Container) initServices() {
	catalogCfg := c.Config.Catalog
	c.UserAuthService = service.NewUserAuthService(c.Config.UserJWT, c.UserRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.CatalogService = service.NewCatalogService(c.ProductRepo, c.CategoryRepo, c.BrandRepo, c.QueueClient, catalogCfg)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo, c.ProductRepo, catalogCfg)
	c.BrandService = service.NewBrandService(c.BrandRepo, c.ProductRepo, catalogCfg)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.CouponAdminService = service.NewCouponAdminService(c.CouponRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.CouponService, service.PricingConfigFrom(c.Config.Cart))
	c.ShippingService = service.NewShippingService(c.ShippingMethodRepo, time.Duration(catalogCfg.NavCacheTTLSeconds)*time.Second)
}
