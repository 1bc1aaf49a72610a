package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/techstore-next/internal/authz"
	"github.com/techstore-next/internal/cache"
	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/logger"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/repository"
	"github.com/techstore-next/internal/service"

	"gorm.io/gorm"
)

const seedAdminEmail = "admin@techstore.local"

type seedCategory struct {
	Name     string
	Slug     string
	Parent   string
	Sort     int
	Children []seedCategory
}

type seedProduct struct {
	SKU        string
	Name       string
	Slug       string
	Short      string
	Price      string
	CompareAt  string
	Stock      int
	Category   string
	Brand      string
	Tags       []string
	Image      string
	Featured   bool
	New        bool
	OnSale     bool
	Rating     float64
	Reviews    int
	Sold       int
	Variants   []seedVariant
	DaysOffset int
}

type seedVariant struct {
	SKU   string
	Name  string
	Price string
	Stock int
	Value string
}

var seedCategories = []seedCategory{
	{Name: "Computers", Slug: "computers", Sort: 1, Children: []seedCategory{
		{Name: "Laptops", Slug: "laptops", Sort: 1},
		{Name: "Monitors", Slug: "monitors", Sort: 2},
	}},
	{Name: "Phones & Tablets", Slug: "phones-tablets", Sort: 2, Children: []seedCategory{
		{Name: "Smartphones", Slug: "smartphones", Sort: 1},
		{Name: "Tablets", Slug: "tablets", Sort: 2},
	}},
	{Name: "Audio", Slug: "audio", Sort: 3, Children: []seedCategory{
		{Name: "Headphones", Slug: "headphones", Sort: 1},
		{Name: "Speakers", Slug: "speakers", Sort: 2},
	}},
	{Name: "Accessories", Slug: "accessories", Sort: 4},
}

var seedBrands = []models.Brand{
	{Name: "Apex", Slug: "apex", Website: "https://apex.example.com", IsActive: true},
	{Name: "Nimbus", Slug: "nimbus", Website: "https://nimbus.example.com", IsActive: true},
	{Name: "Sonora", Slug: "sonora", Website: "https://sonora.example.com", IsActive: true},
	{Name: "Voltix", Slug: "voltix", Website: "https://voltix.example.com", IsActive: true},
}

var seedTags = []models.Tag{
	{Name: "Wireless", Slug: "wireless"},
	{Name: "Gaming", Slug: "gaming"},
	{Name: "Portable", Slug: "portable"},
	{Name: "Noise Cancelling", Slug: "noise-cancelling"},
	{Name: "4K", Slug: "4k"},
}

var seedProducts = []seedProduct{
	{SKU: "LAP-APX-14", Name: "Apex Book 14", Slug: "apex-book-14", Short: "14-inch ultralight laptop", Price: "1199.00", CompareAt: "1299.00", Stock: 15, Category: "laptops", Brand: "apex", Tags: []string{"portable"}, Image: "https://images.unsplash.com/photo-1496181133206-80ce9b88a853?w=800", Featured: true, OnSale: true, Rating: 4.6, Reviews: 38, Sold: 120, DaysOffset: 40,
		Variants: []seedVariant{
			{SKU: "LAP-APX-14-16", Name: "16GB / 512GB", Stock: 10, Value: "16gb"},
			{SKU: "LAP-APX-14-32", Name: "32GB / 1TB", Price: "1499.00", Stock: 5, Value: "32gb"},
		}},
	{SKU: "LAP-NMB-16G", Name: "Nimbus Blade 16", Slug: "nimbus-blade-16", Short: "16-inch gaming laptop", Price: "1899.00", Stock: 6, Category: "laptops", Brand: "nimbus", Tags: []string{"gaming"}, Image: "https://images.unsplash.com/photo-1603302576837-37561b2e2302?w=800", Featured: true, New: true, Rating: 4.8, Reviews: 12, Sold: 30, DaysOffset: 5},
	{SKU: "MON-APX-27", Name: "Apex View 27 4K", Slug: "apex-view-27", Short: "27-inch 4K IPS monitor", Price: "429.00", Stock: 20, Category: "monitors", Brand: "apex", Tags: []string{"4k"}, Image: "https://images.unsplash.com/photo-1527443224154-c4a3942d3acf?w=800", Rating: 4.4, Reviews: 22, Sold: 75, DaysOffset: 60},
	{SKU: "PHN-NMB-X", Name: "Nimbus X Phone", Slug: "nimbus-x-phone", Short: "6.1-inch flagship smartphone", Price: "899.00", Stock: 30, Category: "smartphones", Brand: "nimbus", Tags: []string{"wireless"}, Image: "https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=800", Featured: true, New: true, Rating: 4.7, Reviews: 64, Sold: 310, DaysOffset: 3,
		Variants: []seedVariant{
			{SKU: "PHN-NMB-X-128", Name: "128GB", Stock: 20, Value: "128gb"},
			{SKU: "PHN-NMB-X-256", Name: "256GB", Price: "999.00", Stock: 10, Value: "256gb"},
		}},
	{SKU: "TAB-VLT-11", Name: "Voltix Tab 11", Slug: "voltix-tab-11", Short: "11-inch tablet with stylus support", Price: "549.00", CompareAt: "599.00", Stock: 3, Category: "tablets", Brand: "voltix", Tags: []string{"portable"}, Image: "https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=800", OnSale: true, Rating: 4.2, Reviews: 9, Sold: 44, DaysOffset: 90},
	{SKU: "AUD-SON-NC7", Name: "Sonora NC700 Headphones", Slug: "sonora-nc700", Short: "Over-ear noise cancelling headphones", Price: "299.00", CompareAt: "349.00", Stock: 25, Category: "headphones", Brand: "sonora", Tags: []string{"wireless", "noise-cancelling"}, Image: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=800", Featured: true, OnSale: true, Rating: 4.9, Reviews: 140, Sold: 560, DaysOffset: 120},
	{SKU: "AUD-SON-BUD", Name: "Sonora Buds", Slug: "sonora-buds", Short: "True wireless earbuds", Price: "129.00", Stock: 0, Category: "headphones", Brand: "sonora", Tags: []string{"wireless", "portable"}, Image: "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800", New: true, Rating: 4.1, Reviews: 17, Sold: 210, DaysOffset: 10},
	{SKU: "SPK-VLT-MINI", Name: "Voltix Mini Speaker", Slug: "voltix-mini-speaker", Short: "Pocket bluetooth speaker", Price: "49.99", Stock: 80, Category: "speakers", Brand: "voltix", Tags: []string{"wireless", "portable"}, Image: "https://images.unsplash.com/photo-1608043152269-423dbba4e7e1?w=800", Rating: 3.9, Reviews: 31, Sold: 400, DaysOffset: 200},
	{SKU: "ACC-VLT-PB20", Name: "Voltix 20K Power Bank", Slug: "voltix-power-bank-20k", Short: "20000mAh fast charging power bank", Price: "39.99", Stock: 120, Category: "accessories", Brand: "voltix", Tags: []string{"portable"}, Image: "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800", Rating: 4.3, Reviews: 58, Sold: 900, DaysOffset: 150},
	{SKU: "ACC-APX-HUB", Name: "Apex USB-C Hub", Slug: "apex-usb-c-hub", Short: "7-in-1 USB-C hub", Price: "24.99", CompareAt: "34.99", Stock: 4, Category: "accessories", Brand: "apex", Image: "https://images.unsplash.com/photo-1625723044792-44de16ccb4e9?w=800", OnSale: true, Rating: 4.0, Reviews: 7, Sold: 65, DaysOffset: 20},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.DB.Transaction(func(tx *gorm.DB) error {
		return seed(tx, stdLog)
	}); err != nil {
		stdLog.Fatalf("Seed failed: %v", err)
	}
	if err := assignAdminRole(models.DB); err != nil {
		stdLog.Fatalf("Assign admin role failed: %v", err)
	}
	invalidateNavCache(cfg, stdLog)
	stdLog.Printf("Seed completed")
}

// assignAdminRole 为种子管理员绑定 casbin admin 角色
func assignAdminRole(db *gorm.DB) error {
	authzService, err := authz.NewService(db)
	if err != nil {
		return err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		return err
	}
	admin, err := repository.NewUserRepository(db).GetByEmail(seedAdminEmail)
	if err != nil {
		return err
	}
	if admin == nil {
		return errors.New("seed admin missing")
	}
	return authzService.SetUserRoles(admin.ID, []string{constants.UserRoleAdmin})
}

// invalidateNavCache 种子数据变更后清除导航缓存，redis 不可用时跳过
func invalidateNavCache(cfg *config.Config, stdLog *log.Logger) {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		stdLog.Printf("Skip cache invalidation: %v", err)
		return
	}
	ctx := context.Background()
	categories := service.NewCategoryService(
		repository.NewCategoryRepository(models.DB),
		repository.NewProductRepository(models.DB),
		cfg.Catalog,
	)
	if err := categories.InvalidateCache(ctx); err != nil {
		stdLog.Printf("Failed to invalidate category cache: %v", err)
	}
	if err := cache.Del(ctx, constants.CacheKeyBrandList, constants.CacheKeyShippingList); err != nil {
		stdLog.Printf("Failed to invalidate brand/shipping cache: %v", err)
	}
}

func seed(db *gorm.DB, stdLog *log.Logger) error {
	categoryIDs := map[string]uint{}
	for _, cat := range seedCategories {
		if err := ensureCategory(db, cat, nil, categoryIDs); err != nil {
			return err
		}
	}
	stdLog.Printf("Categories ready: %d", len(categoryIDs))

	brandIDs := map[string]uint{}
	for i := range seedBrands {
		brand := seedBrands[i]
		if err := db.Where(models.Brand{Slug: brand.Slug}).Attrs(brand).FirstOrCreate(&brand).Error; err != nil {
			return err
		}
		brandIDs[brand.Slug] = brand.ID
	}

	tagsBySlug := map[string]models.Tag{}
	for i := range seedTags {
		tag := seedTags[i]
		if err := db.Where(models.Tag{Slug: tag.Slug}).Attrs(tag).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		tagsBySlug[tag.Slug] = tag
	}

	storage, err := ensureAttribute(db)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, item := range seedProducts {
		created, err := ensureProduct(db, item, categoryIDs, brandIDs, tagsBySlug, storage, now)
		if err != nil {
			return err
		}
		if created {
			stdLog.Printf("Created product: %s", item.Slug)
		} else {
			stdLog.Printf("Product already exists: %s", item.Slug)
		}
	}

	if err := ensureCoupons(db, now); err != nil {
		return err
	}
	if err := ensureShippingMethods(db); err != nil {
		return err
	}
	return ensureUsers(db, stdLog)
}

func ensureCategory(db *gorm.DB, cat seedCategory, parentID *uint, ids map[string]uint) error {
	record := models.Category{Name: cat.Name, Slug: cat.Slug, ParentID: parentID, SortOrder: cat.Sort, IsActive: true}
	if err := db.Where(models.Category{Slug: cat.Slug}).Attrs(record).FirstOrCreate(&record).Error; err != nil {
		return err
	}
	ids[cat.Slug] = record.ID
	for _, child := range cat.Children {
		id := record.ID
		if err := ensureCategory(db, child, &id, ids); err != nil {
			return err
		}
	}
	return nil
}

// ensureAttribute 存储容量属性及其取值，返回 slug 到取值的映射
func ensureAttribute(db *gorm.DB) (map[string]models.AttributeValue, error) {
	attr := models.Attribute{Name: "Storage", Slug: "storage", Type: "select", IsFilterable: true}
	if err := db.Where(models.Attribute{Slug: attr.Slug}).Attrs(attr).FirstOrCreate(&attr).Error; err != nil {
		return nil, err
	}
	values := []models.AttributeValue{
		{Value: "16GB / 512GB", Slug: "16gb", SortOrder: 1},
		{Value: "32GB / 1TB", Slug: "32gb", SortOrder: 2},
		{Value: "128GB", Slug: "128gb", SortOrder: 3},
		{Value: "256GB", Slug: "256gb", SortOrder: 4},
	}
	result := make(map[string]models.AttributeValue, len(values))
	for i := range values {
		value := values[i]
		value.AttributeID = attr.ID
		if err := db.Where(models.AttributeValue{AttributeID: attr.ID, Slug: value.Slug}).Attrs(value).FirstOrCreate(&value).Error; err != nil {
			return nil, err
		}
		result[value.Slug] = value
	}
	return result, nil
}

func ensureProduct(
	db *gorm.DB,
	item seedProduct,
	categoryIDs, brandIDs map[string]uint,
	tags map[string]models.Tag,
	storage map[string]models.AttributeValue,
	now time.Time,
) (bool, error) {
	var existing models.Product
	err := db.Unscoped().Where("slug = ?", item.Slug).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	product := models.Product{
		SKU:              item.SKU,
		Name:             item.Name,
		Slug:             item.Slug,
		Description:      item.Short + ". Backed by a two year warranty.",
		ShortDescription: item.Short,
		Price:            models.MustMoney(item.Price),
		Stock:            item.Stock,
		IsFeatured:       item.Featured,
		IsNew:            item.New,
		IsOnSale:         item.OnSale,
		IsActive:         true,
		AvgRating:        item.Rating,
		ReviewCount:      item.Reviews,
		SoldCount:        item.Sold,
		MetaTitle:        item.Name + " | TechStore",
		MetaDescription:  item.Short,
		CreatedAt:        now.AddDate(0, 0, -item.DaysOffset),
	}
	if item.CompareAt != "" {
		compareAt := models.MustMoney(item.CompareAt)
		product.CompareAtPrice = &compareAt
	}
	if id, ok := categoryIDs[item.Category]; ok {
		product.CategoryID = &id
	}
	if id, ok := brandIDs[item.Brand]; ok {
		product.BrandID = &id
	}
	for _, slug := range item.Tags {
		if tag, ok := tags[slug]; ok {
			product.Tags = append(product.Tags, tag)
		}
	}
	product.Images = []models.ProductImage{
		{URL: item.Image, Alt: item.Name, IsPrimary: true, SortOrder: 0},
	}
	for _, v := range item.Variants {
		variant := models.ProductVariant{SKU: v.SKU, Name: v.Name, Stock: v.Stock, IsActive: true}
		if v.Price != "" {
			price := models.MustMoney(v.Price)
			variant.Price = &price
		}
		if value, ok := storage[v.Value]; ok {
			variant.Values = []models.AttributeValue{value}
		}
		product.Variants = append(product.Variants, variant)
	}

	if err := db.Create(&product).Error; err != nil {
		return false, err
	}
	return true, nil
}

func ensureCoupons(db *gorm.DB, now time.Time) error {
	minFifty := models.MustMoney("50")
	minHundred := models.MustMoney("100")
	minThirty := models.MustMoney("30")
	maxDiscount := models.MustMoney("200")
	welcomeLimit := 1000
	expiresAt := now.AddDate(1, 0, 0)

	coupons := []models.Coupon{
		{Code: "WELCOME10", Description: "10% off your first order", Type: constants.CouponTypePercentage, Value: models.MustMoney("10"), UsageLimit: &welcomeLimit, IsActive: true},
		{Code: "SAVE20", Description: "20% off orders over 50", Type: constants.CouponTypePercentage, Value: models.MustMoney("20"), MinOrderAmount: &minFifty, MaxDiscount: &maxDiscount, IsActive: true, ExpiresAt: &expiresAt},
		{Code: "FLAT50", Description: "50 off orders over 100", Type: constants.CouponTypeFixed, Value: models.MustMoney("50"), MinOrderAmount: &minHundred, IsActive: true},
		{Code: "FREESHIP", Description: "Free shipping over 30", Type: constants.CouponTypeFreeShipping, MinOrderAmount: &minThirty, IsActive: true},
	}
	for i := range coupons {
		coupon := coupons[i]
		if err := db.Where(models.Coupon{Code: coupon.Code}).Attrs(coupon).FirstOrCreate(&coupon).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureShippingMethods(db *gorm.DB) error {
	standardFree := models.MustMoney("100")
	methods := []models.ShippingMethod{
		{Name: "Standard", Description: "Ground delivery", Price: models.MustMoney("5.99"), FreeAbove: &standardFree, EstimatedDays: "5-7", IsActive: true, SortOrder: 1},
		{Name: "Express", Description: "Two day delivery", Price: models.MustMoney("14.99"), EstimatedDays: "2", IsActive: true, SortOrder: 2},
		{Name: "Overnight", Description: "Next business day", Price: models.MustMoney("29.99"), EstimatedDays: "1", IsActive: true, SortOrder: 3},
	}
	for i := range methods {
		method := methods[i]
		if err := db.Where(models.ShippingMethod{Name: method.Name}).Attrs(method).FirstOrCreate(&method).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureUsers(db *gorm.DB, stdLog *log.Logger) error {
	users := []struct {
		Email    string
		Password string
		First    string
		Last     string
		Role     string
	}{
		{Email: "demo@techstore.local", Password: "demo12345", First: "Demo", Last: "Shopper", Role: constants.UserRoleCustomer},
		{Email: seedAdminEmail, Password: "admin12345", First: "Store", Last: "Admin", Role: constants.UserRoleAdmin},
	}
	for _, u := range users {
		var existing models.User
		err := db.Where("email = ?", u.Email).First(&existing).Error
		if err == nil {
			stdLog.Printf("User already exists: %s", u.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		hash, err := service.HashPassword(u.Password)
		if err != nil {
			return err
		}
		user := models.User{
			Email:        u.Email,
			PasswordHash: hash,
			FirstName:    u.First,
			LastName:     u.Last,
			Role:         u.Role,
			IsActive:     true,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
		stdLog.Printf("Created user: %s (%s)", u.Email, u.Role)
	}
	return nil
}
