package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepositoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.Open("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

type productFixture struct {
	slug     string
	price    string
	stock    int
	category *uint
	brand    *uint
	featured bool
	onSale   bool
	isNew    bool
	rating   float64
	sold     int
	active   bool
	created  time.Time
}

func createProduct(t *testing.T, db *gorm.DB, f productFixture) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:         strings.ToUpper(f.slug),
		Name:        strings.ReplaceAll(f.slug, "-", " "),
		Slug:        f.slug,
		Description: "description of " + f.slug,
		Price:       models.MustMoney(f.price),
		Stock:       f.stock,
		CategoryID:  f.category,
		BrandID:     f.brand,
		IsFeatured:  f.featured,
		IsOnSale:    f.onSale,
		IsNew:       f.isNew,
		IsActive:    true,
		AvgRating:   f.rating,
		SoldCount:   f.sold,
		CreatedAt:   f.created,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product %s failed: %v", f.slug, err)
	}
	if !f.active {
		if err := db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
	}
	return product
}

func uintPtr(v uint) *uint {
	return &v
}

func seedQueryCatalog(t *testing.T, db *gorm.DB) (phones *models.Category, audio *models.Category, apple *models.Brand) {
	t.Helper()
	phones = &models.Category{Name: "Smartphones", Slug: "smartphones", IsActive: true}
	audio = &models.Category{Name: "Audio", Slug: "audio", IsActive: true}
	apple = &models.Brand{Name: "Apple", Slug: "apple", IsActive: true}
	for _, row := range []interface{}{phones, audio, apple} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("create catalog row failed: %v", err)
		}
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	createProduct(t, db, productFixture{slug: "iphone-15-pro", price: "1199", stock: 50, category: &phones.ID, brand: &apple.ID, featured: true, isNew: true, rating: 4.8, sold: 89, active: true, created: base})
	createProduct(t, db, productFixture{slug: "galaxy-s24", price: "1299", stock: 0, category: &phones.ID, featured: true, rating: 4.7, sold: 45, active: true, created: base.Add(time.Hour)})
	createProduct(t, db, productFixture{slug: "sony-wh-1000xm5", price: "349", stock: 100, category: &audio.ID, onSale: true, rating: 4.6, sold: 456, active: true, created: base.Add(2 * time.Hour)})
	createProduct(t, db, productFixture{slug: "airpods-pro-2", price: "249", stock: 150, category: &audio.ID, brand: &apple.ID, featured: true, isNew: true, rating: 4.7, sold: 890, active: true, created: base.Add(3 * time.Hour)})
	createProduct(t, db, productFixture{slug: "cheap-cable", price: "19.99", stock: 10, category: &audio.ID, rating: 3.1, active: true, created: base.Add(4 * time.Hour)})
	createProduct(t, db, productFixture{slug: "retired-phone", price: "999", stock: 5, category: &phones.ID, active: false, created: base.Add(5 * time.Hour)})
	return phones, audio, apple
}

func productSlugs(products []models.Product) []string {
	slugs := make([]string, 0, len(products))
	for _, p := range products {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

func TestProductQueryInStockMinPriceSortedByPriceDesc(t *testing.T) {
	db := setupRepositoryDB(t)
	seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	minPrice := decimal.NewFromInt(100)
	products, total, err := repo.Query(ProductQuery{
		Page:     1,
		PerPage:  12,
		Sort:     constants.ProductSortPriceDesc,
		MinPrice: &minPrice,
		InStock:  true,
	})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	want := []string{"iphone-15-pro", "sony-wh-1000xm5", "airpods-pro-2"}
	if got := productSlugs(products); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("slugs want %v got %v", want, got)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}
	for _, p := range products {
		if p.Stock <= 0 || p.Price.LessThan(minPrice) {
			t.Fatalf("product %s violates filter: stock=%d price=%s", p.Slug, p.Stock, p.Price.String())
		}
	}
}

func TestProductQueryPriceBoundsAreInclusiveToTheCent(t *testing.T) {
	db := setupRepositoryDB(t)
	seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	bound := decimal.RequireFromString("19.99")
	products, total, err := repo.Query(ProductQuery{Page: 1, PerPage: 12, MinPrice: &bound, MaxPrice: &bound})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].Slug != "cheap-cable" {
		t.Fatalf("want only cheap-cable got %v (total %d)", productSlugs(products), total)
	}

	below := decimal.RequireFromString("19.98")
	products, total, err = repo.Query(ProductQuery{Page: 1, PerPage: 12, MaxPrice: &below})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if total != 0 || len(products) != 0 {
		t.Fatalf("want no product under 19.98 got %v", productSlugs(products))
	}
}

func TestProductQueryPaginationCountsWholeFilter(t *testing.T) {
	db := setupRepositoryDB(t)
	seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	products, total, err := repo.Query(ProductQuery{Page: 2, PerPage: 2, Sort: constants.ProductSortNameAsc})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("total want 5 (inactive excluded) got %d", total)
	}
	want := []string{"galaxy-s24", "iphone-15-pro"}
	if got := productSlugs(products); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("page 2 want %v got %v", want, got)
	}
}

func TestProductQueryCategoryBrandAndFlags(t *testing.T) {
	db := setupRepositoryDB(t)
	_, audio, apple := seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	products, total, err := repo.Query(ProductQuery{Page: 1, PerPage: 12, Category: &audio.ID, Brand: &apple.ID, Featured: true})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].Slug != "airpods-pro-2" {
		t.Fatalf("expected only airpods, got %v (total %d)", productSlugs(products), total)
	}
	if products[0].Category == nil || products[0].Category.Slug != "audio" {
		t.Fatalf("category should be preloaded")
	}
	if products[0].Brand == nil || products[0].Brand.Slug != "apple" {
		t.Fatalf("brand should be preloaded")
	}

	rating := 4.7
	products, _, err = repo.Query(ProductQuery{Page: 1, PerPage: 12, MinRating: &rating, Sort: constants.ProductSortRating})
	if err != nil {
		t.Fatalf("rating query failed: %v", err)
	}
	want := []string{"iphone-15-pro", "galaxy-s24", "airpods-pro-2"}
	if got := productSlugs(products); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("rating order want %v got %v", want, got)
	}
}

func TestProductQuerySearchIsCaseInsensitive(t *testing.T) {
	db := setupRepositoryDB(t)
	seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	products, total, err := repo.Query(ProductQuery{Page: 1, PerPage: 12, Search: "SONY"})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if total != 1 || products[0].Slug != "sony-wh-1000xm5" {
		t.Fatalf("search want sony, got %v", productSlugs(products))
	}

	products, _, err = repo.Query(ProductQuery{Page: 1, PerPage: 12, Search: "100%"})
	if err != nil {
		t.Fatalf("wildcard query failed: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("percent sign should be matched literally, got %v", productSlugs(products))
	}
}

func TestProductQueryUnknownSortFallsBackToRelevance(t *testing.T) {
	db := setupRepositoryDB(t)
	seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	products, _, err := repo.Query(ProductQuery{Page: 1, PerPage: 12, Sort: "cheapest-first"})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	want := []string{"iphone-15-pro", "galaxy-s24", "airpods-pro-2", "sony-wh-1000xm5", "cheap-cable"}
	if got := productSlugs(products); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("relevance order want %v got %v", want, got)
	}
}

func TestProductQueryPreloadsOnlyPrimaryImage(t *testing.T) {
	db := setupRepositoryDB(t)
	seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	product, err := repo.GetBySlug("iphone-15-pro")
	if err != nil || product == nil {
		t.Fatalf("get product failed: %v", err)
	}
	images := []models.ProductImage{
		{ProductID: product.ID, URL: "/images/products/iphone-side.svg", SortOrder: 0},
		{ProductID: product.ID, URL: "/images/products/iphone-15-pro.svg", IsPrimary: true, SortOrder: 1},
	}
	if err := db.Create(&images).Error; err != nil {
		t.Fatalf("create images failed: %v", err)
	}

	products, _, err := repo.Query(ProductQuery{Page: 1, PerPage: 12, Search: "iphone"})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(products) != 1 || len(products[0].Images) != 1 {
		t.Fatalf("expected a single preloaded image, got %+v", products)
	}
	if img := products[0].PrimaryImage(); img == nil || img.URL != "/images/products/iphone-15-pro.svg" {
		t.Fatalf("unexpected primary image %+v", img)
	}

	detail, err := repo.GetBySlug("iphone-15-pro")
	if err != nil {
		t.Fatalf("get detail failed: %v", err)
	}
	if len(detail.Images) != 2 {
		t.Fatalf("detail should load every image, got %d", len(detail.Images))
	}
}

func TestProductGetBySlugSkipsInactive(t *testing.T) {
	db := setupRepositoryDB(t)
	seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	product, err := repo.GetBySlug("retired-phone")
	if err != nil {
		t.Fatalf("get by slug failed: %v", err)
	}
	if product != nil {
		t.Fatalf("inactive product should not be returned")
	}
}

func TestProductRelatedAndSearch(t *testing.T) {
	db := setupRepositoryDB(t)
	_, audio, _ := seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	sony, err := repo.GetBySlug("sony-wh-1000xm5")
	if err != nil || sony == nil {
		t.Fatalf("get sony failed: %v", err)
	}
	related, err := repo.ListRelated(sony.ID, &audio.ID, constants.RelatedProductsLimit)
	if err != nil {
		t.Fatalf("related failed: %v", err)
	}
	want := []string{"airpods-pro-2", "cheap-cable"}
	if got := productSlugs(related); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("related want %v got %v", want, got)
	}

	found, err := repo.Search("description of air", constants.SearchProductsLimit)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(found) != 1 || found[0].Slug != "airpods-pro-2" {
		t.Fatalf("search want airpods, got %v", productSlugs(found))
	}
}

func TestProductViewCountAndGroupCounts(t *testing.T) {
	db := setupRepositoryDB(t)
	phones, audio, apple := seedQueryCatalog(t, db)
	repo := NewProductRepository(db)

	product, _ := repo.GetBySlug("airpods-pro-2")
	if err := repo.IncrementViewCount(product.ID); err != nil {
		t.Fatalf("increment view failed: %v", err)
	}
	if err := repo.IncrementViewCount(product.ID); err != nil {
		t.Fatalf("increment view failed: %v", err)
	}
	reloaded, _ := repo.GetByID(product.ID)
	if reloaded.ViewCount != 2 {
		t.Fatalf("view count want 2 got %d", reloaded.ViewCount)
	}

	byCategory, err := repo.CountActiveByCategory()
	if err != nil {
		t.Fatalf("count by category failed: %v", err)
	}
	if byCategory[phones.ID] != 2 || byCategory[audio.ID] != 3 {
		t.Fatalf("unexpected category counts %v", byCategory)
	}
	byBrand, err := repo.CountActiveByBrand()
	if err != nil {
		t.Fatalf("count by brand failed: %v", err)
	}
	if byBrand[apple.ID] != 2 {
		t.Fatalf("apple count want 2 got %d", byBrand[apple.ID])
	}
}
