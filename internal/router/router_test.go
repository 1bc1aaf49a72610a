package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/techstore-next/internal/authz"
	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/provider"
	"github.com/techstore-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type routerTestEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	container *provider.Container
}

func setupRouterTest(t *testing.T) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.Open("sqlite", dsn, logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	require.NoError(t, models.MigrateDB(db))

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		UserJWT: config.JWTConfig{SecretKey: "router-test-secret", ExpireHours: 1},
		Session: config.SessionConfig{CookieName: "session_id", MaxAgeDays: 30},
		Captcha: config.CaptchaConfig{Provider: constants.CaptchaProviderNone},
	}
	return &routerTestEnv{db: db, cfg: cfg, container: provider.NewContainerWithDB(cfg, db)}
}

func (e *routerTestEnv) createUser(t *testing.T, email, role string, active bool) *models.User {
	t.Helper()
	hashed, err := service.HashPassword("secret-pass")
	require.NoError(t, err)
	user := &models.User{Email: email, PasswordHash: hashed, Role: role, IsActive: true}
	require.NoError(t, e.db.Create(user).Error)
	if !active {
		require.NoError(t, e.db.Model(user).Update("is_active", false).Error)
		user.IsActive = false
	}
	return user
}

func (e *routerTestEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := e.container.UserAuthService.GenerateUserJWT(user)
	require.NoError(t, err)
	return token
}

// engine 组装完整路由，管理端授权使用内置角色
func (e *routerTestEnv) engine(t *testing.T) *gin.Engine {
	t.Helper()
	svc, err := authz.NewService(e.db)
	require.NoError(t, err)
	require.NoError(t, svc.BootstrapBuiltinRoles())
	e.container.AuthzService = svc
	return SetupRouter(e.cfg, e.container)
}

func (e *routerTestEnv) seedCatalog(t *testing.T) (phone, accessory *models.Product) {
	t.Helper()
	phones := &models.Category{Name: "Phones", Slug: "phones", IsActive: true}
	require.NoError(t, e.db.Create(phones).Error)
	phone = &models.Product{SKU: "PH-1", Name: "Phone", Slug: "phone", Price: models.MustMoney("100.00"), Stock: 5, CategoryID: &phones.ID, IsActive: true}
	accessory = &models.Product{SKU: "AC-1", Name: "Case", Slug: "case", Price: models.MustMoney("20.00"), Stock: 50, CategoryID: &phones.ID, IsActive: true}
	require.NoError(t, e.db.Create(phone).Error)
	require.NoError(t, e.db.Create(accessory).Error)
	minOrder := models.MustMoney("50.00")
	require.NoError(t, e.db.Create(&models.Coupon{Code: "SAVE20", Type: constants.CouponTypePercentage, Value: models.MustMoney("20"), MinOrderAmount: &minOrder, IsActive: true}).Error)
	return phone, accessory
}

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Page      int   `json:"page"`
		PageSize  int   `json:"page_size"`
		Total     int64 `json:"total"`
		TotalPage int64 `json:"total_page"`
		Pages     []int `json:"pages"`
	} `json:"pagination"`
}

type requestOption func(*http.Request)

func withCookie(cookie *http.Cookie) requestOption {
	return func(req *http.Request) {
		if cookie != nil {
			req.AddCookie(cookie)
		}
	}
}

func withBearer(token string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func perform(t *testing.T, r http.Handler, method, path string, body interface{}, opts ...requestOption) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w, resp
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.StatusCode
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session_id" {
			return cookie
		}
	}
	t.Fatalf("session cookie not issued")
	return nil
}

func TestProductListRoute(t *testing.T) {
	env := setupRouterTest(t)
	env.seedCatalog(t)
	r := env.engine(t)

	_, resp := perform(t, r, http.MethodGet, "/api/v1/public/products?per_page=1&sort=price-asc", nil)
	require.Equal(t, 0, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "case", products[0].Slug)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	assert.Equal(t, int64(2), resp.Pagination.TotalPage)
	assert.Equal(t, []int{1, 2}, resp.Pagination.Pages)

	_, resp = perform(t, r, http.MethodGet, "/api/v1/public/products?category=unknown", nil)
	require.Equal(t, 0, resp.StatusCode)
	assert.Equal(t, int64(0), resp.Pagination.Total)

	_, resp = perform(t, r, http.MethodGet, "/api/v1/public/products?price_min=abc", nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestProductDetailRoutes(t *testing.T) {
	env := setupRouterTest(t)
	env.seedCatalog(t)
	r := env.engine(t)

	_, resp := perform(t, r, http.MethodGet, "/api/v1/public/products/phone", nil)
	require.Equal(t, 0, resp.StatusCode)
	var product models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &product))
	assert.Equal(t, "Phone", product.Name)

	_, resp = perform(t, r, http.MethodGet, "/api/v1/public/products/missing", nil)
	assert.Equal(t, 404, resp.StatusCode)

	_, resp = perform(t, r, http.MethodGet, "/api/v1/public/products/phone/related", nil)
	require.Equal(t, 0, resp.StatusCode)
	var related []models.Product
	require.NoError(t, json.Unmarshal(resp.Data, &related))
	require.Len(t, related, 1)
	assert.Equal(t, "case", related[0].Slug)

	_, resp = perform(t, r, http.MethodGet, "/api/v1/public/search?q=p", nil)
	require.Equal(t, 0, resp.StatusCode)
	assert.JSONEq(t, "[]", string(resp.Data))

	_, resp = perform(t, r, http.MethodGet, "/api/v1/public/categories/nope", nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAnonymousCartFlow(t *testing.T) {
	env := setupRouterTest(t)
	phone, accessory := env.seedCatalog(t)
	r := env.engine(t)

	w, resp := perform(t, r, http.MethodGet, "/api/v1/cart/count", nil)
	require.Equal(t, 0, resp.StatusCode)
	assert.JSONEq(t, `{"count":0}`, string(resp.Data))
	cookie := sessionCookie(t, w)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": accessory.ID, "quantity": 2}, withCookie(cookie))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/cart/coupon", gin.H{"code": "save20"}, withCookie(cookie))
	assert.Equal(t, 400, resp.StatusCode, "subtotal 40 is below the coupon minimum")

	_, resp = perform(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": phone.ID}, withCookie(cookie))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/cart/coupon", gin.H{"code": "save20"}, withCookie(cookie))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var mutation struct {
		Cart struct {
			Items    []models.CartItem `json:"items"`
			Subtotal string            `json:"subtotal"`
			Discount string            `json:"discount"`
			Shipping string            `json:"shipping"`
			Total    string            `json:"total"`
		} `json:"cart"`
		CartCount int `json:"cart_count"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &mutation))
	assert.Equal(t, 3, mutation.CartCount)
	assert.Equal(t, "140.00", mutation.Cart.Subtotal)
	assert.Equal(t, "28.00", mutation.Cart.Discount)
	assert.Equal(t, "0.00", mutation.Cart.Shipping)
	assert.Equal(t, "112.00", mutation.Cart.Total)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": phone.ID, "quantity": 10}, withCookie(cookie))
	assert.Equal(t, 400, resp.StatusCode, "stock is 5")

	itemID := mutation.Cart.Items[0].ID
	_, resp = perform(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/cart/items/%d", itemID), gin.H{"quantity": 0}, withCookie(cookie))
	require.Equal(t, 0, resp.StatusCode)

	_, resp = perform(t, r, http.MethodPatch, fmt.Sprintf("/api/v1/cart/items/%d", itemID), gin.H{"quantity": 1}, withCookie(cookie))
	assert.Equal(t, 404, resp.StatusCode)

	_, resp = perform(t, r, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", itemID), nil, withCookie(cookie))
	assert.Equal(t, 0, resp.StatusCode, "removing an absent item is a no-op")

	_, resp = perform(t, r, http.MethodDelete, "/api/v1/cart", nil, withCookie(cookie))
	require.Equal(t, 0, resp.StatusCode)
	_, resp = perform(t, r, http.MethodGet, "/api/v1/cart/count", nil, withCookie(cookie))
	assert.JSONEq(t, `{"count":0}`, string(resp.Data))
}

func TestLoginAndUserCart(t *testing.T) {
	env := setupRouterTest(t)
	_, accessory := env.seedCatalog(t)
	env.createUser(t, "demo@example.com", constants.UserRoleCustomer, true)
	r := env.engine(t)

	_, resp := perform(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "demo@example.com", "password": "wrong"})
	assert.Equal(t, 401, resp.StatusCode)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "demo@example.com", "password": "secret-pass"})
	require.Equal(t, 0, resp.StatusCode)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(t, login.Token)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": accessory.ID}, withBearer(login.Token))
	require.Equal(t, 0, resp.StatusCode)

	// 更换匿名会话后仍命中同一用户购物车
	_, resp = perform(t, r, http.MethodGet, "/api/v1/cart/count", nil, withBearer(login.Token), withCookie(&http.Cookie{Name: "session_id", Value: "ignored"}))
	assert.JSONEq(t, `{"count":1}`, string(resp.Data))

	_, resp = perform(t, r, http.MethodGet, "/api/v1/auth/me", nil, withBearer(login.Token))
	require.Equal(t, 0, resp.StatusCode)
	_, resp = perform(t, r, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAdminCouponRoutes(t *testing.T) {
	env := setupRouterTest(t)
	admin := env.createUser(t, "admin@example.com", constants.UserRoleAdmin, true)
	customer := env.createUser(t, "shopper@example.com", constants.UserRoleCustomer, true)
	r := env.engine(t)

	body := gin.H{"code": "spring15", "type": constants.CouponTypePercentage, "value": "15"}

	_, resp := perform(t, r, http.MethodPost, "/api/v1/admin/coupons", body)
	assert.Equal(t, 401, resp.StatusCode)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/admin/coupons", body, withBearer(env.token(t, customer)))
	assert.Equal(t, 403, resp.StatusCode)

	adminToken := env.token(t, admin)
	_, resp = perform(t, r, http.MethodPost, "/api/v1/admin/coupons", body, withBearer(adminToken))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var created models.Coupon
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, "SPRING15", created.Code)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/admin/coupons", body, withBearer(adminToken))
	assert.Equal(t, 409, resp.StatusCode)

	_, resp = perform(t, r, http.MethodPut, fmt.Sprintf("/api/v1/admin/coupons/%d", created.ID), gin.H{"code": "spring15", "type": "bogus", "value": "1"}, withBearer(adminToken))
	assert.Equal(t, 400, resp.StatusCode)

	_, resp = perform(t, r, http.MethodGet, "/api/v1/admin/coupons?code=spring", nil, withBearer(adminToken))
	require.Equal(t, 0, resp.StatusCode)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

func TestAdminAuthzUserRoles(t *testing.T) {
	env := setupRouterTest(t)
	admin := env.createUser(t, "admin@example.com", constants.UserRoleAdmin, true)
	customer := env.createUser(t, "manager@example.com", constants.UserRoleCustomer, true)
	r := env.engine(t)
	adminToken := env.token(t, admin)
	customerToken := env.token(t, customer)
	couponBody := gin.H{"code": "staff5", "type": constants.CouponTypeFixed, "value": "5"}

	_, resp := perform(t, r, http.MethodPost, "/api/v1/admin/coupons", couponBody, withBearer(customerToken))
	assert.Equal(t, 403, resp.StatusCode)

	rolesPath := fmt.Sprintf("/api/v1/admin/authz/users/%d/roles", customer.ID)
	_, resp = perform(t, r, http.MethodPut, rolesPath, gin.H{"roles": []string{"coupon_manager"}}, withBearer(adminToken))
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	_, resp = perform(t, r, http.MethodGet, rolesPath, nil, withBearer(adminToken))
	require.Equal(t, 0, resp.StatusCode)
	var assigned struct {
		Roles []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &assigned))
	assert.Equal(t, []string{"role:coupon_manager"}, assigned.Roles)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/admin/coupons", couponBody, withBearer(customerToken))
	assert.Equal(t, 0, resp.StatusCode, resp.Msg)

	_, resp = perform(t, r, http.MethodGet, "/api/v1/admin/authz/roles", nil, withBearer(customerToken))
	assert.Equal(t, 0, resp.StatusCode)

	_, resp = perform(t, r, http.MethodPost, "/api/v1/admin/authz/roles", gin.H{"role": "support"}, withBearer(customerToken))
	assert.Equal(t, 403, resp.StatusCode)

	_, resp = perform(t, r, http.MethodGet, "/api/v1/admin/authz/users/9999/roles", nil, withBearer(adminToken))
	assert.Equal(t, 404, resp.StatusCode)
}

func TestBuildAdminPermissionCatalog(t *testing.T) {
	env := setupRouterTest(t)
	r := env.engine(t)

	items := buildAdminPermissionCatalog(r)
	permissions := make([]string, 0, len(items))
	for _, item := range items {
		permissions = append(permissions, item.Permission)
		assert.NotEqual(t, "OPTIONS", item.Method)
	}
	assert.Contains(t, permissions, "GET:/admin/coupons")
	assert.Contains(t, permissions, "POST:/admin/coupons")
	assert.Contains(t, permissions, "PUT:/admin/coupons/:id")
	assert.Contains(t, permissions, "PUT:/admin/authz/users/:id/roles")
	assert.Equal(t, "coupons", deriveAdminPermissionModule("/admin/coupons/:id"))
}
