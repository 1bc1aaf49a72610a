package service

import "errors"

// 商品目录
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrVariantNotFound  = errors.New("product variant not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrBrandNotFound    = errors.New("brand not found")
)

// 购物车
var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrCartOwnerRequired = errors.New("cart owner required")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// 优惠券
var (
	ErrInvalidCoupon      = errors.New("invalid coupon code")
	ErrCouponExpired      = errors.New("coupon has expired")
	ErrCouponLimitReached = errors.New("coupon usage limit reached")
	ErrMinimumOrderNotMet = errors.New("minimum order amount not met")
	ErrCouponCodeExists   = errors.New("coupon code already exists")
	ErrCouponTypeInvalid  = errors.New("coupon type invalid")
	ErrCouponNotFound     = errors.New("coupon not found")
	ErrCouponValueInvalid = errors.New("coupon value invalid")
)

// 认证与验证码
var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserDisabled         = errors.New("user disabled")
	ErrInvalidToken         = errors.New("invalid token")
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// 配送
var (
	ErrShippingMethodNotFound = errors.New("shipping method not found")
)
