package public

import (
	"errors"

	"github.com/techstore-next/internal/http/response"
	"github.com/techstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, key: "error.category_not_found"},
	{target: service.ErrBrandNotFound, code: response.CodeNotFound, key: "error.brand_not_found"},
	{target: service.ErrShippingMethodNotFound, code: response.CodeNotFound, key: "error.shipping_not_found"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartOwnerRequired, code: response.CodeBadRequest, key: "error.cart_owner_required"},
	{target: service.ErrCartNotFound, code: response.CodeNotFound, key: "error.cart_not_found"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.invalid_quantity"},
	{target: service.ErrInsufficientStock, code: response.CodeBadRequest, key: "error.insufficient_stock"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrVariantNotFound, code: response.CodeNotFound, key: "error.variant_not_found"},
}

var couponErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidCoupon, code: response.CodeBadRequest, key: "error.coupon_invalid"},
	{target: service.ErrCouponExpired, code: response.CodeBadRequest, key: "error.coupon_expired"},
	{target: service.ErrCouponLimitReached, code: response.CodeBadRequest, key: "error.coupon_limit_reached"},
	{target: service.ErrMinimumOrderNotMet, code: response.CodeBadRequest, key: "error.coupon_min_order"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},
	{target: service.ErrCaptchaConfigInvalid, code: response.CodeInternal, key: "error.captcha_config"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, key: "error.user_disabled"},
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.internal_error")
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal_error")
}

func respondCouponError(c *gin.Context, err error) {
	respondWithMappedError(c, err, concatMappedHandlerErrors(couponErrorRules, cartErrorRules), response.CodeInternal, "error.internal_error")
}

func respondLoginError(c *gin.Context, err error) {
	respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "error.internal_error")
}
