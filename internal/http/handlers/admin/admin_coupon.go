package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	handlershared "github.com/techstore-next/internal/http/handlers/shared"
	"github.com/techstore-next/internal/http/response"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/repository"
	"github.com/techstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CouponRequest 创建/更新优惠券请求
type CouponRequest struct {
	Code           string        `json:"code" binding:"required"`
	Description    string        `json:"description"`
	Type           string        `json:"type" binding:"required"`
	Value          models.Money  `json:"value"`
	MinOrderAmount *models.Money `json:"min_order_amount"`
	MaxDiscount    *models.Money `json:"max_discount"`
	UsageLimit     *int          `json:"usage_limit"`
	UserLimit      *int          `json:"user_limit"`
	StartsAt       string        `json:"starts_at"`
	ExpiresAt      string        `json:"expires_at"`
	IsActive       *bool         `json:"is_active"`
}

func (r CouponRequest) toInput() (service.CouponInput, error) {
	startsAt, err := parseTimeNullable(r.StartsAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	expiresAt, err := parseTimeNullable(r.ExpiresAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	return service.CouponInput{
		Code:           r.Code,
		Description:    r.Description,
		Type:           r.Type,
		Value:          r.Value,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		UsageLimit:     r.UsageLimit,
		UserLimit:      r.UserLimit,
		StartsAt:       startsAt,
		ExpiresAt:      expiresAt,
		IsActive:       r.IsActive,
	}, nil
}

var couponAdminErrorRules = []struct {
	target error
	code   int
	key    string
}{
	{service.ErrCouponNotFound, response.CodeNotFound, "error.coupon_not_found"},
	{service.ErrCouponCodeExists, response.CodeConflict, "error.coupon_code_exists"},
	{service.ErrCouponTypeInvalid, response.CodeBadRequest, "error.coupon_type_invalid"},
	{service.ErrCouponValueInvalid, response.CodeBadRequest, "error.coupon_value_invalid"},
	{service.ErrInvalidCoupon, response.CodeBadRequest, "error.coupon_invalid"},
}

func respondCouponAdminError(c *gin.Context, err error) {
	for _, rule := range couponAdminErrorRules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, response.CodeInternal, "error.internal_error", err)
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	coupon, err := h.CouponAdminService.Create(input)
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	requestLog(c).Infow("admin_coupon_created", "operator_id", operatorID, "coupon_id", coupon.ID, "code", coupon.Code)
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	couponID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || couponID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	coupon, err := h.CouponAdminService.Update(uint(couponID), input)
	if err != nil {
		respondCouponAdminError(c, err)
		return
	}
	requestLog(c).Infow("admin_coupon_updated", "operator_id", operatorID, "coupon_id", coupon.ID, "code", coupon.Code)
	response.Success(c, coupon)
}

// GetAdminCoupons 获取优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.bad_request", err)
			return
		}
		isActive = &parsed
	}

	coupons, total, err := h.CouponAdminService.List(repository.CouponListFilter{
		Code:     strings.TrimSpace(c.Query("code")),
		Type:     strings.TrimSpace(c.Query("type")),
		IsActive: isActive,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, coupons, pagination)
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
