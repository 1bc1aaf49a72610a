package public

import (
	"strconv"

	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/http/response"
	"github.com/techstore-next/internal/i18n"
	"github.com/techstore-next/internal/models"
	"github.com/techstore-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint        `json:"product_id" binding:"required"`
	VariantID *uint       `json:"variant_id"`
	Quantity  *int        `json:"quantity"`
	Options   models.JSON `json:"options"`
}

// UpdateCartItemRequest 修改数量请求，数量小于等于 0 时删除该项
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ApplyCouponRequest 应用优惠券请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetCart 获取购物车明细与金额
func (h *Handler) GetCart(c *gin.Context) {
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}
	summary, err := h.CartService.Summary(cart)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, summary)
}

// GetCartCount 购物车件数，不会创建购物车
func (h *Handler) GetCartCount(c *gin.Context) {
	count, err := h.CartService.ItemCount(cartOwner(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// AddCartItem 加入购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	quantity := constants.DefaultAddCartQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}
	if err := h.CartService.AddItem(cart, service.AddCartItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  quantity,
		Options:   req.Options,
	}); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCartMutation(c, cart, "cart.item_added")
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}
	if err := h.CartService.UpdateItemQuantity(cart, itemID, *req.Quantity); err != nil {
		respondCartError(c, err)
		return
	}
	msgKey := "cart.item_updated"
	if *req.Quantity <= 0 {
		msgKey = "cart.item_removed"
	}
	h.respondCartMutation(c, cart, msgKey)
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	itemID, ok := parseItemID(c)
	if !ok {
		return
	}
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(cart, itemID); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCartMutation(c, cart, "cart.item_removed")
}

// ClearCart 清空购物车并移除优惠券
func (h *Handler) ClearCart(c *gin.Context) {
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(cart); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCartMutation(c, cart, "cart.cleared")
}

// ApplyCartCoupon 应用优惠券
func (h *Handler) ApplyCartCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}
	if _, err := h.CartService.ApplyCoupon(cart, req.Code); err != nil {
		respondCouponError(c, err)
		return
	}
	h.respondCartMutation(c, cart, "cart.coupon_applied")
}

// RemoveCartCoupon 移除优惠券
func (h *Handler) RemoveCartCoupon(c *gin.Context) {
	cart, ok := h.resolveCart(c)
	if !ok {
		return
	}
	if err := h.CartService.RemoveCoupon(cart); err != nil {
		respondCartError(c, err)
		return
	}
	h.respondCartMutation(c, cart, "cart.coupon_removed")
}

func (h *Handler) resolveCart(c *gin.Context) (*models.Cart, bool) {
	cart, err := h.CartService.GetOrCreate(cartOwner(c))
	if err != nil {
		respondCartError(c, err)
		return nil, false
	}
	return cart, true
}

// respondCartMutation 变更后返回最新购物车与件数
func (h *Handler) respondCartMutation(c *gin.Context, cart *models.Cart, msgKey string) {
	summary, err := h.CartService.Summary(cart)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), msgKey), gin.H{
		"cart":       summary,
		"cart_count": summary.ItemCount,
	})
}

func parseItemID(c *gin.Context) (uint, bool) {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return 0, false
	}
	return uint(itemID), true
}
