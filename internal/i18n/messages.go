package i18n

var messages = map[string]map[string]string{
	LocaleEnUS: {
		"error.bad_request":          "Invalid request parameters",
		"error.unauthorized":         "Please sign in first",
		"error.forbidden":            "You do not have permission to perform this action",
		"error.not_found":            "Resource not found",
		"error.internal_error":       "Something went wrong, please try again later",
		"error.too_many_requests":    "Too many requests, please try again in %d seconds",
		"error.token_invalid":        "Session expired, please sign in again",
		"error.auth_header_invalid":  "Malformed authorization header",
		"error.user_disabled":        "This account has been disabled",
		"error.invalid_credentials":  "Invalid email or password",
		"error.captcha_required":     "Please complete the captcha",
		"error.captcha_invalid":      "Captcha is incorrect or expired",
		"error.captcha_config":       "Captcha is not available",
		"error.product_not_found":    "Product not found",
		"error.variant_not_found":    "Product option not found",
		"error.category_not_found":   "Category not found",
		"error.brand_not_found":      "Brand not found",
		"error.shipping_not_found":   "Shipping method not found",
		"error.cart_not_found":       "Cart not found",
		"error.cart_item_not_found":  "Cart item not found",
		"error.cart_owner_required":  "Cart session missing, please enable cookies",
		"error.invalid_quantity":     "Quantity must be at least 1",
		"error.insufficient_stock":   "Not enough stock available",
		"error.coupon_invalid":       "Invalid coupon code",
		"error.coupon_expired":       "This coupon has expired",
		"error.coupon_limit_reached": "This coupon has reached its usage limit",
		"error.coupon_min_order":     "Order does not meet the coupon minimum amount",
		"error.coupon_code_exists":   "Coupon code already exists",
		"error.coupon_type_invalid":  "Unsupported coupon type",
		"error.coupon_value_invalid": "Coupon value is invalid",
		"error.coupon_not_found":     "Coupon not found",
		"error.user_not_found":       "User not found",
		"cart.item_added":            "Product added to cart",
		"cart.item_updated":          "Cart updated",
		"cart.item_removed":          "Item removed from cart",
		"cart.cleared":               "Cart cleared",
		"cart.coupon_applied":        "Coupon applied successfully",
		"cart.coupon_removed":        "Coupon removed",
	},
	LocaleZhCN: {
		"error.bad_request":          "请求参数错误",
		"error.unauthorized":         "请先登录",
		"error.forbidden":            "无权执行该操作",
		"error.not_found":            "资源不存在",
		"error.internal_error":       "服务异常，请稍后重试",
		"error.too_many_requests":    "请求过于频繁，请 %d 秒后重试",
		"error.token_invalid":        "登录已失效，请重新登录",
		"error.auth_header_invalid":  "认证头格式错误",
		"error.user_disabled":        "账号已被禁用",
		"error.invalid_credentials":  "邮箱或密码错误",
		"error.captcha_required":     "请完成验证码",
		"error.captcha_invalid":      "验证码错误或已过期",
		"error.captcha_config":       "验证码暂不可用",
		"error.product_not_found":    "商品不存在",
		"error.variant_not_found":    "商品规格不存在",
		"error.category_not_found":   "分类不存在",
		"error.brand_not_found":      "品牌不存在",
		"error.shipping_not_found":   "配送方式不存在",
		"error.cart_not_found":       "购物车不存在",
		"error.cart_item_not_found":  "购物车商品不存在",
		"error.cart_owner_required":  "缺少购物车会话，请启用 Cookie",
		"error.invalid_quantity":     "数量至少为 1",
		"error.insufficient_stock":   "库存不足",
		"error.coupon_invalid":       "优惠码无效",
		"error.coupon_expired":       "优惠券已过期",
		"error.coupon_limit_reached": "优惠券已达使用上限",
		"error.coupon_min_order":     "未达到优惠券最低消费金额",
		"error.coupon_code_exists":   "优惠码已存在",
		"error.coupon_type_invalid":  "不支持的优惠券类型",
		"error.coupon_value_invalid": "优惠券数值不合法",
		"error.coupon_not_found":     "优惠券不存在",
		"error.user_not_found":       "用户不存在",
		"cart.item_added":            "已加入购物车",
		"cart.item_updated":          "购物车已更新",
		"cart.item_removed":          "已从购物车移除",
		"cart.cleared":               "购物车已清空",
		"cart.coupon_applied":        "优惠券已使用",
		"cart.coupon_removed":        "优惠券已移除",
	},
}
