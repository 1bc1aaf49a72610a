package service

import (
	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/models"

	"github.com/shopspring/decimal"
)

// PricingConfig 购物车计价参数
type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingRate      decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultPricingConfig 默认计价参数：满 100 包邮，否则运费 5.99，税率 22%
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		FreeShippingThreshold: decimal.NewFromInt(100),
		FlatShippingRate:      decimal.RequireFromString("5.99"),
		TaxRate:               decimal.RequireFromString("0.22"),
	}
}

// PricingConfigFrom 从应用配置读取计价参数
func PricingConfigFrom(cfg config.CartConfig) PricingConfig {
	values := cfg.Pricing()
	return PricingConfig{
		FreeShippingThreshold: values.FreeShippingThreshold,
		FlatShippingRate:      values.FlatShippingRate,
		TaxRate:               values.TaxRate,
	}
}

// CartTotals 购物车金额汇总（实时计算，不落库）
type CartTotals struct {
	ItemCount int          `json:"item_count"`
	Subtotal  models.Money `json:"subtotal"`
	Discount  models.Money `json:"discount"`
	Shipping  models.Money `json:"shipping"`
	Tax       models.Money `json:"tax"`
	Total     models.Money `json:"total"`
}

// CalculateTotals 计算小计、优惠、运费、税费与合计
func CalculateTotals(items []models.CartItem, coupon *models.Coupon, pricing PricingConfig) CartTotals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}

	discount := CouponDiscount(coupon, subtotal)

	shipping := pricing.FlatShippingRate
	if subtotal.GreaterThanOrEqual(pricing.FreeShippingThreshold) || IsFreeShippingCoupon(coupon) {
		shipping = decimal.Zero
	}

	taxable := decimal.Max(decimal.Zero, subtotal.Sub(discount))
	total := decimal.Max(decimal.Zero, subtotal.Sub(discount).Add(shipping))

	return CartTotals{
		ItemCount: count,
		Subtotal:  models.NewMoneyFromDecimal(subtotal),
		Discount:  models.NewMoneyFromDecimal(discount),
		Shipping:  models.NewMoneyFromDecimal(shipping),
		Tax:       models.NewMoneyFromDecimal(taxable.Mul(pricing.TaxRate)),
		Total:     models.NewMoneyFromDecimal(total),
	}
}
