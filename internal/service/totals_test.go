package service

import (
	"testing"

	"github.com/techstore-next/internal/config"
	"github.com/techstore-next/internal/constants"
	"github.com/techstore-next/internal/models"
)

func cartLine(price string, qty int) models.CartItem {
	return models.CartItem{Price: models.MustMoney(price), Quantity: qty}
}

func TestCalculateTotals(t *testing.T) {
	pricing := DefaultPricingConfig()
	cases := []struct {
		name     string
		items    []models.CartItem
		coupon   *models.Coupon
		subtotal string
		discount string
		shipping string
		tax      string
		total    string
	}{
		{
			name:     "empty cart pays flat shipping",
			subtotal: "0.00", discount: "0.00", shipping: "5.99", tax: "0.00", total: "5.99",
		},
		{
			name:     "below threshold",
			items:    []models.CartItem{cartLine("19.99", 2)},
			subtotal: "39.98", discount: "0.00", shipping: "5.99", tax: "8.80", total: "45.97",
		},
		{
			name:     "threshold is inclusive",
			items:    []models.CartItem{cartLine("50.00", 2)},
			subtotal: "100.00", discount: "0.00", shipping: "0.00", tax: "22.00", total: "100.00",
		},
		{
			name:     "percentage with cap",
			items:    []models.CartItem{cartLine("300.00", 1)},
			coupon:   &models.Coupon{Type: constants.CouponTypePercentage, Value: models.MustMoney("20"), MaxDiscount: models.MoneyPtr("40")},
			subtotal: "300.00", discount: "40.00", shipping: "0.00", tax: "57.20", total: "260.00",
		},
		{
			name:     "oversize fixed coupon floors total",
			items:    []models.CartItem{cartLine("10.00", 1)},
			coupon:   &models.Coupon{Type: constants.CouponTypeFixed, Value: models.MustMoney("50")},
			subtotal: "10.00", discount: "50.00", shipping: "5.99", tax: "0.00", total: "0.00",
		},
		{
			name:     "free shipping coupon",
			items:    []models.CartItem{cartLine("30.00", 1)},
			coupon:   &models.Coupon{Type: constants.CouponTypeFreeShipping},
			subtotal: "30.00", discount: "0.00", shipping: "0.00", tax: "6.60", total: "30.00",
		},
	}
	for _, tc := range cases {
		got := CalculateTotals(tc.items, tc.coupon, pricing)
		pairs := [][3]string{
			{"subtotal", tc.subtotal, got.Subtotal.String()},
			{"discount", tc.discount, got.Discount.String()},
			{"shipping", tc.shipping, got.Shipping.String()},
			{"tax", tc.tax, got.Tax.String()},
			{"total", tc.total, got.Total.String()},
		}
		for _, p := range pairs {
			if p[1] != p[2] {
				t.Fatalf("%s %s: want %s got %s", tc.name, p[0], p[1], p[2])
			}
		}
	}
}

func TestPricingConfigFromFallsBackOnInvalid(t *testing.T) {
	pricing := PricingConfigFrom(config.CartConfig{
		FreeShippingThreshold: "250",
		FlatShippingRate:      "not-a-number",
		TaxRate:               "0.1",
	})
	if pricing.FreeShippingThreshold.String() != "250" {
		t.Fatalf("want threshold 250 got %s", pricing.FreeShippingThreshold)
	}
	if pricing.FlatShippingRate.String() != "5.99" {
		t.Fatalf("want fallback shipping 5.99 got %s", pricing.FlatShippingRate)
	}
	if pricing.TaxRate.String() != "0.1" {
		t.Fatalf("want tax 0.1 got %s", pricing.TaxRate)
	}
}
