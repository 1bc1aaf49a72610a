package models

import (
	"encoding/json"
	"testing"
)

func TestMoneyMarshalJSONUsesTwoDecimals(t *testing.T) {
	payload, err := json.Marshal(struct {
		Price Money `json:"price"`
	}{Price: MustMoney("1199")})
	if err != nil {
		t.Fatalf("marshal money failed: %v", err)
	}
	if string(payload) != `{"price":"1199.00"}` {
		t.Fatalf("unexpected payload: %s", string(payload))
	}
}

func TestMoneyUnmarshalJSONAcceptsStringAndNumber(t *testing.T) {
	var fromString Money
	if err := json.Unmarshal([]byte(`"12.345"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	if fromString.String() != "12.35" {
		t.Fatalf("string money want 12.35 got %s", fromString.String())
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte(`5.99`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if fromNumber.String() != "5.99" {
		t.Fatalf("number money want 5.99 got %s", fromNumber.String())
	}

	var invalid Money
	if err := json.Unmarshal([]byte(`"abc"`), &invalid); err == nil {
		t.Fatalf("expected error for invalid money")
	}
}

func TestMoneyScanRoundsToCents(t *testing.T) {
	var m Money
	if err := m.Scan(float64(5.994)); err != nil {
		t.Fatalf("scan float failed: %v", err)
	}
	if m.String() != "5.99" {
		t.Fatalf("scan want 5.99 got %s", m.String())
	}
	if err := m.Scan(int64(1299)); err != nil {
		t.Fatalf("scan int failed: %v", err)
	}
	if m.String() != "1299.00" {
		t.Fatalf("scan want 1299.00 got %s", m.String())
	}
}

func TestProductPrimaryImage(t *testing.T) {
	product := &Product{Images: []ProductImage{
		{ID: 1, URL: "/images/side.svg"},
		{ID: 2, URL: "/images/front.svg", IsPrimary: true},
	}}
	img := product.PrimaryImage()
	if img == nil || img.ID != 2 {
		t.Fatalf("primary image want id 2 got %+v", img)
	}
	if (&Product{}).PrimaryImage() != nil {
		t.Fatalf("product without images should have no primary image")
	}
}

func TestVariantEffectivePrice(t *testing.T) {
	base := MustMoney("100")
	var none *ProductVariant
	if got := none.EffectivePrice(base); got.String() != "100.00" {
		t.Fatalf("nil variant price want 100.00 got %s", got.String())
	}
	if got := (&ProductVariant{}).EffectivePrice(base); got.String() != "100.00" {
		t.Fatalf("variant without price want 100.00 got %s", got.String())
	}
	if got := (&ProductVariant{Price: MoneyPtr("120.5")}).EffectivePrice(base); got.String() != "120.50" {
		t.Fatalf("variant price want 120.50 got %s", got.String())
	}
}
