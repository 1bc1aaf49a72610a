package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNegotiate(t *testing.T) {
	cases := map[string]string{
		"":                         LocaleEnUS,
		"zh-CN,zh;q=0.9,en;q=0.8":  LocaleZhCN,
		"zh":                       LocaleZhCN,
		"en-GB,en;q=0.9":           LocaleEnUS,
		"fr-FR":                    LocaleEnUS,
		"not a language header!!!": LocaleEnUS,
	}
	for accept, want := range cases {
		if got := Negotiate(accept); got != want {
			t.Fatalf("Negotiate(%q): want %s got %s", accept, want, got)
		}
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?lang=zh-CN", nil)
	c.Request.Header.Set("Accept-Language", "en-US")

	if got := ResolveLocale(c); got != LocaleZhCN {
		t.Fatalf("want zh-CN got %s", got)
	}
}

func TestTranslateFallback(t *testing.T) {
	if got := T(LocaleZhCN, "error.coupon_expired"); got != "优惠券已过期" {
		t.Fatalf("unexpected zh message %s", got)
	}
	if got := T("de-DE", "error.coupon_expired"); got != "This coupon has expired" {
		t.Fatalf("unknown locale should fall back to en-US, got %s", got)
	}
	if got := T(LocaleEnUS, "error.missing_key"); got != "error.missing_key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
	if got := Sprintf(LocaleEnUS, "error.too_many_requests", 30); got != "Too many requests, please try again in 30 seconds" {
		t.Fatalf("unexpected formatted message %s", got)
	}
}

func TestEveryKeyTranslated(t *testing.T) {
	for key := range messages[LocaleEnUS] {
		if _, ok := messages[LocaleZhCN][key]; !ok {
			t.Fatalf("zh-CN missing key %s", key)
		}
	}
}
