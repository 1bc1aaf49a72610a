package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"

	DefaultLocale = LocaleEnUS
	localeQuery   = "lang"
)

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.SimplifiedChinese,
}

var matcher = language.NewMatcher(supportedTags)

var tagLocales = map[language.Tag]string{
	language.AmericanEnglish:   LocaleEnUS,
	language.SimplifiedChinese: LocaleZhCN,
}

// ResolveLocale 根据 ?lang= 与 Accept-Language 协商语言，未匹配时回退 en-US
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if raw := strings.TrimSpace(c.Query(localeQuery)); raw != "" {
		return Negotiate(raw)
	}
	return Negotiate(c.GetHeader("Accept-Language"))
}

// Negotiate 将 Accept-Language 形式的语言偏好映射为受支持的 locale
func Negotiate(accept string) string {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return tagLocales[supportedTags[index]]
}

// T 翻译消息键，缺失时依次回退到默认语言与键本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	table, ok := messages[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
