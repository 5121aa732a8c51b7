// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

var supportedLanguages = map[string]bool{
	"en":    true,
	"zh_TW": true,
}

// I18n resolves the request language from Accept-Language and stores it in
// the context for the response helpers.
func I18n(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := parseAcceptLanguage(c.GetHeader("Accept-Language"))
		if lang == "" {
			lang = defaultLang
		}

		c.Set("lang", lang)
		c.Next()
	}
}

func parseAcceptLanguage(header string) string {
	if header == "" {
		return ""
	}

	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])

		// zh-TW and zh-Hant map onto the zh_TW locale.
		normalized := strings.ReplaceAll(tag, "-", "_")
		if strings.HasPrefix(normalized, "zh_TW") || strings.HasPrefix(normalized, "zh_Hant") {
			return "zh_TW"
		}

		base := strings.SplitN(normalized, "_", 2)[0]
		if supportedLanguages[base] {
			return base
		}
	}

	return ""
}
