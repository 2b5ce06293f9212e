package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LocaleCookieName — cookie с выбранным языком сайта.
const LocaleCookieName = "locale"

// ContextLocaleKey — ключ gin.Context с языком текущего запроса.
const ContextLocaleKey = "locale"

var supportedLocales = map[string]bool{"cs": true, "en": true}

// Locale определяет язык запроса: префикс пути, затем cookie, затем
// Accept-Language, затем язык по умолчанию. Страницы без языкового
// префикса перенаправляются на свой язык; служебные и файловые пути
// пропускаются без изменений.
func Locale(defaultLocale string) gin.HandlerFunc {
	if !supportedLocales[defaultLocale] {
		defaultLocale = "cs"
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipLocale(path) {
			c.Set(ContextLocaleKey, resolveLocale(c, defaultLocale))
			c.Next()
			return
		}

		if loc, ok := localeFromPath(path); ok {
			c.Set(ContextLocaleKey, loc)
			c.SetCookie(LocaleCookieName, loc, 365*24*3600, "/", "", false, false)
			c.Next()
			return
		}

		loc := resolveLocale(c, defaultLocale)
		target := "/" + loc + path
		if c.Request.URL.RawQuery != "" {
			target += "?" + c.Request.URL.RawQuery
		}
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// CurrentLocale возвращает язык текущего запроса.
func CurrentLocale(c *gin.Context) string {
	if loc, ok := c.Get(ContextLocaleKey); ok {
		if s, ok := loc.(string); ok {
			return s
		}
	}
	return "cs"
}

// skipLocale отфильтровывает пути, которым языковой префикс не нужен:
// API, файлы, служебные маршруты и всё с точкой в последнем сегменте.
func skipLocale(path string) bool {
	for _, prefix := range []string{"/api", "/media", "/health", "/ws"} {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}

func localeFromPath(path string) (string, bool) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, _, _ := strings.Cut(trimmed, "/")
	if supportedLocales[seg] {
		return seg, true
	}
	return "", false
}

// resolveLocale выбирает язык без подсказки в пути.
func resolveLocale(c *gin.Context, defaultLocale string) string {
	if loc, err := c.Cookie(LocaleCookieName); err == nil && supportedLocales[loc] {
		return loc
	}
	if loc := matchAcceptLanguage(c.GetHeader("Accept-Language")); loc != "" {
		return loc
	}
	return defaultLocale
}

// matchAcceptLanguage находит первый поддерживаемый язык из заголовка.
// Весов достаточно в порядке перечисления: браузеры сортируют сами.
func matchAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		lang, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		lang, _, _ = strings.Cut(lang, "-")
		lang = strings.ToLower(lang)
		if supportedLocales[lang] {
			return lang
		}
	}
	return ""
}
