package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ahavlova/portfolio-backend/internal/service"
)

// ContextIsAuthenticatedKey — ключ gin.Context с результатом проверки сессии.
// Флаг живёт ровно один запрос: каждая проверка читает cookie заново.
const ContextIsAuthenticatedKey = "isAuthenticated"

// Session проверяет сессионную cookie и кладёт результат в контекст
// запроса. Сама по себе ничего не запрещает: решение принимают
// RequireAdmin и PageGate ниже по цепочке.
func Session(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated := false
		if token, err := c.Cookie(service.SessionCookieName); err == nil && token != "" {
			authenticated = sessions.Validate(token)
		}
		c.Set(ContextIsAuthenticatedKey, authenticated)
		c.Next()
	}
}

// IsAuthenticated возвращает результат проверки сессии текущего запроса.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(ContextIsAuthenticatedKey)
}

// RequireAdmin закрывает API-маршруты администратора.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}
		c.Next()
	}
}

// PageGate перенаправляет страницы вместо возврата JSON: закрытые
// административные страницы ведут на форму входа, а форма входа при живой
// сессии сразу в админку.
func PageGate(adminPrefix, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		authenticated := IsAuthenticated(c)

		if strings.HasPrefix(path, adminPrefix) && !authenticated {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		if path == loginPath && authenticated {
			c.Redirect(http.StatusFound, adminPrefix)
			c.Abort()
			return
		}
		c.Next()
	}
}
