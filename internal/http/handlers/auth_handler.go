package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ahavlova/portfolio-backend/internal/dto"
	"github.com/ahavlova/portfolio-backend/internal/http/handlers/common"
	"github.com/ahavlova/portfolio-backend/internal/http/middleware"
	"github.com/ahavlova/portfolio-backend/internal/logger"
	"github.com/ahavlova/portfolio-backend/internal/service"
)

// AuthHandler управляет входом и выходом администратора.
type AuthHandler struct {
	sessions *service.SessionManager
	// secureCookie включает флаг Secure у сессионной cookie (production).
	secureCookie bool
}

// NewAuthHandler создаёт новый хэндлер.
func NewAuthHandler(sessions *service.SessionManager, secureCookie bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, secureCookie: secureCookie}
}

// Login обрабатывает POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, "имя пользователя и пароль обязательны")
		return
	}

	token, err := h.sessions.Login(req.Username, req.Password)
	if err != nil {
		logger.Log.WithField("ip", c.ClientIP()).Warn("неудачная попытка входа")
		common.RespondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(service.SessionCookieName, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, dto.LoginResponse{OK: true})
}

// Logout обрабатывает POST /api/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(service.SessionCookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, dto.LoginResponse{OK: true})
}

// Session обрабатывает GET /api/session: фронтенд проверяет, жива ли сессия.
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SessionResponse{Authenticated: middleware.IsAuthenticated(c)})
}
