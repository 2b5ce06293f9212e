package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahavlova/portfolio-backend/internal/http/middleware"
	"github.com/ahavlova/portfolio-backend/internal/service"
)

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("správné-heslo"), bcrypt.MinCost)
	require.NoError(t, err)

	sessions := service.NewSessionManager("test-secret", "adela", string(hash), time.Hour)
	handler := NewAuthHandler(sessions, false)

	r := gin.New()
	r.Use(middleware.Session(sessions))
	r.POST("/login", handler.Login)
	r.POST("/logout", handler.Logout)
	r.GET("/session", handler.Session)
	return r
}

func TestAuthHandler_Login(t *testing.T) {
	r := authRouter(t)

	body := `{"username":"adela","password":"správné-heslo"}`
	req, _ := http.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, service.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	r := authRouter(t)

	body := `{"username":"adela","password":"špatné-heslo"}`
	req, _ := http.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandler_Session_Anonymous(t *testing.T) {
	r := authRouter(t)

	req, _ := http.NewRequest("GET", "/session", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":false`)
}

func TestAuthHandler_Session_AfterLogin(t *testing.T) {
	r := authRouter(t)

	body := `{"username":"adela","password":"správné-heslo"}`
	loginReq, _ := http.NewRequest("POST", "/login", strings.NewReader(body))
	loginReq.Header.Set("Content-Type", "application/json")
	loginW := httptest.NewRecorder()
	r.ServeHTTP(loginW, loginReq)
	require.Equal(t, http.StatusOK, loginW.Code)

	req, _ := http.NewRequest("GET", "/session", nil)
	for _, c := range loginW.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestAuthHandler_Logout_ExpiresCookie(t *testing.T) {
	r := authRouter(t)

	req, _ := http.NewRequest("POST", "/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}
