package service

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahavlova/portfolio-backend/internal/pkg/apperror"
)

// SessionCookieName — имя cookie с сессией администратора.
const SessionCookieName = "auth-session"

// SessionManager выпускает и проверяет сессионные JWT администратора.
// Админ один, поэтому роль и идентификатор пользователя не нужны: валидная
// подпись и срок действия равны валидной сессии.
type SessionManager struct {
	secret       []byte
	ttl          time.Duration
	username     string
	passwordHash string
}

// NewSessionManager создаёт менеджер сессий с учётными данными из конфигурации.
func NewSessionManager(secret, username, passwordHash string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret:       []byte(secret),
		ttl:          ttl,
		username:     username,
		passwordHash: passwordHash,
	}
}

// TTL возвращает срок жизни сессии для настройки cookie.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Login сверяет учётные данные и выпускает сессионный токен. Сверка имени
// выполняется за постоянное время, пароль — через bcrypt.
func (m *SessionManager) Login(username, password string) (string, error) {
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(m.passwordHash), []byte(password)) == nil
	if !nameOK || !passOK {
		return "", apperror.New(apperror.ErrCodeUnauthorized, "неверное имя пользователя или пароль")
	}
	return m.issue()
}

// Validate проверяет подпись и срок действия сессионного токена.
func (m *SessionManager) Validate(token string) bool {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	return err == nil && parsed.Valid
}

func (m *SessionManager) issue() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить сессию")
	}
	return signed, nil
}
