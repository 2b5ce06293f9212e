package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrBadSignature — подпись URL загрузки не сошлась или истекла.
	ErrBadSignature = errors.New("storage: подпись загрузки недействительна")
	// ErrTooLarge — тело загрузки превысило лимит.
	ErrTooLarge = errors.New("storage: файл превышает допустимый размер")
)

// LocalStorage хранит файлы на диске и раздаёт их через собственный
// HTTP-маршрут. Прямые загрузки авторизуются HMAC-подписью с ограниченным
// сроком действия, по аналогии с предподписанными URL у S3.
type LocalStorage struct {
	root      string
	baseURL   string
	secret    []byte
	uploadTTL time.Duration
	maxBytes  int64
}

// NewLocalStorage создаёт хранилище с корнем root. baseURL — внешний адрес,
// под которым раздаются файлы (например "http://localhost:8080/media").
func NewLocalStorage(root, baseURL string, secret []byte, uploadTTL time.Duration, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: создание корневого каталога: %w", err)
	}
	return &LocalStorage{
		root:      root,
		baseURL:   strings.TrimRight(baseURL, "/"),
		secret:    secret,
		uploadTTL: uploadTTL,
		maxBytes:  maxBytes,
	}, nil
}

// PresignUpload подписывает ключ и срок действия. Загрузка выполняется
// PUT-запросом на {baseURL}/upload с параметрами key, exp и sig.
func (s *LocalStorage) PresignUpload(_ context.Context, key, _ string) (UploadTarget, error) {
	if err := validateKey(key); err != nil {
		return UploadTarget{}, err
	}

	exp := time.Now().Add(s.uploadTTL).Unix()
	q := url.Values{}
	q.Set("key", key)
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", s.sign(key, exp))

	return UploadTarget{
		Key:       key,
		URL:       s.baseURL + "/upload?" + q.Encode(),
		PublicURL: s.PublicURL(key),
	}, nil
}

// VerifyUpload проверяет подпись параметров загрузки.
func (s *LocalStorage) VerifyUpload(key, expStr, sig string) error {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrBadSignature
	}
	if time.Now().Unix() > exp {
		return ErrBadSignature
	}
	expected := s.sign(key, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	return validateKey(key)
}

// Save записывает тело загрузки по ключу, отклоняя файлы сверх лимита.
func (s *LocalStorage) Save(key string, body io.Reader) error {
	if err := validateKey(key); err != nil {
		return err
	}

	dst := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("storage: создание каталога: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("storage: создание файла: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("storage: запись файла: %w", err)
	}
	if n > s.maxBytes {
		os.Remove(dst)
		return ErrTooLarge
	}
	return nil
}

// Delete удаляет файл. Отсутствие файла не считается ошибкой, чтобы
// повторное удаление было идемпотентным.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: удаление файла: %w", err)
	}
	return nil
}

// Open открывает файл для чтения при раздаче.
func (s *LocalStorage) Open(key string) (*os.File, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.root, filepath.FromSlash(key)))
}

func (s *LocalStorage) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

func (s *LocalStorage) KeyFromPublicURL(u string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u, prefix)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}

func (s *LocalStorage) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

// validateKey отсекает пустые ключи и попытки выйти за корень хранилища.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, "\\") {
		return fmt.Errorf("storage: недопустимый ключ объекта %q", key)
	}
	return nil
}
