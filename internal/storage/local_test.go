package storage

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestLocal(t *testing.T, ttl time.Duration, maxBytes int64) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/media", []byte("test-secret"), ttl, maxBytes)
	if err != nil {
		t.Fatalf("не удалось создать локальное хранилище: %v", err)
	}
	return s
}

func uploadParams(t *testing.T, rawURL string) (key, exp, sig string) {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("не удалось разобрать URL загрузки: %v", err)
	}
	q := u.Query()
	return q.Get("key"), q.Get("exp"), q.Get("sig")
}

func TestLocalStoragePresignAndVerify(t *testing.T) {
	s := newTestLocal(t, time.Minute, 1<<20)

	target, err := s.PresignUpload(context.Background(), "photos/abc/123-img.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("неожиданная ошибка подписи: %v", err)
	}
	if target.PublicURL != "http://localhost:8080/media/photos/abc/123-img.jpg" {
		t.Errorf("неверный публичный URL: %s", target.PublicURL)
	}

	key, exp, sig := uploadParams(t, target.URL)
	if err := s.VerifyUpload(key, exp, sig); err != nil {
		t.Errorf("валидная подпись отклонена: %v", err)
	}
}

func TestLocalStorageVerifyTampered(t *testing.T) {
	s := newTestLocal(t, time.Minute, 1<<20)

	target, err := s.PresignUpload(context.Background(), "photos/abc/1-a.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("неожиданная ошибка подписи: %v", err)
	}
	_, exp, sig := uploadParams(t, target.URL)

	if err := s.VerifyUpload("photos/abc/1-b.jpg", exp, sig); err != ErrBadSignature {
		t.Errorf("ожидалась ErrBadSignature для подменённого ключа, получено: %v", err)
	}
}

func TestLocalStorageVerifyExpired(t *testing.T) {
	s := newTestLocal(t, -time.Minute, 1<<20)

	target, err := s.PresignUpload(context.Background(), "photos/abc/1-a.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("неожиданная ошибка подписи: %v", err)
	}
	key, exp, sig := uploadParams(t, target.URL)

	if err := s.VerifyUpload(key, exp, sig); err != ErrBadSignature {
		t.Errorf("ожидалась ErrBadSignature для истёкшей подписи, получено: %v", err)
	}
}

func TestLocalStorageSaveAndDelete(t *testing.T) {
	s := newTestLocal(t, time.Minute, 1<<20)

	if err := s.Save("photos/p1/1-a.jpg", strings.NewReader("payload")); err != nil {
		t.Fatalf("неожиданная ошибка записи: %v", err)
	}

	f, err := s.Open("photos/p1/1-a.jpg")
	if err != nil {
		t.Fatalf("файл не открылся после записи: %v", err)
	}
	f.Close()

	if err := s.Delete(context.Background(), "photos/p1/1-a.jpg"); err != nil {
		t.Fatalf("неожиданная ошибка удаления: %v", err)
	}
	// Повторное удаление идемпотентно.
	if err := s.Delete(context.Background(), "photos/p1/1-a.jpg"); err != nil {
		t.Errorf("повторное удаление вернуло ошибку: %v", err)
	}
}

func TestLocalStorageSaveTooLarge(t *testing.T) {
	s := newTestLocal(t, time.Minute, 4)

	err := s.Save("photos/p1/1-big.jpg", strings.NewReader("12345"))
	if err != ErrTooLarge {
		t.Fatalf("ожидалась ErrTooLarge, получено: %v", err)
	}

	if _, err := os.Stat(filepath.Join(s.root, "photos/p1/1-big.jpg")); !os.IsNotExist(err) {
		t.Errorf("частично записанный файл должен быть удалён")
	}
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s := newTestLocal(t, time.Minute, 1<<20)

	if err := s.Save("../outside.jpg", strings.NewReader("x")); err == nil {
		t.Errorf("ключ с .. должен отклоняться")
	}
	if _, err := s.PresignUpload(context.Background(), "/abs/path.jpg", "image/jpeg"); err == nil {
		t.Errorf("абсолютный ключ должен отклоняться")
	}
}

func TestKeyFromPublicURL(t *testing.T) {
	s := newTestLocal(t, time.Minute, 1<<20)

	key, ok := s.KeyFromPublicURL("http://localhost:8080/media/photos/p1/1-a.jpg")
	if !ok || key != "photos/p1/1-a.jpg" {
		t.Errorf("неверный разбор публичного URL: %q, %v", key, ok)
	}
	if _, ok := s.KeyFromPublicURL("http://evil.example/photos/p1/1-a.jpg"); ok {
		t.Errorf("чужой URL не должен разбираться")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"IMG_1234.jpg", "IMG_1234.jpg"},
		{"svatba fotka.jpg", "svatba_fotka.jpg"},
		{"../../etc/passwd", "passwd"},
		{"", "file"},
		{"..", "file"},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeFilename(%q) = %q, ожидалось %q", tc.in, got, tc.want)
		}
	}
}
