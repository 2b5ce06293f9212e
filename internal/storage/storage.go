package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
)

// UploadTarget — подписанный адрес для прямой загрузки одного файла.
type UploadTarget struct {
	// Key — ключ объекта внутри хранилища.
	Key string
	// URL — предподписанный URL, по которому клиент выполняет PUT.
	URL string
	// PublicURL — адрес, по которому файл будет доступен после загрузки.
	PublicURL string
}

// Storage абстрагирует файловое хранилище: локальный диск или S3-совместимый
// бэкенд. Все операции принимают контекст, чтобы загрузки можно было
// отменять вместе с запросом.
type Storage interface {
	// PresignUpload выдаёт подписанный URL для прямой загрузки по ключу.
	PresignUpload(ctx context.Context, key, contentType string) (UploadTarget, error)
	// Delete удаляет объект. Несуществующий ключ ошибкой не считается.
	Delete(ctx context.Context, key string) error
	// PublicURL возвращает публичный адрес объекта.
	PublicURL(key string) string
	// KeyFromPublicURL выполняет обратное преобразование: из публичного
	// адреса в ключ объекта. Возвращает false для чужих адресов.
	KeyFromPublicURL(url string) (string, bool)
}

// BuildObjectKey собирает ключ объекта вида "{scope}/{id}/{millis}-{имя}".
// Миллисекундный префикс исключает перезапись при повторной загрузке файла
// с тем же именем.
func BuildObjectKey(scope, id, filename string) string {
	return path.Join(scope, id, fmt.Sprintf("%d-%s", time.Now().UnixMilli(), SanitizeFilename(filename)))
}

// SanitizeFilename оставляет в имени файла только безопасные символы.
// Результат никогда не пустой, чтобы ключ объекта оставался валидным.
func SanitizeFilename(name string) string {
	name = path.Base(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if out == "" || out == "." || out == ".." {
		return "file"
	}
	return out
}
