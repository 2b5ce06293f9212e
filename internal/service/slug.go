package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugChecker проверяет занятость slug в хранилище.
type SlugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// removeDiacritics — NFD-декомпозиция с удалением комбинирующих знаков,
// чтобы "Nováků" превратилось в "Novaku".
var removeDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify детерминированно превращает отображаемое имя в URL-идентификатор:
// нижний регистр, без диакритики, пробельные последовательности заменяются
// одним дефисом, остальные не-словарные символы отбрасываются.
func Slugify(name string) string {
	stripped, _, err := transform.String(removeDiacritics, name)
	if err != nil {
		stripped = name
	}

	lowered := strings.ToLower(stripped)
	joined := strings.Join(strings.Fields(lowered), "-")

	var b strings.Builder
	b.Grow(len(joined))
	for _, r := range joined {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GenerateSlug строит slug и при коллизии добавляет шестизначный суффикс из
// хвоста текущего времени в миллисекундах. Проверка — check-then-insert без
// транзакции: это только UX-предохранитель, настоящую уникальность
// гарантирует уникальный индекс по projects.slug.
func GenerateSlug(ctx context.Context, checker SlugChecker, name string) (string, error) {
	slug := Slugify(name)

	exists, err := checker.SlugExists(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("slug: проверка занятости: %w", err)
	}

	if exists {
		millis := fmt.Sprintf("%d", time.Now().UnixMilli())
		slug = slug + "-" + millis[len(millis)-6:]
	}

	return slug, nil
}
