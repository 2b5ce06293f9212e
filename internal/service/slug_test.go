package service

import (
	"context"
	"regexp"
	"testing"
)

type fakeSlugChecker struct {
	taken map[string]bool
}

func (f *fakeSlugChecker) SlugExists(_ context.Context, slug string) (bool, error) {
	return f.taken[slug], nil
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Svatba Nováků 2025", "svatba-novaku-2025"},
		{"Příliš žluťoučký kůň", "prilis-zlutoucky-kun"},
		{"  Hello   World  ", "hello-world"},
		{"Rodinné foto: léto!", "rodinne-foto-leto"},
		{"UPPER_case-mix", "upper_case-mix"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, ожидалось %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	in := "Svatba Nováků 2025"
	once := Slugify(in)
	if twice := Slugify(once); twice != once {
		t.Errorf("повторный Slugify должен быть no-op: %q -> %q", once, twice)
	}
}

func TestGenerateSlugFree(t *testing.T) {
	checker := &fakeSlugChecker{taken: map[string]bool{}}

	slug, err := GenerateSlug(context.Background(), checker, "Svatba Nováků 2025")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if slug != "svatba-novaku-2025" {
		t.Errorf("неверный slug: %q", slug)
	}
}

func TestGenerateSlugCollision(t *testing.T) {
	checker := &fakeSlugChecker{taken: map[string]bool{"svatba-novaku-2025": true}}

	slug, err := GenerateSlug(context.Background(), checker, "Svatba Nováků 2025")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	re := regexp.MustCompile(`^svatba-novaku-2025-\d{6}$`)
	if !re.MatchString(slug) {
		t.Errorf("при коллизии ожидался шестизначный суффикс, получено %q", slug)
	}
}
