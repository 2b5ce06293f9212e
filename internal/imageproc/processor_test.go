package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("не удалось закодировать тестовый PNG: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("результат не декодируется: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestCompressDownscalesLargeImage(t *testing.T) {
	res, err := Compress(encodePNG(t, 4000, 2000))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if res.ContentType != "image/jpeg" {
		t.Errorf("ожидался image/jpeg, получено %s", res.ContentType)
	}
	w, h := decodeSize(t, res.Data)
	if w != 2560 || h != 1280 {
		t.Errorf("неверные размеры после сжатия: %dx%d", w, h)
	}
}

func TestCompressPortraitOrientation(t *testing.T) {
	res, err := Compress(encodePNG(t, 1000, 4000))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	w, h := decodeSize(t, res.Data)
	if w != 640 || h != 2560 {
		t.Errorf("неверные размеры после сжатия: %dx%d", w, h)
	}
}

func TestCompressKeepsSmallImageSize(t *testing.T) {
	res, err := Compress(encodePNG(t, 800, 600))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	w, h := decodeSize(t, res.Data)
	if w != 800 || h != 600 {
		t.Errorf("маленькое изображение не должно масштабироваться: %dx%d", w, h)
	}
}

func TestCompressPassesThroughNonImage(t *testing.T) {
	payload := []byte("не изображение вовсе")
	res, err := Compress(payload)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !bytes.Equal(res.Data, payload) {
		t.Errorf("неизвестный формат должен возвращаться без изменений")
	}
	if res.ContentType != "application/octet-stream" {
		t.Errorf("неверный тип содержимого: %s", res.ContentType)
	}
}

func TestFitWithin(t *testing.T) {
	cases := []struct {
		w, h, max, ww, wh int
	}{
		{4000, 2000, 2560, 2560, 1280},
		{2000, 4000, 2560, 1280, 2560},
		{2560, 2560, 2560, 2560, 2560},
		{100, 50, 2560, 100, 50},
		// Экстремальные пропорции не схлопывают короткую сторону в ноль.
		{8000, 2, 2560, 2560, 1},
		{2, 8000, 2560, 1, 2560},
	}
	for _, tc := range cases {
		ww, wh := fitWithin(tc.w, tc.h, tc.max)
		if ww != tc.ww || wh != tc.wh {
			t.Errorf("fitWithin(%d, %d, %d) = %dx%d, ожидалось %dx%d", tc.w, tc.h, tc.max, ww, wh, tc.ww, tc.wh)
		}
	}
}
