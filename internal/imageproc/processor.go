package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// maxDimension ограничивает большую сторону изображения после сжатия.
	maxDimension = 2560
	jpegQuality  = 80
)

// Result — результат обработки исходного файла перед загрузкой.
type Result struct {
	Data        []byte
	ContentType string
}

// Compress уменьшает изображение до maxDimension по большей стороне и
// перекодирует его в JPEG. Изображения меньше лимита не увеличиваются.
// Форматы, которые декодер не знает, возвращаются без изменений.
func Compress(data []byte) (Result, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Не изображение или неизвестный формат: загружаем как есть.
		return Result{Data: data, ContentType: "application/octet-stream"}, nil
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	nw, nh := fitWithin(w, h, maxDimension)

	var out image.Image = src
	if nw != w || nh != h {
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Result{}, fmt.Errorf("imageproc: кодирование JPEG: %w", err)
	}
	return Result{Data: buf.Bytes(), ContentType: "image/jpeg"}, nil
}

// fitWithin масштабирует размеры так, чтобы большая сторона не превышала
// max, сохраняя пропорции. Размеры в пределах лимита не меняются.
func fitWithin(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w >= h {
		return max, atLeastOne(h * max / w)
	}
	return atLeastOne(w * max / h), max
}

// atLeastOne не даёт целочисленному масштабированию схлопнуть сторону в
// ноль на экстремальных пропорциях.
func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
