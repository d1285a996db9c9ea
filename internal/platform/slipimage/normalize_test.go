package slipimage

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 7 {
		img.Set(x, x%height, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestNormalize_PassesThroughSmallImage(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 320, 200)
	got, err := Normalize(data, DefaultLimits())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.MimeType != "image/png" {
		t.Fatalf("unexpected mime type: %s", got.MimeType)
	}
	if !bytes.Equal(got.Data, data) {
		t.Fatalf("expected bytes to be unchanged")
	}
}

func TestNormalize_DownscalesLongEdge(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 1200, 300)
	got, err := Normalize(data, Limits{MaxBytes: 10 << 20, MaxPixels: 10_000_000, MaxDimension: 600})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if got.MimeType != "image/jpeg" {
		t.Fatalf("unexpected mime type: %s", got.MimeType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 600 || cfg.Height != 150 {
		t.Fatalf("unexpected size: got=%dx%d want=600x150", cfg.Width, cfg.Height)
	}
}

func TestNormalize_Rejections(t *testing.T) {
	t.Parallel()

	big := encodePNG(t, 400, 400)
	cases := []struct {
		name   string
		data   []byte
		limits Limits
		want   error
	}{
		{name: "empty", data: nil, limits: DefaultLimits(), want: ErrEmptyImage},
		{name: "byte limit", data: big, limits: Limits{MaxBytes: 16}, want: ErrImageTooLarge},
		{name: "pixel limit", data: big, limits: Limits{MaxPixels: 1000}, want: ErrImageTooLarge},
		{name: "not an image", data: []byte("Fenerbahçe vs Galatasaray"), limits: DefaultLimits(), want: ErrUnsupportedImage},
		{name: "pdf", data: []byte("%PDF-1.4\n%âãÏÓ\n"), limits: DefaultLimits(), want: ErrUnsupportedImage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Normalize(tc.data, tc.limits)
			if !errors.Is(err, tc.want) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tc.want)
			}
		})
	}
}
