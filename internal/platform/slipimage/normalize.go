package slipimage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"

	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
)

var (
	ErrEmptyImage       = errors.New("image is empty")
	ErrImageTooLarge    = errors.New("image exceeds size limit")
	ErrUnsupportedImage = errors.New("unsupported image format")
)

const outputJPEGQuality = 85

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

// Limits bounds what is sent to the vision model.
type Limits struct {
	MaxBytes     int64
	MaxPixels    int64
	MaxDimension int
}

func DefaultLimits() Limits {
	return Limits{
		MaxBytes:     10 << 20,
		MaxPixels:    40_000_000,
		MaxDimension: 2048,
	}
}

// Normalize validates an uploaded slip and downscales it when its long edge
// exceeds MaxDimension. Images already within bounds are returned untouched.
func Normalize(data []byte, limits Limits) (analysis.SlipImage, error) {
	if len(data) == 0 {
		return analysis.SlipImage{}, ErrEmptyImage
	}
	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		return analysis.SlipImage{}, fmt.Errorf("%w: %d bytes > %d", ErrImageTooLarge, len(data), limits.MaxBytes)
	}

	detected := mimetype.Detect(data)
	mimeType := detected.String()
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return analysis.SlipImage{}, fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return analysis.SlipImage{}, fmt.Errorf("%w: decode header: %v", ErrUnsupportedImage, err)
	}
	if limits.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > limits.MaxPixels {
		return analysis.SlipImage{}, fmt.Errorf("%w: %dx%d pixels", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	if limits.MaxDimension <= 0 || max(cfg.Width, cfg.Height) <= limits.MaxDimension {
		return analysis.SlipImage{Data: data, MimeType: mimeType}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return analysis.SlipImage{}, fmt.Errorf("%w: decode: %v", ErrUnsupportedImage, err)
	}
	resized := imaging.Fit(img, limits.MaxDimension, limits.MaxDimension, imaging.Lanczos)

	var out bytes.Buffer
	if err := imaging.Encode(&out, resized, imaging.JPEG, imaging.JPEGQuality(outputJPEGQuality)); err != nil {
		return analysis.SlipImage{}, fmt.Errorf("encode resized image: %w", err)
	}

	return analysis.SlipImage{Data: out.Bytes(), MimeType: "image/jpeg"}, nil
}
