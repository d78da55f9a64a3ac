package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/nfnt/resize"
)

// MaxPhotoSize is the largest album photo accepted, in bytes
const MaxPhotoSize = 2 << 20

// MaxPhotoPixels caps width x height so decoding stays bounded. Compressed
// size says little about the decoded buffer.
const MaxPhotoPixels = 40_000_000

// AllowedImageTypes maps accepted MIME types to the stored file extension
var AllowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

// ProcessedPhoto is an accepted upload plus its preview
type ProcessedPhoto struct {
	Data      []byte
	Thumbnail []byte
	Ext       string
}

// ProcessPhoto checks size and real content type of an upload and renders a
// 300x300 bounded JPEG thumbnail. Rejections are returned as *ValidationError
// on the "photo" field.
func ProcessPhoto(data []byte) (*ProcessedPhoto, error) {
	if len(data) == 0 {
		return nil, NewValidationError("photo", "La foto es obligatoria.")
	}
	if len(data) > MaxPhotoSize {
		return nil, NewValidationError("photo", "La foto no puede superar los 2MB.")
	}

	sniff := data
	if len(sniff) > 512 {
		sniff = sniff[:512]
	}
	ext, ok := AllowedImageTypes[http.DetectContentType(sniff)]
	if !ok {
		return nil, NewValidationError("photo", "La foto debe ser una imagen jpeg, jpg o png.")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, NewValidationError("photo", "La foto no es una imagen válida.")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPhotoPixels {
		return nil, NewValidationError("photo", "La foto no puede superar los 40 megapíxeles.")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, NewValidationError("photo", "La foto no es una imagen válida.")
	}

	thumb := resize.Thumbnail(300, 300, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return &ProcessedPhoto{Data: data, Thumbnail: buf.Bytes(), Ext: ext}, nil
}
