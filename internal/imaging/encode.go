package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
)

// cloudJPEGQuality matches the compression the capture app uses when
// preparing cloud OCR request bodies.
const cloudJPEGQuality = 90

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeJPEG encodes img as JPEG bytes at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeForCloud encodes img for a cloud OCR request body: JPEG at quality
// 90, falling back to PNG if JPEG encoding fails.
func EncodeForCloud(img image.Image) ([]byte, error) {
	if data, err := EncodeJPEG(img, cloudJPEGQuality); err == nil {
		return data, nil
	}
	return EncodePNG(img)
}
