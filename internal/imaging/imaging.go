// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging normalizes uploaded player photos: every accepted image
// is decoded, scaled down so its longest side is at most 800 pixels, and
// re-encoded as JPEG at quality 80. GIF and PNG inputs therefore come out
// as JPEG as well.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
)

const (
	// MaxDimension is the longest allowed side of a stored image.
	MaxDimension = 800

	// Quality is the JPEG quality for re-encoded images.
	Quality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// allowedTypes defines the MIME types accepted for player photo upload.
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Allowed reports whether the MIME type is on the upload allow-list.
func Allowed(mimeType string) bool {
	return allowedTypes[mimeType]
}

// Compress decodes an image, scales it so the longest side is at most
// MaxDimension (never upscaling), and re-encodes it as JPEG at Quality.
func Compress(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Check for image bombs before the full decode.
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width > MaxDimension || height > MaxDimension {
		// Scale by the longest side, preserving aspect ratio.
		var ratio float64
		if width >= height {
			ratio = float64(MaxDimension) / float64(width)
		} else {
			ratio = float64(MaxDimension) / float64(height)
		}
		newWidth := int(float64(width) * ratio)
		newHeight := int(float64(height) * ratio)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}

		// Resize using CatmullRom (high quality).
		dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
