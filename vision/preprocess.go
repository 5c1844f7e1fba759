// Package vision prepares downloaded images for the captioning endpoint:
// decode, bound the resolution, and re-encode as JPEG. Sending full-size
// downloads upstream wastes tokens and latency, so everything is scaled to a
// model-friendly edge length first.
package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// Image preparation errors
var (
	ErrEmptyImage   = errors.New("vision: empty image data")
	ErrInvalidImage = errors.New("vision: invalid image data")
)

const (
	// DefaultMaxEdge is the longest edge sent to the captioning model.
	DefaultMaxEdge = 1024

	// DefaultJPEGQuality balances upload size against caption accuracy.
	DefaultJPEGQuality = 80
)

// DecodeImage decodes image data in any registered format (JPEG, PNG, GIF,
// WebP, BMP). This is a pure function with no side effects.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return img, nil
}

// ResizeMaxEdge scales an image down so its longest edge is at most maxEdge,
// preserving aspect ratio. Images already within the bound are returned
// unchanged; this never upscales.
// This is a pure function with no side effects.
func ResizeMaxEdge(img image.Image, maxEdge int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	longest := width
	if height > longest {
		longest = height
	}
	if maxEdge <= 0 || longest <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(longest)
	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst
}

// EncodeJPEG encodes an image as JPEG at the given quality (1-100).
// This is a pure function with no side effects.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("vision: jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

// PrepareForCaption performs the complete preparation pipeline.
// Steps: decode -> bound resolution -> encode JPEG.
// This composes atomic functions into a single convenience function.
func PrepareForCaption(data []byte) ([]byte, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return nil, err
	}

	bounded := ResizeMaxEdge(img, DefaultMaxEdge)

	return EncodeJPEG(bounded, DefaultJPEGQuality)
}
