package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

const defaultQuality = 85

// Thumbnail decodes an image, scales it to fit within maxWidth x maxHeight
// while keeping the aspect ratio, and re-encodes it in the source format.
// Only jpeg and png are supported.
func Thumbnail(reader io.Reader, maxWidth, maxHeight int) (io.Reader, string, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	resized := scale(img, maxWidth, maxHeight)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: defaultQuality}); err != nil {
			return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}

	return &buf, format, nil
}

func scale(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxWidth && height <= maxHeight {
		return img
	}

	ratio := float64(width) / float64(height)
	targetWidth := maxWidth
	targetHeight := int(float64(maxWidth) / ratio)
	if targetHeight > maxHeight {
		targetHeight = maxHeight
		targetWidth = int(float64(maxHeight) * ratio)
	}
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
