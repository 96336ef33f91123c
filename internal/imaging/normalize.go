// Package imaging prepares raw image bytes for the face service, which only
// accepts JPEG or PNG up to a fixed size.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/face-orchestrator/internal/constants"
)

// ErrUnsupportedFormat is returned when the bytes are not a decodable image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

const jpegQuality = 85

// Format returns the registered format name ("jpeg", "png", "webp", "bmp", "tiff").
func Format(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return format, nil
}

// Normalize returns data unchanged when it is a JPEG or PNG no larger than
// maxBytes. Anything else is decoded and re-encoded as JPEG, shrinking the
// longest side until the result fits.
func Normalize(data []byte, maxBytes int) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = constants.MaxImageBytes
	}

	format, err := Format(data)
	if err != nil {
		return nil, err
	}
	if (format == "jpeg" || format == "png") && len(data) <= maxBytes {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s image: %w", format, err)
	}

	out, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}

	// Halve the bounding box until the encoded image fits.
	for maxSize := constants.MaxImageSize; len(out) > maxBytes; maxSize /= 2 {
		if maxSize < 64 {
			return nil, fmt.Errorf("image does not fit in %d bytes", maxBytes)
		}
		out, err = encodeJPEG(Resize(img, maxSize))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Resize scales img to fit within maxSize (width or height) keeping the aspect
// ratio. Images already within bounds are returned as is.
func Resize(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxSize && height <= maxSize {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxSize
		newHeight = max(1, int(float64(height)*float64(maxSize)/float64(width)))
	} else {
		newHeight = maxSize
		newWidth = max(1, int(float64(width)*float64(maxSize)/float64(height)))
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
	return resized
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
