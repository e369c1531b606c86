package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// MaxDimension - изображения документов больше этого размера уменьшаются
const MaxDimension = 2400

// Processor пережимает загруженные изображения (аналог quality: auto)
type Processor struct {
	quality      int // JPEG quality (1-100)
	maxDimension int
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality:      quality,
		maxDimension: MaxDimension,
	}
}

// Recompress decodes a jpeg or png, scales it down if it exceeds the
// maximum dimension and encodes it back in the same format.
func (p *Processor) Recompress(reader io.Reader) (*bytes.Buffer, string, error) {
	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = p.fit(img)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, "", fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, "", fmt.Errorf("unsupported image format: %s", format)
	}

	return &buf, format, nil
}

// fit уменьшает изображение с сохранением пропорций
func (p *Processor) fit(img image.Image) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= p.maxDimension && height <= p.maxDimension {
		return img
	}

	newWidth, newHeight := p.maxDimension, p.maxDimension
	if width > height {
		newHeight = height * p.maxDimension / width
	} else {
		newWidth = width * p.maxDimension / height
	}
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
