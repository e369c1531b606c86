package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	return img
}

func TestRecompressKeepsFormat(t *testing.T) {
	p := NewProcessor(80)

	var pngBuf bytes.Buffer
	require.NoError(t, png.Encode(&pngBuf, solid(20, 10)))
	out, format, err := p.Recompress(&pngBuf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	cfg, err := png.DecodeConfig(out)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)

	var jpgBuf bytes.Buffer
	require.NoError(t, jpeg.Encode(&jpgBuf, solid(20, 10), nil))
	_, format, err = p.Recompress(&jpgBuf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestRecompressScalesDownLargeImages(t *testing.T) {
	p := NewProcessor(80)
	p.maxDimension = 50

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(200, 100)))

	out, _, err := p.Recompress(&buf)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(out)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestRecompressRejectsNonImage(t *testing.T) {
	_, _, err := NewProcessor(0).Recompress(strings.NewReader("%PDF-1.4"))
	assert.Error(t, err)
}
