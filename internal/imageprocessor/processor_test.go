package imageprocessor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcess_DownscalesKeepingAspect(t *testing.T) {
	p := NewProcessor(80)

	res, err := p.Process(bytes.NewReader(pngBytes(t, 800, 400)), PresetAvatar)
	require.NoError(t, err)

	assert.Equal(t, 400, res.Width)
	assert.Equal(t, 200, res.Height)
	assert.Equal(t, "image/png", res.ContentType)
	assert.Equal(t, ".png", res.Ext)

	decoded, _, err := image.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 400, decoded.Bounds().Dx())
}

func TestProcess_DoesNotUpscale(t *testing.T) {
	res, err := NewProcessor(0).Process(bytes.NewReader(pngBytes(t, 50, 30)), PresetPostImage)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Width)
	assert.Equal(t, 30, res.Height)
}

func TestProcess_RejectsNonImage(t *testing.T) {
	_, err := NewProcessor(85).Process(strings.NewReader("definitely not an image"), PresetLogo)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
