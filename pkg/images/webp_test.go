package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBase64(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestConvertToWebP(t *testing.T) {
	out := filepath.Join(t.TempDir(), "2026", "04", "demo", "hero.webp")

	err := ConvertToWebP(pngBase64(t), out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Greater(t, len(data), 12)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
}

func TestConvertToWebPInvalidBase64(t *testing.T) {
	err := ConvertToWebP("not base64!!!", filepath.Join(t.TempDir(), "x.webp"))
	assert.Error(t, err)
}

func TestConvertToWebPInvalidImage(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("not an image"))
	err := ConvertToWebP(b64, filepath.Join(t.TempDir(), "x.webp"))
	assert.Error(t, err)
}
