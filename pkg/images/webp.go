// Package images converts generated image payloads into the on-disk
// formats served next to articles.
package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/bep/gowebp/libwebp"
	"github.com/bep/gowebp/libwebp/webpoptions"
)

// ConvertToWebP decodes a base64 image (PNG or JPEG) and writes it to
// outputPath as WebP, creating intermediate directories.
func ConvertToWebP(b64 string, outputPath string) error {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("failed to decode base64 image data: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create image directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	opts := webpoptions.EncodingOptions{
		Quality:        85,
		EncodingPreset: webpoptions.EncodingPresetPhoto,
		UseSharpYuv:    true,
	}
	if err := libwebp.Encode(f, img, opts); err != nil {
		return fmt.Errorf("failed to encode webp: %w", err)
	}

	return nil
}
