// SPDX-License-Identifier: MIT

package imageio

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// jpegQuality is used whenever a utility rewrites a JPEG in place.
const jpegQuality = 95

// writeImage encodes img to path in the given format ("png", "jpeg").
// The file is created or truncated.
func writeImage(path string, img image.Image, format string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	switch format {
	case "png":
		return png.Encode(f, img)
	case "jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	default:
		return fmt.Errorf("%s: encode %q: %w", path, format, ErrUnsupportedFormat)
	}
}

// formatFor maps a decoder name to the encoder used when rewriting in place.
// Formats without an encoder (pgm) are rewritten as PNG.
func formatFor(decoded string) string {
	if decoded == "jpeg" {
		return "jpeg"
	}

	return "png"
}

// withSuffix returns path with its extension replaced by suffix.
func withSuffix(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}
