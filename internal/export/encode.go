// Package export writes finished collages to disk: the composited image
// itself and an optional PDF report of the winning layout.
package export

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
)

// jpegQuality is used for all JPEG output.
const jpegQuality = 92

// WriteImage encodes the canvas to path. The format is chosen by file
// extension: .jpg/.jpeg or .png.
func WriteImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality})
	case ".png":
		err = png.Encode(f, img)
	default:
		return fmt.Errorf("unsupported output format %q (use .jpg or .png)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
