package plotview

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"
)

// Background is a raster layer drawn under the annotation overlay.
type Background struct {
	Path    string
	Image   image.Image
	Visible bool
	Opacity float64
}

// LoadBackground loads an image file as a background layer. PNG, JPEG, and
// TIFF are supported.
func LoadBackground(path string) (*Background, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Background{
		Path:    path,
		Image:   img,
		Visible: true,
		Opacity: 1.0,
	}, nil
}

// SupportedExtensions returns the background file extensions.
func SupportedExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}
