package suggest

import (
	"fmt"
	"image"
	"strings"

	"plot-annotate/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Labeler reads text out of image regions to seed annotation columns.
type Labeler struct {
	client *gosseract.Client
}

// NewLabeler creates a labeler backed by Tesseract.
func NewLabeler() (*Labeler, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	return &Labeler{client: client}, nil
}

// Close releases OCR resources.
func (l *Labeler) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}

// LabelRegion performs OCR on a region of an image and returns the trimmed
// text.
func (l *Labeler) LabelRegion(img gocv.Mat, bounds geometry.RectInt) (string, error) {
	if img.Empty() {
		return "", fmt.Errorf("empty image")
	}

	x, y, w, h := bounds.X, bounds.Y, bounds.Width, bounds.Height
	imgH, imgW := img.Rows(), img.Cols()
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x+w > imgW {
		w = imgW - x
	}
	if y+h > imgH {
		h = imgH - y
	}
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("invalid region bounds")
	}

	region := img.Region(image.Rect(x, y, x+w, y+h))
	defer region.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, region)
	if err != nil {
		return "", fmt.Errorf("failed to encode region: %w", err)
	}
	defer buf.Close()

	if err := l.client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := l.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set OCR image: %w", err)
	}

	text, err := l.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
