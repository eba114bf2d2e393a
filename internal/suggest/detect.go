// Package suggest derives candidate annotation objects from a raster layer,
// so annotators can be pre-populated instead of drawn from scratch.
package suggest

import (
	"fmt"
	"image"
	"math"

	"plot-annotate/internal/element"
	"plot-annotate/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Options configures box detection.
type Options struct {
	BlurKernel        int     // Gaussian blur kernel size (odd)
	CleanupIterations int     // Morphological cleanup strength
	MinArea           float64 // Minimum contour area to consider
	MaxArea           float64 // Maximum contour area (0 = unlimited)
}

// DefaultOptions returns default detection options.
func DefaultOptions() Options {
	return Options{
		BlurKernel:        5,
		CleanupIterations: 2,
		MinArea:           100,
	}
}

// DetectBoxes finds axis-aligned box candidates in an image by thresholding
// and contour extraction.
func DetectBoxes(img gocv.Mat, opts Options) ([]geometry.Rect, error) {
	if img.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	var gray gocv.Mat
	if img.Channels() > 1 {
		gray = gocv.NewMat()
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		gray = img.Clone()
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := opts.BlurKernel
	if k < 1 {
		k = 1
	}
	if k%2 == 0 {
		k++
	}
	gocv.GaussianBlur(gray, &blurred, image.Point{k, k}, 0, 0, gocv.BorderDefault)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(blurred, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	if opts.CleanupIterations > 0 {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{3, 3})
		defer kernel.Close()
		for i := 0; i < opts.CleanupIterations; i++ {
			gocv.MorphologyEx(binary, &binary, gocv.MorphClose, kernel)
		}
	}

	contours := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var boxes []geometry.Rect
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < opts.MinArea {
			continue
		}
		if opts.MaxArea > 0 && area > opts.MaxArea {
			continue
		}
		r := gocv.BoundingRect(contour)
		boxes = append(boxes, geometry.Rect{
			X:      float64(r.Min.X),
			Y:      float64(r.Min.Y),
			Width:  float64(r.Dx()),
			Height: float64(r.Dy()),
		})
	}
	return boxes, nil
}

// FitOrientedBox fits an oriented bounding box to a point cloud using PCA.
// The result is a closed 5-vertex ring in the principal-axis orientation.
func FitOrientedBox(points []geometry.Point2D) ([]geometry.Point2D, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points, got %d", len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	cx := stat.Mean(xs, nil)
	cy := stat.Mean(ys, nil)

	// Centered data matrix, one row per point.
	data := mat.NewDense(len(points), 2, nil)
	for i, p := range points {
		data.Set(i, 0, p.X-cx)
		data.Set(i, 1, p.Y-cy)
	}

	var svd mat.SVD
	if ok := svd.Factorize(data, mat.SVDThinV); !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)

	// Principal axes.
	ux, uy := v.At(0, 0), v.At(1, 0)
	wx, wy := v.At(0, 1), v.At(1, 1)

	// Project onto the axes and take the extents.
	minU, maxU := math.Inf(1), math.Inf(-1)
	minW, maxW := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		dx, dy := p.X-cx, p.Y-cy
		u := dx*ux + dy*uy
		w := dx*wx + dy*wy
		minU = math.Min(minU, u)
		maxU = math.Max(maxU, u)
		minW = math.Min(minW, w)
		maxW = math.Max(maxW, w)
	}

	corner := func(u, w float64) geometry.Point2D {
		return geometry.Point2D{
			X: cx + u*ux + w*wx,
			Y: cy + u*uy + w*wy,
		}
	}
	ring := []geometry.Point2D{
		corner(minU, minW),
		corner(maxU, minW),
		corner(maxU, maxW),
		corner(minU, maxW),
	}
	return append(ring, ring[0]), nil
}

// BoxElement detects boxes in an image and builds a rectangles element. When
// a labeler and label column are given, each box region is OCRed to seed the
// column; OCR failures leave the default in place.
func BoxElement(img gocv.Mat, labelColumn string, labeler *Labeler, opts Options) (*element.Element, error) {
	boxes, err := DetectBoxes(img, opts)
	if err != nil {
		return nil, err
	}

	el := element.NewRectangles(boxes)
	if labelColumn == "" {
		return el, nil
	}
	el = el.AddDimension(element.Dimension{
		Name:    labelColumn,
		Default: "",
		Scope:   element.ScopeObject,
	})
	if labeler == nil {
		return el, nil
	}

	for i, box := range boxes {
		text, err := labeler.LabelRegion(img, geometry.RectInt{
			X:      int(box.X),
			Y:      int(box.Y),
			Width:  int(box.Width),
			Height: int(box.Height),
		})
		if err != nil || text == "" {
			continue
		}
		el.Object(i).Scalars[labelColumn] = text
	}
	return el, nil
}
