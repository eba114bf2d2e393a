package suggest

import (
	"image"
	"image/color"
	"math"
	"testing"

	"plot-annotate/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocv.io/x/gocv"
)

func TestDetectBoxesSingleChannel(t *testing.T) {
	img := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8U)
	defer img.Close()
	gocv.Rectangle(&img, image.Rect(10, 10, 40, 40), color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	boxes, err := DetectBoxes(img, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	assert.InDelta(t, 10, boxes[0].X, 3)
	assert.InDelta(t, 30, boxes[0].Width, 6)
}

func TestDetectBoxesRejectsEmptyImage(t *testing.T) {
	img := gocv.NewMat()
	defer img.Close()
	_, err := DetectBoxes(img, DefaultOptions())
	assert.Error(t, err)
}

func TestFitOrientedBoxAxisAligned(t *testing.T) {
	points := []geometry.Point2D{
		{0, 0}, {10, 0}, {10, 4}, {0, 4}, {5, 2},
	}

	ring, err := FitOrientedBox(points)
	require.NoError(t, err)
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])

	// All input points fall inside the fitted ring, allowing for rounding.
	box := geometry.BoundingBox(ring)
	grown := geometry.Rect{
		X: box.X - 1e-6, Y: box.Y - 1e-6,
		Width: box.Width + 2e-6, Height: box.Height + 2e-6,
	}
	for _, p := range points {
		assert.True(t, grown.Contains(p))
	}
}

func TestFitOrientedBoxRotated(t *testing.T) {
	// Points along a 45-degree line with small lateral spread.
	var points []geometry.Point2D
	for i := 0; i < 10; i++ {
		f := float64(i)
		points = append(points, geometry.Point2D{X: f, Y: f + 0.1})
		points = append(points, geometry.Point2D{X: f, Y: f - 0.1})
	}

	ring, err := FitOrientedBox(points)
	require.NoError(t, err)

	// The long edge follows the principal axis, so the ring is much longer
	// than it is wide.
	long := ring[0].Distance(ring[1])
	short := ring[1].Distance(ring[2])
	if long < short {
		long, short = short, long
	}
	assert.Greater(t, long, short*10)

	// The fitted box is far smaller than the axis-aligned bounding box.
	aabb := geometry.BoundingBox(points)
	assert.Less(t, long*short, aabb.Width*aabb.Height)
	assert.False(t, math.IsNaN(long))
}

func TestFitOrientedBoxNeedsThreePoints(t *testing.T) {
	_, err := FitOrientedBox([]geometry.Point2D{{0, 0}, {1, 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3")
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 5, opts.BlurKernel)
	assert.Equal(t, 100.0, opts.MinArea)
	assert.Zero(t, opts.MaxArea)
}
