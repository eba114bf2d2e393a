package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	assert.True(t, PointInPolygon(Point2D{5, 5}, square))
	assert.False(t, PointInPolygon(Point2D{15, 5}, square))
	assert.False(t, PointInPolygon(Point2D{-1, 5}, square))

	// Degenerate polygons never contain anything.
	assert.False(t, PointInPolygon(Point2D{5, 5}, square[:2]))
}

func TestDistanceToSegment(t *testing.T) {
	a := Point2D{0, 0}
	b := Point2D{10, 0}

	assert.InDelta(t, 5.0, DistanceToSegment(Point2D{5, 5}, a, b), 1e-9)
	assert.InDelta(t, 2.0, DistanceToSegment(Point2D{-2, 0}, a, b), 1e-9)
	assert.InDelta(t, 0.0, DistanceToSegment(Point2D{3, 0}, a, b), 1e-9)

	// Zero-length segment falls back to point distance.
	assert.InDelta(t, 5.0, DistanceToSegment(Point2D{3, 4}, a, a), 1e-9)
}

func TestPointNearPolyline(t *testing.T) {
	line := []Point2D{{0, 0}, {10, 0}, {10, 10}}

	assert.True(t, PointNearPolyline(Point2D{5, 1}, line, 2))
	assert.True(t, PointNearPolyline(Point2D{11, 5}, line, 2))
	assert.False(t, PointNearPolyline(Point2D{5, 5}, line, 2))
}

func TestNearestVertex(t *testing.T) {
	vertices := []Point2D{{0, 0}, {10, 0}, {20, 0}}

	assert.Equal(t, 1, NearestVertex(Point2D{11, 1}, vertices, 5))
	assert.Equal(t, -1, NearestVertex(Point2D{50, 50}, vertices, 5))
	assert.Equal(t, -1, NearestVertex(Point2D{0, 0}, nil, 5))
}

func TestRectCorners(t *testing.T) {
	r := Rect{X: 1, Y: 2, Width: 3, Height: 4}
	corners := r.Corners()

	assert.Len(t, corners, 5)
	assert.Equal(t, corners[0], corners[4])
	assert.Equal(t, Point2D{1, 2}, corners[0])
	assert.Equal(t, Point2D{4, 6}, corners[2])
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 5, Height: 5}
	b := Rect{X: 3, Y: 3, Width: 10, Height: 2}

	u := a.Union(b)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 13, Height: 5}, u)
}

func TestBoundingBox(t *testing.T) {
	points := []Point2D{{3, 1}, {-2, 7}, {5, 4}}
	box := BoundingBox(points)

	assert.Equal(t, Rect{X: -2, Y: 1, Width: 7, Height: 6}, box)
	assert.Equal(t, Rect{}, BoundingBox(nil))
}

func TestAffineTransform(t *testing.T) {
	tr := Translation(3, -2)
	assert.Equal(t, Point2D{4, -1}, tr.Apply(Point2D{1, 1}))

	id := Identity()
	assert.Equal(t, Point2D{7, 8}, id.Apply(Point2D{7, 8}))

	sc := Scaling(2.5)
	assert.Equal(t, Point2D{5, -10}, sc.Apply(Point2D{2, -4}))
}

func TestAffineTransformInvert(t *testing.T) {
	sc := Scaling(4)
	inv, ok := sc.Invert()
	require.True(t, ok)
	assert.Equal(t, Point2D{1, 2}, inv.Apply(sc.Apply(Point2D{1, 2})))

	rot := Rotation(0.7)
	inv, ok = rot.Invert()
	require.True(t, ok)
	p := inv.Apply(rot.Apply(Point2D{3, -5}))
	assert.InDelta(t, 3, p.X, 1e-12)
	assert.InDelta(t, -5, p.Y, 1e-12)

	_, ok = Scaling(0).Invert()
	assert.False(t, ok)
}
