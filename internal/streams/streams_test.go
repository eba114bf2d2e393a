package streams

import (
	"testing"

	"plot-annotate/internal/element"
	"plot-annotate/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(xs ...float64) *element.Element {
	pts := make([]geometry.Point2D, len(xs))
	for i, x := range xs {
		pts[i] = geometry.Point2D{X: x}
	}
	return element.NewPoints(pts)
}

func TestPushNotifiesSubscribers(t *testing.T) {
	s := NewPointDraw(points(), 0, "")

	var got *element.Element
	s.Subscribe(func(el *element.Element) { got = el })

	next := points(1, 2)
	s.Push(next)

	require.NotNil(t, got)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, got, s.Element())
}

func TestSubscriptionCancel(t *testing.T) {
	s := NewPointDraw(points(), 0, "")

	calls := 0
	sub := s.Subscribe(func(*element.Element) { calls++ })

	s.Push(points(1))
	sub.Cancel()
	s.Push(points(1, 2))
	// A second Cancel is harmless.
	sub.Cancel()

	assert.Equal(t, 1, calls)
}

func TestPushCapsObjectCountKeepingNewest(t *testing.T) {
	s := NewBoxEdit(nil, 2, "")

	s.Push(points(1, 2, 3, 4))

	el := s.Element()
	require.Equal(t, 2, el.Len())
	// The newest objects survive.
	assert.Equal(t, 3.0, el.Object(0).Vertices[0].X)
	assert.Equal(t, 4.0, el.Object(1).Vertices[0].X)
}

func TestPushUnlimitedWhenCapIsZero(t *testing.T) {
	s := NewPolyDraw(nil, 0, true, nil, "")
	s.Push(points(1, 2, 3))
	assert.Equal(t, 3, s.Element().Len())
}

func TestSelection1D(t *testing.T) {
	s := NewSelection1D()
	assert.Empty(t, s.Index())

	var got []int
	sub := s.Subscribe(func(index []int) { got = index })

	s.Set([]int{1, 3})
	assert.Equal(t, []int{1, 3}, got)
	assert.Equal(t, []int{1, 3}, s.Index())

	sub.Cancel()
	s.Set(nil)
	assert.Equal(t, []int{1, 3}, got)
	assert.Empty(t, s.Index())
}

func TestStreamMetadata(t *testing.T) {
	draw := NewPolyDraw(nil, 0, true, element.Style{"nonselection_alpha": 0.5}, "Path Tool")
	assert.Equal(t, "Path Tool", draw.Tooltip)
	assert.True(t, draw.ShowVertices)
	assert.Equal(t, 0.5, draw.VertexStyle["nonselection_alpha"])

	edit := NewPolyEdit(nil, nil, "Path Edit Tool")
	assert.Equal(t, "Path Edit Tool", edit.Tooltip)
}
