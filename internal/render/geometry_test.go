package render

import (
	"testing"

	"plot-annotate/internal/element"
	"plot-annotate/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentPlotData(t *testing.T) {
	el := element.NewSegments([][2]geometry.Point2D{
		{{X: 1, Y: 2}, {X: 3, Y: 4}},
		{{X: 5, Y: 6}, {X: 7, Y: 8}},
	})

	data, mapping, _, err := SegmentPlot{}.Data(el, nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 5}, data["x0"])
	assert.Equal(t, []float64{2, 6}, data["y0"])
	assert.Equal(t, []float64{3, 7}, data["x1"])
	assert.Equal(t, []float64{4, 8}, data["y1"])
	assert.Equal(t, "x0", mapping["x0"])
}

func TestSegmentPlotInvertedAxes(t *testing.T) {
	el := element.NewSegments([][2]geometry.Point2D{{{X: 1, Y: 2}, {X: 3, Y: 4}}})

	data, _, _, err := SegmentPlot{InvertAxes: true}.Data(el, nil)
	require.NoError(t, err)

	// x and y coordinate pairs swap roles; values are never transformed.
	assert.Equal(t, []float64{2}, data["x0"])
	assert.Equal(t, []float64{1}, data["y0"])
	assert.Equal(t, []float64{4}, data["x1"])
	assert.Equal(t, []float64{3}, data["y1"])
}

func TestSegmentPlotRejectsWrongKind(t *testing.T) {
	el := element.NewPoints(nil)
	_, _, _, err := SegmentPlot{}.Data(el, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Points")
}

func TestRectanglesPlotCentersAndSizes(t *testing.T) {
	el := element.NewRectangles([]geometry.Rect{{X: 1, Y: 2, Width: 4, Height: 6}})

	data, _, _, err := RectanglesPlot{}.Data(el, nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{3}, data["x"])
	assert.Equal(t, []float64{5}, data["y"])
	assert.Equal(t, []float64{4}, data["width"])
	assert.Equal(t, []float64{6}, data["height"])
}

func TestRectanglesPlotNormalizesCornerOrder(t *testing.T) {
	// Corners supplied bottom-right to top-left.
	el := element.New(element.KindRectangles, []*element.Object{
		{Vertices: []geometry.Point2D{{X: 5, Y: 8}, {X: 1, Y: 8}, {X: 1, Y: 2}, {X: 5, Y: 2}, {X: 5, Y: 8}}},
	})

	data, _, _, err := RectanglesPlot{}.Data(el, nil)
	require.NoError(t, err)

	assert.Equal(t, []float64{3}, data["x"])
	assert.Equal(t, []float64{5}, data["y"])
	// Width and height are non-negative for any diagonal order.
	assert.Equal(t, []float64{4}, data["width"])
	assert.Equal(t, []float64{6}, data["height"])
}

func TestRectanglesPlotMergesStyle(t *testing.T) {
	el := element.NewRectangles(nil).WithOptions(element.Style{"alpha": 0.5})

	_, _, style, err := RectanglesPlot{}.Data(el, element.Style{"color": "red"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, style["alpha"])
	assert.Equal(t, "red", style["color"])
}

func TestRectanglesPlotRejectsWrongKind(t *testing.T) {
	el := element.NewPath(nil)
	_, _, _, err := RectanglesPlot{}.Data(el, nil)
	assert.Error(t, err)
}
