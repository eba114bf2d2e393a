// Package render converts geometric element data into renderer primitives.
//
// Adapters reshape an element's coordinate columns into the keyed columns a
// drawing backend expects, together with a column mapping and the style to
// apply. Values pass through untransformed.
package render

import (
	"fmt"

	"plot-annotate/internal/element"

	"gonum.org/v1/gonum/floats"
)

// Columns holds keyed coordinate columns.
type Columns map[string][]float64

// Mapping relates renderer parameter names to column keys.
type Mapping map[string]string

// SegmentPlot reshapes two-endpoint elements into segment columns.
type SegmentPlot struct {
	// InvertAxes swaps the roles of the x and y coordinate pairs.
	InvertAxes bool
}

// Data returns the segment columns (x0, y0, x1, y1), their mapping, and the
// combined style. Coordinate values are reordered per InvertAxes but never
// transformed.
func (p SegmentPlot) Data(el *element.Element, style element.Style) (Columns, Mapping, element.Style, error) {
	if el.Kind() != element.KindSegments {
		return nil, nil, nil, fmt.Errorf("segment plot cannot render a %s element", el.Kind())
	}

	inds := [4]int{0, 1, 2, 3}
	if p.InvertAxes {
		inds = [4]int{1, 0, 3, 2}
	}
	cols := make([][]float64, 4)
	for i, idx := range inds {
		vals, err := el.KeyValues(idx)
		if err != nil {
			return nil, nil, nil, err
		}
		cols[i] = vals
	}

	data := Columns{"x0": cols[0], "y0": cols[1], "x1": cols[2], "y1": cols[3]}
	mapping := Mapping{"x0": "x0", "x1": "x1", "y0": "y0", "y1": "y1"}
	return data, mapping, el.Style().Merged(style), nil
}

// RectanglesPlot reshapes two-corner elements into centered rectangle
// columns.
type RectanglesPlot struct {
	// InvertAxes swaps the roles of the x and y coordinate pairs.
	InvertAxes bool
}

// Data returns centered rectangle columns (x, y, width, height), their
// mapping, and the combined style. Corners may be supplied in either
// diagonal order; widths and heights are always non-negative.
func (p RectanglesPlot) Data(el *element.Element, style element.Style) (Columns, Mapping, element.Style, error) {
	if el.Kind() != element.KindRectangles {
		return nil, nil, nil, fmt.Errorf("rectangles plot cannot render a %s element", el.Kind())
	}

	inds := [4]int{0, 1, 2, 3}
	if p.InvertAxes {
		inds = [4]int{1, 0, 3, 2}
	}
	cols := make([][]float64, 4)
	for i, idx := range inds {
		vals, err := el.KeyValues(idx)
		if err != nil {
			return nil, nil, nil, err
		}
		cols[i] = vals
	}
	x0, y0, x1, y1 := cols[0], cols[1], cols[2], cols[3]

	// Normalize corner order element-wise before deriving center and size.
	for i := range x0 {
		if x0[i] > x1[i] {
			x0[i], x1[i] = x1[i], x0[i]
		}
		if y0[i] > y1[i] {
			y0[i], y1[i] = y1[i], y0[i]
		}
	}

	n := len(x0)
	cx := make([]float64, n)
	cy := make([]float64, n)
	width := make([]float64, n)
	height := make([]float64, n)
	floats.AddTo(cx, x0, x1)
	floats.Scale(0.5, cx)
	floats.AddTo(cy, y0, y1)
	floats.Scale(0.5, cy)
	floats.SubTo(width, x1, x0)
	floats.SubTo(height, y1, y0)

	data := Columns{"x": cx, "y": cy, "width": width, "height": height}
	mapping := Mapping{"x": "x", "y": "y", "width": "width", "height": "height"}
	return data, mapping, el.Style().Merged(style), nil
}
