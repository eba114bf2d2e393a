package plotview

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"plot-annotate/internal/annotate"
	"plot-annotate/internal/element"
	"plot-annotate/internal/render"
	"plot-annotate/pkg/colorutil"
	"plot-annotate/pkg/geometry"
)

var (
	selectionColor = color.RGBA{R: 255, G: 215, B: 0, A: 255}
	vertexColor    = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	pendingColor   = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	backgroundFill = color.RGBA{R: 24, G: 24, B: 24, A: 255}
)

// draw renders all layers into a fresh RGBA image at the requested size.
func (c *Canvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(output, output.Bounds(), &image.Uniform{backgroundFill}, image.Point{}, draw.Src)

	for _, bg := range c.backgrounds {
		c.drawBackground(output, bg)
	}

	for i, layer := range c.manager.Layers() {
		var el *element.Element
		var selected map[int]bool
		switch l := layer.(type) {
		case *annotate.Annotator:
			el = l.Object()
			if l == c.active {
				selected = indexSet(l.SelectionStream().Index())
			}
		case *element.Element:
			el = l
		}
		if el == nil {
			continue
		}
		col := layerColor(el, i)
		c.drawElement(output, el, col, selected)
		c.drawLabels(output, el, col)
	}

	c.drawPending(output)
	c.drawDragRect(output)

	return output
}

// layerColor honors a "color" style option, falling back to a stable
// per-layer palette.
func layerColor(el *element.Element, index int) color.RGBA {
	if s, ok := el.Style()["color"].(string); ok {
		if col, ok := colorutil.Parse(s); ok {
			return col
		}
	}
	return colorutil.PaletteColor(index)
}

func indexSet(indices []int) map[int]bool {
	if len(indices) == 0 {
		return nil
	}
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		set[i] = true
	}
	return set
}

// drawBackground scales a raster layer by the zoom using nearest-neighbor
// sampling.
func (c *Canvas) drawBackground(output *image.RGBA, bg *Background) {
	if bg == nil || bg.Image == nil || !bg.Visible {
		return
	}
	opacity := bg.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}

	src := bg.Image
	srcBounds := src.Bounds()
	outBounds := output.Bounds()

	maxX := int(float64(srcBounds.Dx()) * c.zoom)
	maxY := int(float64(srcBounds.Dy()) * c.zoom)
	if maxX > outBounds.Dx() {
		maxX = outBounds.Dx()
	}
	if maxY > outBounds.Dy() {
		maxY = outBounds.Dy()
	}

	for y := 0; y < maxY; y++ {
		srcY := srcBounds.Min.Y + int(float64(y)/c.zoom)
		for x := 0; x < maxX; x++ {
			srcX := srcBounds.Min.X + int(float64(x)/c.zoom)
			r, g, b, a := src.At(srcX, srcY).RGBA()
			if a == 0 {
				continue
			}
			px := color.RGBA{
				R: uint8(float64(r>>8) * opacity),
				G: uint8(float64(g>>8) * opacity),
				B: uint8(float64(b>>8) * opacity),
				A: uint8(float64(a>>8) * opacity),
			}
			blendPixel(output, x, y, px)
		}
	}
}

// drawElement dispatches on the element kind.
func (c *Canvas) drawElement(output *image.RGBA, el *element.Element, col color.RGBA, selected map[int]bool) {
	switch el.Kind() {
	case element.KindPoints:
		for i, o := range el.Objects() {
			if len(o.Vertices) == 0 {
				continue
			}
			p := c.DataToCanvas(o.Vertices[0])
			radius := 4
			if selected[i] {
				c.fillCircle(output, p, radius+2, selectionColor)
			}
			c.fillCircle(output, p, radius, col)
		}
	case element.KindPath, element.KindPolygons:
		closed := el.Kind() == element.KindPolygons
		for i, o := range el.Objects() {
			lineCol := col
			if selected[i] {
				lineCol = selectionColor
			}
			c.drawPolyline(output, o.Vertices, lineCol, closed)
			if c.showVertexHandles() {
				for _, v := range o.Vertices {
					c.fillCircle(output, c.DataToCanvas(v), 2, vertexColor)
				}
			}
		}
	case element.KindRectangles:
		plot := render.RectanglesPlot{}
		data, _, _, err := plot.Data(el, nil)
		if err != nil {
			return
		}
		cx, cy := data["x"], data["y"]
		width, height := data["width"], data["height"]
		for i := range cx {
			lineCol := col
			if selected[i] {
				lineCol = selectionColor
			}
			c.drawRectOutline(output,
				geometry.Point2D{X: cx[i] - width[i]/2, Y: cy[i] - height[i]/2},
				geometry.Point2D{X: cx[i] + width[i]/2, Y: cy[i] + height[i]/2}, lineCol)
		}
	case element.KindSegments:
		plot := render.SegmentPlot{}
		data, _, _, err := plot.Data(el, nil)
		if err != nil {
			return
		}
		x0, y0 := data["x0"], data["y0"]
		x1, y1 := data["x1"], data["y1"]
		for i := range x0 {
			lineCol := col
			if selected[i] {
				lineCol = selectionColor
			}
			c.drawLine(output,
				c.DataToCanvas(geometry.Point2D{X: x0[i], Y: y0[i]}),
				c.DataToCanvas(geometry.Point2D{X: x1[i], Y: y1[i]}), lineCol)
		}
	}
}

func (c *Canvas) showVertexHandles() bool {
	return c.tool == ToolEditVertex || c.tool == ToolDrawPath
}

// drawPending draws the in-progress path with a trailing vertex marker.
func (c *Canvas) drawPending(output *image.RGBA) {
	if len(c.pending) == 0 {
		return
	}
	c.drawPolyline(output, c.pending, pendingColor, false)
	for _, v := range c.pending {
		c.fillCircle(output, c.DataToCanvas(v), 3, pendingColor)
	}
}

// drawDragRect draws the rubber-band rectangle during a box drag.
func (c *Canvas) drawDragRect(output *image.RGBA) {
	if c.dragRect == nil {
		return
	}
	r := *c.dragRect
	c.drawRectOutline(output, r.TopLeft(), r.BottomRight(), pendingColor)
}

func (c *Canvas) drawPolyline(output *image.RGBA, vertices []geometry.Point2D, col color.RGBA, closed bool) {
	if len(vertices) < 2 {
		return
	}
	for i := 1; i < len(vertices); i++ {
		c.drawLine(output, c.DataToCanvas(vertices[i-1]), c.DataToCanvas(vertices[i]), col)
	}
	if closed && vertices[0] != vertices[len(vertices)-1] {
		c.drawLine(output, c.DataToCanvas(vertices[len(vertices)-1]), c.DataToCanvas(vertices[0]), col)
	}
}

func (c *Canvas) drawRectOutline(output *image.RGBA, p0, p1 geometry.Point2D, col color.RGBA) {
	a := c.DataToCanvas(p0)
	b := c.DataToCanvas(p1)
	c.drawLine(output, a, geometry.Point2D{X: b.X, Y: a.Y}, col)
	c.drawLine(output, geometry.Point2D{X: b.X, Y: a.Y}, b, col)
	c.drawLine(output, b, geometry.Point2D{X: a.X, Y: b.Y}, col)
	c.drawLine(output, geometry.Point2D{X: a.X, Y: b.Y}, a, col)
}

// drawLine draws a line between two canvas-space points using Bresenham's
// algorithm.
func (c *Canvas) drawLine(output *image.RGBA, from, to geometry.Point2D, col color.RGBA) {
	x0, y0 := int(from.X), int(from.Y)
	x1, y1 := int(to.X), int(to.Y)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		blendPixel(output, x0, y0, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillCircle draws a filled circle at a canvas-space center.
func (c *Canvas) fillCircle(output *image.RGBA, center geometry.Point2D, radius int, col color.RGBA) {
	cx, cy := int(center.X), int(center.Y)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				blendPixel(output, cx+dx, cy+dy, col)
			}
		}
	}
}

// glyphs holds 3x5 pixel patterns, row by row, for the characters the canvas
// can draw as object labels.
var glyphs = map[rune]string{
	'0': "111 101 101 101 111", '1': "010 110 010 010 111",
	'2': "111 001 111 100 111", '3': "111 001 111 001 111",
	'4': "101 101 111 001 001", '5': "111 100 111 001 111",
	'6': "111 100 111 101 111", '7': "111 001 001 001 001",
	'8': "111 101 111 101 111", '9': "111 101 111 001 111",
	'A': "010 101 111 101 101", 'B': "110 101 110 101 110",
	'C': "011 100 100 100 011", 'D': "110 101 101 101 110",
	'E': "111 100 110 100 111", 'F': "111 100 110 100 100",
	'G': "011 100 101 101 011", 'H': "101 101 111 101 101",
	'I': "111 010 010 010 111", 'J': "001 001 001 101 010",
	'K': "101 101 110 101 101", 'L': "100 100 100 100 111",
	'M': "101 111 101 101 101", 'N': "101 111 111 101 101",
	'O': "010 101 101 101 010", 'P': "110 101 110 100 100",
	'Q': "010 101 101 111 011", 'R': "110 101 110 101 101",
	'S': "011 100 010 001 110", 'T': "111 010 010 010 010",
	'U': "101 101 101 101 111", 'V': "101 101 101 101 010",
	'W': "101 101 101 111 101", 'X': "101 101 010 101 101",
	'Y': "101 101 010 010 010", 'Z': "111 001 010 100 111",
	'-': "000 000 111 000 000", '+': "000 010 111 010 000",
	'.': "000 000 000 000 010", ' ': "000 000 000 000 000",
}

// drawText draws a short label at a canvas-space position using the 3x5
// glyph patterns, doubled in size. Unknown characters render as blanks.
func (c *Canvas) drawText(output *image.RGBA, text string, at geometry.Point2D, col color.RGBA) {
	const scale = 2
	x := int(at.X)
	y := int(at.Y)
	for _, ch := range text {
		if ch >= 'a' && ch <= 'z' {
			ch = ch - 'a' + 'A'
		}
		pattern, ok := glyphs[ch]
		if ok {
			rows := strings.Fields(pattern)
			for row, bits := range rows {
				for bit, b := range bits {
					if b != '1' {
						continue
					}
					for dy := 0; dy < scale; dy++ {
						for dx := 0; dx < scale; dx++ {
							blendPixel(output, x+bit*scale+dx, y+row*scale+dy, col)
						}
					}
				}
			}
		}
		x += 4 * scale
	}
}

// labelAnchor returns where an object's label belongs: just above the first
// vertex.
func (c *Canvas) labelAnchor(o *element.Object) (geometry.Point2D, bool) {
	if len(o.Vertices) == 0 {
		return geometry.Point2D{}, false
	}
	p := c.DataToCanvas(o.Vertices[0])
	p.Y -= 14
	return p, true
}

// drawLabels draws the first object-scope string column next to each object.
func (c *Canvas) drawLabels(output *image.RGBA, el *element.Element, col color.RGBA) {
	var labelDim string
	for _, d := range el.Dimensions() {
		if d.Scope == element.ScopeObject {
			labelDim = d.Name
			break
		}
	}
	if labelDim == "" {
		return
	}
	for _, o := range el.Objects() {
		text, ok := o.Scalars[labelDim].(string)
		if !ok || text == "" {
			continue
		}
		if at, ok := c.labelAnchor(o); ok {
			c.drawText(output, text, at, col)
		}
	}
}

// blendPixel writes a pixel with alpha blending, skipping out-of-bounds
// coordinates.
func blendPixel(output *image.RGBA, x, y int, col color.RGBA) {
	bounds := output.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	if col.A == 255 {
		output.SetRGBA(x, y, col)
		return
	}
	existing := output.RGBAAt(x, y)
	alpha := int(col.A)
	inv := 255 - alpha
	output.SetRGBA(x, y, color.RGBA{
		R: uint8((int(col.R)*alpha + int(existing.R)*inv) / 255),
		G: uint8((int(col.G)*alpha + int(existing.G)*inv) / 255),
		B: uint8((int(col.B)*alpha + int(existing.B)*inv) / 255),
		A: 255,
	})
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
