package plotview

import (
	"plot-annotate/internal/element"
	"plot-annotate/pkg/geometry"
)

// pickTolerance returns the hit radius in data coordinates so picking stays
// constant in screen space.
func (c *Canvas) pickTolerance() float64 {
	return hitTolerance / c.zoom
}

// handleTap routes a primary tap to the current tool.
func (c *Canvas) handleTap(p geometry.Point2D) {
	if c.active == nil {
		return
	}
	switch c.tool {
	case ToolSelect:
		c.selectAt(p)
	case ToolDrawPoint:
		c.addPoint(p)
	case ToolDrawPath:
		c.pending = append(c.pending, p)
		c.Refresh()
	case ToolEditVertex:
		c.grabVertexAt(p)
	}
}

// handleSecondaryTap finishes a pending path or clears the vertex grab.
func (c *Canvas) handleSecondaryTap(p geometry.Point2D) {
	switch c.tool {
	case ToolDrawPath:
		c.finishPath()
	case ToolEditVertex:
		c.grabObject, c.grabVertex = -1, -1
		c.Refresh()
	}
}

// handleDrag updates the rubber band or moves the grabbed vertex.
func (c *Canvas) handleDrag(p geometry.Point2D) {
	if c.active == nil {
		return
	}
	switch c.tool {
	case ToolDrawBox:
		if !c.dragging {
			c.dragging = true
			c.dragStart = p
		}
		r := normalizedRect(c.dragStart, p)
		c.dragRect = &r
		c.Refresh()
	case ToolEditVertex:
		c.moveGrabbedVertex(p)
	}
}

// handleDragEnd commits the rubber-band box.
func (c *Canvas) handleDragEnd() {
	if c.tool == ToolDrawBox && c.dragging && c.dragRect != nil {
		c.addBox(*c.dragRect)
	}
	c.dragging = false
	c.dragRect = nil
	if c.tool == ToolEditVertex {
		c.grabObject, c.grabVertex = -1, -1
	}
	c.Refresh()
}

// selectAt hit-tests the active annotator's objects and updates its selection.
func (c *Canvas) selectAt(p geometry.Point2D) {
	el := c.active.Object()
	tol := c.pickTolerance()

	for i := el.Len() - 1; i >= 0; i-- {
		o := el.Object(i)
		if c.objectHit(el.Kind(), o, p, tol) {
			c.active.Select([]int{i})
			c.Refresh()
			return
		}
	}
	c.active.Select(nil)
	c.Refresh()
}

func (c *Canvas) objectHit(kind element.Kind, o *element.Object, p geometry.Point2D, tol float64) bool {
	switch kind {
	case element.KindPoints:
		return len(o.Vertices) > 0 && o.Vertices[0].Distance(p) <= tol
	case element.KindPath:
		return geometry.PointNearPolyline(p, o.Vertices, tol)
	case element.KindPolygons, element.KindRectangles:
		return geometry.PointInPolygon(p, o.Vertices) ||
			geometry.PointNearPolyline(p, o.Vertices, tol)
	case element.KindSegments:
		if len(o.Vertices) < 2 {
			return false
		}
		return geometry.DistanceToSegment(p, o.Vertices[0], o.Vertices[1]) <= tol
	}
	return false
}

// addPoint appends a point object and pushes the snapshot into the draw
// stream.
func (c *Canvas) addPoint(p geometry.Point2D) {
	el := c.active.Object()
	if el.Kind() != element.KindPoints {
		return
	}
	c.pushAppended(el, []geometry.Point2D{p})
}

// finishPath commits the pending vertices as a new path or polygon object.
func (c *Canvas) finishPath() {
	defer func() {
		c.pending = nil
		c.Refresh()
	}()
	if c.active == nil || len(c.pending) < 2 {
		return
	}

	el := c.active.Object()
	vertices := append([]geometry.Point2D(nil), c.pending...)
	if el.Kind() == element.KindPolygons && vertices[0] != vertices[len(vertices)-1] {
		vertices = append(vertices, vertices[0])
	}
	if el.Kind() != element.KindPath && el.Kind() != element.KindPolygons {
		return
	}
	c.pushAppended(el, vertices)
}

// addBox commits a dragged rectangle as a closed ring object.
func (c *Canvas) addBox(r geometry.Rect) {
	el := c.active.Object()
	if el.Kind() != element.KindRectangles {
		return
	}
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	c.pushAppended(el, r.Corners())
}

// pushAppended pushes a snapshot of the element with one new object appended.
// Declared annotation columns are filled with their defaults.
func (c *Canvas) pushAppended(el *element.Element, vertices []geometry.Point2D) {
	obj := newObjectWithDefaults(el, vertices)
	next := el.Clone(append(el.Objects(), obj))
	c.active.Stream().Push(next)
	c.Refresh()
}

// grabVertexAt picks the nearest vertex of the active element for dragging.
func (c *Canvas) grabVertexAt(p geometry.Point2D) {
	el := c.active.Object()
	if el.Kind() != element.KindPath && el.Kind() != element.KindPolygons {
		return
	}
	tol := c.pickTolerance()

	c.grabObject, c.grabVertex = -1, -1
	best := tol
	for i, o := range el.Objects() {
		vi := geometry.NearestVertex(p, o.Vertices, tol)
		if vi < 0 {
			continue
		}
		d := o.Vertices[vi].Distance(p)
		if d <= best {
			best = d
			c.grabObject, c.grabVertex = i, vi
		}
	}
	c.Refresh()
}

// moveGrabbedVertex moves the grabbed vertex and pushes the snapshot into
// both the vertex stream and the draw stream.
func (c *Canvas) moveGrabbedVertex(p geometry.Point2D) {
	if c.grabObject < 0 || c.grabVertex < 0 {
		return
	}
	el := c.active.Object()
	if c.grabObject >= el.Len() {
		return
	}
	o := el.Object(c.grabObject)
	if c.grabVertex >= len(o.Vertices) {
		return
	}

	next := el.Clone(el.Objects())
	obj := next.Object(c.grabObject)
	obj.Vertices[c.grabVertex] = p
	// Keep rings closed when the shared endpoint moves.
	last := len(obj.Vertices) - 1
	if el.Kind() == element.KindPolygons && last > 0 {
		if c.grabVertex == 0 {
			obj.Vertices[last] = p
		} else if c.grabVertex == last {
			obj.Vertices[0] = p
		}
	}

	if vs := c.active.VertexStream(); vs != nil {
		vs.Push(next)
	}
	c.active.Stream().Push(next)
	c.Refresh()
}

// newObjectWithDefaults builds an object whose annotation cells carry the
// element's declared defaults.
func newObjectWithDefaults(el *element.Element, vertices []geometry.Point2D) *element.Object {
	obj := &element.Object{Vertices: append([]geometry.Point2D(nil), vertices...)}
	for _, dim := range el.Dimensions() {
		switch dim.Scope {
		case element.ScopeObject:
			if obj.Scalars == nil {
				obj.Scalars = make(map[string]element.Value)
			}
			obj.Scalars[dim.Name] = dim.Default
		case element.ScopeVertex:
			if obj.Columns == nil {
				obj.Columns = make(map[string][]element.Value)
			}
			col := make([]element.Value, len(vertices))
			for i := range col {
				col[i] = dim.Default
			}
			obj.Columns[dim.Name] = col
		}
	}
	return obj
}

func normalizedRect(a, b geometry.Point2D) geometry.Rect {
	x0, x1 := a.X, b.X
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return geometry.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
