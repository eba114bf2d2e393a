// Package element provides geometric datasets with key and value dimensions.
//
// An Element is a list of drawable objects of one kind (points, paths,
// polygons, rectangles, segments). Key dimensions are the coordinates; value
// dimensions are named annotation columns scoped either per object or per
// vertex. Elements are replaced wholesale on every edit, never mutated in
// place.
package element

import (
	"fmt"

	"plot-annotate/pkg/geometry"
)

// Kind identifies the geometry type of an element.
type Kind int

const (
	KindPoints Kind = iota
	KindPath
	KindPolygons
	KindRectangles
	KindSegments
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindPoints:
		return "Points"
	case KindPath:
		return "Path"
	case KindPolygons:
		return "Polygons"
	case KindRectangles:
		return "Rectangles"
	case KindSegments:
		return "Segments"
	}
	return "Unknown"
}

// Scope declares whether a value dimension holds one value per object or one
// value per vertex.
type Scope int

const (
	ScopeObject Scope = iota
	ScopeVertex
)

// Value is a single annotation cell value (string or number).
type Value = interface{}

// Dimension describes a value dimension (annotation column).
type Dimension struct {
	Name    string `json:"name"`
	Default Value  `json:"default,omitempty"`
	Scope   Scope  `json:"scope"`
}

// Style holds renderer options keyed by option name.
type Style map[string]Value

// clone returns a copy of the style map.
func (s Style) clone() Style {
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merged returns this style with the other style's entries applied on top.
func (s Style) Merged(other Style) Style {
	out := s.clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Object is a single drawable object: a point, a path, a polygon ring, a
// rectangle, or a segment, together with its annotation values.
type Object struct {
	Vertices []geometry.Point2D `json:"vertices"`
	// Scalars holds per-object column values.
	Scalars map[string]Value `json:"scalars,omitempty"`
	// Columns holds per-vertex column values, one slice entry per vertex.
	Columns map[string][]Value `json:"columns,omitempty"`
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	out := &Object{
		Vertices: append([]geometry.Point2D(nil), o.Vertices...),
	}
	if o.Scalars != nil {
		out.Scalars = make(map[string]Value, len(o.Scalars))
		for k, v := range o.Scalars {
			out.Scalars[k] = v
		}
	}
	if o.Columns != nil {
		out.Columns = make(map[string][]Value, len(o.Columns))
		for k, v := range o.Columns {
			out.Columns[k] = append([]Value(nil), v...)
		}
	}
	return out
}

// Bounds returns the object's axis-aligned bounding box.
func (o *Object) Bounds() geometry.Rect {
	return geometry.BoundingBox(o.Vertices)
}

// Corners returns two opposite corners for rectangle-like objects. Closed
// rings yield the first and third ring vertices; two-vertex objects yield
// both vertices.
func (o *Object) Corners() (geometry.Point2D, geometry.Point2D) {
	if len(o.Vertices) >= 4 {
		return o.Vertices[0], o.Vertices[2]
	}
	if len(o.Vertices) == 2 {
		return o.Vertices[0], o.Vertices[1]
	}
	if len(o.Vertices) == 1 {
		return o.Vertices[0], o.Vertices[0]
	}
	return geometry.Point2D{}, geometry.Point2D{}
}

// Element is an immutable-by-convention geometric dataset.
type Element struct {
	kind    Kind
	vdims   []Dimension
	objects []*Object
	style   Style
}

// New creates an element of the given kind from pre-built objects.
func New(kind Kind, objects []*Object) *Element {
	return &Element{kind: kind, objects: objects, style: Style{}}
}

// NewPoints creates a points element with one object per point.
func NewPoints(points []geometry.Point2D) *Element {
	objects := make([]*Object, len(points))
	for i, p := range points {
		objects[i] = &Object{Vertices: []geometry.Point2D{p}}
	}
	return New(KindPoints, objects)
}

// NewPath creates a multi-path element.
func NewPath(paths [][]geometry.Point2D) *Element {
	return newMultiVertex(KindPath, paths)
}

// NewPolygons creates a multi-polygon element.
func NewPolygons(polys [][]geometry.Point2D) *Element {
	return newMultiVertex(KindPolygons, polys)
}

// NewRectangles creates a rectangles element; each rectangle is stored as a
// closed ring.
func NewRectangles(rects []geometry.Rect) *Element {
	objects := make([]*Object, len(rects))
	for i, r := range rects {
		objects[i] = &Object{Vertices: r.Corners()}
	}
	return New(KindRectangles, objects)
}

// NewSegments creates a segments element from endpoint pairs.
func NewSegments(segments [][2]geometry.Point2D) *Element {
	objects := make([]*Object, len(segments))
	for i, s := range segments {
		objects[i] = &Object{Vertices: []geometry.Point2D{s[0], s[1]}}
	}
	return New(KindSegments, objects)
}

func newMultiVertex(kind Kind, paths [][]geometry.Point2D) *Element {
	objects := make([]*Object, len(paths))
	for i, pts := range paths {
		objects[i] = &Object{Vertices: append([]geometry.Point2D(nil), pts...)}
	}
	return New(kind, objects)
}

// Kind returns the element's geometry kind.
func (e *Element) Kind() Kind { return e.kind }

// Len returns the number of objects.
func (e *Element) Len() int { return len(e.objects) }

// Object returns the i-th object.
func (e *Element) Object(i int) *Object { return e.objects[i] }

// Objects returns the object list. Callers must not mutate it.
func (e *Element) Objects() []*Object { return e.objects }

// Style returns the element's renderer options.
func (e *Element) Style() Style { return e.style }

// Dimensions returns the declared value dimensions.
func (e *Element) Dimensions() []Dimension {
	return append([]Dimension(nil), e.vdims...)
}

// HasDimension reports whether a value dimension with the name exists.
func (e *Element) HasDimension(name string) bool {
	_, ok := e.dimension(name)
	return ok
}

func (e *Element) dimension(name string) (Dimension, bool) {
	for _, d := range e.vdims {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

// shallowClone copies element metadata and deep-copies objects.
func (e *Element) shallowClone() *Element {
	objects := make([]*Object, len(e.objects))
	for i, o := range e.objects {
		objects[i] = o.Clone()
	}
	return &Element{
		kind:    e.kind,
		vdims:   append([]Dimension(nil), e.vdims...),
		objects: objects,
		style:   e.style.clone(),
	}
}

// Clone returns a new element with the same kind, dimensions, and style but
// the given objects.
func (e *Element) Clone(objects []*Object) *Element {
	out := e.shallowClone()
	copied := make([]*Object, len(objects))
	for i, o := range objects {
		copied[i] = o.Clone()
	}
	out.objects = copied
	return out
}

// CloneIndices clones the element keeping only the objects at the given
// indices, in element order.
func (e *Element) CloneIndices(indices []int) *Element {
	keep := make(map[int]bool, len(indices))
	for _, i := range indices {
		keep[i] = true
	}
	var objects []*Object
	for i, o := range e.objects {
		if keep[i] {
			objects = append(objects, o)
		}
	}
	return e.Clone(objects)
}

// AddDimension returns a new element with the value dimension added and its
// default filled in on every object. Adding an existing dimension is a no-op.
func (e *Element) AddDimension(dim Dimension) *Element {
	if e.HasDimension(dim.Name) {
		return e
	}
	out := e.shallowClone()
	out.vdims = append(out.vdims, dim)
	for _, o := range out.objects {
		switch dim.Scope {
		case ScopeObject:
			if o.Scalars == nil {
				o.Scalars = make(map[string]Value)
			}
			o.Scalars[dim.Name] = dim.Default
		case ScopeVertex:
			if o.Columns == nil {
				o.Columns = make(map[string][]Value)
			}
			col := make([]Value, len(o.Vertices))
			for i := range col {
				col[i] = dim.Default
			}
			o.Columns[dim.Name] = col
		}
	}
	return out
}

// WithOptions returns a new element with the style options applied on top of
// the existing ones.
func (e *Element) WithOptions(style Style) *Element {
	out := e.shallowClone()
	out.style = out.style.Merged(style)
	return out
}

// Split returns one single-object element per object, sharing kind,
// dimensions, and style.
func (e *Element) Split() []*Element {
	out := make([]*Element, len(e.objects))
	for i, o := range e.objects {
		out[i] = e.Clone([]*Object{o})
	}
	return out
}

// DimensionValues returns the values of a value dimension. With expanded set,
// per-object values are repeated once per vertex; without it, per-vertex
// columns yield one value per object (the first vertex's value).
func (e *Element) DimensionValues(name string, expanded bool) ([]Value, error) {
	dim, ok := e.dimension(name)
	if !ok {
		return nil, fmt.Errorf("element has no dimension %q", name)
	}
	var out []Value
	for _, o := range e.objects {
		switch dim.Scope {
		case ScopeObject:
			v := o.Scalars[dim.Name]
			if expanded {
				for range o.Vertices {
					out = append(out, v)
				}
			} else {
				out = append(out, v)
			}
		case ScopeVertex:
			col := o.Columns[dim.Name]
			if expanded {
				out = append(out, col...)
			} else if len(col) > 0 {
				out = append(out, col[0])
			} else {
				out = append(out, dim.Default)
			}
		}
	}
	return out, nil
}

// KeyValues returns the key-dimension column at the given index. Point-like
// kinds expose x (0) and y (1) expanded across all vertices; two-corner kinds
// (rectangles, segments) expose x0, y0, x1, y1 (0-3), one row per object.
func (e *Element) KeyValues(index int) ([]float64, error) {
	switch e.kind {
	case KindRectangles, KindSegments:
		if index < 0 || index > 3 {
			return nil, fmt.Errorf("key dimension index %d out of range for %s", index, e.kind)
		}
		out := make([]float64, len(e.objects))
		for i, o := range e.objects {
			c0, c1 := o.Corners()
			switch index {
			case 0:
				out[i] = c0.X
			case 1:
				out[i] = c0.Y
			case 2:
				out[i] = c1.X
			case 3:
				out[i] = c1.Y
			}
		}
		return out, nil
	default:
		if index < 0 || index > 1 {
			return nil, fmt.Errorf("key dimension index %d out of range for %s", index, e.kind)
		}
		var out []float64
		for _, o := range e.objects {
			for _, v := range o.Vertices {
				if index == 0 {
					out = append(out, v.X)
				} else {
					out = append(out, v.Y)
				}
			}
		}
		return out, nil
	}
}

// CollapseToObjectScope re-scopes a per-vertex dimension to per-object. The
// column must be constant across each object's vertices; a varying column is
// a contract violation and yields a descriptive error.
func (e *Element) CollapseToObjectScope(name string) (*Element, error) {
	return e.collapseColumn(name, true)
}

// CollapseFirstToObjectScope re-scopes a per-vertex dimension to per-object,
// taking each object's first vertex value without the constancy check. Used
// when a drawing tool broadcast a per-object value across a path's vertices.
func (e *Element) CollapseFirstToObjectScope(name string) (*Element, error) {
	return e.collapseColumn(name, false)
}

func (e *Element) collapseColumn(name string, requireConstant bool) (*Element, error) {
	dim, ok := e.dimension(name)
	if !ok {
		return nil, fmt.Errorf("element has no dimension %q", name)
	}
	if dim.Scope == ScopeObject {
		return e, nil
	}

	out := e.shallowClone()
	for i, o := range out.objects {
		col := o.Columns[name]
		var v Value = dim.Default
		if len(col) > 0 {
			v = col[0]
			if requireConstant {
				for _, other := range col[1:] {
					if other != v {
						return nil, fmt.Errorf(
							"annotation %q must be constant per %s object but varies across the vertices of object %d",
							name, e.kind, i)
					}
				}
			}
		}
		delete(o.Columns, name)
		if o.Scalars == nil {
			o.Scalars = make(map[string]Value)
		}
		o.Scalars[name] = v
	}
	for i := range out.vdims {
		if out.vdims[i].Name == name {
			out.vdims[i].Scope = ScopeObject
		}
	}
	return out, nil
}
