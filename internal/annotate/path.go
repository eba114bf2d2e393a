package annotate

import (
	"fmt"

	"plot-annotate/internal/element"
	"plot-annotate/internal/links"
	"plot-annotate/internal/streams"
)

// pathVariant implements path and polygon annotation. Each object carries
// per-path annotation columns and optional per-vertex columns; the editor
// shows one table keyed per path and one keyed per vertex.
type pathVariant struct {
	elementKind element.Kind
}

// NewPathAnnotator creates an annotator for drawing and editing paths,
// associating values with each path and each vertex through tables.
func NewPathAnnotator(name string, object *element.Element, cfg Config) (*Annotator, error) {
	return newAnnotator(name, &pathVariant{elementKind: element.KindPath}, object, cfg)
}

// NewPolyAnnotator creates an annotator for drawing and editing polygons,
// associating values with each polygon and each vertex through tables.
func NewPolyAnnotator(name string, object *element.Element, cfg Config) (*Annotator, error) {
	return newAnnotator(name, &pathVariant{elementKind: element.KindPolygons}, object, cfg)
}

func (v *pathVariant) kind() element.Kind { return v.elementKind }

func (v *pathVariant) initElement(a *Annotator, el *element.Element) (*element.Element, error) {
	if el == nil || el.Kind() != v.elementKind {
		if el != nil {
			return nil, fmt.Errorf("%s annotator cannot edit a %s element", v.elementKind, el.Kind())
		}
		el = element.New(v.elementKind, nil)
	}

	el, err := addAnnotationDimensions(el, a.annotations, element.ScopeObject)
	if err != nil {
		return nil, err
	}
	el, err = addAnnotationDimensions(el, a.vertexAnnotations, element.ScopeVertex)
	if err != nil {
		return nil, err
	}
	return el.WithOptions(a.opts), nil
}

func (v *pathVariant) initTables(a *Annotator) {
	draw := streams.NewPolyDraw(a.object, a.numObjects, a.showVertices, a.vertexStyle,
		fmt.Sprintf("%s Tool", a.name))
	a.stream = draw
	if a.editVertices {
		a.vertexStream = streams.NewPolyEdit(a.object, a.vertexStyle,
			fmt.Sprintf("%s Edit Tool", a.name))
	}

	table := element.NewTable(nil, a.annotations.Names()).WithOptions(a.tableOpts)
	vertexTable := element.NewTable([]string{"x", "y"}, a.vertexAnnotations.Names()).
		WithOptions(a.tableOpts)

	a.links = []links.Link{
		links.NewDataLink(a.object, table, a.commitFromTable),
		links.NewVertexTableLink(a.object, vertexTable, a.selection, a.commitFromTable),
	}
	a.tables = []NamedTable{
		{Name: a.name, Table: table},
		{Name: fmt.Sprintf("%s Vertices", a.name), Table: vertexTable},
	}
}

func (v *pathVariant) selected(a *Annotator) *element.Element {
	el := a.stream.Element()
	if el == nil {
		el = a.object
	}
	return el.CloneIndices(a.selection.Index())
}
