package annotate

import (
	"fmt"

	"plot-annotate/internal/element"
	"plot-annotate/internal/links"
	"plot-annotate/internal/streams"
)

// boxVariant implements box annotation. Boxes are stored as closed rings;
// the editor shows one row per box with the annotation columns only.
type boxVariant struct{}

// NewBoxAnnotator creates an annotator for drawing and editing boxes,
// associating values with each box through a table.
func NewBoxAnnotator(name string, object *element.Element, cfg Config) (*Annotator, error) {
	return newAnnotator(name, boxVariant{}, object, cfg)
}

func (boxVariant) kind() element.Kind { return element.KindRectangles }

func (boxVariant) initElement(a *Annotator, el *element.Element) (*element.Element, error) {
	if el == nil || el.Kind() != element.KindRectangles {
		if el != nil {
			return nil, fmt.Errorf("box annotator cannot edit a %s element", el.Kind())
		}
		el = element.New(element.KindRectangles, nil)
	}

	el, err := addAnnotationDimensions(el, a.annotations, element.ScopeObject)
	if err != nil {
		return nil, err
	}
	return el.WithOptions(a.opts), nil
}

func (boxVariant) initTables(a *Annotator) {
	a.stream = streams.NewBoxEdit(a.object, a.numObjects, fmt.Sprintf("%s Tool", a.name))

	table := element.NewTable(nil, a.annotations.Names()).WithOptions(a.tableOpts)
	a.links = []links.Link{
		links.NewDataLink(a.object, table, a.commitFromTable),
	}
	a.tables = []NamedTable{{Name: a.name, Table: table}}
}

func (boxVariant) selected(a *Annotator) *element.Element {
	el := a.stream.Element()
	if el == nil {
		el = a.object
	}
	return el.CloneIndices(a.selection.Index())
}
