package annotate

import (
	"fmt"

	"plot-annotate/internal/element"
	"plot-annotate/internal/links"
	"plot-annotate/internal/streams"
)

// pointVariant implements point annotation: a single bidirectional table
// whose row selection also drives point selection on the plot.
type pointVariant struct{}

// NewPointAnnotator creates an annotator for drawing and editing points,
// associating values with each point through a table.
func NewPointAnnotator(name string, object *element.Element, cfg Config) (*Annotator, error) {
	if cfg.Opts == nil {
		cfg.Opts = DefaultConfig().Opts.Merged(element.Style{"size": 10})
	}
	return newAnnotator(name, pointVariant{}, object, cfg)
}

func (pointVariant) kind() element.Kind { return element.KindPoints }

func (pointVariant) initElement(a *Annotator, el *element.Element) (*element.Element, error) {
	if el == nil || el.Kind() != element.KindPoints {
		if el != nil {
			return nil, fmt.Errorf("point annotator cannot edit a %s element", el.Kind())
		}
		el = element.New(element.KindPoints, nil)
	}

	el, err := addAnnotationDimensions(el, a.annotations, element.ScopeObject)
	if err != nil {
		return nil, err
	}
	return el.WithOptions(a.opts), nil
}

func (pointVariant) initTables(a *Annotator) {
	a.stream = streams.NewPointDraw(a.object, a.numObjects, fmt.Sprintf("%s Tool", a.name))

	table := element.NewTable([]string{"x", "y"}, a.annotations.Names()).WithOptions(a.tableOpts)
	a.links = []links.Link{
		links.NewDataLink(a.object, table, a.commitFromTable),
		links.NewSelectionLink(table, a.selection),
	}
	a.tables = []NamedTable{{Name: a.name, Table: table}}
}

func (pointVariant) selected(a *Annotator) *element.Element {
	return a.object.CloneIndices(a.selection.Index())
}
