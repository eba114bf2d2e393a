// Package annotate provides interactive annotators that pair an editable
// element with annotation tables and a drawing surface, plus a manager that
// composes annotators into one overlay and a tabbed editor.
//
// All state changes run synchronously on the GUI loop. Structural field
// changes re-run initialization inside a batch scope so observers see a
// single notification; stream write-backs replace the element under a
// suppression scope so they do not re-trigger initialization.
package annotate

import (
	"fmt"
	"sort"

	"plot-annotate/internal/element"
	"plot-annotate/internal/links"
	"plot-annotate/internal/streams"
)

// AnnotationSpec declares the annotation columns an annotator manages:
// either an ordered list of names (defaulting to the empty string) or a
// mapping from name to a default-value factory.
type AnnotationSpec struct {
	names     []string
	factories map[string]func() element.Value
}

// Columns declares annotation columns by name with empty-string defaults.
func Columns(names ...string) AnnotationSpec {
	return AnnotationSpec{names: append([]string(nil), names...)}
}

// Factories declares annotation columns with per-column default factories.
func Factories(factories map[string]func() element.Value) AnnotationSpec {
	return AnnotationSpec{factories: factories}
}

// Names returns the declared column names in a stable order.
func (s AnnotationSpec) Names() []string {
	if s.factories == nil {
		return append([]string(nil), s.names...)
	}
	names := make([]string, 0, len(s.factories))
	for name := range s.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the default value for a column: the factory's return value
// for mapping specs, the empty string otherwise.
func (s AnnotationSpec) Default(name string) element.Value {
	if s.factories != nil {
		if factory, ok := s.factories[name]; ok && factory != nil {
			return factory()
		}
	}
	return ""
}

// Empty reports whether the spec declares no columns.
func (s AnnotationSpec) Empty() bool {
	return len(s.names) == 0 && len(s.factories) == 0
}

// Config holds the tunable fields shared by all annotators.
type Config struct {
	// Annotations declares per-object annotation columns.
	Annotations AnnotationSpec
	// VertexAnnotations declares per-vertex columns (paths and polygons).
	VertexAnnotations AnnotationSpec
	// NumObjects caps the number of drawable objects; zero means unlimited.
	NumObjects int
	// Opts are style options applied to the element.
	Opts element.Style
	// TableOpts are display options applied to the editor tables.
	TableOpts element.Style
	// EditVertices adds a vertex edit tool (paths and polygons).
	EditVertices bool
	// ShowVertices shows vertices while drawing (paths and polygons).
	ShowVertices bool
	// VertexStyle styles vertices during drawing and editing.
	VertexStyle element.Style
}

// DefaultConfig returns the config all annotators start from.
func DefaultConfig() Config {
	return Config{
		Opts:         element.Style{"responsive": true, "min_height": 400, "padding": 0.1},
		TableOpts:    element.Style{"editable": true},
		EditVertices: true,
		ShowVertices: true,
		VertexStyle:  element.Style{"nonselection_alpha": 0.5},
	}
}

// NamedTable pairs an editor table with its tab title.
type NamedTable struct {
	Name  string
	Table *element.Table
}

// geometryVariant is the per-geometry-kind capability set: element
// construction, table/stream wiring, and selection semantics.
type geometryVariant interface {
	kind() element.Kind
	// initElement builds a valid, annotated, styled element from the given
	// one (possibly nil), without mutating the annotator.
	initElement(a *Annotator, el *element.Element) (*element.Element, error)
	// initTables creates the interaction streams, tables, and links.
	initTables(a *Annotator)
	// selected clones the currently selected objects.
	selected(a *Annotator) *element.Element
}

// Annotator owns one editable element, its derived annotation tables, a
// draw/edit stream, and a selection stream.
type Annotator struct {
	name    string
	variant geometryVariant

	annotations       AnnotationSpec
	vertexAnnotations AnnotationSpec
	object            *element.Element
	numObjects        int
	opts              element.Style
	tableOpts         element.Style
	editVertices      bool
	showVertices      bool
	vertexStyle       element.Style

	selection    *streams.Selection1D
	stream       streams.ElementStream
	vertexStream *streams.PolyEdit
	streamSub    *streams.Subscription

	tables []NamedTable
	links  []links.Link

	watchers map[int]func(*element.Element)
	nextID   int

	batchDepth   int
	batchPending bool
}

func newAnnotator(name string, variant geometryVariant, object *element.Element, cfg Config) (*Annotator, error) {
	a := &Annotator{
		name:              name,
		variant:           variant,
		annotations:       cfg.Annotations,
		vertexAnnotations: cfg.VertexAnnotations,
		object:            object,
		numObjects:        cfg.NumObjects,
		opts:              cfg.Opts,
		tableOpts:         cfg.TableOpts,
		editVertices:      cfg.EditVertices,
		showVertices:      cfg.ShowVertices,
		vertexStyle:       cfg.VertexStyle,
		selection:         streams.NewSelection1D(),
		watchers:          make(map[int]func(*element.Element)),
	}
	if a.opts == nil {
		a.opts = DefaultConfig().Opts
	}
	if a.tableOpts == nil {
		a.tableOpts = DefaultConfig().TableOpts
	}
	if err := a.initialize(); err != nil {
		return nil, err
	}
	return a, nil
}

// Name returns the annotator's display name.
func (a *Annotator) Name() string { return a.name }

// Kind returns the annotator's geometry kind.
func (a *Annotator) Kind() element.Kind { return a.variant.kind() }

// Object returns the current annotated, styled element.
func (a *Annotator) Object() *element.Element { return a.object }

// Tables returns the editor tables in tab order.
func (a *Annotator) Tables() []NamedTable { return append([]NamedTable(nil), a.tables...) }

// Stream returns the primary draw/edit stream.
func (a *Annotator) Stream() streams.ElementStream { return a.stream }

// VertexStream returns the vertex edit stream, or nil if the annotator has
// none.
func (a *Annotator) VertexStream() *streams.PolyEdit { return a.vertexStream }

// SelectionStream returns the annotator's selection stream.
func (a *Annotator) SelectionStream() *streams.Selection1D { return a.selection }

// Select replaces the selected object indices.
func (a *Annotator) Select(indices []int) { a.selection.Set(indices) }

// Selected returns a new element containing only the currently selected
// objects, in drawing order.
func (a *Annotator) Selected() *element.Element { return a.variant.selected(a) }

// OnElement registers an observer for element replacement. Observers fire
// both on structural re-initialization and on stream write-backs.
func (a *Annotator) OnElement(fn func(*element.Element)) *streams.Subscription {
	id := a.nextID
	a.nextID++
	a.watchers[id] = fn
	return streams.NewSubscription(func() { delete(a.watchers, id) })
}

// batchScope batches outbound notifications until Commit.
type batchScope struct {
	a    *Annotator
	done bool
}

func (a *Annotator) beginBatch() *batchScope {
	a.batchDepth++
	return &batchScope{a: a}
}

// Commit ends the batch; the pending notification, if any, is delivered once.
func (b *batchScope) Commit() {
	if b.done {
		return
	}
	b.done = true
	b.a.batchDepth--
	if b.a.batchDepth == 0 && b.a.batchPending {
		b.a.batchPending = false
		b.a.notifyElement()
	}
}

func (a *Annotator) notifyElement() {
	if a.batchDepth > 0 {
		a.batchPending = true
		return
	}
	for _, fn := range a.watchers {
		fn(a.object)
	}
}

// initialize rebuilds the element, tables, streams, and links from the
// current fields. It is idempotent: replaying it from the same field state
// yields an equivalent element and tables. On validation failure no state is
// committed.
func (a *Annotator) initialize() error {
	el, err := a.variant.initElement(a, a.object)
	if err != nil {
		return err
	}

	batch := a.beginBatch()
	defer batch.Commit()

	a.object = el
	a.tables = nil
	for _, l := range a.links {
		l.Close()
	}
	a.links = nil
	a.vertexStream = nil
	a.variant.initTables(a)

	if a.streamSub != nil {
		a.streamSub.Cancel()
	}
	a.streamSub = a.stream.Subscribe(a.updateFromStream)

	a.notifyElement()
	return nil
}

// SetObject replaces the edited element and re-initializes.
func (a *Annotator) SetObject(el *element.Element) error {
	prev := a.object
	a.object = el
	if err := a.initialize(); err != nil {
		a.object = prev
		return err
	}
	return nil
}

// SetAnnotations replaces the annotation spec and re-initializes.
func (a *Annotator) SetAnnotations(spec AnnotationSpec) error {
	prev := a.annotations
	a.annotations = spec
	if err := a.initialize(); err != nil {
		a.annotations = prev
		return err
	}
	return nil
}

// SetVertexAnnotations replaces the per-vertex spec and re-initializes.
func (a *Annotator) SetVertexAnnotations(spec AnnotationSpec) error {
	prev := a.vertexAnnotations
	a.vertexAnnotations = spec
	if err := a.initialize(); err != nil {
		a.vertexAnnotations = prev
		return err
	}
	return nil
}

// SetNumObjects replaces the object-count cap and re-initializes.
func (a *Annotator) SetNumObjects(n int) error {
	if n < 0 {
		return fmt.Errorf("num objects must not be negative, got %d", n)
	}
	prev := a.numObjects
	a.numObjects = n
	if err := a.initialize(); err != nil {
		a.numObjects = prev
		return err
	}
	return nil
}

// SetOpts replaces the element style options and re-initializes.
func (a *Annotator) SetOpts(opts element.Style) error {
	prev := a.opts
	a.opts = opts
	if err := a.initialize(); err != nil {
		a.opts = prev
		return err
	}
	return nil
}

// SetTableOpts replaces the table display options and re-initializes.
func (a *Annotator) SetTableOpts(opts element.Style) error {
	prev := a.tableOpts
	a.tableOpts = opts
	if err := a.initialize(); err != nil {
		a.tableOpts = prev
		return err
	}
	return nil
}

// updateFromStream commits a stream snapshot into the element. The
// assignment is suppressed from re-triggering initialization; links are
// re-pointed and element observers notified.
func (a *Annotator) updateFromStream(el *element.Element) {
	if el == nil {
		return
	}
	a.replaceObject(a.collapseBroadcast(el))
}

// commitFromTable commits a table edit's replacement element.
func (a *Annotator) commitFromTable(el *element.Element) {
	a.replaceObject(el)
}

func (a *Annotator) replaceObject(el *element.Element) {
	a.object = el
	for _, l := range a.links {
		l.SetSource(el)
	}
	a.notifyElement()
}

// collapseBroadcast folds per-object annotation values that the drawing tool
// broadcast across a path's vertices back down to a single scalar, re-scoping
// the dimension so downstream reads find the value where it now lives.
func (a *Annotator) collapseBroadcast(el *element.Element) *element.Element {
	names := a.annotations.Names()
	if len(names) == 0 {
		return el
	}

	out := el
	dims := make(map[string]element.Dimension)
	for _, d := range out.Dimensions() {
		dims[d.Name] = d
	}
	for _, name := range names {
		d, ok := dims[name]
		if !ok || d.Scope != element.ScopeVertex {
			continue
		}
		collapsed, err := out.CollapseFirstToObjectScope(name)
		if err != nil {
			continue
		}
		out = collapsed
	}
	return out
}

// addAnnotationDimensions adds the spec's columns to the element with their
// defaults. Pre-existing columns declared per-object are validated (and
// collapsed) rather than replaced.
func addAnnotationDimensions(el *element.Element, spec AnnotationSpec, scope element.Scope) (*element.Element, error) {
	for _, name := range spec.Names() {
		if el.HasDimension(name) {
			if scope == element.ScopeObject {
				collapsed, err := el.CollapseToObjectScope(name)
				if err != nil {
					return nil, err
				}
				el = collapsed
			}
			continue
		}
		el = el.AddDimension(element.Dimension{
			Name:    name,
			Default: spec.Default(name),
			Scope:   scope,
		})
	}
	return el, nil
}
