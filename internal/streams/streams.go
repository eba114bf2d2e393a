// Package streams provides interaction event sources for plot tools.
//
// A stream reflects in-progress user edits: drawing tools push element
// snapshots, selection tools push index sets. Subscribers register explicitly
// and receive a cancellable handle; delivery is synchronous and
// single-threaded on the GUI loop.
package streams

import (
	"plot-annotate/internal/element"
)

// Subscription is a handle to a registered subscriber.
type Subscription struct {
	cancel func()
}

// NewSubscription wraps a cancel function in a Subscription handle.
func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

// Cancel unregisters the subscriber. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// ElementStream is the common behavior of draw and edit streams.
type ElementStream interface {
	// Element returns the current snapshot of the edited geometry.
	Element() *element.Element
	// Push replaces the snapshot and notifies subscribers.
	Push(el *element.Element)
	// Subscribe registers a subscriber for snapshot updates.
	Subscribe(fn func(*element.Element)) *Subscription
}

// elementSource implements snapshot storage and subscriber dispatch.
type elementSource struct {
	current *element.Element
	subs    map[int]func(*element.Element)
	nextID  int
	// maxObjects caps the object count; zero means unlimited.
	maxObjects int
}

func newElementSource(source *element.Element, maxObjects int) elementSource {
	return elementSource{
		current:    source,
		subs:       make(map[int]func(*element.Element)),
		maxObjects: maxObjects,
	}
}

func (s *elementSource) Element() *element.Element { return s.current }

func (s *elementSource) Push(el *element.Element) {
	if el != nil && s.maxObjects > 0 && el.Len() > s.maxObjects {
		// Oldest objects fall off when the cap is exceeded.
		start := el.Len() - s.maxObjects
		indices := make([]int, 0, s.maxObjects)
		for i := start; i < el.Len(); i++ {
			indices = append(indices, i)
		}
		el = el.CloneIndices(indices)
	}
	s.current = el
	for _, fn := range s.subs {
		fn(el)
	}
}

func (s *elementSource) Subscribe(fn func(*element.Element)) *Subscription {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return &Subscription{cancel: func() { delete(s.subs, id) }}
}

// PointDraw reflects drawing and dragging of individual points.
type PointDraw struct {
	elementSource
	Tooltip string
}

// NewPointDraw creates a point draw stream over the source element.
func NewPointDraw(source *element.Element, numObjects int, tooltip string) *PointDraw {
	return &PointDraw{
		elementSource: newElementSource(source, numObjects),
		Tooltip:       tooltip,
	}
}

// PolyDraw reflects drawing of new paths or polygons.
type PolyDraw struct {
	elementSource
	Tooltip      string
	ShowVertices bool
	VertexStyle  element.Style
}

// NewPolyDraw creates a path/polygon draw stream over the source element.
func NewPolyDraw(source *element.Element, numObjects int, showVertices bool, vertexStyle element.Style, tooltip string) *PolyDraw {
	return &PolyDraw{
		elementSource: newElementSource(source, numObjects),
		Tooltip:       tooltip,
		ShowVertices:  showVertices,
		VertexStyle:   vertexStyle,
	}
}

// PolyEdit reflects vertex-level edits of existing paths or polygons.
type PolyEdit struct {
	elementSource
	Tooltip     string
	VertexStyle element.Style
}

// NewPolyEdit creates a vertex edit stream over the source element.
func NewPolyEdit(source *element.Element, vertexStyle element.Style, tooltip string) *PolyEdit {
	return &PolyEdit{
		elementSource: newElementSource(source, 0),
		Tooltip:       tooltip,
		VertexStyle:   vertexStyle,
	}
}

// BoxEdit reflects drawing, moving, and resizing of boxes.
type BoxEdit struct {
	elementSource
	Tooltip string
}

// NewBoxEdit creates a box edit stream over the source element.
func NewBoxEdit(source *element.Element, numObjects int, tooltip string) *BoxEdit {
	return &BoxEdit{
		elementSource: newElementSource(source, numObjects),
		Tooltip:       tooltip,
	}
}

// Selection1D reflects the set of selected object indices.
type Selection1D struct {
	index  []int
	subs   map[int]func([]int)
	nextID int
}

// NewSelection1D creates an empty selection stream.
func NewSelection1D() *Selection1D {
	return &Selection1D{subs: make(map[int]func([]int))}
}

// Index returns the currently selected object indices.
func (s *Selection1D) Index() []int {
	return append([]int(nil), s.index...)
}

// Set replaces the selection and notifies subscribers.
func (s *Selection1D) Set(index []int) {
	s.index = append([]int(nil), index...)
	for _, fn := range s.subs {
		fn(s.Index())
	}
}

// Subscribe registers a subscriber for selection changes.
func (s *Selection1D) Subscribe(fn func([]int)) *Subscription {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return &Subscription{cancel: func() { delete(s.subs, id) }}
}
