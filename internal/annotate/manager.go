package annotate

import (
	"fmt"

	"plot-annotate/internal/element"
	"plot-annotate/internal/streams"
)

// TabGroup is one annotator's editor tables, grouped under its name.
type TabGroup struct {
	Title  string
	Tables []NamedTable
}

// Manager combines any number of annotators and plain elements into a single
// linked overlay plot and a tabbed table editor.
type Manager struct {
	annotators []*Annotator
	elements   []*element.Element
	order      []int // positive: annotator index+1, negative: element index+1

	opts      element.Style
	tableOpts element.Style

	layerSubs []*streams.Subscription
	watchers  map[int]func()
	nextID    int
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		opts:      element.Style{"responsive": true, "min_height": 400},
		tableOpts: element.Style{"width": 400},
		watchers:  make(map[int]func()),
	}
}

// SetOpts replaces the options applied to the plot layers.
func (m *Manager) SetOpts(opts element.Style) {
	m.opts = opts
	m.notify()
}

// SetTableOpts replaces the options applied to editor tables.
func (m *Manager) SetTableOpts(opts element.Style) {
	m.tableOpts = opts
	m.notify()
}

// AddLayer adds an annotator or a plain element to the managed layers. Any
// other type is rejected and the layer list is left unchanged.
func (m *Manager) AddLayer(layer interface{}) error {
	switch l := layer.(type) {
	case *Annotator:
		sub := l.OnElement(func(*element.Element) { m.notify() })
		m.layerSubs = append(m.layerSubs, sub)
		m.annotators = append(m.annotators, l)
		m.order = append(m.order, len(m.annotators))
	case *element.Element:
		m.elements = append(m.elements, l)
		m.order = append(m.order, -len(m.elements))
	default:
		return fmt.Errorf("annotation layer must be an Annotator or an Element, got %T", layer)
	}
	m.notify()
	return nil
}

// NumLayers returns the number of managed layers.
func (m *Manager) NumLayers() int { return len(m.order) }

// Annotators returns the managed annotators in add order.
func (m *Manager) Annotators() []*Annotator {
	return append([]*Annotator(nil), m.annotators...)
}

// Layers returns the managed layers in add order. Each entry is either an
// *Annotator or an *element.Element.
func (m *Manager) Layers() []interface{} {
	out := make([]interface{}, 0, len(m.order))
	for _, ord := range m.order {
		if ord > 0 {
			out = append(out, m.annotators[ord-1])
		} else {
			out = append(out, m.elements[-ord-1])
		}
	}
	return out
}

// Plot returns the combined overlay of all layers' current elements, collated
// and styled with the manager options.
func (m *Manager) Plot() *element.Overlay {
	overlay := element.NewOverlay()
	for _, ord := range m.order {
		if ord > 0 {
			overlay.Add(m.annotators[ord-1].Object())
		} else {
			overlay.Add(m.elements[-ord-1])
		}
	}
	if overlay.Len() == 0 {
		return overlay
	}
	return element.NewOverlay(overlay.Collate()...).WithOptions(m.opts)
}

// Editor returns the annotators' tables grouped into tab panels, one group
// per annotator, with the manager's table options applied.
func (m *Manager) Editor() []TabGroup {
	groups := make([]TabGroup, 0, len(m.annotators))
	for _, a := range m.annotators {
		group := TabGroup{Title: a.Name()}
		for _, nt := range a.Tables() {
			nt.Table.WithOptions(m.tableOpts)
			group.Tables = append(group.Tables, nt)
		}
		groups = append(groups, group)
	}
	return groups
}

// OnChange registers an observer for any layer-list or layer-element change.
func (m *Manager) OnChange(fn func()) *streams.Subscription {
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	return streams.NewSubscription(func() { delete(m.watchers, id) })
}

func (m *Manager) notify() {
	for _, fn := range m.watchers {
		fn()
	}
}
