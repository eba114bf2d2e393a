package element

// Overlay composes multiple elements into one rendered plot, drawn in order.
type Overlay struct {
	items []*Element
}

// NewOverlay creates an overlay from the given elements.
func NewOverlay(items ...*Element) *Overlay {
	return &Overlay{items: append([]*Element(nil), items...)}
}

// Add appends an element layer.
func (o *Overlay) Add(e *Element) {
	o.items = append(o.items, e)
}

// Len returns the number of layers.
func (o *Overlay) Len() int { return len(o.items) }

// Items returns the layers in draw order.
func (o *Overlay) Items() []*Element {
	return append([]*Element(nil), o.items...)
}

// Collate returns the layers as a flat render list, skipping nil layers.
// Layers with zero objects are kept; they stay renderable as draw sources.
func (o *Overlay) Collate() []*Element {
	var out []*Element
	for _, e := range o.items {
		if e == nil {
			continue
		}
		out = append(out, e)
	}
	return out
}

// WithOptions returns a new overlay with the style applied to every layer.
func (o *Overlay) WithOptions(style Style) *Overlay {
	items := make([]*Element, len(o.items))
	for i, e := range o.items {
		items[i] = e.WithOptions(style)
	}
	return &Overlay{items: items}
}
