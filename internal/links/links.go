// Package links provides synchronization rules between elements and their
// derived tables.
//
// A link owns the derivation of table rows from an element and routes user
// edits back by producing a new element and handing it to a commit callback;
// the element itself is never mutated in place.
package links

import (
	"fmt"
	"strconv"

	"plot-annotate/internal/element"
	"plot-annotate/internal/streams"
)

// Link is a synchronization rule between an element and a table.
type Link interface {
	// SetSource re-points the link at a replacement element and refreshes
	// the table rows.
	SetSource(el *element.Element)
	// Close cancels the link's stream subscriptions, leaving its table
	// inert. A closed link no longer reacts to selection changes.
	Close()
}

// asFloat coerces a table cell to a coordinate value.
func asFloat(v element.Value) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("cannot interpret %v as a coordinate", v)
}

// collapsedValue returns an object's value for a dimension, taking the first
// vertex value for per-vertex columns.
func collapsedValue(o *element.Object, dim element.Dimension) element.Value {
	if dim.Scope == element.ScopeObject {
		if v, ok := o.Scalars[dim.Name]; ok {
			return v
		}
		return dim.Default
	}
	if col := o.Columns[dim.Name]; len(col) > 0 {
		return col[0]
	}
	return dim.Default
}

// DataLink keeps a table with one row per object in sync with its element.
// Key columns (points only) expose the vertex coordinates; value columns
// expose the object's annotation values.
type DataLink struct {
	source *element.Element
	table  *element.Table
	commit func(*element.Element)
}

// NewDataLink creates the link, fills the table, and wires edit write-back.
func NewDataLink(source *element.Element, table *element.Table, commit func(*element.Element)) *DataLink {
	l := &DataLink{source: source, table: table, commit: commit}
	l.refresh()
	table.OnEdit(l.onEdit)
	return l
}

// SetSource implements Link.
func (l *DataLink) SetSource(el *element.Element) {
	l.source = el
	l.refresh()
}

// Close implements Link. The data link holds no stream subscriptions; its
// table is discarded together with the link.
func (l *DataLink) Close() {}

func (l *DataLink) refresh() {
	if l.source == nil {
		l.table.SetRows(nil)
		return
	}
	dims := make(map[string]element.Dimension)
	for _, d := range l.source.Dimensions() {
		dims[d.Name] = d
	}

	rows := make([][]element.Value, 0, l.source.Len())
	for _, o := range l.source.Objects() {
		row := make([]element.Value, 0, l.table.NumCols())
		for _, k := range l.table.KeyColumns() {
			row = append(row, keyValue(o, k))
		}
		for _, vcol := range l.table.ValueColumns() {
			if d, ok := dims[vcol]; ok {
				row = append(row, collapsedValue(o, d))
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	l.table.SetRows(rows)
}

func keyValue(o *element.Object, column string) element.Value {
	if len(o.Vertices) == 0 {
		return nil
	}
	switch column {
	case "x":
		return o.Vertices[0].X
	case "y":
		return o.Vertices[0].Y
	}
	return nil
}

func (l *DataLink) onEdit(row int, column string, v element.Value) {
	if l.source == nil || row < 0 || row >= l.source.Len() {
		return
	}

	clone := l.source.Clone(l.source.Objects())
	o := clone.Object(row)
	switch column {
	case "x", "y":
		f, err := asFloat(v)
		if err != nil || len(o.Vertices) == 0 {
			return
		}
		if column == "x" {
			o.Vertices[0].X = f
		} else {
			o.Vertices[0].Y = f
		}
	default:
		applyAnnotation(clone, o, column, v)
	}
	l.source = clone
	if l.commit != nil {
		l.commit(clone)
	}
}

// applyAnnotation writes an annotation value respecting the column's scope;
// per-vertex columns are broadcast across the object's vertices.
func applyAnnotation(el *element.Element, o *element.Object, column string, v element.Value) {
	for _, d := range el.Dimensions() {
		if d.Name != column {
			continue
		}
		if d.Scope == element.ScopeObject {
			if o.Scalars == nil {
				o.Scalars = make(map[string]element.Value)
			}
			o.Scalars[column] = v
		} else {
			col := make([]element.Value, len(o.Vertices))
			for i := range col {
				col[i] = v
			}
			if o.Columns == nil {
				o.Columns = make(map[string][]element.Value)
			}
			o.Columns[column] = col
		}
		return
	}
}

// VertexTableLink keeps a vertex table in sync with the selected object: the
// row count always follows the selected path's vertex count.
type VertexTableLink struct {
	source    *element.Element
	table     *element.Table
	selection *streams.Selection1D
	selSub    *streams.Subscription
	selected  int
	commit    func(*element.Element)
}

// NewVertexTableLink creates the link and follows the selection stream.
func NewVertexTableLink(source *element.Element, table *element.Table, selection *streams.Selection1D, commit func(*element.Element)) *VertexTableLink {
	l := &VertexTableLink{
		source:    source,
		table:     table,
		selection: selection,
		selected:  -1,
		commit:    commit,
	}
	if idx := selection.Index(); len(idx) > 0 {
		l.selected = idx[0]
	}
	l.refresh()
	table.OnEdit(l.onEdit)
	l.selSub = selection.Subscribe(func(index []int) {
		if len(index) > 0 {
			l.selected = index[0]
		} else {
			l.selected = -1
		}
		l.refresh()
	})
	return l
}

// SetSource implements Link.
func (l *VertexTableLink) SetSource(el *element.Element) {
	l.source = el
	l.refresh()
}

// Close implements Link.
func (l *VertexTableLink) Close() {
	l.selSub.Cancel()
}

func (l *VertexTableLink) refresh() {
	if l.source == nil || l.selected < 0 || l.selected >= l.source.Len() {
		l.table.SetRows(nil)
		return
	}
	dims := make(map[string]element.Dimension)
	for _, d := range l.source.Dimensions() {
		dims[d.Name] = d
	}

	o := l.source.Object(l.selected)
	rows := make([][]element.Value, len(o.Vertices))
	for i, v := range o.Vertices {
		row := []element.Value{v.X, v.Y}
		for _, vcol := range l.table.ValueColumns() {
			d, ok := dims[vcol]
			if !ok {
				row = append(row, nil)
				continue
			}
			if d.Scope == element.ScopeVertex {
				if col := o.Columns[vcol]; i < len(col) {
					row = append(row, col[i])
				} else {
					row = append(row, d.Default)
				}
			} else {
				row = append(row, collapsedValue(o, d))
			}
		}
		rows[i] = row
	}
	l.table.SetRows(rows)
}

func (l *VertexTableLink) onEdit(row int, column string, v element.Value) {
	if l.source == nil || l.selected < 0 || l.selected >= l.source.Len() {
		return
	}

	clone := l.source.Clone(l.source.Objects())
	o := clone.Object(l.selected)
	if row < 0 || row >= len(o.Vertices) {
		return
	}
	switch column {
	case "x", "y":
		f, err := asFloat(v)
		if err != nil {
			return
		}
		if column == "x" {
			o.Vertices[row].X = f
		} else {
			o.Vertices[row].Y = f
		}
	default:
		for _, d := range clone.Dimensions() {
			if d.Name != column || d.Scope != element.ScopeVertex {
				continue
			}
			if o.Columns == nil {
				o.Columns = make(map[string][]element.Value)
			}
			col := o.Columns[column]
			if len(col) != len(o.Vertices) {
				grown := make([]element.Value, len(o.Vertices))
				copy(grown, col)
				for i := len(col); i < len(grown); i++ {
					grown[i] = d.Default
				}
				col = grown
			}
			col[row] = v
			o.Columns[column] = col
		}
	}
	l.source = clone
	if l.commit != nil {
		l.commit(clone)
	}
}

// SelectionLink mirrors selection between a table and a selection stream in
// both directions.
type SelectionLink struct {
	table     *element.Table
	selection *streams.Selection1D
	selSub    *streams.Subscription
	updating  bool
}

// NewSelectionLink wires the two selection surfaces together.
func NewSelectionLink(table *element.Table, selection *streams.Selection1D) *SelectionLink {
	l := &SelectionLink{table: table, selection: selection}
	table.OnSelect(func(rows []int) {
		if l.updating {
			return
		}
		l.updating = true
		selection.Set(rows)
		l.updating = false
	})
	l.selSub = selection.Subscribe(func(index []int) {
		if l.updating {
			return
		}
		l.updating = true
		table.Select(index)
		l.updating = false
	})
	return l
}

// SetSource implements Link. Selection indices refer to the replacement
// element's objects; nothing to recompute here.
func (l *SelectionLink) SetSource(*element.Element) {}

// Close implements Link.
func (l *SelectionLink) Close() {
	l.selSub.Cancel()
}
