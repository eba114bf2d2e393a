package element

import "fmt"

// Table is a tabular projection of an element's dimensions. Links keep it in
// sync with its source element; the editor UI reads rows and writes cells.
type Table struct {
	kdims []string
	vdims []string
	rows  [][]Value
	style Style

	selection []int

	onEdit    []func(row int, column string, v Value)
	onRefresh []func()
	onSelect  []func(rows []int)
}

// NewTable creates a table with the given key and value columns.
func NewTable(kdims, vdims []string) *Table {
	return &Table{
		kdims: append([]string(nil), kdims...),
		vdims: append([]string(nil), vdims...),
		style: Style{},
	}
}

// Columns returns all column names, key dimensions first.
func (t *Table) Columns() []string {
	out := append([]string(nil), t.kdims...)
	return append(out, t.vdims...)
}

// KeyColumns returns the key column names.
func (t *Table) KeyColumns() []string { return append([]string(nil), t.kdims...) }

// ValueColumns returns the value column names.
func (t *Table) ValueColumns() []string { return append([]string(nil), t.vdims...) }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.kdims) + len(t.vdims) }

// At returns the cell value at row and column index.
func (t *Table) At(row, col int) (Value, error) {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= t.NumCols() {
		return nil, fmt.Errorf("cell (%d, %d) out of range", row, col)
	}
	return t.rows[row][col], nil
}

// ColumnIndex returns the index of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns() {
		if c == name {
			return i
		}
	}
	return -1
}

// SetRows replaces the table contents and notifies refresh listeners.
func (t *Table) SetRows(rows [][]Value) {
	t.rows = rows
	for _, fn := range t.onRefresh {
		fn()
	}
}

// Rows returns the current rows. Callers must not mutate them.
func (t *Table) Rows() [][]Value { return t.rows }

// SetCell writes a cell by column name and notifies edit listeners. This is
// the entry point for user edits coming from the editor UI.
func (t *Table) SetCell(row int, column string, v Value) error {
	col := t.ColumnIndex(column)
	if col < 0 {
		return fmt.Errorf("table has no column %q", column)
	}
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	t.rows[row][col] = v
	for _, fn := range t.onEdit {
		fn(row, column, v)
	}
	return nil
}

// Select sets the selected row set and notifies selection listeners.
func (t *Table) Select(rows []int) {
	t.selection = append([]int(nil), rows...)
	for _, fn := range t.onSelect {
		fn(t.selection)
	}
}

// Selection returns the currently selected rows.
func (t *Table) Selection() []int { return append([]int(nil), t.selection...) }

// OnEdit registers a listener for user cell edits.
func (t *Table) OnEdit(fn func(row int, column string, v Value)) {
	t.onEdit = append(t.onEdit, fn)
}

// OnRefresh registers a listener for wholesale row replacement.
func (t *Table) OnRefresh(fn func()) {
	t.onRefresh = append(t.onRefresh, fn)
}

// OnSelect registers a listener for selection changes.
func (t *Table) OnSelect(fn func(rows []int)) {
	t.onSelect = append(t.onSelect, fn)
}

// WithOptions applies display options (width, editable) on top of the
// existing ones and returns the table for chaining.
func (t *Table) WithOptions(style Style) *Table {
	t.style = t.style.Merged(style)
	return t
}

// Options returns the table's display options.
func (t *Table) Options() Style { return t.style }
