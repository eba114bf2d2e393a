package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableColumns(t *testing.T) {
	table := NewTable([]string{"x", "y"}, []string{"Label"})

	assert.Equal(t, []string{"x", "y", "Label"}, table.Columns())
	assert.Equal(t, 3, table.NumCols())
	assert.Equal(t, 2, table.ColumnIndex("Label"))
	assert.Equal(t, -1, table.ColumnIndex("missing"))
}

func TestTableSetCellNotifiesEditListeners(t *testing.T) {
	table := NewTable([]string{"x"}, []string{"Label"})
	table.SetRows([][]Value{{1.0, "a"}, {2.0, "b"}})

	var gotRow int
	var gotColumn string
	var gotValue Value
	table.OnEdit(func(row int, column string, v Value) {
		gotRow, gotColumn, gotValue = row, column, v
	})

	require.NoError(t, table.SetCell(1, "Label", "edited"))
	assert.Equal(t, 1, gotRow)
	assert.Equal(t, "Label", gotColumn)
	assert.Equal(t, "edited", gotValue)

	cell, err := table.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "edited", cell)
}

func TestTableSetCellErrors(t *testing.T) {
	table := NewTable(nil, []string{"Label"})
	table.SetRows([][]Value{{"a"}})

	assert.Error(t, table.SetCell(0, "missing", "x"))
	assert.Error(t, table.SetCell(5, "Label", "x"))
}

func TestTableSetRowsNotifiesRefresh(t *testing.T) {
	table := NewTable(nil, []string{"Label"})

	refreshed := 0
	table.OnRefresh(func() { refreshed++ })

	table.SetRows([][]Value{{"a"}})
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, 1, table.NumRows())
}

func TestTableSelection(t *testing.T) {
	table := NewTable(nil, []string{"Label"})

	var got []int
	table.OnSelect(func(rows []int) { got = rows })

	table.Select([]int{2, 0})
	assert.Equal(t, []int{2, 0}, got)
	assert.Equal(t, []int{2, 0}, table.Selection())
}

func TestTableOptionsChain(t *testing.T) {
	table := NewTable(nil, nil).WithOptions(Style{"editable": true})
	table.WithOptions(Style{"width": 400})

	assert.Equal(t, true, table.Options()["editable"])
	assert.Equal(t, 400, table.Options()["width"])
}
