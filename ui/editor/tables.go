// Package editor provides the tabbed annotation table editor.
package editor

import (
	"fmt"
	"strconv"

	"plot-annotate/internal/annotate"
	"plot-annotate/internal/element"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Editor shows one tab per annotator, each holding that annotator's tables.
type Editor struct {
	widget.BaseWidget

	manager *annotate.Manager
	tabs    *container.AppTabs

	// views tracks the table models currently shown, so rebuilds only happen
	// when re-initialization replaced them.
	views map[*element.Table]*TableView
}

// NewEditor creates an editor bound to the manager.
func NewEditor(manager *annotate.Manager) *Editor {
	e := &Editor{
		manager: manager,
		tabs:    container.NewAppTabs(),
		views:   make(map[*element.Table]*TableView),
	}
	e.Rebuild()
	manager.OnChange(func() { e.syncTables() })
	e.ExtendBaseWidget(e)
	return e
}

// CreateRenderer implements fyne.Widget.
func (e *Editor) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(e.tabs)
}

// Rebuild reconstructs the tab hierarchy from the manager's current editor
// layout.
func (e *Editor) Rebuild() {
	groups := e.manager.Editor()
	views := make(map[*element.Table]*TableView)

	items := make([]*container.TabItem, 0, len(groups))
	for _, group := range groups {
		var content fyne.CanvasObject
		if len(group.Tables) == 1 {
			view := NewTableView(group.Tables[0].Table)
			views[group.Tables[0].Table] = view
			content = view
		} else {
			inner := container.NewAppTabs()
			for _, nt := range group.Tables {
				view := NewTableView(nt.Table)
				views[nt.Table] = view
				inner.Append(container.NewTabItem(nt.Name, view))
			}
			content = inner
		}
		items = append(items, container.NewTabItem(group.Title, content))
	}

	e.views = views
	e.tabs.SetItems(items)
}

// syncTables refreshes views in place, rebuilding only when annotator
// re-initialization swapped the underlying table models.
func (e *Editor) syncTables() {
	current := make(map[*element.Table]bool)
	for _, group := range e.manager.Editor() {
		for _, nt := range group.Tables {
			current[nt.Table] = true
		}
	}
	if len(current) != len(e.views) {
		e.Rebuild()
		return
	}
	for table := range current {
		view, ok := e.views[table]
		if !ok {
			e.Rebuild()
			return
		}
		view.Refresh()
	}
}

// TableView renders one annotation table as an editable grid.
type TableView struct {
	widget.BaseWidget

	model *element.Table
	grid  *widget.Table

	selectedRow int
	selectedCol int

	cellEntry *widget.Entry
	applyBtn  *widget.Button
	status    *widget.Label
}

// NewTableView creates a grid view over a table model.
func NewTableView(model *element.Table) *TableView {
	v := &TableView{
		model:       model,
		selectedRow: -1,
		selectedCol: -1,
	}

	v.grid = widget.NewTableWithHeaders(
		func() (int, int) { return model.NumRows(), model.NumCols() },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			val, err := model.At(id.Row, id.Col)
			if err != nil {
				label.SetText("")
				return
			}
			label.SetText(formatCell(val))
		},
	)
	v.grid.ShowHeaderColumn = false
	v.grid.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabel("")
	}
	v.grid.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		label := obj.(*widget.Label)
		cols := model.Columns()
		if id.Col >= 0 && id.Col < len(cols) {
			label.SetText(cols[id.Col])
		} else {
			label.SetText("")
		}
	}
	v.grid.OnSelected = func(id widget.TableCellID) { v.selectCell(id) }

	v.cellEntry = widget.NewEntry()
	v.cellEntry.Disable()
	v.cellEntry.OnSubmitted = func(string) { v.applyEdit() }
	v.applyBtn = widget.NewButton("Apply", v.applyEdit)
	v.applyBtn.Disable()
	v.status = widget.NewLabel("")

	model.OnRefresh(func() {
		v.clearEdit()
		v.grid.Refresh()
	})

	v.ExtendBaseWidget(v)
	return v
}

// Model returns the underlying table model.
func (v *TableView) Model() *element.Table { return v.model }

// CreateRenderer implements fyne.Widget.
func (v *TableView) CreateRenderer() fyne.WidgetRenderer {
	editRow := container.NewBorder(nil, nil, nil, v.applyBtn, v.cellEntry)
	content := container.NewBorder(nil, container.NewVBox(editRow, v.status), nil, nil, v.grid)
	return widget.NewSimpleRenderer(content)
}

// Refresh redraws the grid from the model.
func (v *TableView) Refresh() {
	v.grid.Refresh()
	v.BaseWidget.Refresh()
}

func (v *TableView) editable() bool {
	enabled, ok := v.model.Options()["editable"].(bool)
	return ok && enabled
}

func (v *TableView) selectCell(id widget.TableCellID) {
	v.selectedRow, v.selectedCol = id.Row, id.Col
	v.status.SetText("")
	v.model.Select([]int{id.Row})

	if !v.editable() {
		return
	}
	val, err := v.model.At(id.Row, id.Col)
	if err != nil {
		return
	}
	v.cellEntry.Enable()
	v.cellEntry.SetText(formatCell(val))
	v.applyBtn.Enable()
}

func (v *TableView) clearEdit() {
	v.selectedRow, v.selectedCol = -1, -1
	v.cellEntry.SetText("")
	v.cellEntry.Disable()
	v.applyBtn.Disable()
}

// applyEdit writes the entry text back into the selected cell. Numeric input
// is stored as a number, anything else as a string.
func (v *TableView) applyEdit() {
	if v.selectedRow < 0 || v.selectedCol < 0 {
		return
	}
	cols := v.model.Columns()
	if v.selectedCol >= len(cols) {
		return
	}
	if err := v.model.SetCell(v.selectedRow, cols[v.selectedCol], parseCell(v.cellEntry.Text)); err != nil {
		v.status.SetText(err.Error())
		return
	}
	v.status.SetText("")
	v.grid.Refresh()
}

func parseCell(text string) element.Value {
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return text
}

func formatCell(v element.Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int:
		return strconv.Itoa(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
