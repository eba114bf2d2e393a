// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"

	"plot-annotate/internal/annotate"
	"plot-annotate/internal/element"
	"plot-annotate/internal/project"
	"plot-annotate/internal/suggest"
	"plot-annotate/internal/version"
	"plot-annotate/ui/editor"
	"plot-annotate/ui/plotview"
	"plot-annotate/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"gocv.io/x/gocv"
)

const (
	prefKeyLastDir        = "lastDirectory"
	prefKeyLastBackground = "lastBackground"
	prefKeyWindowWidth    = "windowWidth"
	prefKeyWindowHeight   = "windowHeight"
	prefKeySplitOffset    = "splitOffset"
	prefKeyFitToWindow    = "fitToWindow"

	projectExt = ".annproj"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	manager *annotate.Manager
	prefs   *prefs.Prefs

	canvas     *plotview.Canvas
	editorPane *editor.Editor
	statusBar  *widget.Label
	split      *container.Split

	activeSelect *widget.Select
	projectPath  string

	fitToWindowItem *fyne.MenuItem
}

// New creates a new main window over the manager.
func New(fyneApp fyne.App, manager *annotate.Manager, appPrefs *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Plot Annotate")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		manager: manager,
		prefs:   appPrefs,
	}

	mw.setupUI()
	mw.setupMenus()

	if appPrefs.Bool(prefKeyFitToWindow, false) {
		mw.canvas.SetFitToWindow(true)
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	}

	win.SetCloseIntercept(func() {
		mw.saveLayout()
		win.Close()
	})

	return mw
}

// saveLayout persists window size, split position, and the fit toggle.
func (mw *MainWindow) saveLayout() {
	size := mw.Window.Canvas().Size()
	mw.prefs.SetFloat(prefKeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefKeyWindowHeight, float64(size.Height))
	mw.prefs.SetFloat(prefKeySplitOffset, mw.split.Offset)
	mw.prefs.SetBool(prefKeyFitToWindow, mw.canvas.GetFitToWindow())
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
	}
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = plotview.NewCanvas(mw.manager)
	mw.editorPane = editor.NewEditor(mw.manager)
	mw.statusBar = widget.NewLabel("Ready")

	annotators := mw.manager.Annotators()
	names := make([]string, len(annotators))
	for i, a := range annotators {
		names[i] = a.Name()
	}
	mw.activeSelect = widget.NewSelect(names, func(name string) {
		for _, a := range mw.manager.Annotators() {
			if a.Name() == name {
				mw.canvas.SetActive(a)
				mw.updateStatus("Active layer: " + name)
				return
			}
		}
	})
	if len(names) > 0 {
		mw.activeSelect.SetSelected(names[0])
	}

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		mw.canvas.Container(),
	)

	// Table editor | plot area.
	mw.split = container.NewHSplit(
		mw.editorPane,
		canvasArea,
	)
	mw.split.SetOffset(mw.prefs.FloatWithFallback(prefKeySplitOffset, 0.3))

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(
		float32(mw.prefs.FloatWithFallback(prefKeyWindowWidth, 1200)),
		float32(mw.prefs.FloatWithFallback(prefKeyWindowHeight, 800)),
	))
}

// createToolbar creates the tool and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	toolButton := func(label string, tool plotview.Tool) *widget.Button {
		return widget.NewButton(label, func() {
			mw.canvas.SetTool(tool)
			mw.updateStatus("Tool: " + label)
		})
	}

	zoomOutBtn := widget.NewButton("-", mw.onZoomOut)
	zoomInBtn := widget.NewButton("+", mw.onZoomIn)
	fitBtn := widget.NewButton("Fit", mw.onToggleFitToWindow)
	actualBtn := widget.NewButton("1:1", mw.onActualSize)

	return container.NewHBox(
		widget.NewLabel("Layer:"),
		mw.activeSelect,
		widget.NewSeparator(),
		toolButton("Pan", plotview.ToolPan),
		toolButton("Select", plotview.ToolSelect),
		toolButton("Point", plotview.ToolDrawPoint),
		toolButton("Path", plotview.ToolDrawPath),
		toolButton("Box", plotview.ToolDrawBox),
		toolButton("Vertices", plotview.ToolEditVertex),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
		fitBtn,
		actualBtn,
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Background...", mw.onImportBackground),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			mw.saveLayout()
			mw.app.Quit()
		}),
	)

	mw.fitToWindowItem = fyne.NewMenuItem("  Fit to Window", mw.onToggleFitToWindow)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		mw.fitToWindowItem,
		fyne.NewMenuItem("Actual Size", mw.onActualSize),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Suggest Boxes from Background", mw.onSuggestBoxes),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, toolsMenu, helpMenu))
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
	}
}

// OpenProject loads a project file and applies its layers to the matching
// annotators by name.
func (mw *MainWindow) OpenProject(path string) error {
	file, err := project.Load(path)
	if err != nil {
		return err
	}

	byName := make(map[string]*annotate.Annotator)
	for _, a := range mw.manager.Annotators() {
		byName[a.Name()] = a
	}
	for _, layer := range file.Layers {
		a, ok := byName[layer.Name]
		if !ok {
			mw.updateStatus("Skipping unknown layer: " + layer.Name)
			continue
		}
		if err := a.SetObject(layer.Element); err != nil {
			return fmt.Errorf("layer %q: %w", layer.Name, err)
		}
	}

	if file.BackgroundPath != "" {
		if err := mw.loadBackground(file.BackgroundPath); err != nil {
			mw.updateStatus("Background failed to load: " + err.Error())
		}
	}

	mw.projectPath = path
	mw.SetTitle("Plot Annotate - " + filepath.Base(path))
	mw.updateStatus("Project loaded: " + path)
	mw.canvas.Refresh()
	return nil
}

// saveProject writes all annotator layers to a project file.
func (mw *MainWindow) saveProject(path string) error {
	file := project.File{
		BackgroundPath: mw.prefs.String(prefKeyLastBackground),
	}
	for _, a := range mw.manager.Annotators() {
		file.Layers = append(file.Layers, project.Layer{
			Name:    a.Name(),
			Element: a.Object(),
		})
	}
	if err := project.Save(path, file); err != nil {
		return err
	}
	mw.projectPath = path
	mw.SetTitle("Plot Annotate - " + filepath.Base(path))
	mw.updateStatus("Project saved: " + path)
	return nil
}

func (mw *MainWindow) loadBackground(path string) error {
	bg, err := plotview.LoadBackground(path)
	if err != nil {
		return err
	}
	mw.canvas.ClearBackgrounds()
	mw.canvas.AddBackground(bg)
	mw.prefs.SetString(prefKeyLastBackground, path)
	_ = mw.prefs.Save()
	mw.canvas.Refresh()
	return nil
}

// Menu action handlers

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.OpenProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{projectExt}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onImportBackground() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.loadBackground(path); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Background loaded: " + path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(plotview.SupportedExtensions()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.projectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	if err := mw.saveProject(mw.projectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != projectExt {
			path += projectExt
		}
		mw.saveLastDir(path)
		if err := mw.saveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("project" + projectExt)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onSuggestBoxes detects rectangles in the background image and pushes them
// into the active box annotator, OCR-labeling the first annotation column.
func (mw *MainWindow) onSuggestBoxes() {
	path := mw.prefs.String(prefKeyLastBackground)
	if path == "" {
		mw.updateStatus("No background image loaded")
		return
	}
	target := mw.boxAnnotator()
	if target == nil {
		mw.updateStatus("No box layer to receive suggestions")
		return
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		mw.updateStatus("Could not read background image: " + path)
		return
	}
	defer img.Close()

	labelColumn := ""
	for _, d := range target.Object().Dimensions() {
		labelColumn = d.Name
		break
	}
	var labeler *suggest.Labeler
	if labelColumn != "" {
		l, err := suggest.NewLabeler()
		if err == nil {
			labeler = l
			defer labeler.Close()
		}
	}

	el, err := suggest.BoxElement(img, labelColumn, labeler, suggest.DefaultOptions())
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	target.Stream().Push(el)
	mw.updateStatus(fmt.Sprintf("Suggested %d boxes", el.Len()))
	mw.canvas.Refresh()
}

// boxAnnotator returns the active annotator if it edits rectangles, otherwise
// the first rectangles annotator.
func (mw *MainWindow) boxAnnotator() *annotate.Annotator {
	if a := mw.canvas.Active(); a != nil && a.Kind() == element.KindRectangles {
		return a
	}
	for _, a := range mw.manager.Annotators() {
		if a.Kind() == element.KindRectangles {
			return a
		}
	}
	return nil
}

func (mw *MainWindow) onZoomIn() {
	mw.disableFitToWindow()
	mw.canvas.ZoomIn()
}

func (mw *MainWindow) onZoomOut() {
	mw.disableFitToWindow()
	mw.canvas.ZoomOut()
}

func (mw *MainWindow) onToggleFitToWindow() {
	enabled := !mw.canvas.GetFitToWindow()
	mw.canvas.SetFitToWindow(enabled)

	if enabled {
		mw.fitToWindowItem.Label = "✓ Fit to Window"
	} else {
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onActualSize() {
	mw.disableFitToWindow()
	mw.canvas.SetZoom(1.0)
}

func (mw *MainWindow) disableFitToWindow() {
	if mw.canvas.GetFitToWindow() {
		mw.canvas.SetFitToWindow(false)
		mw.fitToWindowItem.Label = "  Fit to Window"
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Plot Annotate",
		fmt.Sprintf("Plot Annotate v%s\n\n"+
			"Interactive annotation of points, paths, polygons, and boxes.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
