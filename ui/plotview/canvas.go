// Package plotview provides the annotation plot canvas with pan, zoom, and
// drawing tools.
package plotview

import (
	"plot-annotate/internal/annotate"
	"plot-annotate/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25

	// hitTolerance is the pick radius in data coordinates.
	hitTolerance = 6.0
)

// Tool represents the current interaction tool.
type Tool int

const (
	ToolPan Tool = iota
	ToolSelect
	ToolDrawPoint
	ToolDrawPath
	ToolDrawBox
	ToolEditVertex
)

// Canvas displays the manager's overlay and routes drawing gestures into the
// active annotator's interaction streams.
type Canvas struct {
	widget.BaseWidget

	manager *annotate.Manager
	active  *annotate.Annotator

	// Background raster layers drawn under the overlay.
	backgrounds []*Background

	raster *fynecanvas.Raster
	zoom   float64

	tool Tool

	// In-progress path vertices (draw path tool).
	pending []geometry.Point2D

	// Rubber-band state (draw box tool).
	dragging  bool
	dragStart geometry.Point2D
	dragRect  *geometry.Rect

	// Vertex being dragged (edit vertex tool).
	grabObject int
	grabVertex int

	scroll  *zoomScroll
	content *interactiveContent
	imgSize fyne.Size

	fitToWindow    bool
	lastScrollSize fyne.Size

	onZoomChange func(zoom float64)
}

// NewCanvas creates a canvas over the given manager.
func NewCanvas(manager *annotate.Manager) *Canvas {
	c := &Canvas{
		manager:    manager,
		zoom:       1.0,
		tool:       ToolPan,
		imgSize:    fyne.NewSize(400, 300),
		grabObject: -1,
		grabVertex: -1,
	}

	c.raster = fynecanvas.NewRaster(c.draw)
	c.raster.ScaleMode = fynecanvas.ImageScalePixels
	c.raster.SetMinSize(c.imgSize)

	c.content = newInteractiveContent(c, c.raster)
	c.scroll = newZoomScroll(c.content, c)

	manager.OnChange(func() { c.Refresh() })

	c.ExtendBaseWidget(c)
	return c
}

// Container returns the canvas container for embedding in layouts.
func (c *Canvas) Container() fyne.CanvasObject {
	return c.scroll
}

// SetActive selects which annotator receives drawing gestures.
func (c *Canvas) SetActive(a *annotate.Annotator) {
	c.active = a
	c.pending = nil
	c.grabObject, c.grabVertex = -1, -1
	c.Refresh()
}

// Active returns the annotator currently receiving gestures.
func (c *Canvas) Active() *annotate.Annotator { return c.active }

// SetTool sets the current interaction tool.
func (c *Canvas) SetTool(tool Tool) {
	c.tool = tool
	c.pending = nil
	c.dragRect = nil
	c.grabObject, c.grabVertex = -1, -1
	c.Refresh()
}

// Tool returns the current interaction tool.
func (c *Canvas) Tool() Tool { return c.tool }

// AddBackground adds a raster layer drawn under the overlay.
func (c *Canvas) AddBackground(layer *Background) {
	c.backgrounds = append(c.backgrounds, layer)
	c.updateContentSize()
}

// ClearBackgrounds removes all raster layers.
func (c *Canvas) ClearBackgrounds() {
	c.backgrounds = nil
	c.updateContentSize()
}

// SetZoom sets the zoom level, clamped to the allowed range.
func (c *Canvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	c.zoom = zoom
	c.updateContentSize()

	if c.onZoomChange != nil {
		c.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (c *Canvas) Zoom() float64 { return c.zoom }

// ZoomIn increases the zoom level.
func (c *Canvas) ZoomIn() { c.SetZoom(c.zoom * zoomStep) }

// ZoomOut decreases the zoom level.
func (c *Canvas) ZoomOut() { c.SetZoom(c.zoom / zoomStep) }

// OnZoomChange sets a callback for zoom changes.
func (c *Canvas) OnZoomChange(callback func(zoom float64)) {
	c.onZoomChange = callback
}

// FitToWindow adjusts zoom so the content fits the visible area.
func (c *Canvas) FitToWindow() {
	bounds := c.contentBounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}
	viewSize := c.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / bounds.Width
	zoomY := float64(viewSize.Height) / bounds.Height
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	c.SetZoom(zoom * 0.95)
}

// SetFitToWindow enables or disables auto-fit on resize.
func (c *Canvas) SetFitToWindow(fit bool) {
	c.fitToWindow = fit
	if fit {
		c.FitToWindow()
	}
}

// GetFitToWindow reports whether auto-fit is enabled.
func (c *Canvas) GetFitToWindow() bool {
	return c.fitToWindow
}

// Refresh redraws the canvas.
func (c *Canvas) Refresh() {
	c.raster.Refresh()
}

// viewTransform returns the data-to-canvas transform at the current zoom.
func (c *Canvas) viewTransform() geometry.AffineTransform {
	return geometry.Scaling(c.zoom)
}

// DataToCanvas converts data coordinates to canvas coordinates.
func (c *Canvas) DataToCanvas(p geometry.Point2D) geometry.Point2D {
	return c.viewTransform().Apply(p)
}

// CanvasToData converts canvas coordinates to data coordinates.
func (c *Canvas) CanvasToData(p geometry.Point2D) geometry.Point2D {
	inv, ok := c.viewTransform().Invert()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// contentBounds returns the data-space bounds across backgrounds and layers.
func (c *Canvas) contentBounds() geometry.Rect {
	var bounds geometry.Rect
	for _, bg := range c.backgrounds {
		if bg == nil || bg.Image == nil {
			continue
		}
		b := bg.Image.Bounds()
		bounds = bounds.Union(geometry.Rect{Width: float64(b.Dx()), Height: float64(b.Dy())})
	}
	for _, el := range c.manager.Plot().Collate() {
		for _, o := range el.Objects() {
			bounds = bounds.Union(o.Bounds())
		}
	}
	return bounds
}

func (c *Canvas) updateContentSize() {
	bounds := c.contentBounds()
	if bounds.Width <= 0 || bounds.Height <= 0 {
		c.imgSize = fyne.NewSize(400, 300)
	} else {
		c.imgSize = fyne.NewSize(
			float32((bounds.X+bounds.Width)*c.zoom),
			float32((bounds.Y+bounds.Height)*c.zoom),
		)
	}

	c.raster.SetMinSize(c.imgSize)
	c.raster.Resize(c.imgSize)
	if c.content != nil {
		c.content.Resize(c.imgSize)
		c.content.Refresh()
	}
	c.raster.Refresh()
	if c.scroll != nil {
		c.scroll.Refresh()
	}
}

// CheckResize auto-fits when the scroll container was resized.
func (c *Canvas) CheckResize(size fyne.Size) {
	if !c.fitToWindow {
		return
	}
	if size.Width > 0 && size.Height > 0 && size != c.lastScrollSize {
		c.lastScrollSize = size
		c.FitToWindow()
	}
}

// CreateRenderer implements fyne.Widget.
func (c *Canvas) CreateRenderer() fyne.WidgetRenderer {
	return &canvasRenderer{canvas: c}
}

type canvasRenderer struct {
	canvas *Canvas
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
	r.canvas.CheckResize(size)
}

func (r *canvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *canvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *canvasRenderer) Destroy() {}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *Canvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *Canvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Offset returns the scroll container's current offset.
func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

// Size returns the scroll container's size.
func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// interactiveContent wraps the raster to handle mouse events.
type interactiveContent struct {
	widget.BaseWidget
	canvas *Canvas
	raster *fynecanvas.Raster
}

func newInteractiveContent(c *Canvas, raster *fynecanvas.Raster) *interactiveContent {
	ic := &interactiveContent{canvas: c, raster: raster}
	ic.ExtendBaseWidget(ic)
	return ic
}

func (ic *interactiveContent) CreateRenderer() fyne.WidgetRenderer {
	return &interactiveContentRenderer{content: ic}
}

func (ic *interactiveContent) MinSize() fyne.Size {
	return ic.raster.MinSize()
}

// dataPos converts an event position to data coordinates, adding the scroll
// offset to get the content position first.
func (ic *interactiveContent) dataPos(pos fyne.Position) geometry.Point2D {
	offset := ic.canvas.scroll.Offset()
	return ic.canvas.CanvasToData(geometry.Point2D{
		X: float64(pos.X + offset.X),
		Y: float64(pos.Y + offset.Y),
	})
}

func (ic *interactiveContent) Tapped(ev *fyne.PointEvent) {
	size := ic.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
	ic.canvas.handleTap(ic.dataPos(ev.Position))
}

func (ic *interactiveContent) TappedSecondary(ev *fyne.PointEvent) {
	ic.canvas.handleSecondaryTap(ic.dataPos(ev.Position))
}

func (ic *interactiveContent) Dragged(ev *fyne.DragEvent) {
	ic.canvas.handleDrag(ic.dataPos(ev.Position))
}

func (ic *interactiveContent) DragEnd() {
	ic.canvas.handleDragEnd()
}

func (ic *interactiveContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		ic.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		ic.canvas.ZoomOut()
	}
}

type interactiveContentRenderer struct {
	content *interactiveContent
}

func (r *interactiveContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *interactiveContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *interactiveContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *interactiveContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *interactiveContentRenderer) Destroy() {}
