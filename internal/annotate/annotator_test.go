package annotate

import (
	"testing"

	"plot-annotate/internal/element"
	"plot-annotate/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointAnnotatorDeclaresColumns(t *testing.T) {
	el := element.NewPoints([]geometry.Point2D{{X: 1, Y: 2}, {X: 3, Y: 4}})
	a, err := NewPointAnnotator("Points", el, Config{
		Annotations: Columns("Label"),
	})
	require.NoError(t, err)

	obj := a.Object()
	require.True(t, obj.HasDimension("Label"))
	for _, o := range obj.Objects() {
		assert.Equal(t, "", o.Scalars["Label"])
	}
	// Point defaults include a marker size.
	assert.Equal(t, 10, obj.Style()["size"])
}

func TestFactoryDefaults(t *testing.T) {
	el := element.NewPoints([]geometry.Point2D{{X: 0, Y: 0}})
	a, err := NewPointAnnotator("Points", el, Config{
		Annotations: Factories(map[string]func() element.Value{
			"Count": func() element.Value { return 0 },
			"Name":  func() element.Value { return "unnamed" },
		}),
	})
	require.NoError(t, err)

	o := a.Object().Object(0)
	assert.Equal(t, 0, o.Scalars["Count"])
	assert.Equal(t, "unnamed", o.Scalars["Name"])
}

func TestAnnotatorRejectsWrongKind(t *testing.T) {
	boxes := element.NewRectangles([]geometry.Rect{{Width: 1, Height: 1}})
	_, err := NewPointAnnotator("Points", boxes, Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Rectangles")

	points := element.NewPoints(nil)
	_, err = NewBoxAnnotator("Boxes", points, Config{})
	assert.Error(t, err)
}

func TestNilObjectStartsEmpty(t *testing.T) {
	a, err := NewPathAnnotator("Paths", nil, Config{Annotations: Columns("Label")})
	require.NoError(t, err)
	assert.Equal(t, element.KindPath, a.Object().Kind())
	assert.Equal(t, 0, a.Object().Len())
}

func TestPathAnnotatorTables(t *testing.T) {
	a, err := NewPathAnnotator("Paths", nil, Config{
		Annotations:       Columns("Label"),
		VertexAnnotations: Columns("Weight"),
	})
	require.NoError(t, err)

	tables := a.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "Paths", tables[0].Name)
	assert.Equal(t, "Paths Vertices", tables[1].Name)

	assert.Equal(t, []string{"Label"}, tables[0].Table.ValueColumns())
	assert.Equal(t, []string{"x", "y"}, tables[1].Table.KeyColumns())
	assert.Equal(t, []string{"Weight"}, tables[1].Table.ValueColumns())

	// Vertex editing is on by default.
	assert.NotNil(t, a.VertexStream())
}

func TestEditVerticesDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EditVertices = false
	a, err := NewPathAnnotator("Paths", nil, cfg)
	require.NoError(t, err)
	assert.Nil(t, a.VertexStream())
}

func TestInitializationValidatesExistingColumns(t *testing.T) {
	el := element.NewPath([][]geometry.Point2D{{{X: 0, Y: 0}, {X: 1, Y: 1}}})
	el = el.AddDimension(element.Dimension{Name: "Label", Default: "", Scope: element.ScopeVertex})
	el.Object(0).Columns["Label"] = []element.Value{"a", "b"}

	_, err := NewPathAnnotator("Paths", el, Config{Annotations: Columns("Label")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be constant")
}

func TestSetAnnotationsRollsBackOnError(t *testing.T) {
	el := element.NewPath([][]geometry.Point2D{{{X: 0, Y: 0}, {X: 1, Y: 1}}})
	el = el.AddDimension(element.Dimension{Name: "Bad", Default: "", Scope: element.ScopeVertex})
	el.Object(0).Columns["Bad"] = []element.Value{"a", "b"}

	a, err := NewPathAnnotator("Paths", el, Config{Annotations: Columns("Label")})
	require.NoError(t, err)

	err = a.SetAnnotations(Columns("Bad"))
	require.Error(t, err)
	// The previous spec still drives the tables.
	assert.Equal(t, []string{"Label"}, a.Tables()[0].Table.ValueColumns())
}

func TestSetNumObjectsRejectsNegative(t *testing.T) {
	a, err := NewPointAnnotator("Points", nil, Config{})
	require.NoError(t, err)
	assert.Error(t, a.SetNumObjects(-1))
	assert.NoError(t, a.SetNumObjects(5))
}

func TestStreamPushReplacesObjectWithoutReinit(t *testing.T) {
	a, err := NewPointAnnotator("Points", nil, Config{Annotations: Columns("Label")})
	require.NoError(t, err)

	table := a.Tables()[0].Table
	stream := a.Stream()

	next := a.Object().Clone(nil)
	next = next.Clone([]*element.Object{
		{Vertices: []geometry.Point2D{{X: 1, Y: 2}}, Scalars: map[string]element.Value{"Label": "p1"}},
	})
	stream.Push(next)

	// Element replaced, table refreshed in place (same table instance).
	assert.Equal(t, 1, a.Object().Len())
	assert.Same(t, table, a.Tables()[0].Table)
	require.Equal(t, 1, table.NumRows())
	assert.Equal(t, "p1", table.Rows()[0][2])
}

func TestStreamPushCollapsesBroadcastColumns(t *testing.T) {
	a, err := NewPathAnnotator("Paths", nil, Config{Annotations: Columns("Label")})
	require.NoError(t, err)

	// Simulate a drawing tool that broadcast the per-path value across
	// vertices.
	drawn := element.NewPath([][]geometry.Point2D{{{X: 0, Y: 0}, {X: 1, Y: 1}}})
	drawn = drawn.AddDimension(element.Dimension{Name: "Label", Default: "", Scope: element.ScopeVertex})
	drawn.Object(0).Columns["Label"] = []element.Value{"t1", "t1"}

	a.Stream().Push(drawn)

	o := a.Object().Object(0)
	assert.Equal(t, "t1", o.Scalars["Label"])
	assert.NotContains(t, o.Columns, "Label")

	// The collapse re-scopes the dimension so downstream reads find the
	// value in the scalars.
	for _, d := range a.Object().Dimensions() {
		if d.Name == "Label" {
			assert.Equal(t, element.ScopeObject, d.Scope)
		}
	}
}

func TestCollapsedValueSurvivesDownstream(t *testing.T) {
	a, err := NewPathAnnotator("Paths", nil, Config{Annotations: Columns("Label")})
	require.NoError(t, err)

	drawn := element.NewPath([][]geometry.Point2D{{{X: 0, Y: 0}, {X: 1, Y: 1}}})
	drawn = drawn.AddDimension(element.Dimension{Name: "Label", Default: "", Scope: element.ScopeVertex})
	drawn.Object(0).Columns["Label"] = []element.Value{"t1", "t1"}
	a.Stream().Push(drawn)

	// The annotation table row carries the committed value.
	table := a.Tables()[0].Table
	require.Equal(t, 1, table.NumRows())
	assert.Equal(t, "t1", table.Rows()[0][0])

	values, err := a.Object().DimensionValues("Label", false)
	require.NoError(t, err)
	assert.Equal(t, []element.Value{"t1"}, values)

	// Re-initialization keeps the value rather than resetting the default.
	require.NoError(t, a.SetOpts(element.Style{"responsive": true}))
	assert.Equal(t, "t1", a.Object().Object(0).Scalars["Label"])
	assert.Equal(t, "t1", a.Tables()[0].Table.Rows()[0][0])
}

func TestOnElementNotifiesOncePerChange(t *testing.T) {
	a, err := NewPointAnnotator("Points", nil, Config{Annotations: Columns("Label")})
	require.NoError(t, err)

	calls := 0
	sub := a.OnElement(func(*element.Element) { calls++ })

	// A structural change runs initialization inside one batch.
	require.NoError(t, a.SetObject(element.NewPoints([]geometry.Point2D{{X: 1, Y: 1}})))
	assert.Equal(t, 1, calls)

	a.Stream().Push(a.Object().Clone(a.Object().Objects()))
	assert.Equal(t, 2, calls)

	sub.Cancel()
	a.Stream().Push(a.Object())
	assert.Equal(t, 2, calls)
}

func TestTableEditWritesBack(t *testing.T) {
	el := element.NewPoints([]geometry.Point2D{{X: 1, Y: 2}})
	a, err := NewPointAnnotator("Points", el, Config{Annotations: Columns("Label")})
	require.NoError(t, err)

	table := a.Tables()[0].Table
	require.NoError(t, table.SetCell(0, "Label", "origin"))
	assert.Equal(t, "origin", a.Object().Object(0).Scalars["Label"])

	require.NoError(t, table.SetCell(0, "x", 5.0))
	assert.Equal(t, 5.0, a.Object().Object(0).Vertices[0].X)
}

func TestSelectedReturnsDrawingOrder(t *testing.T) {
	el := element.NewPoints([]geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}})
	a, err := NewPointAnnotator("Points", el, Config{})
	require.NoError(t, err)

	a.Select([]int{2, 0})
	sel := a.Selected()
	require.Equal(t, 2, sel.Len())
	assert.Equal(t, 0.0, sel.Object(0).Vertices[0].X)
	assert.Equal(t, 2.0, sel.Object(1).Vertices[0].X)
}

func TestPointSelectionMirrorsTable(t *testing.T) {
	el := element.NewPoints([]geometry.Point2D{{X: 0, Y: 0}, {X: 1, Y: 0}})
	a, err := NewPointAnnotator("Points", el, Config{})
	require.NoError(t, err)

	table := a.Tables()[0].Table
	table.Select([]int{1})
	assert.Equal(t, []int{1}, a.SelectionStream().Index())

	a.Select([]int{0})
	assert.Equal(t, []int{0}, table.Selection())
}

func TestVertexTableTracksSelection(t *testing.T) {
	el := element.NewPath([][]geometry.Point2D{
		{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}},
	})
	a, err := NewPathAnnotator("Paths", el, Config{VertexAnnotations: Columns("Weight")})
	require.NoError(t, err)

	vertexTable := a.Tables()[1].Table
	assert.Equal(t, 0, vertexTable.NumRows())

	a.Select([]int{0})
	assert.Equal(t, 3, vertexTable.NumRows())
}

func TestReinitializeDetachesOldTables(t *testing.T) {
	el := element.NewPath([][]geometry.Point2D{
		{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}},
	})
	a, err := NewPathAnnotator("Paths", el, Config{VertexAnnotations: Columns("Weight")})
	require.NoError(t, err)

	oldVertexTable := a.Tables()[1].Table
	require.NoError(t, a.SetOpts(element.Style{"color": "red"}))
	require.NotSame(t, oldVertexTable, a.Tables()[1].Table)

	// The discarded table stays inert; only the replacement follows the
	// selection.
	a.Select([]int{0})
	assert.Equal(t, 0, oldVertexTable.NumRows())
	assert.Equal(t, 3, a.Tables()[1].Table.NumRows())
}

func TestReinitializeIsIdempotent(t *testing.T) {
	el := element.NewPoints([]geometry.Point2D{{X: 1, Y: 2}, {X: 3, Y: 4}})
	a, err := NewPointAnnotator("Points", el, Config{Annotations: Columns("Label")})
	require.NoError(t, err)
	require.NoError(t, a.Tables()[0].Table.SetCell(0, "Label", "origin"))

	objects := a.Object().Objects()
	dims := a.Object().Dimensions()
	rows := a.Tables()[0].Table.Rows()

	// Replaying initialization from unchanged fields changes nothing.
	require.NoError(t, a.SetAnnotations(Columns("Label")))
	require.NoError(t, a.SetNumObjects(0))

	assert.Equal(t, objects, a.Object().Objects())
	assert.Equal(t, dims, a.Object().Dimensions())
	assert.Equal(t, rows, a.Tables()[0].Table.Rows())
}

func TestNumObjectsCapsStream(t *testing.T) {
	a, err := NewBoxAnnotator("Boxes", nil, Config{NumObjects: 1})
	require.NoError(t, err)

	drawn := element.NewRectangles([]geometry.Rect{
		{X: 0, Y: 0, Width: 1, Height: 1},
		{X: 5, Y: 5, Width: 1, Height: 1},
	})
	a.Stream().Push(drawn)

	require.Equal(t, 1, a.Object().Len())
	assert.Equal(t, 5.0, a.Object().Object(0).Vertices[0].X)
}
