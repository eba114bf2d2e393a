package element

import (
	"encoding/json"
	"testing"

	"plot-annotate/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElementJSONRoundTrip(t *testing.T) {
	el := NewPath([][]geometry.Point2D{{{X: 0, Y: 0}, {X: 1, Y: 2}}})
	el = el.AddDimension(Dimension{Name: "Label", Default: "", Scope: ScopeObject})
	el.Object(0).Scalars["Label"] = "trace"

	data, err := json.Marshal(el)
	require.NoError(t, err)

	var decoded Element
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, KindPath, decoded.Kind())
	require.Equal(t, 1, decoded.Len())
	assert.Equal(t, el.Object(0).Vertices, decoded.Object(0).Vertices)
	assert.Equal(t, "trace", decoded.Object(0).Scalars["Label"])

	dims := decoded.Dimensions()
	require.Len(t, dims, 1)
	assert.Equal(t, "Label", dims[0].Name)
	assert.Equal(t, ScopeObject, dims[0].Scope)
}

func TestKindUnmarshalUnknown(t *testing.T) {
	var k Kind
	err := k.UnmarshalText([]byte("Blob"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Blob")
}

func TestScopeTextRoundTrip(t *testing.T) {
	text, err := ScopeVertex.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "vertex", string(text))

	var s Scope
	require.NoError(t, s.UnmarshalText([]byte("vertex")))
	assert.Equal(t, ScopeVertex, s)

	assert.Error(t, s.UnmarshalText([]byte("global")))
}
