package project

import (
	"os"
	"path/filepath"
	"testing"

	"plot-annotate/internal/element"
	"plot-annotate/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	el := element.NewPath([][]geometry.Point2D{{{X: 0, Y: 0}, {X: 1, Y: 2}}})
	el = el.AddDimension(element.Dimension{Name: "Label", Default: "", Scope: element.ScopeObject})
	el.Object(0).Scalars["Label"] = "trace"

	path := filepath.Join(t.TempDir(), "test.annproj")
	require.NoError(t, Save(path, File{
		BackgroundPath: "board.png",
		Layers:         []Layer{{Name: "Paths", Element: el}},
	}))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Version, loaded.Version)
	assert.Equal(t, "board.png", loaded.BackgroundPath)
	require.Len(t, loaded.Layers, 1)
	assert.Equal(t, "Paths", loaded.Layers[0].Name)

	got := loaded.Layers[0].Element
	require.NotNil(t, got)
	assert.Equal(t, element.KindPath, got.Kind())
	require.Equal(t, 1, got.Len())
	assert.Equal(t, el.Object(0).Vertices, got.Object(0).Vertices)
	assert.Equal(t, "trace", got.Object(0).Scalars["Label"])
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.annproj")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "layers": []}`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.annproj"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.annproj")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
