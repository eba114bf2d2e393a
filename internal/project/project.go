// Package project provides JSON persistence for annotation projects.
package project

import (
	"encoding/json"
	"fmt"
	"os"

	"plot-annotate/internal/element"
)

// Version is the current project file format version.
const Version = 1

// Layer is one persisted annotation layer.
type Layer struct {
	Name    string           `json:"name"`
	Element *element.Element `json:"element"`
}

// File represents the JSON structure of a project file.
type File struct {
	Version        int     `json:"version"`
	BackgroundPath string  `json:"background,omitempty"`
	Layers         []Layer `json:"layers"`
}

// Save writes a project to the specified path.
func Save(path string, file File) error {
	file.Version = Version
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load reads a project from the specified path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return File{}, err
	}
	if file.Version > Version {
		return File{}, fmt.Errorf("project version %d is newer than supported version %d",
			file.Version, Version)
	}
	return file, nil
}
