// Package main provides the entry point for the Plot Annotate application.
package main

import (
	"log"
	"os"

	"plot-annotate/internal/annotate"
	"plot-annotate/ui/mainwindow"
	"plot-annotate/ui/prefs"

	"fyne.io/fyne/v2/app"
)

const (
	appTitle   = "Plot Annotate"
	appVersion = "0.1.0"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, appVersion)

	fyneApp := app.NewWithID("plot-annotate")
	appPrefs := prefs.Load()

	manager, err := buildManager()
	if err != nil {
		log.Fatalf("Failed to build annotation layers: %v", err)
	}

	win := mainwindow.New(fyneApp, manager, appPrefs)
	win.SetTitle(appTitle)

	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := win.OpenProject(projectPath); err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		}
	}

	win.ShowAndRun()
}

// buildManager assembles the default annotation layers: points, paths, and
// boxes, each with a label column.
func buildManager() (*annotate.Manager, error) {
	points, err := annotate.NewPointAnnotator("Points", nil, annotate.Config{
		Annotations: annotate.Columns("Label"),
	})
	if err != nil {
		return nil, err
	}

	paths, err := annotate.NewPathAnnotator("Paths", nil, annotate.Config{
		Annotations:       annotate.Columns("Label"),
		VertexAnnotations: annotate.Columns("Weight"),
	})
	if err != nil {
		return nil, err
	}

	boxes, err := annotate.NewBoxAnnotator("Boxes", nil, annotate.Config{
		Annotations: annotate.Columns("Label"),
	})
	if err != nil {
		return nil, err
	}

	manager := annotate.NewManager()
	for _, layer := range []*annotate.Annotator{points, paths, boxes} {
		if err := manager.AddLayer(layer); err != nil {
			return nil, err
		}
	}
	return manager, nil
}
