package main

import (
	"bytes"
	"fmt"
	"os"

	"bench-graphs/internal/charts"
	"bench-graphs/internal/infra/fs"
)

// go run etc/tools/test_chart.go [chart name] [gg|plot]
// Renders a single chart into etc/charts/ for a quick look.
func main() {
	name := "thread_speedup"
	if len(os.Args) > 1 {
		name = os.Args[1]
	}
	backend := "gg"
	if len(os.Args) > 2 {
		backend = os.Args[2]
	}

	var spec *charts.Spec
	for _, s := range charts.Catalog() {
		if s.Name == name {
			s := s
			spec = &s
			break
		}
	}
	if spec == nil {
		fmt.Printf("Unknown chart %q\n", name)
		os.Exit(1)
	}

	r, err := charts.NewRenderer(backend, charts.Options{})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating %s with %s...\n", spec.Filename(), r.Name())
	var buf bytes.Buffer
	stats, err := r.Render(*spec, &buf)
	if err != nil {
		fmt.Printf("Error generating chart: %v\n", err)
		os.Exit(1)
	}
	if err := fs.EnsureDir("etc/charts"); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	path, _, err := fs.WriteBuffer("etc/charts", spec.Filename(), &buf)
	if err != nil {
		fmt.Printf("Error saving chart: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chart generated successfully: %s (%dx%d)\n", path, stats.Width, stats.Height)
	fmt.Println("Open the file to see the result!")
}
