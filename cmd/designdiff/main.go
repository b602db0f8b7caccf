// Command designdiff compares a design mockup with a screenshot of the
// implementation and reports where and how they differ.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"design-diff/internal/compare"
	"design-diff/internal/design"
	"design-diff/internal/raster"
	"design-diff/internal/report"
	"design-diff/internal/version"
)

func main() {
	expectedPath := flag.String("expected", "", "Path to the expected (design) image")
	actualPath := flag.String("actual", "", "Path to the actual (screenshot) image")
	designPath := flag.String("design", "", "Path to a JSON design tree (optional)")
	configPath := flag.String("config", "", "YAML or JSON config file (optional)")
	scale := flag.Float64("scale", 1, "Design units to screenshot pixels scale factor")
	threshold := flag.Float64("threshold", 0.1, "Perceptual color threshold (0-1)")
	includeAA := flag.Bool("aa", false, "Count anti-aliased pixels as differences")
	minRegion := flag.Int("min-region", 100, "Minimum region size in pixels")
	outPath := flag.String("out", "", "Write the JSON report to this file")
	overlayPath := flag.String("overlay", "", "Write the visual diff overlay PNG to this file")
	jsonOut := flag.Bool("json", false, "Print the JSON report instead of the text summary")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("designdiff"))
		return
	}
	if *expectedPath == "" || *actualPath == "" {
		fmt.Println("Usage: designdiff -expected <image> -actual <image> [-design tree.json] [-scale 1] [-threshold 0.1] [-aa] [-config cfg.yaml] [-out report.json] [-overlay diff.png] [-json]")
		os.Exit(1)
	}

	for _, path := range []string{*expectedPath, *actualPath} {
		if !raster.IsSupportedFormat(path) {
			fmt.Fprintf(os.Stderr, "Unsupported image format: %s (supported: %s)\n", path, strings.Join(raster.SupportedFormats(), ", "))
			os.Exit(1)
		}
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := compare.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = compare.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scale":
			cfg.Match = cfg.Match.WithScaleFactor(*scale)
		case "threshold":
			cfg.Diff = cfg.Diff.WithThreshold(*threshold)
		case "aa":
			cfg.Diff.IncludeAntiAliasing = *includeAA
		case "min-region":
			cfg.Segment = cfg.Segment.WithMinRegionSize(*minRegion)
		}
	})
	cfg.Diff.DrawOverlay = *overlayPath != ""

	expected, err := raster.Load(*expectedPath)
	if err != nil {
		log.Fatalf("Failed to load expected image: %v", err)
	}
	actual, err := raster.Load(*actualPath)
	if err != nil {
		log.Fatalf("Failed to load actual image: %v", err)
	}

	var tree *design.Node
	if *designPath != "" {
		if tree, err = design.Load(*designPath); err != nil {
			log.Fatalf("Failed to load design tree: %v", err)
		}
	}

	rep, err := compare.Run(expected, actual, tree, cfg)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}
	for _, w := range rep.Warnings {
		log.Printf("Warning: %s: %s", w.Code, w.Message)
	}

	data, err := rep.JSON()
	if err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
		if err := os.WriteFile(*outPath, data, 0644); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.Printf("Report written to %s", *outPath)
	}
	if *overlayPath != "" && rep.Overlay != nil {
		if err := rep.Overlay.SavePNG(*overlayPath); err != nil {
			log.Fatalf("Failed to write overlay: %v", err)
		}
		log.Printf("Overlay written to %s", *overlayPath)
	}

	if *jsonOut {
		fmt.Println(string(data))
		return
	}
	if err := report.WriteText(os.Stdout, rep); err != nil {
		log.Fatalf("Failed to print report: %v", err)
	}
}
