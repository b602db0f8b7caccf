// Command diffsuite runs every comparison listed in a suite file and writes
// a report and overlay per component.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"design-diff/internal/compare"
	"design-diff/internal/project"
	"design-diff/internal/version"
)

func main() {
	suitePath := flag.String("suite", "", "Path to the suite file (YAML or JSON)")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of comparisons to run at once")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("diffsuite"))
		return
	}
	if *suitePath == "" {
		fmt.Println("Usage: diffsuite -suite <suite.yaml> [-workers N]")
		os.Exit(1)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	suite, err := project.Load(*suitePath)
	if err != nil {
		log.Fatalf("Failed to load suite %s: %v", *suitePath, err)
	}
	log.Printf("Suite %q: %d components, %d workers", suite.Name, len(suite.Components), *workers)

	outcomes := compare.Batch(suite.Jobs(*suitePath), *workers)

	failed := 0
	fmt.Printf("\n%-24s %10s %8s %8s %6s %6s\n", "Component", "Match", "Regions", "High", "Grade", "Status")
	fmt.Printf("%s\n", "------------------------------------------------------------------")
	for i, o := range outcomes {
		if o.Err != nil {
			failed++
			log.Printf("%s: %v", o.Name, o.Err)
			fmt.Printf("%-24s %10s %8s %8s %6s %6s\n", o.Name, "-", "-", "-", "-", "FAILED")
			continue
		}
		for _, w := range o.Report.Warnings {
			log.Printf("%s: warning %s: %s", o.Name, w.Code, w.Message)
		}
		if err := writeOutputs(suite.OutputPath(*suitePath, suite.Components[i]), o); err != nil {
			failed++
			log.Printf("%s: %v", o.Name, err)
		}
		fmt.Printf("%-24s %9.2f%% %8d %8d %6s %6s\n",
			o.Name, o.Report.MatchPercentage, len(o.Report.Regions), o.Report.Summary.High, o.Report.Summary.Grade, "ok")
	}

	fmt.Printf("\nTotal: %d components, %d failed\n", len(outcomes), failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func writeOutputs(dir string, o compare.Outcome) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	data, err := o.Report.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "report.json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if o.Report.Overlay != nil {
		if err := o.Report.Overlay.SavePNG(filepath.Join(dir, "overlay.png")); err != nil {
			return err
		}
	}
	return nil
}
