// Package project provides suite file handling and persistence. A suite
// lists many comparisons that share one configuration.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"design-diff/internal/compare"
	"design-diff/internal/design"
	"design-diff/internal/raster"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSuite reports a suite file that cannot be run.
var ErrInvalidSuite = errors.New("project: invalid suite")

// File represents a comparison suite file (.yaml or .json).
type File struct {
	Version     int       `yaml:"version" json:"version"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Modified    time.Time `yaml:"modified,omitempty" json:"modified,omitempty"`

	// OutputDir receives one subdirectory per component (relative to the suite file).
	OutputDir string `yaml:"output_dir" json:"outputDir"`

	Config     compare.Config `yaml:"config" json:"config"`
	Components []Component    `yaml:"components" json:"components"`
}

// Component is one expected/actual pair. Paths are relative to the suite file.
type Component struct {
	Name     string `yaml:"name" json:"name"`
	Expected string `yaml:"expected" json:"expected"`
	Actual   string `yaml:"actual" json:"actual"`
	Design   string `yaml:"design,omitempty" json:"design,omitempty"`

	// ScaleFactor overrides the suite's design-to-pixel scale when positive.
	ScaleFactor float64 `yaml:"scale_factor,omitempty" json:"scaleFactor,omitempty"`
}

// New creates an empty suite with the default configuration.
func New(name string) *File {
	return &File{
		Version:   1,
		Name:      name,
		OutputDir: "diff-output",
		Config:    compare.DefaultConfig(),
	}
}

// Load loads a suite file, YAML with snake_case keys or .json with camelCase
// keys. Configuration keys the file leaves out keep their default values.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	suite := New("")
	if err := compare.DecodeFile(path, data, suite); err != nil {
		return nil, fmt.Errorf("parse suite %s: %w", path, err)
	}
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return suite, nil
}

// Save saves the suite to a file in the format its extension names.
func (p *File) Save(path string) error {
	p.Modified = time.Now().UTC().Truncate(time.Second)

	var data []byte
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(p, "", "  ")
	} else {
		data, err = yaml.Marshal(p)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every component is complete, that its images have a
// supported format and that no two components write to the same output
// directory.
func (p *File) Validate() error {
	if err := p.Config.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSuite, err)
	}
	seen := make(map[string]string)
	for i, c := range p.Components {
		switch {
		case c.Name == "":
			return fmt.Errorf("%w: component %d has no name", ErrInvalidSuite, i)
		case c.Expected == "" || c.Actual == "":
			return fmt.Errorf("%w: component %q needs expected and actual images", ErrInvalidSuite, c.Name)
		case !raster.IsSupportedFormat(c.Expected):
			return fmt.Errorf("%w: component %q: unsupported image format %q", ErrInvalidSuite, c.Name, c.Expected)
		case !raster.IsSupportedFormat(c.Actual):
			return fmt.Errorf("%w: component %q: unsupported image format %q", ErrInvalidSuite, c.Name, c.Actual)
		case c.ScaleFactor < 0:
			return fmt.Errorf("%w: component %q has a negative scale factor", ErrInvalidSuite, c.Name)
		}
		dir := dirName(c.Name)
		if dir == "" || dir == "." || dir == ".." {
			return fmt.Errorf("%w: component name %q is not usable as a directory", ErrInvalidSuite, c.Name)
		}
		if prev, ok := seen[dir]; ok {
			return fmt.Errorf("%w: components %q and %q share output directory %q", ErrInvalidSuite, prev, c.Name, dir)
		}
		seen[dir] = c.Name
	}
	return nil
}

// AddComponent appends a component with paths stored relative to the suite.
func (p *File) AddComponent(suitePath string, c Component) {
	c.Expected = relativeTo(suitePath, c.Expected)
	c.Actual = relativeTo(suitePath, c.Actual)
	if c.Design != "" {
		c.Design = relativeTo(suitePath, c.Design)
	}
	p.Components = append(p.Components, c)
}

// ResolvePath returns the absolute form of a path stored in the suite.
func ResolvePath(suitePath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(suitePath), path)
}

// OutputPath returns the directory that receives a component's report.
func (p *File) OutputPath(suitePath string, c Component) string {
	return filepath.Join(ResolvePath(suitePath, p.OutputDir), dirName(c.Name))
}

// ConfigFor returns the suite configuration with the component's overrides.
func (p *File) ConfigFor(c Component) compare.Config {
	cfg := p.Config
	if c.ScaleFactor > 0 {
		cfg.Match = cfg.Match.WithScaleFactor(c.ScaleFactor)
	}
	return cfg
}

// Jobs returns one comparison per component. Inputs are read by each job's
// Load on the worker that runs it, so an unreadable input fails only its
// own component.
func (p *File) Jobs(suitePath string) []compare.Job {
	jobs := make([]compare.Job, 0, len(p.Components))
	for _, c := range p.Components {
		c := c
		jobs = append(jobs, compare.Job{
			Name:   c.Name,
			Load:   func() (compare.Inputs, error) { return p.inputs(suitePath, c) },
			Config: p.ConfigFor(c),
		})
	}
	return jobs
}

func (p *File) inputs(suitePath string, c Component) (compare.Inputs, error) {
	expected, err := raster.Load(ResolvePath(suitePath, c.Expected))
	if err != nil {
		return compare.Inputs{}, fmt.Errorf("expected image: %w", err)
	}
	actual, err := raster.Load(ResolvePath(suitePath, c.Actual))
	if err != nil {
		return compare.Inputs{}, fmt.Errorf("actual image: %w", err)
	}
	var tree *design.Node
	if c.Design != "" {
		if tree, err = design.Load(ResolvePath(suitePath, c.Design)); err != nil {
			return compare.Inputs{}, err
		}
	}
	return compare.Inputs{Expected: expected, Actual: actual, Tree: tree}, nil
}

func relativeTo(suitePath, path string) string {
	rel, err := filepath.Rel(filepath.Dir(suitePath), path)
	if err != nil {
		return path
	}
	return rel
}

// dirName maps a component name to a filesystem-safe directory name.
func dirName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
}
