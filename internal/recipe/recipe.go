// Package recipe loads argument-reorder recipes from YAML configuration.
package recipe

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rejig/internal/pattern"
)

// configFileNames is the ordered list of recipe file names to search for.
var configFileNames = []string{
	"rejig.yml",
	"rejig.yaml",
	".rejig.yml",
	".rejig.yaml",
}

// Recipe describes one argument-reorder operation.
type Recipe struct {
	// MethodPattern selects candidate call sites (see package pattern).
	MethodPattern string `yaml:"methodPattern"`

	// OrderedArgumentNames is the desired new argument order, by formal
	// parameter name.
	OrderedArgumentNames []string `yaml:"orderedArgumentNames"`

	// OriginalOrderedArgumentNames overrides the parameter-name order
	// derived from the resolved signature. Empty means derive.
	OriginalOrderedArgumentNames []string `yaml:"originalOrderedArgumentNames"`

	// Pattern is the compiled MethodPattern, populated by Load.
	Pattern *pattern.Pattern `yaml:"-"`
}

// Config is a parsed recipe file.
type Config struct {
	Recipes []Recipe `yaml:"recipes"`
}

// Discover returns the path of the first recipe file found in dir,
// following the standard search order. It returns an empty string if
// none is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads and parses a recipe file. If configPath is empty, Load searches
// the current working directory using Discover; unlike a formatter there is
// no useful default, so finding no file is an error.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		configPath = Discover(wd)
	}
	if configPath == "" {
		return nil, fmt.Errorf("no recipe file found (looked for %s); use -r to point at one", configFileNames[0])
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file %s: %w", configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates recipe YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing recipe file: %w", err)
	}
	if len(cfg.Recipes) == 0 {
		return nil, fmt.Errorf("recipe file declares no recipes")
	}

	for i := range cfg.Recipes {
		r := &cfg.Recipes[i]
		if r.MethodPattern == "" {
			return nil, fmt.Errorf("recipe %d: methodPattern is required", i+1)
		}
		if len(r.OrderedArgumentNames) == 0 {
			return nil, fmt.Errorf("recipe %d (%s): orderedArgumentNames is required", i+1, r.MethodPattern)
		}
		p, err := pattern.Parse(r.MethodPattern)
		if err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i+1, err)
		}
		r.Pattern = p
	}
	return &cfg, nil
}
