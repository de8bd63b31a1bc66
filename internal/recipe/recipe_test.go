package recipe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `recipes:
  - methodPattern: com.acme.Logger log(..)
    orderedArgumentNames: [message, level]
  - methodPattern: send(*, *)
    orderedArgumentNames: [data, addr]
    originalOrderedArgumentNames: [addr, data]
`

func TestParseValid(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cfg.Recipes) != 2 {
		t.Fatalf("recipes = %d, want 2", len(cfg.Recipes))
	}

	r := cfg.Recipes[0]
	if r.Pattern == nil {
		t.Fatal("pattern not compiled")
	}
	if len(r.OrderedArgumentNames) != 2 || r.OrderedArgumentNames[0] != "message" {
		t.Errorf("orderedArgumentNames = %v", r.OrderedArgumentNames)
	}
	if len(r.OriginalOrderedArgumentNames) != 0 {
		t.Errorf("originalOrderedArgumentNames = %v, want empty", r.OriginalOrderedArgumentNames)
	}
	if got := cfg.Recipes[1].OriginalOrderedArgumentNames; len(got) != 2 || got[0] != "addr" {
		t.Errorf("override = %v, want [addr data]", got)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
		want string // substring of the error
	}{
		{"empty", "recipes: []\n", "no recipes"},
		{"missing pattern", "recipes:\n  - orderedArgumentNames: [a]\n", "methodPattern is required"},
		{"missing order", "recipes:\n  - methodPattern: log(..)\n", "orderedArgumentNames is required"},
		{"bad pattern", "recipes:\n  - methodPattern: \"not a pattern\"\n    orderedArgumentNames: [a]\n", "method pattern"},
		{"bad yaml", "recipes: [\n", "parsing recipe file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if got := Discover(dir); got != "" {
		t.Errorf("Discover(empty) = %q, want \"\"", got)
	}

	path := filepath.Join(dir, "rejig.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Discover(dir); got != path {
		t.Errorf("Discover = %q, want %q", got, path)
	}

	// rejig.yml outranks rejig.yaml.
	preferred := filepath.Join(dir, "rejig.yml")
	if err := os.WriteFile(preferred, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Discover(dir); got != preferred {
		t.Errorf("Discover = %q, want %q", got, preferred)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Recipes) != 2 {
		t.Errorf("recipes = %d, want 2", len(cfg.Recipes))
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("Load(missing) should fail")
	}
}
