package lang

import (
	"testing"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".java", "java"},
		{".go", "go"},
		{".py", ""},
		{".js", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"java", "go"} {
		l, ok := Languages[name]
		if !ok {
			t.Fatalf("%s language not registered", name)
		}
		if l.GetLanguage() == nil {
			t.Errorf("%s language is nil", name)
		}
		if l.Owner == nil || l.Formals == nil || l.Callee == nil {
			t.Errorf("%s language is missing hooks", name)
		}
	}
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	j := Languages["java"]
	p := j.NewParser()
	if p == nil {
		t.Fatal("NewParser returned nil")
	}
}

func TestGetQuery(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"java", "go"} {
		q, err := Languages[name].GetQuery()
		if err != nil {
			t.Fatalf("GetQuery(%s): %v", name, err)
		}
		if q == nil {
			t.Fatalf("GetQuery(%s) returned nil query", name)
		}
	}
}
