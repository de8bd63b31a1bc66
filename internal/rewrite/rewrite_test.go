package rewrite

import (
	"strings"
	"testing"

	"rejig/internal/lang"
	"rejig/internal/model"
	"rejig/internal/parse"
	"rejig/internal/recipe"
	"rejig/internal/resolve"
)

func parseSource(t *testing.T, langName, source string) *parse.File {
	t.Helper()
	l := lang.Languages[langName]
	q, err := l.GetQuery()
	if err != nil {
		t.Fatalf("GetQuery: %v", err)
	}
	f, err := parse.Extract(l, l.NewParser(), q, []byte(source), "test"+l.Extensions[0])
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return f
}

func recipes(t *testing.T, yaml string) []recipe.Recipe {
	t.Helper()
	cfg, err := recipe.Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("recipe.Parse: %v", err)
	}
	return cfg.Recipes
}

func TestJavaRewrite(t *testing.T) {
	t.Parallel()

	src := `package com.acme;

class Logger {
    void log(String level, String message) {}

    void use() {
        log("INFO", "started");
    }
}
`
	f := parseSource(t, "java", src)
	ix := resolve.NewIndex([]*parse.File{f})
	res := File(f, recipes(t, `recipes:
  - methodPattern: com.acme.Logger log(..)
    orderedArgumentNames: [message, level]
`), ix)

	if len(res.Errs) != 0 {
		t.Fatalf("errors: %v", res.Errs)
	}
	if !res.Changed {
		t.Fatal("expected a rewrite")
	}
	want := strings.Replace(src, `log("INFO", "started")`, `log("started", "INFO")`, 1)
	if string(res.Content) != want {
		t.Errorf("content:\n%s\nwant:\n%s", res.Content, want)
	}
	if len(res.Changes) != 1 || res.Changes[0].Method != "log" || res.Changes[0].Line != 7 {
		t.Errorf("changes = %+v", res.Changes)
	}
}

func TestOnlyMatchedBytesChange(t *testing.T) {
	t.Parallel()

	// Everything outside the rewritten argument list, including odd spacing
	// and comments elsewhere, must survive byte for byte.
	src := `package com.acme;

class C {
    void f(int a, int b) {}

    void use() {
        /* keep me */
        f( 1,  2 );   // and me
        other(9,8);
    }
}
`
	f := parseSource(t, "java", src)
	ix := resolve.NewIndex([]*parse.File{f})
	res := File(f, recipes(t, `recipes:
  - methodPattern: f(..)
    orderedArgumentNames: [b, a]
`), ix)

	want := strings.Replace(src, `f( 1,  2 )`, `f( 2,  1 )`, 1)
	if string(res.Content) != want {
		t.Errorf("content:\n%s\nwant:\n%s", res.Content, want)
	}
}

func TestJavaVarargsRewrite(t *testing.T) {
	t.Parallel()

	src := `package com.acme;

class C {
    void f(int a, int b, int... c) {}

    void use() {
        f(1, 2, 3, 4, 5);
    }
}
`
	f := parseSource(t, "java", src)
	ix := resolve.NewIndex([]*parse.File{f})
	res := File(f, recipes(t, `recipes:
  - methodPattern: f(..)
    orderedArgumentNames: [c, a, b]
`), ix)

	if len(res.Errs) != 0 {
		t.Fatalf("errors: %v", res.Errs)
	}
	want := strings.Replace(src, `f(1, 2, 3, 4, 5)`, `f(3, 4, 5, 1, 2)`, 1)
	if string(res.Content) != want {
		t.Errorf("content:\n%s\nwant:\n%s", res.Content, want)
	}
}

func TestGoRewriteKeepsTrailingComma(t *testing.T) {
	t.Parallel()

	src := `package p

func send(addr string, data []byte) {}

func use() {
	send(
		"localhost",
		payload,
	)
}
`
	f := parseSource(t, "go", src)
	ix := resolve.NewIndex([]*parse.File{f})
	res := File(f, recipes(t, `recipes:
  - methodPattern: send(*, *)
    orderedArgumentNames: [data, addr]
`), ix)

	if len(res.Errs) != 0 {
		t.Fatalf("errors: %v", res.Errs)
	}
	want := `package p

func send(addr string, data []byte) {}

func use() {
	send(
		payload,
		"localhost",
	)
}
`
	if string(res.Content) != want {
		t.Errorf("content:\n%s\nwant:\n%s", res.Content, want)
	}
}

func TestNoMatchLeavesFileAlone(t *testing.T) {
	t.Parallel()

	src := `package p

func f(a, b int) {}

func use() { f(1, 2) }
`
	f := parseSource(t, "go", src)
	ix := resolve.NewIndex([]*parse.File{f})
	res := File(f, recipes(t, `recipes:
  - methodPattern: g(..)
    orderedArgumentNames: [b, a]
`), ix)

	if res.Changed {
		t.Error("nothing matched, file must be unchanged")
	}
	if string(res.Content) != src {
		t.Error("content must be the original source")
	}
}

func TestNoOpOrderLeavesFileAlone(t *testing.T) {
	t.Parallel()

	src := `package p

func f(a, b int) {}

func use() { f(1, 2) }
`
	f := parseSource(t, "go", src)
	ix := resolve.NewIndex([]*parse.File{f})
	res := File(f, recipes(t, `recipes:
  - methodPattern: f(..)
    orderedArgumentNames: [a, b]
`), ix)

	if res.Changed {
		t.Error("target order equals declaration order, file must be unchanged")
	}
}

func TestResolutionErrorIsPerCallSite(t *testing.T) {
	t.Parallel()

	// g is declared nowhere: its call site fails with a resolution error,
	// but f's rewrite still applies.
	src := `package p

func f(a, b int) {}

func use() {
	g(1, 2)
	f(1, 2)
}
`
	f := parseSource(t, "go", src)
	ix := resolve.NewIndex([]*parse.File{f})
	res := File(f, recipes(t, `recipes:
  - methodPattern: g(..)
    orderedArgumentNames: [b, a]
  - methodPattern: f(..)
    orderedArgumentNames: [b, a]
`), ix)

	if len(res.Errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", res.Errs)
	}
	if !strings.Contains(res.Errs[0].Error(), "g") {
		t.Errorf("error should name the method: %v", res.Errs[0])
	}
	if !strings.Contains(string(res.Content), "f(2, 1)") {
		t.Errorf("f should still be rewritten:\n%s", res.Content)
	}
	if strings.Contains(string(res.Content), "g(2, 1)") {
		t.Errorf("g must not be rewritten:\n%s", res.Content)
	}
}

func TestOverrideRescuesUnresolvedCall(t *testing.T) {
	t.Parallel()

	src := `package p

func use() {
	ext.Call(1, 2)
}
`
	f := parseSource(t, "go", src)
	ix := resolve.NewIndex([]*parse.File{f})
	res := File(f, recipes(t, `recipes:
  - methodPattern: Call(..)
    orderedArgumentNames: [b, a]
    originalOrderedArgumentNames: [a, b]
`), ix)

	if len(res.Errs) != 0 {
		t.Fatalf("errors: %v", res.Errs)
	}
	if !strings.Contains(string(res.Content), "ext.Call(2, 1)") {
		t.Errorf("override should enable the rewrite:\n%s", res.Content)
	}
}

func TestDropRecipeIsStable(t *testing.T) {
	t.Parallel()

	// A recipe whose target order is a stable prefix of the declaration
	// converges: the second run finds nothing left to change.
	src := `package p

func f(a, b, label int) {}

func use() {
	f(10, 20, 30)
}
`
	rcs := recipes(t, `recipes:
  - methodPattern: f(..)
    orderedArgumentNames: [a, b]
`)

	f := parseSource(t, "go", src)
	res := File(f, rcs, resolve.NewIndex([]*parse.File{f}))
	if !res.Changed {
		t.Fatal("first run should drop the label argument")
	}
	if !strings.Contains(string(res.Content), "f(10, 20)") {
		t.Errorf("content:\n%s", res.Content)
	}

	f2 := parseSource(t, "go", string(res.Content))
	res2 := File(f2, rcs, resolve.NewIndex([]*parse.File{f2}))
	if res2.Changed {
		t.Errorf("second run must be a no-op, got:\n%s", res2.Content)
	}
}

func TestNestedCallDefersEnclosing(t *testing.T) {
	t.Parallel()

	// Both the outer and the inner call match different recipes. The inner
	// rewrite applies; the enclosing one is deferred to a later run so it
	// cannot revert the inner edit with the stale text it captured.
	src := `package p

func f(a, b int) int { return a }
func g(a, b int) int { return a }

func use() {
	g(f(1, 2), 3)
}
`
	rcs := recipes(t, `recipes:
  - methodPattern: f(..)
    orderedArgumentNames: [a]
  - methodPattern: g(..)
    orderedArgumentNames: [b, a]
`)
	f := parseSource(t, "go", src)
	res := File(f, rcs, resolve.NewIndex([]*parse.File{f}))
	if !res.Changed {
		t.Fatal("inner call should be rewritten")
	}
	if !strings.Contains(string(res.Content), "g(f(1), 3)") {
		t.Errorf("content:\n%s", res.Content)
	}

	// The second run flips the enclosing call; the inner one is stable.
	f2 := parseSource(t, "go", string(res.Content))
	res2 := File(f2, rcs, resolve.NewIndex([]*parse.File{f2}))
	if !strings.Contains(string(res2.Content), "g(3, f(1))") {
		t.Errorf("second pass content:\n%s", res2.Content)
	}
}

func TestRenderArgList(t *testing.T) {
	t.Parallel()

	site := &model.CallSite{
		Args: []model.Argument{
			{Text: "x", Leading: "", Trailing: ""},
			{Text: "y", Leading: " ", Trailing: " /* tail */"},
		},
	}
	if got := renderArgList(site); got != "(x, y /* tail */)" {
		t.Errorf("renderArgList = %q", got)
	}

	site.TrailingComma = true
	site.Suffix = "\n"
	if got := renderArgList(site); got != "(x, y /* tail */,\n)" {
		t.Errorf("renderArgList with trailing comma = %q", got)
	}
}
