// rejig reorders method-call arguments across a source tree according to
// declarative YAML recipes, preserving each argument's formatting.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"rejig/internal/diff"
	"rejig/internal/discover"
	"rejig/internal/lang"
	"rejig/internal/parse"
	"rejig/internal/recipe"
	"rejig/internal/report"
	"rejig/internal/resolve"
	"rejig/internal/rewrite"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

// Exit codes.
const (
	exitOK    = 0 // nothing to rewrite (or rewrites applied cleanly)
	exitDirty = 1 // pending rewrites under -check, or call-site resolution errors
	exitError = 2 // usage or configuration error
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "init" {
		if err := runInit(args[1:], stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	fs := flag.NewFlagSet("rejig", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		recipePath  string
		langs       string
		write       bool
		check       bool
		list        bool
		maxFileSize int
		showVersion bool
	)

	fs.StringVar(&recipePath, "r", "", "recipe file path")
	fs.StringVar(&recipePath, "recipes", "", "recipe file path")
	fs.StringVar(&langs, "l", "", "comma-separated languages to include")
	fs.StringVar(&langs, "langs", "", "comma-separated languages to include")
	fs.BoolVar(&write, "write", false, "rewrite files in place (default prints a diff)")
	fs.BoolVar(&check, "check", false, "report pending rewrites and exit 1 if any")
	fs.BoolVar(&list, "list", false, "print a tabular report of rewrites")
	fs.IntVar(&maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderFlags(args)); err != nil {
		return exitError
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "rejig %s\n", version)
		return exitOK
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintf(stderr, "error: resolving root: %v\n", err)
		return exitError
	}
	info, err := os.Stat(root)
	if err != nil {
		fmt.Fprintf(stderr, "error: root path: %v\n", err)
		return exitError
	}
	if !info.IsDir() {
		fmt.Fprintf(stderr, "error: %s: not a directory\n", root)
		return exitError
	}

	var langFilter []string
	if langs != "" {
		for _, name := range strings.Split(langs, ",") {
			name = strings.TrimSpace(name)
			if _, ok := lang.Languages[name]; !ok {
				fmt.Fprintf(stderr, "error: unsupported language %q\n", name)
				return exitError
			}
			langFilter = append(langFilter, name)
		}
	}

	cfg, err := recipe.Load(recipePath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	files, err := discover.Files(root, langFilter)
	if err != nil {
		fmt.Fprintf(stderr, "error: discovering files: %v\n", err)
		return exitError
	}
	files = filterBySize(root, files, maxFileSize, stderr)
	if len(files) == 0 {
		fmt.Fprintln(stderr, "error: no rewritable files found")
		return exitError
	}

	parsed := parseFiles(root, files, stderr)
	if len(parsed) == 0 {
		fmt.Fprintln(stderr, "error: no files could be parsed")
		return exitError
	}

	ix := resolve.NewIndex(parsed)
	results := rewriteFiles(parsed, cfg.Recipes, ix)

	exit := exitOK
	dirty := false
	for i, res := range results {
		for _, e := range res.Errs {
			fmt.Fprintf(stderr, "error: %v\n", e)
			exit = exitDirty
		}
		if !res.Changed {
			continue
		}
		dirty = true
		switch {
		case write:
			if err := writeFile(filepath.Join(root, res.Path), res.Content); err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
				return exitError
			}
			fmt.Fprintf(stderr, "rewrote %d call site(s) in %s\n", len(res.Changes), res.Path)
		case check:
			_, _ = fmt.Fprintf(stdout, "%s: %d call site(s) would be rewritten\n", res.Path, len(res.Changes))
		default:
			_, _ = fmt.Fprint(stdout, diff.Unified(res.Path, string(parsed[i].Source), string(res.Content)))
		}
	}

	if list {
		_, _ = fmt.Fprintln(stdout, report.Encode(&report.Run{Root: filepath.Base(root), Results: results}))
	}
	if check && dirty && exit == exitOK {
		exit = exitDirty
	}
	return exit
}

// parseFiles parses the discovered files concurrently. Each task gets its
// own tree-sitter parser (parsers are not thread-safe); compiled queries are
// shared. Files that fail to parse are warned about and skipped.
func parseFiles(root string, files []discover.FileEntry, stderr io.Writer) []*parse.File {
	indexed := make([]*parse.File, len(files))
	var stderrMu sync.Mutex

	warn := func(format string, a ...any) {
		stderrMu.Lock()
		defer stderrMu.Unlock()
		_, _ = fmt.Fprintf(stderr, format, a...)
	}

	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range files {
		g.Go(func() error {
			l := lang.Languages[f.Language]
			q, err := l.GetQuery()
			if err != nil {
				warn("Warning: failed to compile query for %s: %v\n", f.Language, err)
				return nil
			}
			source, err := os.ReadFile(filepath.Join(root, f.Path))
			if err != nil {
				warn("Warning: failed to read %s: %v\n", f.Path, err)
				return nil
			}
			pf, err := parse.Extract(l, l.NewParser(), q, source, f.Path)
			if err != nil {
				warn("Warning: failed to parse %s: %v\n", f.Path, err)
				return nil
			}
			indexed[i] = pf
			return nil
		})
	}
	_ = g.Wait()

	var parsed []*parse.File
	for _, pf := range indexed {
		if pf != nil {
			parsed = append(parsed, pf)
		}
	}
	return parsed
}

// rewriteFiles applies the recipes to every parsed file concurrently. The
// signature index is read-only by this point and call sites are independent,
// so no coordination is needed beyond the bounded group.
func rewriteFiles(parsed []*parse.File, recipes []recipe.Recipe, ix *resolve.Index) []*rewrite.Result {
	results := make([]*rewrite.Result, len(parsed))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, pf := range parsed {
		g.Go(func() error {
			results[i] = rewrite.File(pf, recipes, ix)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func filterBySize(root string, files []discover.FileEntry, maxSize int, stderr io.Writer) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, f.Path))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			_, _ = fmt.Fprintf(stderr, "Warning: %s: skipped (>%d bytes)\n", f.Path, maxSize)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// writeFile replaces a source file's content, preserving its permissions.
func writeFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-r": true, "--r": true,
	"-recipes": true, "--recipes": true,
	"-l": true, "--l": true,
	"-langs": true, "--langs": true,
	"-max-file-size": true, "--max-file-size": true,
}

// reorderFlags moves positional arguments after all flags so Go's flag
// package can parse them correctly (it stops at the first non-flag arg).
func reorderFlags(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
