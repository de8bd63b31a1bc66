// Package lang provides a language registry mapping file extensions to
// tree-sitter languages, their embedded call-site queries, and the
// language-specific hooks rejig needs to read declarations and calls.
package lang

import (
	"embed"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"rejig/internal/model"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language
	queryOnce  sync.Once
	query      *sitter.Query
	queryErr   error

	// CommentTypes lists the grammar's comment node types. Comment nodes
	// inside an argument list fold into the neighboring formatting slots
	// rather than counting as arguments.
	CommentTypes map[string]struct{}

	// Owner returns the declaring type for a method declaration node:
	// the enclosing class (package-qualified) for Java, the receiver type
	// for Go. Returns "" for free functions.
	Owner func(decl *sitter.Node, source []byte) string

	// Formals extracts the ordered formal parameters of a declaration and
	// reports whether the final one is variable-arity.
	Formals func(decl *sitter.Node, source []byte) ([]model.Param, bool)

	// Callee splits a call node into receiver text and invoked method name.
	// An empty name means the node is not a reorderable call.
	Callee func(call *sitter.Node, source []byte) (receiver, name string)
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetQuery returns the compiled call/declaration query (safe to share across
// goroutines).
func (l *Language) GetQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// IsComment reports whether a node type is a comment in this language.
func (l *Language) IsComment(nodeType string) bool {
	_, ok := l.CommentTypes[nodeType]
	return ok
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
