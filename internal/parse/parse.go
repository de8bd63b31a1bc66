// Package parse extracts call sites and method declarations from source
// files using tree-sitter.
package parse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"rejig/internal/lang"
	"rejig/internal/model"
)

// File holds everything extracted from one parsed source file.
type File struct {
	Path     string
	Language string
	Source   []byte
	Decls    []model.Signature
	Calls    []model.CallSite
}

// Extract parses a source file and returns its method declarations and call
// sites. The parser must be created for the correct language. filePath is
// used for Signature.File / CallSite.File and should be repo-relative.
func Extract(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) (*File, error) {
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	defer tree.Close()

	f := &File{
		Path:     filePath,
		Language: l.Name,
		Source:   source,
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		for _, c := range match.Captures {
			switch query.CaptureNameForId(c.Index) {
			case "reference.call":
				if site, ok := extractCall(l, c.Node, source, filePath); ok {
					f.Calls = append(f.Calls, site)
				}
			case "definition.method":
				if sig, ok := extractDecl(l, c.Node, source, filePath); ok {
					f.Decls = append(f.Decls, sig)
				}
			}
		}
	}

	return f, nil
}

func extractCall(l *lang.Language, node *sitter.Node, source []byte, filePath string) (model.CallSite, bool) {
	recv, name := l.Callee(node, source)
	if name == "" {
		return model.CallSite{}, false
	}
	argsNode := node.ChildByFieldName("arguments")
	if argsNode == nil || argsNode.Type() != "argument_list" {
		return model.CallSite{}, false
	}

	site := model.CallSite{
		Name:      name,
		Receiver:  recv,
		File:      filePath,
		Line:      int(node.StartPoint().Row) + 1,
		ArgsStart: argsNode.StartByte(),
		ArgsEnd:   argsNode.EndByte(),
	}
	site.Args, site.TrailingComma, site.Suffix = splitArguments(l, argsNode, source)
	return site, true
}

// splitArguments walks the argument list's tokens. The region between two
// separators holds exactly one argument expression; whatever else sits in
// the region (whitespace, comments) folds into that argument's Leading and
// Trailing slots so it travels with the expression when it moves.
func splitArguments(l *lang.Language, argsNode *sitter.Node, source []byte) ([]model.Argument, bool, string) {
	var args []model.Argument
	var sepEnd uint32
	var expr *sitter.Node

	trailingComma := false
	suffix := ""

	flush := func(regionEnd uint32) bool {
		if expr == nil {
			return false
		}
		args = append(args, model.Argument{
			Leading:  string(source[sepEnd:expr.StartByte()]),
			Text:     string(source[expr.StartByte():expr.EndByte()]),
			Trailing: string(source[expr.EndByte():regionEnd]),
		})
		expr = nil
		return true
	}

	for i := 0; i < int(argsNode.ChildCount()); i++ {
		c := argsNode.Child(i)
		if c.IsNamed() {
			if !l.IsComment(c.Type()) {
				expr = c
			}
			continue
		}
		switch lang.NodeText(c, source) {
		case "(":
			sepEnd = c.EndByte()
		case ",":
			flush(c.StartByte())
			sepEnd = c.EndByte()
		case ")":
			if !flush(c.StartByte()) && len(args) > 0 {
				// The final argument was consumed by a comma: the list has a
				// trailing comma, and anything before ")" is loose formatting.
				trailingComma = true
				suffix = string(source[sepEnd:c.StartByte()])
			}
		}
	}

	return args, trailingComma, suffix
}

func extractDecl(l *lang.Language, node *sitter.Node, source []byte, filePath string) (model.Signature, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return model.Signature{}, false
	}
	params, variadic := l.Formals(node, source)
	return model.Signature{
		Owner:    l.Owner(node, source),
		Name:     lang.NodeText(name, source),
		Params:   params,
		Variadic: variadic,
		File:     filePath,
		Line:     int(node.StartPoint().Row) + 1,
	}, true
}
