package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"rejig/internal/model"
)

func init() {
	Languages["go"] = &Language{
		Name:       "go",
		Extensions: []string{".go"},
		lang:       golang.GetLanguage(),
		CommentTypes: map[string]struct{}{
			"comment": {},
		},
		Owner:   goOwner,
		Formals: goFormals,
		Callee:  goCallee,
	}
}

func goCallee(call *sitter.Node, source []byte) (string, string) {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return "", ""
	}
	switch fn.Type() {
	case "identifier":
		return "", NodeText(fn, source)
	case "selector_expression":
		var recv, name string
		if op := fn.ChildByFieldName("operand"); op != nil {
			recv = NodeText(op, source)
		}
		if f := fn.ChildByFieldName("field"); f != nil {
			name = NodeText(f, source)
		}
		return recv, name
	}
	// Index, parenthesized, and literal callees are not reorderable targets.
	return "", ""
}

// goOwner returns the receiver type name for a method declaration,
// unwrapping pointer and generic receivers.
func goOwner(decl *sitter.Node, source []byte) string {
	recv := decl.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := 0; i < int(recv.NamedChildCount()); i++ {
		p := recv.NamedChild(i)
		if p.Type() == "parameter_declaration" {
			if tn := p.ChildByFieldName("type"); tn != nil {
				return goBaseTypeName(tn, source)
			}
		}
	}
	return ""
}

// goBaseTypeName strips pointer and type-parameter wrapping from a receiver type.
func goBaseTypeName(tn *sitter.Node, source []byte) string {
	switch tn.Type() {
	case "type_identifier":
		return NodeText(tn, source)
	case "pointer_type", "generic_type":
		for i := 0; i < int(tn.NamedChildCount()); i++ {
			c := tn.NamedChild(i)
			if c.Type() == "type_identifier" || c.Type() == "generic_type" {
				return goBaseTypeName(c, source)
			}
		}
	}
	return NodeText(tn, source)
}

func goFormals(decl *sitter.Node, source []byte) ([]model.Param, bool) {
	params := decl.ChildByFieldName("parameters")
	if params == nil {
		return nil, false
	}
	var out []model.Param
	variadic := false
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "parameter_declaration":
			out = append(out, goParamGroup(p, source)...)
		case "variadic_parameter_declaration":
			var pr model.Param
			if nn := p.ChildByFieldName("name"); nn != nil {
				pr.Name = NodeText(nn, source)
			}
			if tn := p.ChildByFieldName("type"); tn != nil {
				pr.Type = "..." + NodeText(tn, source)
			}
			out = append(out, pr)
			variadic = true
		}
	}
	return out, variadic
}

// goParamGroup expands a shared-type group like `a, b int` into one Param per name.
func goParamGroup(p *sitter.Node, source []byte) []model.Param {
	var typ string
	if tn := p.ChildByFieldName("type"); tn != nil {
		typ = NodeText(tn, source)
	}
	var out []model.Param
	for i := 0; i < int(p.ChildCount()); i++ {
		if p.FieldNameForChild(i) == "name" {
			out = append(out, model.Param{Name: NodeText(p.Child(i), source), Type: typ})
		}
	}
	if len(out) == 0 {
		// Unnamed parameter (interface-style signature).
		out = append(out, model.Param{Type: typ})
	}
	return out
}
