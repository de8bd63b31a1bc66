package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"rejig/internal/model"
)

func init() {
	Languages["java"] = &Language{
		Name:       "java",
		Extensions: []string{".java"},
		lang:       java.GetLanguage(),
		CommentTypes: map[string]struct{}{
			"line_comment":  {},
			"block_comment": {},
		},
		Owner:   javaOwner,
		Formals: javaFormals,
		Callee:  javaCallee,
	}
}

func javaCallee(call *sitter.Node, source []byte) (string, string) {
	name := call.ChildByFieldName("name")
	if name == nil {
		return "", ""
	}
	var recv string
	if obj := call.ChildByFieldName("object"); obj != nil {
		recv = NodeText(obj, source)
	}
	return recv, NodeText(name, source)
}

// javaOwner returns the enclosing type chain for a method declaration
// (Outer.Inner for nested types), qualified with the file's package when one
// is declared.
func javaOwner(decl *sitter.Node, source []byte) string {
	var chain []string
	root := decl
	for n := decl.Parent(); n != nil; n = n.Parent() {
		root = n
		switch n.Type() {
		case "class_declaration", "interface_declaration",
			"enum_declaration", "record_declaration":
			if name := n.ChildByFieldName("name"); name != nil {
				chain = append([]string{NodeText(name, source)}, chain...)
			}
		}
	}
	if len(chain) == 0 {
		return ""
	}
	owner := strings.Join(chain, ".")
	if pkg := javaPackage(root, source); pkg != "" {
		owner = pkg + "." + owner
	}
	return owner
}

func javaPackage(root *sitter.Node, source []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "package_declaration" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			sub := child.NamedChild(j)
			if sub.Type() == "scoped_identifier" || sub.Type() == "identifier" {
				return NodeText(sub, source)
			}
		}
	}
	return ""
}

func javaFormals(decl *sitter.Node, source []byte) ([]model.Param, bool) {
	params := decl.ChildByFieldName("parameters")
	if params == nil {
		return nil, false
	}
	var out []model.Param
	variadic := false
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "formal_parameter":
			var pr model.Param
			if tn := p.ChildByFieldName("type"); tn != nil {
				pr.Type = NodeText(tn, source)
			}
			if nn := p.ChildByFieldName("name"); nn != nil {
				pr.Name = NodeText(nn, source)
			}
			out = append(out, pr)
		case "spread_parameter":
			out = append(out, javaSpreadParam(p, source))
			variadic = true
		}
	}
	return out, variadic
}

// javaSpreadParam handles the trailing `Type... name` form, whose name sits
// inside a variable_declarator rather than a name field.
func javaSpreadParam(p *sitter.Node, source []byte) model.Param {
	var pr model.Param
	for i := 0; i < int(p.NamedChildCount()); i++ {
		c := p.NamedChild(i)
		if c.Type() == "variable_declarator" {
			if nn := c.ChildByFieldName("name"); nn != nil {
				pr.Name = NodeText(nn, source)
			}
		} else if pr.Type == "" {
			pr.Type = NodeText(c, source) + "..."
		}
	}
	return pr
}
