// Package model defines core data structures for rejig.
package model

// Argument is one actual argument at a call site. Text is the raw expression
// source. Leading holds the whitespace and comments between the previous
// separator (opening paren or comma) and the expression; Trailing holds
// everything between the expression and the next separator or closing paren.
// Both slots travel with the argument when it is relocated.
type Argument struct {
	Text     string
	Leading  string
	Trailing string
}

// Param is one formal parameter of a declared method.
type Param struct {
	Name string
	Type string
}

// Signature describes a method declaration found in the parsed tree.
type Signature struct {
	Owner    string // declaring type, package-qualified where the language provides it
	Name     string
	Params   []Param
	Variadic bool // the final formal parameter is variable-arity
	File     string
	Line     int
}

// ParamNames returns the formal parameter names in declaration order.
func (s *Signature) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i := range s.Params {
		names[i] = s.Params[i].Name
	}
	return names
}

// ParamTypes returns the formal parameter type texts in declaration order.
func (s *Signature) ParamTypes() []string {
	types := make([]string, len(s.Params))
	for i := range s.Params {
		types[i] = s.Params[i].Type
	}
	return types
}

// CallSite is a single invocation expression under consideration for
// argument reordering.
type CallSite struct {
	Name     string // invoked method name
	Receiver string // receiver/qualifier text, "" for unqualified calls
	Args     []Argument
	Sig      *Signature // resolved declaration, nil when unresolved

	// TrailingComma records a separator after the final argument (legal in
	// Go call expressions); Suffix is the raw text between that separator
	// and the closing paren.
	TrailingComma bool
	Suffix        string

	File      string
	Line      int    // 1-based line of the call
	ArgsStart uint32 // byte offset of the argument list's opening paren
	ArgsEnd   uint32 // byte offset one past the closing paren
}

// Edit is a byte-range replacement in a source file.
type Edit struct {
	Start uint32
	End   uint32
	Text  string
}
