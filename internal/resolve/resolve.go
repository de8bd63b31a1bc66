// Package resolve builds a cross-file signature index and resolves call
// sites to declared signatures.
package resolve

import (
	"strings"

	"rejig/internal/model"
	"rejig/internal/parse"
)

// Index maps method names to the signatures declared under that name
// anywhere in the parsed tree. Built once per run, then read-only.
type Index struct {
	byName map[string][]*model.Signature
}

// NewIndex builds a signature index from the declarations of all parsed files.
func NewIndex(files []*parse.File) *Index {
	ix := &Index{byName: make(map[string][]*model.Signature)}
	for _, f := range files {
		for i := range f.Decls {
			sig := &f.Decls[i]
			ix.byName[sig.Name] = append(ix.byName[sig.Name], sig)
		}
	}
	return ix
}

// Resolve returns the declared signature for a call site, or nil when the
// call cannot be resolved. An owner match on the receiver text wins first
// (static-style calls such as Logger.log). Otherwise the name must identify
// the signature unambiguously: several same-name declarations resolve only
// if their parameter lists agree. Overload resolution is out of scope.
func (ix *Index) Resolve(site *model.CallSite) *model.Signature {
	cands := ix.byName[site.Name]
	if len(cands) == 0 {
		return nil
	}

	if site.Receiver != "" {
		for _, sig := range cands {
			if sig.Owner != "" && (sig.Owner == site.Receiver || lastSegment(sig.Owner) == site.Receiver) {
				return sig
			}
		}
	}

	first := cands[0]
	for _, sig := range cands[1:] {
		if !sameParams(sig, first) {
			return nil
		}
	}
	return first
}

func lastSegment(owner string) string {
	if i := strings.LastIndexByte(owner, '.'); i >= 0 {
		return owner[i+1:]
	}
	return owner
}

func sameParams(a, b *model.Signature) bool {
	if len(a.Params) != len(b.Params) || a.Variadic != b.Variadic {
		return false
	}
	for i := range a.Params {
		if a.Params[i].Name != b.Params[i].Name {
			return false
		}
	}
	return true
}
