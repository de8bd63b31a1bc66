// Package reorder implements the argument reorder engine: given a call site
// and a target parameter-name order, it computes the rearranged argument
// list with each argument's formatting preserved.
package reorder

import (
	"fmt"

	"rejig/internal/model"
)

// UnresolvedSignatureError reports a call site whose formal parameter names
// could not be determined: the call resolves to no declaration in the parsed
// tree and no original-order override was supplied.
type UnresolvedSignatureError struct {
	DeclaringType string
	Method        string
}

func (e *UnresolvedSignatureError) Error() string {
	owner := e.DeclaringType
	if owner == "" {
		owner = "<unknown>"
	}
	return fmt.Sprintf("no parameter names available for %s.%s(..): supply originalOrderedArgumentNames",
		owner, e.Method)
}

// Reorder rearranges the call site's arguments into target order, named by
// formal parameter. When override is non-empty it is used verbatim as the
// original parameter-name order; otherwise the names come from the call's
// resolved signature. Target names with no corresponding position are
// silently dropped from the output.
//
// The returned call site is the original pointer, unchanged, when no
// rearrangement was needed (changed == false); callers substitute the node
// only on change.
//
// When the call supplies more arguments than the resolved signature declares
// and a target name addresses the final (variable-arity) parameter, the
// whole argument tail moves as one contiguous block.
//
// Formatting is reattached sequentially: the i-th placed argument receives
// the leading/trailing pair of the i-th consumed input slot, via a cursor
// that advances once per placed name. For a clean permutation this keeps
// every argument's own formatting with it; with dropped or duplicated names
// an argument can end up wearing a neighbor's formatting. That is the
// intended behavior, not a defect.
func Reorder(site *model.CallSite, target, override []string) (*model.CallSite, bool, error) {
	paramNames := override
	if len(paramNames) == 0 && site.Sig != nil {
		paramNames = site.Sig.ParamNames()
	}
	if len(paramNames) == 0 {
		err := &UnresolvedSignatureError{Method: site.Name}
		if site.Sig != nil {
			err.DeclaringType = site.Sig.Owner
		} else {
			err.DeclaringType = site.Receiver
		}
		return nil, false, err
	}

	args := site.Args
	resolvedCount := len(args)
	if site.Sig != nil {
		resolvedCount = len(site.Sig.Params)
	}

	reordered := make([]model.Argument, 0, len(args))
	leading := make([]string, 0, len(args))
	trailing := make([]string, 0, len(args))
	cursor := 0

	for _, name := range target {
		fromPos := indexOf(paramNames, name)
		switch {
		case fromPos >= 0 && len(args) > resolvedCount && fromPos == resolvedCount-1:
			// Variable-arity group: everything from fromPos to the end moves
			// as one block, in original relative order. Formatting comes from
			// the same number of slots starting at the cursor.
			group := args[fromPos:]
			reordered = append(reordered, group...)
			end := cursor + len(group)
			if end > len(args) {
				end = len(args)
			}
			for _, a := range args[cursor:end] {
				leading = append(leading, a.Leading)
				trailing = append(trailing, a.Trailing)
			}
			cursor++
		case fromPos >= 0 && fromPos < len(args):
			reordered = append(reordered, args[fromPos])
			src := fromPos
			if cursor < len(args) {
				src = cursor
			}
			leading = append(leading, args[src].Leading)
			trailing = append(trailing, args[src].Trailing)
			cursor++
		}
		// Names with no valid position contribute nothing.
	}

	out := make([]model.Argument, len(reordered))
	changed := len(out) != len(args)
	for i := range reordered {
		out[i] = reordered[i]
		if i < len(leading) {
			out[i].Leading = leading[i]
			out[i].Trailing = trailing[i]
		}
		if !changed && out[i] != args[i] {
			changed = true
		}
	}
	if !changed {
		return site, false, nil
	}

	ns := *site
	ns.Args = out
	return &ns, true, nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
