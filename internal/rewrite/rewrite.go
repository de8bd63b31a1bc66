// Package rewrite applies reorder recipes to parsed source files.
package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"rejig/internal/model"
	"rejig/internal/parse"
	"rejig/internal/recipe"
	"rejig/internal/reorder"
	"rejig/internal/resolve"
)

// Change records one rewritten call site.
type Change struct {
	File    string
	Line    int
	Method  string
	Args    int // argument count after the rewrite
	Pattern string
}

// Result is the outcome of rewriting one file.
type Result struct {
	Path    string
	Content []byte
	Changed bool
	Changes []Change

	// Errs holds per-call-site resolution errors. Each is fatal only for
	// its own call site; the rest of the file is still processed.
	Errs []error
}

// File tests every call site in f against the recipes and rewrites the
// matches. The first matching recipe wins for a given call site. Rewrites
// nested inside another rewritten argument list are deferred: the inner one
// applies and the enclosing call is picked up by a subsequent run.
func File(f *parse.File, recipes []recipe.Recipe, ix *resolve.Index) *Result {
	res := &Result{Path: f.Path, Content: f.Source}

	var edits []model.Edit
	for i := range f.Calls {
		site := f.Calls[i]
		site.Sig = ix.Resolve(&site)

		for j := range recipes {
			rc := &recipes[j]
			if !rc.Pattern.Matches(&site) {
				continue
			}
			ns, changed, err := reorder.Reorder(&site, rc.OrderedArgumentNames, rc.OriginalOrderedArgumentNames)
			if err != nil {
				res.Errs = append(res.Errs, fmt.Errorf("%s:%d: %w", f.Path, site.Line, err))
				break
			}
			if changed {
				edits = append(edits, model.Edit{
					Start: ns.ArgsStart,
					End:   ns.ArgsEnd,
					Text:  renderArgList(ns),
				})
				res.Changes = append(res.Changes, Change{
					File:    f.Path,
					Line:    site.Line,
					Method:  site.Name,
					Args:    len(ns.Args),
					Pattern: rc.Pattern.String(),
				})
			}
			break
		}
	}

	edits = dropEnclosing(edits)
	if len(edits) > 0 {
		res.Content = applyEdits(f.Source, edits)
		res.Changed = true
	}
	return res
}

// renderArgList rebuilds the argument list text with each argument's
// formatting slots intact. Separators are the bare comma; all surrounding
// whitespace and comments live in the Leading/Trailing slots.
func renderArgList(site *model.CallSite) string {
	var b strings.Builder
	b.WriteByte('(')
	for i := range site.Args {
		if i > 0 {
			b.WriteByte(',')
		}
		a := &site.Args[i]
		b.WriteString(a.Leading)
		b.WriteString(a.Text)
		b.WriteString(a.Trailing)
	}
	if site.TrailingComma && len(site.Args) > 0 {
		b.WriteByte(',')
		b.WriteString(site.Suffix)
	}
	b.WriteByte(')')
	return b.String()
}

// dropEnclosing removes edits whose range strictly contains another edit:
// the enclosing call's argument text was captured before the inner rewrite,
// so applying both would revert the inner one.
func dropEnclosing(edits []model.Edit) []model.Edit {
	var kept []model.Edit
	for i, e := range edits {
		contains := false
		for j, other := range edits {
			if i != j && e.Start <= other.Start && other.End <= e.End &&
				(e.End-e.Start) > (other.End-other.Start) {
				contains = true
				break
			}
		}
		if !contains {
			kept = append(kept, e)
		}
	}
	return kept
}

// applyEdits splices the edits into source, working from the end of the
// file backward so earlier offsets stay valid.
func applyEdits(source []byte, edits []model.Edit) []byte {
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start > edits[j].Start })

	out := make([]byte, len(source))
	copy(out, source)
	for _, e := range edits {
		var next []byte
		next = append(next, out[:e.Start]...)
		next = append(next, e.Text...)
		next = append(next, out[e.End:]...)
		out = next
	}
	return out
}
