// Package pattern implements method pattern matching over call sites.
//
// A pattern has the form "owner name(params)", where owner is optional.
// Owner may use * (any run of characters within one segment) and .. (any
// run of segments). Params is ".." for any argument list, or a comma list
// whose elements are "*" (any single argument) or a type name matched
// against the resolved signature; a trailing ".." absorbs any remaining
// arguments.
//
//	com.acme.Logger log(..)
//	*..Repository save(*, *)
//	encode(string, *, ..)
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"rejig/internal/model"
)

// Pattern is a compiled method pattern.
type Pattern struct {
	raw   string
	owner *regexp.Regexp // nil matches any owner
	name  string

	anyArgs  bool
	params   []string // "*" or a type name
	openTail bool     // trailing ".." absorbs remaining arguments
}

// Parse compiles a method pattern string.
func Parse(s string) (*Pattern, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(strings.TrimSpace(s), ")") {
		return nil, fmt.Errorf("method pattern %q: expected `[owner] name(params)`", s)
	}
	head := strings.Fields(s[:open])
	inner := strings.TrimSpace(s[open+1 : strings.LastIndexByte(s, ')')])

	p := &Pattern{raw: s}
	switch len(head) {
	case 1:
		p.name = head[0]
	case 2:
		re, err := ownerRegexp(head[0])
		if err != nil {
			return nil, fmt.Errorf("method pattern %q: %w", s, err)
		}
		p.owner = re
		p.name = head[1]
	default:
		return nil, fmt.Errorf("method pattern %q: expected `[owner] name(params)`", s)
	}
	if p.name == "" || strings.ContainsAny(p.name, "*.") {
		return nil, fmt.Errorf("method pattern %q: method name must be a plain identifier", s)
	}

	switch inner {
	case "..":
		p.anyArgs = true
	case "":
		// Zero-argument pattern.
	default:
		for _, tok := range strings.Split(inner, ",") {
			tok = strings.TrimSpace(tok)
			if tok == ".." {
				p.openTail = true
				continue
			}
			if tok == "" || p.openTail {
				return nil, fmt.Errorf("method pattern %q: malformed parameter list", s)
			}
			p.params = append(p.params, tok)
		}
	}
	return p, nil
}

// String returns the original pattern text.
func (p *Pattern) String() string { return p.raw }

// ownerRegexp compiles an owner pattern: * spans within a segment,
// .. spans across segments. "*" and ".." alone match any owner.
func ownerRegexp(pat string) (*regexp.Regexp, error) {
	if pat == "*" || pat == ".." {
		return nil, nil
	}
	var b strings.Builder
	b.WriteString(`^`)
	for i := 0; i < len(pat); {
		switch {
		case strings.HasPrefix(pat[i:], ".."):
			b.WriteString(`.*`)
			i += 2
		case pat[i] == '*':
			b.WriteString(`[^.]*`)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(pat[i])))
			i++
		}
	}
	b.WriteString(`$`)
	return regexp.Compile(b.String())
}

// Matches reports whether a call site's target matches the pattern.
// Owner matching uses the resolved signature's declaring type when present,
// else the call's receiver text; a call with neither only matches patterns
// without an owner constraint.
func (p *Pattern) Matches(site *model.CallSite) bool {
	if site.Name != p.name {
		return false
	}
	if p.owner != nil && !p.matchOwner(site) {
		return false
	}
	if p.anyArgs {
		return true
	}
	return p.matchParams(site)
}

func (p *Pattern) matchOwner(site *model.CallSite) bool {
	if site.Sig != nil && site.Sig.Owner != "" {
		return p.owner.MatchString(site.Sig.Owner)
	}
	if site.Receiver != "" {
		return p.owner.MatchString(site.Receiver)
	}
	return false
}

func (p *Pattern) matchParams(site *model.CallSite) bool {
	n := len(site.Args)
	if p.openTail {
		if n < len(p.params) {
			return false
		}
	} else if n != len(p.params) {
		return false
	}

	for i, want := range p.params {
		if want == "*" {
			continue
		}
		// A concrete type element needs a resolved signature to check against.
		if site.Sig == nil || i >= len(site.Sig.Params) {
			return false
		}
		got := site.Sig.Params[i].Type
		if got != want && lastTypeSegment(got) != want {
			return false
		}
	}
	return true
}

func lastTypeSegment(typ string) string {
	if i := strings.LastIndexByte(typ, '.'); i >= 0 {
		return typ[i+1:]
	}
	return typ
}
