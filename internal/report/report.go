// Package report encodes a run's rewrites in a compact tabular format.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"rejig/internal/rewrite"
)

var needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)

// Run aggregates the per-file results of one rejig invocation.
type Run struct {
	Root    string
	Results []*rewrite.Result
}

// Encode renders the run as a tabular report: one row per rewritten file
// and one row per rewritten call site.
func Encode(r *Run) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))

	var fileRows [][]string
	var changeRows [][]string
	for _, res := range r.Results {
		if !res.Changed {
			continue
		}
		fileRows = append(fileRows, []string{
			res.Path,
			fmt.Sprintf("%d", len(res.Changes)),
		})
		for i := range res.Changes {
			c := &res.Changes[i]
			changeRows = append(changeRows, []string{
				c.File,
				fmt.Sprintf("%d", c.Line),
				c.Method,
				fmt.Sprintf("%d", c.Args),
				c.Pattern,
			})
		}
	}
	parts = append(parts, formatTabular("files", []string{"path", "rewrites"}, fileRows))
	parts = append(parts, formatTabular("changes", []string{"file", "line", "method", "args", "pattern"}, changeRows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}
	if value != strings.TrimSpace(value) ||
		strings.ContainsAny(value, "\n\r\t") ||
		needsQuoting.MatchString(value) {
		return quote(value)
	}
	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
