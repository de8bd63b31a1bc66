// Package diff provides unified diff output for rewritten files.
package diff

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// opKind classifies one line of a line-level edit script.
type opKind byte

const (
	opEqual opKind = iota
	opDelete
	opInsert
)

type op struct {
	kind opKind
	line string
}

// Unified renders a unified diff between old and new file content.
// Returns "" when the contents are identical.
func Unified(filename, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	ops := script(splitLines(oldText), splitLines(newText))

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", filename)
	fmt.Fprintf(&b, "+++ b/%s\n", filename)
	writeHunks(&b, ops)
	return b.String()
}

// splitLines keeps the newline on each line so missing final newlines
// survive a round trip through the diff.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// script computes a line-level edit script. Equal prefixes and suffixes are
// stripped first; the remaining middles (small for argument-list rewrites)
// are aligned with a longest-common-subsequence table.
func script(a, b []string) []op {
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	post := 0
	for post < len(a)-pre && post < len(b)-pre && a[len(a)-1-post] == b[len(b)-1-post] {
		post++
	}

	var ops []op
	for _, l := range a[:pre] {
		ops = append(ops, op{opEqual, l})
	}
	ops = append(ops, lcsOps(a[pre:len(a)-post], b[pre:len(b)-post])...)
	for _, l := range a[len(a)-post:] {
		ops = append(ops, op{opEqual, l})
	}
	return ops
}

func lcsOps(a, b []string) []op {
	n, m := len(a), len(b)
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else if table[i+1][j] >= table[i][j+1] {
				table[i][j] = table[i+1][j]
			} else {
				table[i][j] = table[i][j+1]
			}
		}
	}

	var ops []op
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, op{opEqual, a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, op{opDelete, a[i]})
			i++
		default:
			ops = append(ops, op{opInsert, b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, op{opDelete, a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, op{opInsert, b[j]})
	}
	return ops
}

// writeHunks groups the edit script into @@ hunks with surrounding context.
func writeHunks(b *strings.Builder, ops []op) {
	type hunk struct {
		start int // index into ops
		end   int
	}

	var hunks []hunk
	last := -1
	for i, o := range ops {
		if o.kind == opEqual {
			continue
		}
		start := i - contextLines
		if start < 0 {
			start = 0
		}
		end := i + contextLines + 1
		if end > len(ops) {
			end = len(ops)
		}
		if len(hunks) > 0 && start <= hunks[last].end {
			hunks[last].end = end
		} else {
			hunks = append(hunks, hunk{start, end})
			last++
		}
	}

	oldLine, newLine := 1, 1
	idx := 0
	for _, h := range hunks {
		for ; idx < h.start; idx++ {
			switch ops[idx].kind {
			case opEqual:
				oldLine++
				newLine++
			case opDelete:
				oldLine++
			case opInsert:
				newLine++
			}
		}

		oldStart, newStart := oldLine, newLine
		oldCount, newCount := 0, 0
		var body strings.Builder
		for ; idx < h.end; idx++ {
			o := ops[idx]
			switch o.kind {
			case opEqual:
				body.WriteByte(' ')
				oldLine++
				newLine++
				oldCount++
				newCount++
			case opDelete:
				body.WriteByte('-')
				oldLine++
				oldCount++
			case opInsert:
				body.WriteByte('+')
				newLine++
				newCount++
			}
			body.WriteString(ensureNewline(o.line))
		}
		fmt.Fprintf(b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		b.WriteString(body.String())
	}
}

func ensureNewline(line string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + "\n\\ No newline at end of file\n"
}
