// Package text normalizes the help text of pendulum-ops commands.
package text

import (
	"strings"
)

// Indentation prefixes every example line.
const Indentation = `  `

// LongDesc trims the surrounding whitespace of a long description and removes the source
// indentation of each line.
func LongDesc(s string) string {
	if len(s) == 0 {
		return s
	}

	return strings.Join(trimLines(s), "\n")
}

// Examples trims an examples block and indents each line by Indentation.
func Examples(s string) string {
	if len(s) == 0 {
		return s
	}

	lines := trimLines(s)
	for i, line := range lines {
		lines[i] = Indentation + line
	}

	return strings.Join(lines, "\n")
}

func trimLines(s string) []string {
	s = strings.TrimSpace(s)
	lines := make([]string, 0, strings.Count(s, "\n")+1)
	for line := range strings.SplitSeq(s, "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}

	return lines
}
