// Package textwidth measures strings in monospace terminal columns.
package textwidth

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

var ansiRegexp = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StringWidth returns the widest line of s in terminal columns. ANSI colour
// sequences take no space and East Asian wide or fullwidth runes take two.
func StringWidth(s string) int {
	maxWidth := 0
	for _, line := range strings.Split(s, "\n") {
		if w := lineWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// PadRight appends ASCII spaces until the rendered width matches target.
func PadRight(s string, target int) string {
	diff := target - StringWidth(s)
	if diff <= 0 {
		return s
	}
	return s + strings.Repeat(" ", diff)
}

// Strip removes ANSI colour sequences.
func Strip(s string) string {
	return ansiRegexp.ReplaceAllString(s, "")
}

func lineWidth(s string) int {
	n := 0
	for _, r := range Strip(s) {
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	if r == '\r' || unicode.Is(unicode.Mn, r) || !unicode.IsPrint(r) && r != ' ' {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
