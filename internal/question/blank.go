package question

import (
	"regexp"
	"strings"

	"github.com/algebra-practice/backend/internal/formula"
)

// blankPattern matches a blank marker: a run of two or more underscores.
var blankPattern = regexp.MustCompile(`_{2,}`)

// CountBlanks returns the number of blank markers in text. Underscores inside
// formulas are subscripts, not blanks, and are not counted.
func CountBlanks(text string) int {
	count := 0
	for _, seg := range formula.Split(text) {
		if seg.Formula != nil {
			continue
		}
		count += len(blankPattern.FindAllStringIndex(seg.Text, -1))
	}
	return count
}

// ReplaceBlanks replaces every blank marker outside formulas with the result
// of fn, called with the 0-based blank index from left to right.
func ReplaceBlanks(text string, fn func(index int) string) string {
	if !strings.Contains(text, "__") {
		return text
	}

	var (
		b     strings.Builder
		index int
	)
	for _, seg := range formula.Split(text) {
		if seg.Formula != nil {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(blankPattern.ReplaceAllStringFunc(seg.Text, func(string) string {
			s := fn(index)
			index++
			return s
		}))
	}

	return b.String()
}
