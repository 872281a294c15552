package formula

import (
	"fmt"
	"strings"
)

// Repair describes what brace repair did to a formula.
type Repair struct {
	Appended  int `json:"appended"`  // closing braces added at the end
	Prepended int `json:"prepended"` // opening braces added at the start
}

// Changed reports whether any brace was added.
func (r Repair) Changed() bool {
	return r.Appended > 0 || r.Prepended > 0
}

// Warnings describes the repair for the author. It is empty when nothing
// was added.
func (r Repair) Warnings() []string {
	warnings := make([]string, 0, 2)
	if r.Appended > 0 {
		warnings = append(warnings, fmt.Sprintf("added %d closing brace(s) at the end; check that the formula is complete", r.Appended))
	}
	if r.Prepended > 0 {
		warnings = append(warnings, fmt.Sprintf("added %d opening brace(s) at the start; check that the formula is complete", r.Prepended))
	}
	return warnings
}

// formArtifacts undoes the quote escaping added by form submission.
var formArtifacts = strings.NewReplacer(`\'`, `'`, `\"`, `"`)

// Sanitize cleans an authored formula and returns it wrapped in the
// delimiters of mode. See SanitizeReport.
func Sanitize(latex string, mode Mode) string {
	s, _ := SanitizeReport(latex, mode)
	return s
}

// SanitizeReport strips form-submission escaping and one layer of outer
// delimiters, balances braces by counting them, and wraps the result in the
// delimiters of mode.
//
// Brace repair only counts characters; it does not parse LaTeX. A truncated
// formula is balanced, not corrected, which is why the Repair is returned.
func SanitizeReport(latex string, mode Mode) (string, Repair) {
	s := strings.TrimSpace(formArtifacts.Replace(latex))
	s = strings.TrimSpace(stripDelimiters(s))

	var repair Repair
	opening, closing := strings.Count(s, "{"), strings.Count(s, "}")
	switch {
	case opening > closing:
		repair.Appended = opening - closing
		s += strings.Repeat("}", repair.Appended)
	case closing > opening:
		repair.Prepended = closing - opening
		s = strings.Repeat("{", repair.Prepended) + s
	}

	return mode.Wrap(s), repair
}

// stripDelimiters removes a single layer of \( \) or \[ \].
func stripDelimiters(s string) string {
	for _, m := range []Mode{Inline, Block} {
		open, close := m.Delimiters()
		if len(s) >= len(open)+len(close) && strings.HasPrefix(s, open) && strings.HasSuffix(s, close) {
			return s[len(open) : len(s)-len(close)]
		}
	}
	return s
}
