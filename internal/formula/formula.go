// Package formula converts authored text between its storage form (raw LaTeX
// wrapped in \( \) or \[ \] delimiters) and its display form (HTML wrapper
// elements picked up by the client-side typesetting pass).
package formula

import (
	"regexp"
	"strings"
)

// Mode is the display mode of a formula.
type Mode int

const (
	// Inline formulas are delimited by \( and \) and rendered in a span.
	Inline Mode = iota
	// Block formulas are delimited by \[ and \] and rendered in a div.
	Block
)

// ParseMode parses "inline" or "block". Anything else is reported as not ok.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inline", "":
		return Inline, true
	case "block", "display":
		return Block, true
	default:
		return Inline, false
	}
}

func (m Mode) String() string {
	if m == Block {
		return "block"
	}
	return "inline"
}

// Delimiters returns the opening and closing delimiter of the mode.
func (m Mode) Delimiters() (string, string) {
	if m == Block {
		return `\[`, `\]`
	}
	return `\(`, `\)`
}

// Wrap puts latex between the delimiters of the mode.
func (m Mode) Wrap(latex string) string {
	open, close := m.Delimiters()
	return open + latex + close
}

func (m Mode) tag() string {
	if m == Block {
		return "div"
	}
	return "span"
}

// Span is one delimited formula found in authored text.
type Span struct {
	Latex  string // trimmed body
	Mode   Mode
	Source string // the delimited text exactly as authored
}

// Segment is a piece of authored text. Formula is nil for plain text.
type Segment struct {
	Text    string
	Formula *Span
}

// spanPattern matches \( … \) or \[ … \]; the body may span lines.
var spanPattern = regexp.MustCompile(`(?s)\\\((.*?)\\\)|\\\[(.*?)\\\]`)

// opaquePattern matches the regions an HTML tokenizer does not parse as
// markup: comments and the raw text of textarea, title, script and style.
// An unterminated region runs to the end of the text.
var opaquePattern = regexp.MustCompile(`(?is)<!--.*?(?:-->|$)` +
	`|<textarea\b[^>]*>.*?(?:</textarea\s*>|$)` +
	`|<title\b[^>]*>.*?(?:</title\s*>|$)` +
	`|<script\b[^>]*>.*?(?:</script\s*>|$)` +
	`|<style\b[^>]*>.*?(?:</style\s*>|$)`)

// Split cuts text into plain and formula segments, left to right.
// Delimiter pairs with an empty body stay in the plain text, and so do
// formulas starting inside an HTML comment or a raw text element.
func Split(text string) []Segment {
	matches := spanPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	var opaque [][]int
	if strings.Contains(text, "<") {
		opaque = opaquePattern.FindAllStringIndex(text, -1)
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if insideAny(opaque, m[0]) {
			continue
		}

		mode, body := Inline, ""
		if m[2] >= 0 {
			body = text[m[2]:m[3]]
		} else {
			mode, body = Block, text[m[4]:m[5]]
		}

		latex := strings.TrimSpace(body)
		if latex == "" {
			continue
		}

		if m[0] > last {
			segments = append(segments, Segment{Text: text[last:m[0]]})
		}
		source := text[m[0]:m[1]]
		segments = append(segments, Segment{
			Text:    source,
			Formula: &Span{Latex: latex, Mode: mode, Source: source},
		})
		last = m[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}

	return segments
}

func insideAny(regions [][]int, offset int) bool {
	for _, r := range regions {
		if offset >= r[0] && offset < r[1] {
			return true
		}
	}
	return false
}

// HasDelimiters reports whether text contains any opening delimiter.
func HasDelimiters(text string) bool {
	return strings.Contains(text, `\(`) || strings.Contains(text, `\[`)
}
