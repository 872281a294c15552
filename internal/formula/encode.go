package formula

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Encode turns display HTML back into storage text. Each wrapper element
// (a span or div tagged with the codec class and carrying data-latex) is
// replaced by its delimited LaTeX; everything else is copied byte for byte.
func (c *Codec) Encode(markup string) string {
	if !strings.Contains(markup, c.className) {
		return markup
	}

	z := html.NewTokenizer(strings.NewReader(markup))

	var (
		out      strings.Builder
		current  *wrapper
		consumed int
	)
	out.Grow(len(markup))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// an unterminated wrapper is kept as it was written
			if current != nil {
				out.WriteString(current.raw.String())
			}
			out.WriteString(markup[min(consumed, len(markup)):])
			return out.String()
		}

		// Raw must be copied before TagName/Token lower-case the buffer.
		raw := string(z.Raw())
		consumed += len(raw)

		if current == nil {
			if tt == html.StartTagToken {
				if w, ok := c.openWrapper(z.Token(), raw); ok {
					current = w
					continue
				}
			}
			out.WriteString(raw)
			continue
		}

		current.raw.WriteString(raw)
		switch tt {
		case html.TextToken:
			// Text() folds \r\n into \n
			current.text.WriteString(html.UnescapeString(raw))
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == current.tag {
				current.depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == current.tag {
				current.depth--
				if current.depth == 0 {
					out.WriteString(current.storage())
					current = nil
				}
			}
		}
	}
}

type wrapper struct {
	tag   string
	mode  Mode
	latex string
	depth int
	raw   strings.Builder
	text  strings.Builder
}

func (c *Codec) openWrapper(tok html.Token, raw string) (*wrapper, bool) {
	if tok.Data != "span" && tok.Data != "div" {
		return nil, false
	}

	var (
		latex        string
		hasLatex     bool
		hasClass     bool
		displayBlock bool
	)
	for _, attr := range tok.Attr {
		switch attr.Key {
		case "data-latex":
			latex, hasLatex = attr.Val, true
		case "class":
			hasClass = slices.Contains(strings.Fields(attr.Val), c.className)
		case "data-display":
			displayBlock = strings.EqualFold(strings.TrimSpace(attr.Val), "block")
		}
	}
	if !hasLatex || !hasClass {
		return nil, false
	}

	mode := Inline
	if tok.Data == "div" || displayBlock {
		mode = Block
	}

	w := &wrapper{
		tag:   tok.Data,
		mode:  mode,
		latex: strings.TrimSpace(latex),
		depth: 1,
	}
	w.raw.WriteString(raw)

	return w, true
}

// storage returns the delimited form of the wrapper. The element content is
// reused when it is still the delimited source of the same formula, so the
// author's spacing survives a round trip.
func (w *wrapper) storage() string {
	text := w.text.String()
	open, close := w.mode.Delimiters()

	if body, ok := strings.CutPrefix(text, open); ok {
		if body, ok = strings.CutSuffix(body, close); ok && foldNewlines(strings.TrimSpace(body)) == w.latex {
			return text
		}
	}

	return w.mode.Wrap(w.latex)
}

// foldNewlines applies the newline conversion the tokenizer applies to
// attribute values.
var foldNewlines = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace
