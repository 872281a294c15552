package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	codec := NewCodec()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "no wrappers",
			html: "<p>Plain <b>bold</b> text</p>",
			want: "<p>Plain <b>bold</b> text</p>",
		},
		{
			name: "inline wrapper",
			html: `Solve <span class="algebra-formula" data-latex="x+1">\(x+1\)</span>.`,
			want: `Solve \(x+1\).`,
		},
		{
			name: "block wrapper",
			html: `<div class="algebra-formula" data-latex="\frac{1}{2}">\[\frac{1}{2}\]</div>`,
			want: `\[\frac{1}{2}\]`,
		},
		{
			name: "single quotes, extra attributes and classes",
			html: `<span data-id='7' class='math algebra-formula selected' data-latex='x^2' style="color:red">rendered</span>`,
			want: `\(x^2\)`,
		},
		{
			name: "unquoted attribute and upper case tag",
			html: `<SPAN CLASS=algebra-formula DATA-LATEX=y>\(y\)</SPAN>`,
			want: `\(y\)`,
		},
		{
			name: "entities in the attribute are decoded",
			html: `<span class="algebra-formula" data-latex="a &lt; b &amp;&amp; c &#34;d&#34;">x</span>`,
			want: `\(a < b && c "d"\)`,
		},
		{
			name: "content edited by a typesetter falls back to the attribute",
			html: `<span class="algebra-formula" data-latex="x"><mjx-container>x</mjx-container></span>`,
			want: `\(x\)`,
		},
		{
			name: "nested spans are part of the wrapper",
			html: `<span class="algebra-formula" data-latex="x"><span>\(x\)</span></span> tail`,
			want: `\(x\) tail`,
		},
		{
			name: "data-display block on a span",
			html: `<span class="algebra-formula" data-display="block" data-latex="z">z</span>`,
			want: `\[z\]`,
		},
		{
			name: "other classes are untouched",
			html: `<span class="formula" data-latex="x">\(x\)</span>`,
			want: `<span class="formula" data-latex="x">\(x\)</span>`,
		},
		{
			name: "missing data-latex is untouched",
			html: `<span class="algebra-formula">\(x\)</span>`,
			want: `<span class="algebra-formula">\(x\)</span>`,
		},
		{
			name: "class name must be a whole class",
			html: `<span class="algebra-formula-ish" data-latex="x">x</span>`,
			want: `<span class="algebra-formula-ish" data-latex="x">x</span>`,
		},
		{
			name: "unterminated wrapper is kept",
			html: `a <span class="algebra-formula" data-latex="x">\(x\)`,
			want: `a <span class="algebra-formula" data-latex="x">\(x\)`,
		},
		{
			name: "truncated tag at the end is kept",
			html: `<span class="algebra-formula" data-latex="x">\(x\)</span> <b`,
			want: `\(x\) <b`,
		},
		{
			name: "surrounding markup is copied byte for byte",
			html: `<P Class="q">A&amp;B <!-- note --><span class="algebra-formula" data-latex="k">\(k\)</span><br/></P>`,
			want: `<P Class="q">A&amp;B <!-- note -->\(k\)<br/></P>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codec.Encode(tt.html))
		})
	}
}

func TestEncode_CustomClassName(t *testing.T) {
	codec := NewCodec(WithClassName("latex-formula"))

	assert.Equal(t, `\(x\)`, codec.Encode(`<span class="latex-formula" data-latex="x">x</span>`))
	assert.Equal(t,
		`<span class="algebra-formula" data-latex="x">x</span>`,
		codec.Encode(`<span class="algebra-formula" data-latex="x">x</span>`),
	)
}

func TestEncode_RoundTrip(t *testing.T) {
	codec := NewCodec()

	texts := []string{
		"",
		"No math here, only text & symbols < > \"quotes\".",
		`Solve \( 2x + 3 = 7 \) for x.`,
		`\(x\)`,
		`\[ \frac{a+b}{c} \]`,
		`\(a<b\) and \(b>c\) and \(p & q\)`,
		"Multi\nline \\[\n  x^{2} + y^{2} = r^{2}\n\\] done",
		`Compare \(\sqrt{x}\) with \[x^{1/2}\] and \( |x| \).`,
		`Quotes \(f'(x) = "y"\) stay.`,
		`Fill in: \(3x = 12\), x = ____`,
		"Solve \\(a +\r\n b\\) now",
		"Block \\[\r\n  x = 1\r\n\\] with CRLF",
		`<!-- \(x\) --> then \(y\)`,
		`<textarea>\(x\)</textarea>`,
	}

	for _, text := range texts {
		assert.Equal(t, text, codec.Encode(codec.Decode(text)), "round trip of %q", text)
	}
}
