package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		latex string
		mode  Mode
		want  string
	}{
		{
			name:  "plain formula is wrapped",
			latex: `x^2`,
			mode:  Inline,
			want:  `\(x^2\)`,
		},
		{
			name:  "existing delimiters are not doubled",
			latex: `\(x^2\)`,
			mode:  Inline,
			want:  `\(x^2\)`,
		},
		{
			name:  "block delimiters are replaced by the requested mode",
			latex: `  \[ x \]  `,
			mode:  Inline,
			want:  `\(x\)`,
		},
		{
			name:  "block mode",
			latex: `\sum_{i=1}^{n} i`,
			mode:  Block,
			want:  `\[\sum_{i=1}^{n} i\]`,
		},
		{
			name:  "missing closing brace is appended",
			latex: `\frac{1}{2`,
			mode:  Inline,
			want:  `\(\frac{1}{2}\)`,
		},
		{
			name:  "extra closing brace gets an opening brace",
			latex: `x}`,
			mode:  Inline,
			want:  `\({x}\)`,
		},
		{
			name:  "form escaped quotes are restored",
			latex: `f\'(x) = \"y\"`,
			mode:  Inline,
			want:  `\(f'(x) = "y"\)`,
		},
		{
			name:  "line breaks and commands survive",
			latex: `a \\ \alpha`,
			mode:  Block,
			want:  `\[a \\ \alpha\]`,
		},
		{
			name:  "empty input",
			latex: "   ",
			mode:  Inline,
			want:  `\(\)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.latex, tt.mode))
		})
	}
}

func TestSanitizeReport(t *testing.T) {
	s, repair := SanitizeReport(`\frac{\sqrt{x`, Inline)
	assert.Equal(t, `\(\frac{\sqrt{x}}\)`, s)
	assert.Equal(t, Repair{Appended: 2}, repair)
	assert.True(t, repair.Changed())

	s, repair = SanitizeReport(`}}x`, Block)
	assert.Equal(t, `\[{{}}x\]`, s)
	assert.Equal(t, Repair{Prepended: 2}, repair)

	_, repair = SanitizeReport(`{x}`, Inline)
	assert.False(t, repair.Changed())
}

func TestSanitize_Idempotent(t *testing.T) {
	for _, latex := range []string{`x^2`, `\frac{1}{2`, `\[ a \]`, `f\'(x)`} {
		once := Sanitize(latex, Inline)
		assert.Equal(t, once, Sanitize(once, Inline), "sanitize of %q", latex)
	}
}

func TestRepair_Warnings(t *testing.T) {
	assert.Empty(t, Repair{}.Warnings())

	warnings := Repair{Appended: 1, Prepended: 2}.Warnings()
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "1 closing")
	assert.Contains(t, warnings[1], "2 opening")
}
