package formula

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/algebra-practice/backend/internal/metrics"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultClassName is the class carried by every wrapper element.
const DefaultClassName = "algebra-formula"

// DefaultCacheSize is the number of wrapped spans kept by the memo cache.
const DefaultCacheSize = 1024

// Codec decodes storage text into display HTML and encodes it back.
//
// A Codec is safe for concurrent use.
type Codec struct {
	className string
	memo      *lru.Cache[uint64, memoEntry]
}

type memoEntry struct {
	source string
	html   string
}

// Option configures a Codec.
type Option func(*codecOptions)

type codecOptions struct {
	className string
	cacheSize int
}

// WithClassName sets the class used to tag wrapper elements.
func WithClassName(name string) Option {
	return func(o *codecOptions) {
		if name = strings.TrimSpace(name); name != "" {
			o.className = name
		}
	}
}

// WithCacheSize sets the memo cache size. Zero or less disables memoization.
func WithCacheSize(size int) Option {
	return func(o *codecOptions) {
		o.cacheSize = size
	}
}

// NewCodec creates a Codec.
func NewCodec(opts ...Option) *Codec {
	o := codecOptions{
		className: DefaultClassName,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Codec{className: o.className}
	if o.cacheSize > 0 {
		memo, err := lru.New[uint64, memoEntry](o.cacheSize)
		if err != nil {
			slog.Warn("formula memo cache disabled", "size", o.cacheSize, "error", err)
		} else {
			c.memo = memo
		}
	}

	return c
}

// ClassName returns the wrapper class.
func (c *Codec) ClassName() string {
	return c.className
}

// Decode turns storage text into display HTML. Every \( … \) and \[ … \]
// span becomes a wrapper element carrying the LaTeX in data-latex; all other
// text is returned untouched.
//
// Decode must be given storage text only. Its output still contains the
// delimiters as element content, so a second pass would wrap them again.
func (c *Codec) Decode(text string) string {
	if !HasDelimiters(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) * 2)
	for _, seg := range Split(text) {
		if seg.Formula == nil {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(c.wrap(*seg.Formula))
	}

	return b.String()
}

// wrap renders the wrapper element of one span, memoized on the source.
func (c *Codec) wrap(s Span) string {
	key := xxhash.Sum64String(s.Source)
	if c.memo != nil {
		if entry, ok := c.memo.Get(key); ok && entry.source == s.Source {
			metrics.RecordFormulaCache(true)
			return entry.html
		}
		metrics.RecordFormulaCache(false)
	}

	tag := s.Mode.tag()
	wrapped := fmt.Sprintf(`<%s class="%s" data-latex="%s">%s</%s>`,
		tag,
		html.EscapeString(c.className),
		html.EscapeString(s.Latex),
		html.EscapeString(s.Source),
		tag,
	)

	if c.memo != nil {
		c.memo.Add(key, memoEntry{source: s.Source, html: wrapped})
	}

	return wrapped
}
