// Package pretty renders runtime values as bounded, cycle-safe text.
//
// Composite values are walked depth first while the chain of enclosing
// composites is kept by identity. A value that is one of its own ancestors
// renders as a back-reference marker, "<cycle ^N>", where N counts the levels
// up to the ancestor. Nesting beyond MaxDepth renders as "[...]" or "{...}",
// and containers longer than MaxItems end with "... N more".
package pretty

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/risor-io/risordbg/object"
)

const (
	DefaultMaxDepth     = 10
	DefaultMaxItems     = 100
	DefaultMaxStringLen = 1024
	DefaultMaxOutput    = 64 * 1024
)

// Options control how values are rendered. Zero values select the defaults.
type Options struct {
	// MaxDepth is the number of nested composite levels that are expanded.
	MaxDepth int

	// MaxItems is the number of items shown per list or map.
	MaxItems int

	// MaxStringLen truncates long strings to this many characters. A
	// negative value means no limit.
	MaxStringLen int

	// MaxOutput stops expanding values once the output reaches this size.
	MaxOutput int

	// Indent renders composites on multiple lines using this indentation.
	// An empty Indent renders everything on one line.
	Indent string
}

// Format renders a value on one line with the given limits.
func Format(value object.Object, maxDepth, maxItems int) string {
	return Options{MaxDepth: maxDepth, MaxItems: maxItems}.Format(value)
}

// Format renders a value with these options.
func (o Options) Format(value object.Object) string {
	p := &printer{opts: o.withDefaults()}
	p.value(value, 0)
	return p.buf.String()
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxItems <= 0 {
		o.MaxItems = DefaultMaxItems
	}
	if o.MaxStringLen == 0 {
		o.MaxStringLen = DefaultMaxStringLen
	}
	if o.MaxOutput <= 0 {
		o.MaxOutput = DefaultMaxOutput
	}
	return o
}

type printer struct {
	opts      Options
	buf       strings.Builder
	ancestors []object.Object
}

func (p *printer) full() bool {
	return p.buf.Len() >= p.opts.MaxOutput
}

func (p *printer) value(value object.Object, level int) {
	switch v := value.(type) {
	case nil:
		p.buf.WriteString("nil")
	case *object.String:
		p.buf.WriteString(p.quote(v.Value()))
	case *object.List:
		p.list(v, level)
	case *object.Map:
		p.mapping(v, level)
	default:
		p.buf.WriteString(value.Inspect())
	}
}

// cycle writes a back-reference marker if value is an ancestor.
func (p *printer) cycle(value object.Object) bool {
	for i := len(p.ancestors) - 1; i >= 0; i-- {
		if p.ancestors[i] == value {
			p.buf.WriteString("<cycle ^")
			p.buf.WriteString(strconv.Itoa(len(p.ancestors) - i))
			p.buf.WriteString(">")
			return true
		}
	}
	return false
}

func (p *printer) list(list *object.List, level int) {
	if p.cycle(list) {
		return
	}
	items := list.Value()
	if len(items) == 0 {
		p.buf.WriteString("[]")
		return
	}
	if level >= p.opts.MaxDepth || p.full() {
		p.buf.WriteString("[...]")
		return
	}
	p.ancestors = append(p.ancestors, list)
	defer func() { p.ancestors = p.ancestors[:len(p.ancestors)-1] }()

	p.buf.WriteString("[")
	for i, item := range items {
		if !p.separator(i, len(items), level) {
			break
		}
		p.value(item, level+1)
	}
	p.close("]", level)
}

func (p *printer) mapping(m *object.Map, level int) {
	if p.cycle(m) {
		return
	}
	keys := m.SortedKeys()
	if len(keys) == 0 {
		p.buf.WriteString("{}")
		return
	}
	if level >= p.opts.MaxDepth || p.full() {
		p.buf.WriteString("{...}")
		return
	}
	p.ancestors = append(p.ancestors, m)
	defer func() { p.ancestors = p.ancestors[:len(p.ancestors)-1] }()

	p.buf.WriteString("{")
	for i, key := range keys {
		if !p.separator(i, len(keys), level) {
			break
		}
		value, _ := m.Get(key)
		p.buf.WriteString(p.quote(key))
		p.buf.WriteString(": ")
		p.value(value, level+1)
	}
	p.close("}", level)
}

// separator writes what comes before item i, or the truncation marker when
// no more items fit. It reports whether item i should be written.
func (p *printer) separator(i, total, level int) bool {
	if i > 0 {
		p.buf.WriteString(",")
		if p.opts.Indent == "" {
			p.buf.WriteString(" ")
		}
	}
	p.newline(level + 1)
	if i >= p.opts.MaxItems || p.full() {
		p.buf.WriteString("... ")
		p.buf.WriteString(strconv.Itoa(total - i))
		p.buf.WriteString(" more")
		return false
	}
	return true
}

func (p *printer) close(bracket string, level int) {
	p.newline(level)
	p.buf.WriteString(bracket)
}

func (p *printer) newline(level int) {
	if p.opts.Indent == "" {
		return
	}
	p.buf.WriteString("\n")
	p.buf.WriteString(strings.Repeat(p.opts.Indent, level))
}

func (p *printer) quote(s string) string {
	if limit := p.opts.MaxStringLen; limit > 0 && utf8.RuneCountInString(s) > limit {
		return strconv.Quote(string([]rune(s)[:limit])) + "..."
	}
	return strconv.Quote(s)
}
