package pretty

import (
	"math"
	"strconv"

	prettyjson "github.com/hokaccha/go-prettyjson"

	"github.com/risor-io/risordbg/object"
)

// ToGo converts a value into plain Go data that encoders understand. The
// same limits as Format apply; markers for cycles, depth and truncated items
// become strings.
func (o Options) ToGo(value object.Object) any {
	c := &converter{opts: o.withDefaults()}
	return c.convert(value, 0)
}

// JSON renders a value as indented JSON, colored when color is true.
func (o Options) JSON(value object.Object, color bool) ([]byte, error) {
	f := prettyjson.NewFormatter()
	f.DisabledColor = !color
	if o.Indent != "" {
		f.Indent = len(o.Indent)
	}
	return f.Marshal(o.ToGo(value))
}

type converter struct {
	opts      Options
	ancestors []object.Object
}

func (c *converter) backref(value object.Object) (string, bool) {
	for i := len(c.ancestors) - 1; i >= 0; i-- {
		if c.ancestors[i] == value {
			return "<cycle ^" + strconv.Itoa(len(c.ancestors)-i) + ">", true
		}
	}
	return "", false
}

func (c *converter) convert(value object.Object, level int) any {
	switch v := value.(type) {
	case nil, *object.NilType:
		return nil
	case *object.Bool:
		return v.Value()
	case *object.Int:
		return v.Value()
	case *object.Float:
		f := v.Value()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return object.FormatFloat(f)
		}
		return f
	case *object.String:
		s := v.Value()
		if limit := c.opts.MaxStringLen; limit > 0 && len([]rune(s)) > limit {
			return string([]rune(s)[:limit]) + "..."
		}
		return s
	case *object.List:
		if ref, ok := c.backref(v); ok {
			return ref
		}
		items := v.Value()
		if len(items) > 0 && level >= c.opts.MaxDepth {
			return "[...]"
		}
		c.ancestors = append(c.ancestors, v)
		defer func() { c.ancestors = c.ancestors[:len(c.ancestors)-1] }()
		out := make([]any, 0, min(len(items), c.opts.MaxItems+1))
		for i, item := range items {
			if i >= c.opts.MaxItems {
				out = append(out, "... "+strconv.Itoa(len(items)-i)+" more")
				break
			}
			out = append(out, c.convert(item, level+1))
		}
		return out
	case *object.Map:
		if ref, ok := c.backref(v); ok {
			return ref
		}
		keys := v.SortedKeys()
		if len(keys) > 0 && level >= c.opts.MaxDepth {
			return "{...}"
		}
		c.ancestors = append(c.ancestors, v)
		defer func() { c.ancestors = c.ancestors[:len(c.ancestors)-1] }()
		out := make(map[string]any, min(len(keys), c.opts.MaxItems+1))
		for i, key := range keys {
			if i >= c.opts.MaxItems {
				out["..."] = strconv.Itoa(len(keys)-i) + " more"
				break
			}
			item, _ := v.Get(key)
			out[key] = c.convert(item, level+1)
		}
		return out
	}
	return value.Inspect()
}
