package object

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type Float struct {
	*base
	value float64
}

func NewFloat(value float64) *Float {
	return &Float{value: value}
}

func (f *Float) Type() Type {
	return FLOAT
}

func (f *Float) Value() float64 {
	return f.value
}

// Inspect renders the shortest representation that parses back to the same
// value. Integral values keep a ".0" suffix so they read as floats.
func (f *Float) Inspect() string {
	return FormatFloat(f.value)
}

func (f *Float) String() string {
	return f.Inspect()
}

func (f *Float) Interface() interface{} {
	return f.value
}

func (f *Float) Equals(other Object) bool {
	switch other := other.(type) {
	case *Float:
		return f.value == other.value
	case *Int:
		return f.value == float64(other.value)
	}
	return false
}

func (f *Float) IsTruthy() bool {
	return f.value != 0.0
}

func (f *Float) Compare(other Object) (int, error) {
	switch other := other.(type) {
	case *Float:
		return compareOrdered(f.value, other.value), nil
	case *Int:
		return compareOrdered(f.value, float64(other.value)), nil
	}
	return 0, fmt.Errorf("unable to compare float and %s", other.Type())
}

// FormatFloat renders a float the way the runtime prints it.
func FormatFloat(value float64) string {
	switch {
	case math.IsInf(value, 1):
		return "inf"
	case math.IsInf(value, -1):
		return "-inf"
	case math.IsNaN(value):
		return "nan"
	}
	s := strconv.FormatFloat(value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
