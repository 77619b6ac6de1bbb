package object

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/risor-io/risordbg/errz"
)

type String struct {
	*base
	value string
}

func NewString(s string) *String {
	return &String{value: s}
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

// Inspect returns the quoted form of the string, with control characters
// escaped.
func (s *String) Inspect() string {
	return strconv.Quote(s.value)
}

// String returns the raw string value.
func (s *String) String() string {
	return s.value
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) Equals(other Object) bool {
	otherStr, ok := other.(*String)
	return ok && s.value == otherStr.value
}

func (s *String) IsTruthy() bool {
	return s.value != ""
}

func (s *String) Compare(other Object) (int, error) {
	otherStr, ok := other.(*String)
	if !ok {
		return 0, fmt.Errorf("unable to compare string and %s", other.Type())
	}
	return compareOrdered(s.value, otherStr.value), nil
}

func (s *String) Len() int {
	return utf8.RuneCountInString(s.value)
}

// GetItem returns the character at the given index. Negative indexes count
// from the end.
func (s *String) GetItem(key Object) (Object, error) {
	idx, ok := key.(*Int)
	if !ok {
		return nil, errz.TypeErrorf("string index must be an int (got %s)", key.Type())
	}
	runes := []rune(s.value)
	i, err := normalizeIndex(idx.value, len(runes))
	if err != nil {
		return nil, err
	}
	return NewString(string(runes[i])), nil
}

func (s *String) SetItem(key, value Object) error {
	return errz.TypeErrorf("strings are immutable")
}

func (s *String) Enumerate(fn func(key, value Object) bool) {
	i := int64(0)
	for _, r := range s.value {
		if !fn(NewInt(i), NewString(string(r))) {
			return
		}
		i++
	}
}

func normalizeIndex(idx int64, length int) (int, error) {
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return 0, errz.ValueErrorf("index out of range: %d (length %d)", idx, length)
	}
	return int(idx), nil
}
