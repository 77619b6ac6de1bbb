package object

import (
	"math"
	"strings"

	"github.com/risor-io/risordbg/errz"
)

// Comparable is an interface used to compare two objects.
//
//	-1 if this < other
//	 0 if this == other
//	 1 if this > other
type Comparable interface {
	Compare(other Object) (int, error)
}

// Compare applies a comparison operator: "==", "!=", "<", "<=", ">", ">=".
func Compare(op string, a, b Object) (Object, error) {
	switch op {
	case "==":
		return NewBool(a.Equals(b)), nil
	case "!=":
		return NewBool(!a.Equals(b)), nil
	}
	comparable, ok := a.(Comparable)
	if !ok {
		return nil, errz.TypeErrorf("unsupported operand types for %s: %s and %s", op, a.Type(), b.Type())
	}
	cmp, err := comparable.Compare(b)
	if err != nil {
		return nil, errz.TypeErrorf("%s", err.Error())
	}
	switch op {
	case "<":
		return NewBool(cmp < 0), nil
	case "<=":
		return NewBool(cmp <= 0), nil
	case ">":
		return NewBool(cmp > 0), nil
	case ">=":
		return NewBool(cmp >= 0), nil
	}
	return nil, errz.TypeErrorf("unknown comparison operator: %s", op)
}

// BinaryOp applies an arithmetic operator: "+", "-", "*", "/", "%".
func BinaryOp(op string, a, b Object) (Object, error) {
	switch a := a.(type) {
	case *Int:
		switch b := b.(type) {
		case *Int:
			return intOp(op, a.value, b.value)
		case *Float:
			return floatOp(op, float64(a.value), b.value)
		}
	case *Float:
		switch b := b.(type) {
		case *Int:
			return floatOp(op, a.value, float64(b.value))
		case *Float:
			return floatOp(op, a.value, b.value)
		}
	case *String:
		switch b := b.(type) {
		case *String:
			if op == "+" {
				return NewString(a.value + b.value), nil
			}
		case *Int:
			if op == "*" {
				if b.value < 0 {
					return nil, errz.ValueErrorf("negative repeat count: %d", b.value)
				}
				return NewString(strings.Repeat(a.value, int(b.value))), nil
			}
		}
	case *List:
		if b, ok := b.(*List); ok && op == "+" {
			items := make([]Object, 0, len(a.items)+len(b.items))
			items = append(items, a.items...)
			items = append(items, b.items...)
			return NewList(items), nil
		}
	}
	return nil, errz.TypeErrorf("unsupported operand types for %s: %s and %s", op, a.Type(), b.Type())
}

func intOp(op string, a, b int64) (Object, error) {
	switch op {
	case "+":
		return NewInt(a + b), nil
	case "-":
		return NewInt(a - b), nil
	case "*":
		return NewInt(a * b), nil
	case "/":
		if b == 0 {
			return nil, errz.ValueErrorf("division by zero")
		}
		return NewInt(a / b), nil
	case "%":
		if b == 0 {
			return nil, errz.ValueErrorf("division by zero")
		}
		return NewInt(a % b), nil
	}
	return nil, errz.TypeErrorf("unsupported operand types for %s: int and int", op)
}

func floatOp(op string, a, b float64) (Object, error) {
	switch op {
	case "+":
		return NewFloat(a + b), nil
	case "-":
		return NewFloat(a - b), nil
	case "*":
		return NewFloat(a * b), nil
	case "/":
		if b == 0 {
			return nil, errz.ValueErrorf("division by zero")
		}
		return NewFloat(a / b), nil
	case "%":
		if b == 0 {
			return nil, errz.ValueErrorf("division by zero")
		}
		return NewFloat(math.Mod(a, b)), nil
	}
	return nil, errz.TypeErrorf("unsupported operand types for %s: float and float", op)
}

// Negate implements the unary minus operator.
func Negate(obj Object) (Object, error) {
	switch obj := obj.(type) {
	case *Int:
		return NewInt(-obj.value), nil
	case *Float:
		return NewFloat(-obj.value), nil
	}
	return nil, errz.TypeErrorf("bad operand type for unary -: %s", obj.Type())
}
