package object

import "github.com/risor-io/risordbg/errz"

// Cell holds one variable binding. Closures share cells with the scope that
// declared the variable, so an assignment through either is visible to both.
type Cell struct {
	value    Object
	constant bool
}

func NewCell(value Object, constant bool) *Cell {
	if value == nil {
		value = Nil
	}
	return &Cell{value: value, constant: constant}
}

func (c *Cell) Value() Object {
	return c.value
}

func (c *Cell) IsConstant() bool {
	return c.constant
}

// Set updates the bound value. Constants can not be reassigned.
func (c *Cell) Set(value Object) error {
	if c.constant {
		return errz.TypeErrorf("cannot assign to constant")
	}
	if value == nil {
		value = Nil
	}
	c.value = value
	return nil
}
