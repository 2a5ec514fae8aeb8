package table

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/ardnew/lutgen/lang"
)

// ErrConvert reports a cell value that cannot be converted to the table's
// element type.
var ErrConvert = lang.NewError("cannot convert cell value")

// IndexError reports an index outside a table dimension.
type IndexError struct {
	Param string // Name of the parameter indexing the dimension
	Dim   int    // Dimension, 0 for the outermost
	Index uint
	Len   uint64
}

func (e *IndexError) Error() string {
	return "index out of range [" + strconv.FormatUint(uint64(e.Index), 10) +
		"] with length " + strconv.FormatUint(e.Len, 10) +
		" (dimension " + strconv.Itoa(e.Dim) + ", parameter " + e.Param + ")"
}

// ArityError reports an accessor call with the wrong number of indices.
type ArityError struct {
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("table has %d dimensions, got %d indices", e.Want, e.Got)
}

// ConvertError reports a value that has no lossless conversion to a table's
// element type.
type ConvertError struct {
	Value any
	To    reflect.Type
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("cannot convert %v (%T) to %s", e.Value, e.Value, e.To)
}
