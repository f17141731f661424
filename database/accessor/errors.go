package accessor

import (
	"errors"
	"fmt"
	"reflect"
)

// Common error definitions.
var (
	ErrNotAStruct = errors.New("attribute schemas can only be built for structs")
)

// TypeMismatchError describes an error when an object of the wrong type is
// given to a schema.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

func (tme *TypeMismatchError) Error() string {
	return fmt.Sprintf("schema is for %s, but got %s", tme.Expected, tme.Actual)
}
