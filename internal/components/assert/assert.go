// Package assert holds constructor preconditions, a failed one is a programming error and panics.
package assert

import (
	"fmt"
	"reflect"
)

// NotNil panics when value is nil, including a nil pointer, map, func or slice stored in an interface.
func NotNil(name string, value any) {
	if value == nil {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			panic(fmt.Sprintf("%s must not be nil", name))
		}
	}
}

func NotEmpty(name, value string) {
	if value == "" {
		panic(fmt.Sprintf("%s must not be empty", name))
	}
}
