package tree

import (
	"encoding/json"
	"math"
	"reflect"
)

// normalize converts v to the canonical Go type of a leaf of type t: string,
// int64 or bool. Numbers decoded from JSON arrive as float64, uint64 or
// json.Number depending on the decoder, so all of them are accepted as long
// as they hold an integer that fits in an int64.
func normalize(t Type, v interface{}) (interface{}, bool) {
	switch t {
	case StringType:
		s, ok := v.(string)
		return s, ok
	case BoolType:
		b, ok := v.(bool)
		return b, ok
	case IntType:
		return toInt64(v)
	}
	return nil, false
}

func toInt64(v interface{}) (interface{}, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return nil, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return nil, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return nil, false
		}
		return i, true
	}
	return nil, false
}

// deref returns the value a non-nil pointer points to, and reports false for
// nil (absent) values.
func deref(v interface{}) (interface{}, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return v, true
	}
	if rv.IsNil() {
		return nil, false
	}
	return rv.Elem().Interface(), true
}

// Less orders leaf values: false < true, integers numerically, strings
// lexically. Values of different types order by type.
func Less(a, b interface{}) bool {
	switch x := a.(type) {
	case bool:
		if y, ok := b.(bool); ok {
			return !x && y
		}
		return true
	case int64:
		switch y := b.(type) {
		case int64:
			return x < y
		case bool:
			return false
		}
		return true
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
		return false
	}
	return false
}
