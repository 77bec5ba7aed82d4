// Package rawjson decodes untrusted JSON into a tagged value that can be
// walked with typed accessors. Accessors never panic and never fail loudly:
// each returns the coerced value plus an ok flag.
package rawjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the JSON type held by a Value
type Kind int

const (
	KindAbsent Kind = iota // key not present / index out of range
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "absent"
	}
}

// Value is an immutable untrusted JSON value. The zero Value is absent.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  map[string]Value
}

// Decode parses a single JSON document. Trailing data is an error.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("unexpected data after top-level value")
	}
	return wrap(raw), nil
}

func wrap(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Value{kind: KindNull}
	case bool:
		return Value{kind: KindBool, b: t}
	case json.Number:
		return Value{kind: KindNumber, num: t}
	case string:
		return Value{kind: KindString, str: t}
	case []any:
		arr := make([]Value, len(t))
		for i, item := range t {
			arr[i] = wrap(item)
		}
		return Value{kind: KindArray, arr: arr}
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, item := range t {
			obj[k] = wrap(item)
		}
		return Value{kind: KindObject, obj: obj}
	default:
		return Value{}
	}
}

// Kind returns the type of the value
func (v Value) Kind() Kind { return v.kind }

// Present reports whether the value exists (null counts as present)
func (v Value) Present() bool { return v.kind != KindAbsent }

// IsNull reports an explicit JSON null
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsObject reports whether the value is a JSON object
func (v Value) IsObject() bool { return v.kind == KindObject }

// Get returns the member named key, or an absent Value
func (v Value) Get(key string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	return v.obj[key]
}

// Items returns the elements of an array
func (v Value) Items() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

// Str returns the value only if it is a JSON string
func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Int coerces the value to an integer the lenient way a dynamic language
// would: numbers truncate toward zero, numeric strings parse, booleans map to
// 0/1. Out-of-range magnitudes saturate so that later clamping still works.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindNumber:
		if i, err := v.num.Int64(); err == nil {
			return saturate(i), true
		}
		f, err := v.num.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return truncate(f), true
	case KindString:
		s := strings.TrimSpace(v.str)
		i, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			return saturate(i), true
		}
		if errors.Is(err, strconv.ErrRange) {
			if strings.HasPrefix(s, "-") {
				return math.MinInt, true
			}
			return math.MaxInt, true
		}
		return 0, false
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Bool coerces the value to a boolean. Strings must spell a boolean
// (true/false/yes/no/1/0); arbitrary text is rejected.
func (v Value) Bool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindNull:
		return false, true
	case KindNumber:
		f, err := v.num.Float64()
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return false, false
		}
		return f != 0, true
	case KindString:
		s := strings.ToLower(strings.TrimSpace(v.str))
		switch s {
		case "yes", "y":
			return true, true
		case "no", "n", "":
			return false, true
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// Text renders any present value as a string. Strings are returned
// verbatim, numbers keep their literal form, null becomes empty, and
// containers are re-encoded as compact JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindArray, KindObject:
		data, err := json.Marshal(v.native())
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}

func (v Value) native() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.native()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.native()
		}
		return out
	default:
		return nil
	}
}

func saturate(i int64) int {
	if i > math.MaxInt {
		return math.MaxInt
	}
	if i < math.MinInt {
		return math.MinInt
	}
	return int(i)
}

func truncate(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	default:
		return int(math.Trunc(f))
	}
}
