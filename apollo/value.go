package apollo

import "encoding/json"

// Value is a tagged union over the scalar and array shapes a config entry
// can hold, constructed from a decoded JSON or YAML document. Typed
// accessors apply widening coercions (U32->U64, I32->I64, and U64<->U32 /
// I64<->I32 where losslessly representable) rather than failing outright on
// a narrower-than-requested numeric kind.
type Value struct {
	kind  kind
	u64   uint64
	i64   int64
	f64   float64
	b     bool
	str   string
	array []Value
}

type kind int

const (
	kindU64 kind = iota
	kindI64
	kindU32
	kindI32
	kindF64
	kindBool
	kindString
	kindArray
)

func U64(v uint64) Value  { return Value{kind: kindU64, u64: v} }
func I64(v int64) Value   { return Value{kind: kindI64, i64: v} }
func U32(v uint32) Value  { return Value{kind: kindU32, u64: uint64(v)} }
func I32(v int32) Value   { return Value{kind: kindI32, i64: int64(v)} }
func F64(v float64) Value { return Value{kind: kindF64, f64: v} }
func Bool(v bool) Value   { return Value{kind: kindBool, b: v} }
func String(v string) Value {
	return Value{kind: kindString, str: v}
}
func Array(v []Value) Value { return Value{kind: kindArray, array: v} }

// FromJSON constructs a Value from an already-decoded JSON/YAML scalar or
// slice (e.g. the output of json.Unmarshal into an `interface{}`, or
// yaml.Unmarshal into the same). An integral float decodes as U64 when
// non-negative and as I64 when negative; any other float decodes as F64.
func FromJSON(v any) Value {
	switch t := v.(type) {
	case nil:
		return String("")
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case json.Number:
		return fromNumber(t)
	case float64:
		return fromFloat(t)
	case int:
		return I64(int64(t))
	case int64:
		return I64(t)
	case uint64:
		return U64(t)
	case []any:
		out := make([]Value, 0, len(t))
		for _, e := range t {
			out = append(out, FromJSON(e))
		}
		return Array(out)
	case []Value:
		return Array(t)
	default:
		return String("")
	}
}

func fromNumber(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		if i >= 0 {
			return U64(uint64(i))
		}
		return I64(i)
	}
	if f, err := n.Float64(); err == nil {
		return F64(f)
	}
	return String(string(n))
}

func fromFloat(f float64) Value {
	if f == float64(int64(f)) {
		if f >= 0 {
			return U64(uint64(f))
		}
		return I64(int64(f))
	}
	return F64(f)
}

// AsU64 widens U32->U64 and narrows I64/I32->U64 where losslessly
// representable (non-negative).
func (v Value) AsU64() (uint64, bool) {
	switch v.kind {
	case kindU64, kindU32:
		return v.u64, true
	case kindI64, kindI32:
		if v.i64 >= 0 {
			return uint64(v.i64), true
		}
	}
	return 0, false
}

// AsU32 narrows from U64/I64 when the value fits.
func (v Value) AsU32() (uint32, bool) {
	u, ok := v.AsU64()
	if !ok || u > ^uint32(0) {
		return 0, false
	}
	return uint32(u), true
}

// AsI64 widens I32->I64 and narrows U64/U32->I64 where representable.
func (v Value) AsI64() (int64, bool) {
	switch v.kind {
	case kindI64, kindI32:
		return v.i64, true
	case kindU64, kindU32:
		if v.u64 <= ^uint64(0)>>1 {
			return int64(v.u64), true
		}
	}
	return 0, false
}

// AsI32 narrows from I64/U64 when the value fits.
func (v Value) AsI32() (int32, bool) {
	i, ok := v.AsI64()
	if !ok || i > int64(^uint32(0)>>1) || i < -int64(^uint32(0)>>1)-1 {
		return 0, false
	}
	return int32(i), true
}

func (v Value) AsF64() (float64, bool) {
	switch v.kind {
	case kindF64:
		return v.f64, true
	case kindU64, kindU32:
		return float64(v.u64), true
	case kindI64, kindI32:
		return float64(v.i64), true
	}
	return 0, false
}

func (v Value) AsBool() (bool, bool) {
	if v.kind == kindBool {
		return v.b, true
	}
	return false, false
}

func (v Value) AsString() (string, bool) {
	if v.kind == kindString {
		return v.str, true
	}
	return "", false
}

func (v Value) AsArray() ([]Value, bool) {
	if v.kind == kindArray {
		return v.array, true
	}
	return nil, false
}
