package apollo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromJSONIntegralFloatDecodesAsU64(t *testing.T) {
	v := FromJSON(float64(42))
	u, ok := v.AsU64()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), u)
}

func TestFromJSONNegativeIntegralFloatDecodesAsI64(t *testing.T) {
	v := FromJSON(float64(-7))
	i, ok := v.AsI64()
	assert.True(t, ok)
	assert.Equal(t, int64(-7), i)
	_, ok = v.AsU64()
	assert.False(t, ok)
}

func TestFromJSONNonIntegralFloatDecodesAsF64(t *testing.T) {
	v := FromJSON(3.14)
	f, ok := v.AsF64()
	assert.True(t, ok)
	assert.Equal(t, 3.14, f)
}

func TestFromJSONBoolAndStringRoundTrip(t *testing.T) {
	b, ok := FromJSON(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := FromJSON("hello").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestFromJSONArrayRoundTrip(t *testing.T) {
	v := FromJSON([]any{"a", "b", float64(3)})
	arr, ok := v.AsArray()
	assert.True(t, ok)
	assert.Len(t, arr, 3)
	s0, _ := arr[0].AsString()
	assert.Equal(t, "a", s0)
	u2, _ := arr[2].AsU64()
	assert.Equal(t, uint64(3), u2)
}

func TestU32WidensToU64AndI64(t *testing.T) {
	v := U32(7)
	u, ok := v.AsU64()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), u)
	i, ok := v.AsI64()
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)
}

func TestI32WidensToI64(t *testing.T) {
	v := I32(-3)
	i, ok := v.AsI64()
	assert.True(t, ok)
	assert.Equal(t, int64(-3), i)
	_, ok = v.AsU64()
	assert.False(t, ok)
}

func TestU64NarrowsToU32WhenInRange(t *testing.T) {
	v := U64(100)
	u32, ok := v.AsU32()
	assert.True(t, ok)
	assert.Equal(t, uint32(100), u32)
}

func TestU64DoesNotNarrowToU32WhenOutOfRange(t *testing.T) {
	v := U64(1 << 40)
	_, ok := v.AsU32()
	assert.False(t, ok)
}

func TestI64NarrowsToI32WhenInRange(t *testing.T) {
	v := I64(-100)
	i32, ok := v.AsI32()
	assert.True(t, ok)
	assert.Equal(t, int32(-100), i32)
}

func TestI64DoesNotNarrowToI32WhenOutOfRange(t *testing.T) {
	v := I64(1 << 40)
	_, ok := v.AsI32()
	assert.False(t, ok)
}

func TestMismatchedAccessorReturnsFalse(t *testing.T) {
	v := String("not a number")
	_, ok := v.AsU64()
	assert.False(t, ok)
	_, ok = v.AsBool()
	assert.False(t, ok)
}

func TestFromJSONNumberPreservesLargeIntegers(t *testing.T) {
	var decoded any
	err := json.Unmarshal([]byte(`9007199254740992`), &decoded)
	assert.NoError(t, err)
	// encoding/json without UseNumber decodes as float64; 2^53 is the largest
	// integer float64 still represents exactly, so the round trip holds.
	v := FromJSON(decoded)
	u, ok := v.AsU64()
	assert.True(t, ok)
	assert.Equal(t, uint64(9007199254740992), u)
}
