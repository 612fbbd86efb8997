package ir

import (
	"math"
	"slices"
	"strconv"
	"unicode/utf16"
)

// IRValue is a sealed interface over the value types that may appear in
// canonical output. There is no float and no null.
type IRValue interface {
	irValue()
}

// IRString is a string value.
type IRString string

func (IRString) irValue() {}

// IRInt is an integer value. Always int64.
type IRInt int64

func (IRInt) irValue() {}

// IRBool is a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRArray is an ordered list of values.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject maps string keys to values. Use SortedKeys for iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// Uint encodes an unsigned value. Values that fit int64 become IRInt;
// larger ones become a decimal IRString so no precision is lost.
func Uint(v uint64) IRValue {
	if v <= math.MaxInt64 {
		return IRInt(int64(v))
	}
	return IRString(strconv.FormatUint(v, 10))
}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's default string ordering is by UTF-8 bytes, which differs for
// characters outside the BMP.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
